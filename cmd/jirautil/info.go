package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/costa-amore/JiraUtil-sub000/internal/credential"
	"github.com/costa-amore/JiraUtil-sub000/internal/theme"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available commands",
	Run: func(cmd *cobra.Command, args []string) {
		printCatalogue(cmd.OutOrStdout(), cmd.Root())
	},
}

var statusJira jiraFlags

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show version, configuration and credential state",
	Run: func(cmd *cobra.Command, args []string) {
		printStatus(cmd.OutOrStdout())
	},
}

func init() {
	statusCmd.Flags().AddFlagSet(statusJira.flagSet())
	rootCmd.AddCommand(listCmd, statusCmd)
}

func printCatalogue(w io.Writer, root *cobra.Command) {
	fmt.Fprintln(w, theme.HeaderStyle.Render("Available commands:"))
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		fmt.Fprintf(w, "  %-28s %s\n", commandName(c), c.Short)
		for _, sub := range c.Commands() {
			if sub.IsAvailableCommand() {
				fmt.Fprintf(w, "    %-26s %s\n", commandName(sub), sub.Short)
			}
		}
		if c == testFixtureCmd {
			fmt.Fprintf(w, "    %-26s %s\n", describeCommands(), "chainable fixture steps")
		}
	}
}

func commandName(c *cobra.Command) string {
	name := c.Name()
	for _, alias := range c.Aliases {
		name += "|" + alias
	}
	return name
}

func printStatus(w io.Writer) {
	fmt.Fprintln(w, theme.HeaderStyle.Render("jirautil status"))
	fmt.Fprintf(w, "  Version: %s\n", Version)

	configFile := appConfig.ConfigFile
	if configFile == "" {
		configFile = configPath + " (not found, using defaults)"
	}
	fmt.Fprintf(w, "  Config file: %s\n", configFile)
	for _, f := range appConfig.EnvFiles {
		fmt.Fprintf(w, "  Env file: %s\n", f)
	}

	cfg := appConfig.Jira
	flags := statusJira.config()
	if flags.URL != "" {
		cfg.URL = flags.URL
	}
	if flags.Username != "" {
		cfg.Username = flags.Username
	}
	if flags.Password != "" {
		cfg.Password = flags.Password
	}

	fmt.Fprintf(w, "  Jira URL: %s\n", credentialState(credential.FieldURL, cfg.URL, cfg.URL))
	fmt.Fprintf(w, "  Username: %s\n", credentialState(credential.FieldUsername, cfg.Username, cfg.Username))
	fmt.Fprintf(w, "  API token: %s\n", tokenState(cfg.Password))
	fmt.Fprintf(w, "  Fixture label: %s\n", appConfig.Fixture.Label)
	fmt.Fprintf(w, "  Trigger key: %s\n", appConfig.Fixture.TriggerKey)
	fmt.Fprintf(w, "  Settle delay: %s\n", appConfig.Fixture.SettleDelay)
	if appConfig.Sandbox.Path != "" {
		fmt.Fprintf(w, "  Sandbox: %s\n", appConfig.Sandbox.Path)
	}
}

func credentialState(field credential.Field, value, shown string) string {
	switch {
	case value == "":
		return theme.MutedStyle.Render("not set")
	case credential.IsTemplateValue(field, value):
		return theme.ErrorStyle.Render(shown + " (template value, will prompt)")
	default:
		return shown
	}
}

func tokenState(token string) string {
	if token != "" {
		return credentialState(credential.FieldPassword, token, "set")
	}
	if _, err := credential.StoredToken(); err == nil {
		return "stored in keyring"
	}
	return theme.MutedStyle.Render("not set")
}
