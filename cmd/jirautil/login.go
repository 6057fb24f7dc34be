package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/costa-amore/JiraUtil-sub000/internal/credential"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/internal/source/jira"
	"github.com/costa-amore/JiraUtil-sub000/internal/ui/prompt"
)

var (
	loginJira   jiraFlags
	loginVerify bool
	loginSave   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the Jira API token in the system keyring",
	Long: `Store the Jira API token in the system keyring so it no longer has to
live in an env file. The URL and username can be saved to the
configuration file with --save.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the Jira API token from the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := credential.OpenTokenStore()
		if err != nil {
			return err
		}
		if err := tokens.DeleteToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API token removed from keyring")
		return nil
	},
}

func init() {
	loginCmd.Flags().AddFlagSet(loginJira.flagSet())
	loginCmd.Flags().BoolVar(&loginVerify, "verify", true, "Check the credentials against Jira before storing them")
	loginCmd.Flags().BoolVar(&loginSave, "save", false, "Write the Jira URL and username to the configuration file")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	interactive := isTerminal(os.Stdin) && isTerminal(os.Stdout)

	tokens, err := credential.OpenTokenStore()
	if err != nil {
		return err
	}

	if loginJira.token == "" && interactive {
		if _, err := tokens.Token(); err == nil {
			replace, err := prompt.Confirm(ctx, "A token is already stored. Replace it?")
			if err != nil {
				return err
			}
			if !replace {
				return nil
			}
		}
	}

	// Login never reads the keyring; it is what fills it.
	cfg := appConfig.Jira
	cfg.Password = ""
	var ask credential.PromptFunc
	if interactive {
		ask = prompt.Credentials
	}
	resolver := &credential.Resolver{Prompt: ask}
	cfg, err = resolver.Resolve(ctx, cfg, loginJira.config())
	if err != nil {
		return err
	}

	if loginVerify {
		dir := jira.NewDirectory(cfg, logger)
		if err := dir.Connect(ctx); err != nil {
			if jira.IsAuthError(err) {
				return fmt.Errorf("jira rejected the credentials: %w", err)
			}
			return err
		}
		fmt.Fprintf(out, "Connected to %s as %s\n", cfg.URL, dir.User())
	}

	if err := tokens.SaveToken(cfg.Password); err != nil {
		return err
	}
	fmt.Fprintln(out, "API token stored in keyring")

	if loginSave {
		saved := *appConfig
		saved.Jira.URL = cfg.URL
		saved.Jira.Username = cfg.Username
		if err := model.SaveConfig(configPath, &saved); err != nil {
			return err
		}
		fmt.Fprintf(out, "Configuration written to %s\n", configPath)
	}
	return nil
}
