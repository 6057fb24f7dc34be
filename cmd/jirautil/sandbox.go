package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/store"
	"github.com/costa-amore/JiraUtil-sub000/internal/theme"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Manage the offline SQLite issue directory",
	Long: `A sandbox is a SQLite file holding fixture issues. Pass it to
test-fixture with --sandbox to rehearse a run without touching Jira.`,
}

var sandboxInitCmd = &cobra.Command{
	Use:   "init <db> <seed.yaml>",
	Short: "Create or update a sandbox from a YAML seed file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.NewSQLiteStore(args[0], logger)
		if err != nil {
			return err
		}
		defer s.Close()

		seed, err := store.LoadSeed(cmd.Context(), s, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d issues and %d transitions into %s\n",
			len(seed.Issues), len(seed.Transitions), args[0])
		return nil
	},
}

var sandboxShowCmd = &cobra.Command{
	Use:   "show <db> [label]",
	Short: "Print the sandbox issues carrying a label",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := appConfig.Fixture.Label
		if len(args) == 2 {
			label = args[1]
		}

		s, err := store.NewSQLiteStore(args[0], logger)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if err := s.Connect(ctx); err != nil {
			return err
		}
		issues, err := s.IssuesByLabel(ctx, label)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.HeaderStyle.Render(fmt.Sprintf("Issues labelled %q:", label)))
		matcher := fixture.NewMatcher()
		for _, issue := range issues {
			marker := " "
			if exp, ok := matcher.Parse(issue.Summary); ok && exp.Expected != "" {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %-10s %-10s %-14s %s\n",
				marker, issue.Key, issue.IssueType, issue.Status, issue.Summary)
		}
		fmt.Fprintf(out, "%d issues (* = fixture pattern)\n", len(issues))
		return nil
	},
}

func init() {
	sandboxCmd.AddCommand(sandboxInitCmd, sandboxShowCmd)
	rootCmd.AddCommand(sandboxCmd)
}
