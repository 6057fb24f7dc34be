package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/costa-amore/JiraUtil-sub000/internal/credential"
	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/internal/source/jira"
	"github.com/costa-amore/JiraUtil-sub000/internal/store"
	"github.com/costa-amore/JiraUtil-sub000/internal/ui/prompt"
)

// jiraFlags are the connection flags shared by commands that talk to Jira.
type jiraFlags struct {
	url      string
	username string
	token    string
}

func (f *jiraFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("jira", pflag.ContinueOnError)
	fs.StringVar(&f.url, "jira-url", "", "Jira URL (overrides JIRA_URL and config)")
	fs.StringVar(&f.username, "jira-username", "", "Jira username for Basic auth (overrides JIRA_USERNAME)")
	fs.StringVar(&f.token, "jira-token", "", "Jira API token (overrides JIRA_PASSWORD and the keyring)")
	return fs
}

func (f *jiraFlags) config() model.JiraConfig {
	return model.JiraConfig{URL: f.url, Username: f.username, Password: f.token}
}

// resolveJira completes the Jira configuration, prompting on a terminal
// for anything still missing.
func resolveJira(ctx context.Context, flags *jiraFlags) (model.JiraConfig, error) {
	var ask credential.PromptFunc
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		ask = prompt.Credentials
	}
	return credential.NewResolver(ask).Resolve(ctx, appConfig.Jira, flags.config())
}

// openDirectory returns the issue directory for a run: the SQLite sandbox
// when sandboxPath is set, Jira otherwise. The returned close function is
// never nil.
func openDirectory(
	ctx context.Context,
	flags *jiraFlags,
	sandboxPath string,
) (fixture.Directory, func() error, error) {
	if sandboxPath == "" {
		sandboxPath = appConfig.Sandbox.Path
	}

	if sandboxPath != "" {
		if _, err := os.Stat(sandboxPath); err != nil {
			return nil, nil, fmt.Errorf("opening sandbox: %w", err)
		}
		s, err := store.NewSQLiteStore(sandboxPath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sandbox %s: %w", sandboxPath, err)
		}
		logger.Info("using sandbox directory", "path", sandboxPath)
		return s, s.Close, nil
	}

	cfg, err := resolveJira(ctx, flags)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("using jira directory", "url", cfg.URL, "basic_auth", cfg.Username != "")
	return jira.NewDirectory(cfg, logger), func() error { return nil }, nil
}
