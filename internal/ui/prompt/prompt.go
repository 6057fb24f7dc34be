// Package prompt asks for missing Jira credentials on the terminal.
package prompt

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/costa-amore/JiraUtil-sub000/internal/credential"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// Credentials shows a form for the fields in missing and returns cfg with
// the answers applied. The username is offered alongside the URL, since
// a Jira Cloud token only works together with the account email.
func Credentials(
	ctx context.Context,
	cfg model.JiraConfig,
	missing []credential.Field,
) (model.JiraConfig, error) {
	var fields []huh.Field

	if slices.Contains(missing, credential.FieldURL) {
		fields = append(fields,
			huh.NewInput().
				Title("Jira URL").
				Description("Root URL of your Jira instance").
				Placeholder("https://jira.example.com").
				Value(&cfg.URL).
				Validate(validateURL),
			huh.NewInput().
				Title("Username").
				Description("Account email for Jira Cloud; leave empty to use a personal access token").
				Value(&cfg.Username),
		)
	}

	if slices.Contains(missing, credential.FieldPassword) {
		fields = append(fields,
			huh.NewInput().
				Title("API token").
				Description("Jira API token or personal access token").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Password).
				Validate(validateRequired("API token")),
		)
	}

	if len(fields) == 0 {
		return cfg, nil
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true)
	if err := form.RunWithContext(ctx); err != nil {
		return cfg, fmt.Errorf("reading credentials: %w", err)
	}

	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Username = strings.TrimSpace(cfg.Username)
	return cfg, nil
}

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, title string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	)).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
