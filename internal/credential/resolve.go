package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// Field names a Jira credential.
type Field string

const (
	FieldURL      Field = "url"
	FieldUsername Field = "username"
	FieldPassword Field = "password"
)

// ErrMissingCredentials is returned when required credentials are still
// unset after every source has been consulted.
var ErrMissingCredentials = errors.New("missing Jira credentials")

var templatePatterns = map[Field][]string{
	FieldURL:      {"yourcompany", "example", "placeholder"},
	FieldUsername: {"your.email", "example", "placeholder", "user@"},
	FieldPassword: {"your_api", "example", "placeholder", "token_here"},
}

// IsTemplateValue reports whether value is empty or still holds a
// placeholder copied from the sample env file.
func IsTemplateValue(field Field, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return true
	}
	for _, pattern := range templatePatterns[field] {
		if strings.Contains(value, pattern) {
			return true
		}
	}
	return false
}

// PromptFunc asks the user for the credentials listed in missing and
// returns cfg with them filled in.
type PromptFunc func(ctx context.Context, cfg model.JiraConfig, missing []Field) (model.JiraConfig, error)

// Resolver fills in Jira credentials. Values already in the config (from
// flags, the environment or env files) win; a missing token is looked up
// in the keyring; whatever is still missing is prompted for.
type Resolver struct {
	// Lookup reads the stored API token. Defaults to StoredToken.
	Lookup func() (string, error)
	// Prompt is nil when no terminal is available.
	Prompt PromptFunc
}

// NewResolver returns a resolver backed by the system keyring.
func NewResolver(prompt PromptFunc) *Resolver {
	return &Resolver{Lookup: StoredToken, Prompt: prompt}
}

// Resolve returns cfg with flags applied and credentials completed.
func (r *Resolver) Resolve(
	ctx context.Context,
	cfg model.JiraConfig,
	flags model.JiraConfig,
) (model.JiraConfig, error) {
	if flags.URL != "" {
		cfg.URL = flags.URL
	}
	if flags.Username != "" {
		cfg.Username = flags.Username
	}
	if flags.Password != "" {
		cfg.Password = flags.Password
	}

	// Username is optional: without one the token is sent as a Bearer
	// token. A placeholder username is dropped.
	if cfg.Username != "" && IsTemplateValue(FieldUsername, cfg.Username) {
		cfg.Username = ""
	}
	if IsTemplateValue(FieldURL, cfg.URL) {
		cfg.URL = ""
	}
	if IsTemplateValue(FieldPassword, cfg.Password) {
		cfg.Password = ""
		if r.Lookup != nil {
			if token, err := r.Lookup(); err == nil && !IsTemplateValue(FieldPassword, token) {
				cfg.Password = token
			}
		}
	}

	missing := Missing(cfg)
	if len(missing) == 0 {
		return cfg, nil
	}
	if r.Prompt == nil {
		return cfg, fmt.Errorf("%w: %s", ErrMissingCredentials, joinFields(missing))
	}

	prompted, err := r.Prompt(ctx, cfg, missing)
	if err != nil {
		return cfg, fmt.Errorf("prompting for credentials: %w", err)
	}
	if still := Missing(prompted); len(still) > 0 {
		return prompted, fmt.Errorf("%w: %s", ErrMissingCredentials, joinFields(still))
	}
	return prompted, nil
}

// Missing lists the required credentials cfg does not provide.
func Missing(cfg model.JiraConfig) []Field {
	var missing []Field
	if IsTemplateValue(FieldURL, cfg.URL) {
		missing = append(missing, FieldURL)
	}
	if IsTemplateValue(FieldPassword, cfg.Password) {
		missing = append(missing, FieldPassword)
	}
	return missing
}

func joinFields(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
