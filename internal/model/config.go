package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// JiraConfig holds the connection settings for the Jira instance.
type JiraConfig struct {
	// URL is the root URL of the Jira instance.
	URL string `mapstructure:"url" yaml:"url"`

	// Username is the account used for Basic authentication. When empty
	// the password is sent as a Bearer personal access token.
	Username string `mapstructure:"username" yaml:"username"`

	// Password is the API token. It is only ever read from the
	// environment or an env file, never written back to disk.
	Password string `mapstructure:"password" yaml:"-"`

	// RankField is the custom field that carries the Jira rank.
	RankField string `mapstructure:"rank_field" yaml:"rank_field"`

	// ParentField is the field that links an issue to its parent.
	ParentField string `mapstructure:"parent_field" yaml:"parent_field"`
}

// FixtureConfig holds defaults for the test-fixture commands.
type FixtureConfig struct {
	Label       string        `mapstructure:"label" yaml:"label"`
	TriggerKey  string        `mapstructure:"trigger_key" yaml:"trigger_key"`
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// SandboxConfig points at an optional offline issue directory.
type SandboxConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Jira    JiraConfig    `mapstructure:"jira" yaml:"jira"`
	Fixture FixtureConfig `mapstructure:"fixture" yaml:"fixture"`
	Sandbox SandboxConfig `mapstructure:"sandbox" yaml:"sandbox"`

	// ConfigFile is the file the configuration was read from, empty when
	// none existed.
	ConfigFile string `mapstructure:"-" yaml:"-"`
	// EnvFiles lists the env files that contributed values.
	EnvFiles []string `mapstructure:"-" yaml:"-"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jirautil/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jirautil", "config.yaml")
}

// DefaultEnvFiles returns the env files consulted for credentials, in
// load order. Later files win.
func DefaultEnvFiles() []string {
	return []string{
		filepath.Join(".venv", "jira_config.env"),
		"jira_config.env",
	}
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			RankField:   "customfield_10019",
			ParentField: "parent",
		},
		Fixture: FixtureConfig{
			Label:       DefaultFixtureLabel,
			TriggerKey:  "TAPS-212",
			SettleDelay: 5 * time.Second,
		},
	}
}

// envKeys maps configuration keys to the environment variables that
// override them.
var envKeys = map[string]string{
	"jira.url":      "JIRA_URL",
	"jira.username": "JIRA_USERNAME",
	"jira.password": "JIRA_PASSWORD",
}

// LoadConfig reads configuration from the given YAML file path using
// Viper, then applies environment variables and env files on top. A
// missing YAML file or env file is not an error.
func LoadConfig(path string, envFiles ...string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("jira.rank_field", defaults.Jira.RankField)
	v.SetDefault("jira.parent_field", defaults.Jira.ParentField)
	v.SetDefault("fixture.label", defaults.Fixture.Label)
	v.SetDefault("fixture.trigger_key", defaults.Fixture.TriggerKey)
	v.SetDefault("fixture.settle_delay", defaults.Fixture.SettleDelay)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	configFile := ""
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		configFile = path
	}

	var usedEnvFiles []string
	for _, envFile := range envFiles {
		used, err := applyEnvFile(v, envFile)
		if err != nil {
			return nil, err
		}
		if used {
			usedEnvFiles = append(usedEnvFiles, envFile)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.ConfigFile = configFile
	cfg.EnvFiles = usedEnvFiles

	if cfg.Fixture.Label == "" {
		cfg.Fixture.Label = DefaultFixtureLabel
	}
	if cfg.Fixture.SettleDelay < 0 {
		cfg.Fixture.SettleDelay = 0
	}

	return cfg, nil
}

// applyEnvFile reads a KEY=value file and overrides the credential keys
// it defines. Values from env files take precedence over the process
// environment.
func applyEnvFile(v *viper.Viper, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return false, fmt.Errorf("reading env file %s: %w", path, err)
	}

	for key, env := range envKeys {
		if value := ev.GetString(env); value != "" {
			v.Set(key, value)
		}
	}
	return true, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. The password is never written.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("jira.url", cfg.Jira.URL)
	v.Set("jira.username", cfg.Jira.Username)
	v.Set("jira.rank_field", cfg.Jira.RankField)
	v.Set("jira.parent_field", cfg.Jira.ParentField)
	v.Set("fixture.label", cfg.Fixture.Label)
	v.Set("fixture.trigger_key", cfg.Fixture.TriggerKey)
	v.Set("fixture.settle_delay", cfg.Fixture.SettleDelay.String())
	v.Set("sandbox.path", cfg.Sandbox.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
