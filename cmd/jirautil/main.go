// Command jirautil verifies Jira automation rules against labelled test
// fixtures and cleans up Jira CSV exports.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/internal/theme"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// errSilent signals a failure whose details were already printed.
var errSilent = errors.New("command failed")

var (
	configPath string
	verbose    bool
	noColor    bool

	// Populated by the root command before any subcommand runs.
	appConfig *model.AppConfig
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jirautil",
	Short: "Jira test-fixture verification and CSV export tools",
	Long: `jirautil checks that Jira automation rules behave as intended.

Fixture issues carry a shared label and a summary of the form
"I was in <starting status> - expected to be in <expected status>".
The test-fixture command resets them, triggers automation through labels
and asserts where automation left them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !isTerminal(os.Stdout) {
			theme.DisableColor()
		}
		logger = newLogger(os.Stderr, verbose)

		cfg, err := model.LoadConfig(configPath, model.DefaultEnvFiles()...)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger.Debug("configuration loaded",
			"config_file", cfg.ConfigFile, "env_files", cfg.EnvFiles)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("jirautil version {{.Version}}\n")
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
