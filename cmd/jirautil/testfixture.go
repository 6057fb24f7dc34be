package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/issuekey"
	"github.com/costa-amore/JiraUtil-sub000/internal/report"
	"github.com/costa-amore/JiraUtil-sub000/internal/ui/wait"
)

var (
	tfJira         jiraFlags
	tfLabel        string
	tfTSL          string
	tfTriggerLabel string
	tfKey          string
	tfForceVia     string
	tfSandbox      string
	tfSettle       time.Duration
)

var testFixtureCmd = &cobra.Command{
	Use:     "test-fixture <command>...",
	Aliases: []string{"tf"},
	Short:   "Reset, trigger and assert Jira automation test fixtures",
	Long: `Run one or more fixture commands in order against the issues carrying
the test-set label.

Commands:
  reset, r     move every fixture issue back to its starting status
  assert, a    check every fixture issue is in its expected status
  trigger, t   set trigger labels on one issue to fire automation

Commands can be chained and run strictly in the order given; repeats run
again. A trigger failure stops the chain.`,
	Example: `  jirautil tf r
  jirautil tf r --force-update-via "In Progress"
  jirautil tf t --tl start-rule -k PROJ-12
  jirautil tf r t a --tsl my-fixtures --tl start-rule`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTestFixture,
}

func init() {
	f := testFixtureCmd.Flags()
	f.StringVar(&tfTSL, "tsl", "", "Test-set label marking the fixture issues")
	f.StringVar(&tfLabel, "label", "", "Alias of --tsl")
	f.StringVar(&tfTriggerLabel, "tl", "", "Comma separated trigger labels for trigger")
	f.StringVarP(&tfKey, "key", "k", "", "Issue key the trigger acts on (default from config)")
	f.StringVar(&tfForceVia, "force-update-via", "", "Status to pass through when an issue already is in its starting status")
	f.StringVar(&tfSandbox, "sandbox", "", "Run against a SQLite sandbox instead of Jira")
	f.DurationVar(&tfSettle, "settle-delay", -1, "Pause between removing and re-adding trigger labels (default from config)")
	f.AddFlagSet(tfJira.flagSet())

	rootCmd.AddCommand(testFixtureCmd)
}

func runTestFixture(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	commands, err := fixture.ParseChain(args)
	if err != nil {
		return err
	}

	label := tfTSL
	if label == "" {
		label = tfLabel
	}
	if label == "" {
		label = appConfig.Fixture.Label
	}

	key := tfKey
	if key == "" {
		key = appConfig.Fixture.TriggerKey
	}
	if slices.Contains(commands, fixture.CommandTrigger) && key != "" {
		if key, err = issuekey.Normalize(key); err != nil {
			return err
		}
	}

	settle := appConfig.Fixture.SettleDelay
	if tfSettle >= 0 {
		settle = tfSettle
	}

	dir, closeDir, err := openDirectory(ctx, &tfJira, tfSandbox)
	if err != nil {
		return err
	}
	defer closeDir()

	wf := fixture.NewWorkflow(dir, fixture.Options{
		DefaultLabel: label,
		SettleDelay:  settle,
		Waiter:       settleWaiter(ctx, out),
		Out:          out,
		Logger:       logger,
	})

	failed := false
	err = wf.Run(ctx, fixture.ChainRequest{
		Commands:       commands,
		Label:          label,
		ForceUpdateVia: tfForceVia,
		TriggerKey:     key,
		TriggerLabels:  fixture.ParseLabels(tfTriggerLabel),
	}, func(step fixture.StepResult) {
		renderStep(out, step)
		if step.Failed() {
			failed = true
		}
	})
	if err != nil {
		return err
	}
	if failed {
		return errSilent
	}
	return nil
}

func renderStep(w io.Writer, step fixture.StepResult) {
	switch {
	case step.Reset != nil:
		report.RenderReset(w, *step.Reset)
	case step.Assert != nil:
		report.RenderAssert(w, *step.Assert)
	case step.Trigger != nil:
		report.RenderTrigger(w, *step.Trigger)
	}
}

// settleWaiter shows a spinner during the trigger pause when writing to
// a terminal.
func settleWaiter(ctx context.Context, out io.Writer) fixture.Waiter {
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		return wait.SpinnerWaiter{Out: f, Context: ctx, Logger: logger}
	}
	return fixture.SleepWaiter{}
}

func describeCommands() string {
	return fmt.Sprintf("%s|r  %s|a  %s|t",
		fixture.CommandReset, fixture.CommandAssert, fixture.CommandTrigger)
}
