package fixture_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/tests/testutil"
)

func newWorkflow(dir fixture.Directory) *fixture.Workflow {
	return fixture.NewWorkflow(dir, fixture.Options{
		DefaultLabel: "rule-testing",
		SettleDelay:  time.Second,
		Waiter:       &recordingWaiter{},
		Out:          io.Discard,
		Logger:       discardLogger(),
	})
}

func fixtureDirectory() *testutil.FakeDirectory {
	return testutil.NewFakeDirectory("rule-testing",
		model.FixtureIssue{Key: "P-1", Summary: "I was in To Do - expected to be in Done", Status: "Done"},
	).WithLabels("TAPS-212", "trigger", "existing")
}

func commandsOf(steps []fixture.StepResult) []fixture.Command {
	var out []fixture.Command
	for _, s := range steps {
		out = append(out, s.Command)
	}
	return out
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  fixture.Command
	}{
		{"r", fixture.CommandReset},
		{"reset", fixture.CommandReset},
		{"A", fixture.CommandAssert},
		{"assert", fixture.CommandAssert},
		{"t", fixture.CommandTrigger},
		{" trigger ", fixture.CommandTrigger},
	}
	for _, tt := range tests {
		got, err := fixture.ParseCommand(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got, tt.token)
	}

	_, err := fixture.ParseCommand("x")
	assert.ErrorIs(t, err, fixture.ErrUnknownCommand)

	_, err = fixture.ParseChain([]string{"r", "bogus", "a"})
	assert.ErrorIs(t, err, fixture.ErrUnknownCommand)
}

func TestWorkflow_RunChainInOrder(t *testing.T) {
	t.Parallel()

	dir := fixtureDirectory()
	wf := newWorkflow(dir)

	var steps []fixture.StepResult
	err := wf.Run(context.Background(), fixture.ChainRequest{
		Commands: []fixture.Command{
			fixture.CommandReset, fixture.CommandTrigger,
			fixture.CommandAssert, fixture.CommandAssert,
		},
		TriggerKey:    "TAPS-212",
		TriggerLabels: []string{"go"},
	}, func(s fixture.StepResult) { steps = append(steps, s) })
	require.NoError(t, err)

	assert.Equal(t, []fixture.Command{
		fixture.CommandReset, fixture.CommandTrigger,
		fixture.CommandAssert, fixture.CommandAssert,
	}, commandsOf(steps))

	require.NotNil(t, steps[0].Reset)
	assert.Equal(t, "rule-testing", steps[0].Reset.Label)
	assert.Equal(t, 1, steps[0].Reset.Updated)
	require.NotNil(t, steps[1].Trigger)
	assert.True(t, steps[1].Trigger.Success)
	require.NotNil(t, steps[2].Assert)
	assert.Equal(t, 1, steps[2].Assert.Passed)

	assert.Len(t, dir.CallsTo("Connect"), 1, "connection is shared by the chain")
	assert.Len(t, dir.CallsTo("IssuesByLabel"), 3)
}

func TestWorkflow_LabelOverride(t *testing.T) {
	t.Parallel()

	dir := fixtureDirectory()
	summary := newWorkflow(dir).Assert(context.Background(), "other-label")

	assert.True(t, summary.Success)
	assert.Equal(t, "other-label", summary.Label)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, "other-label", dir.CallsTo("IssuesByLabel")[0].Arg)
}

func TestWorkflow_TriggerWithoutLabelsAbortsChain(t *testing.T) {
	t.Parallel()

	dir := fixtureDirectory()

	var steps []fixture.StepResult
	err := newWorkflow(dir).Run(context.Background(), fixture.ChainRequest{
		Commands:   []fixture.Command{fixture.CommandTrigger, fixture.CommandAssert},
		TriggerKey: "TAPS-212",
	}, func(s fixture.StepResult) { steps = append(steps, s) })

	require.ErrorIs(t, err, fixture.ErrNoTriggerLabels)
	require.Len(t, steps, 1)
	assert.False(t, steps[0].Trigger.Success)
	assert.True(t, steps[0].Failed())
	assert.Empty(t, dir.Calls, "no directory call for an invalid trigger")
}

func TestWorkflow_TriggerFailureHaltsChain(t *testing.T) {
	t.Parallel()

	dir := fixtureDirectory()
	dir.LabelsErr["TAPS-212"] = errors.New("permission denied")

	var steps []fixture.StepResult
	err := newWorkflow(dir).Run(context.Background(), fixture.ChainRequest{
		Commands:      []fixture.Command{fixture.CommandTrigger, fixture.CommandAssert},
		TriggerKey:    "TAPS-212",
		TriggerLabels: []string{"go"},
	}, func(s fixture.StepResult) { steps = append(steps, s) })

	require.Error(t, err)
	assert.Equal(t, []fixture.Command{fixture.CommandTrigger}, commandsOf(steps))
	assert.Empty(t, dir.CallsTo("IssuesByLabel"))
}

func TestWorkflow_ConnectionFailure(t *testing.T) {
	t.Parallel()

	dir := fixtureDirectory()
	dir.ConnectErr = errors.New("connection refused")
	wf := newWorkflow(dir)

	var steps []fixture.StepResult
	err := wf.Run(context.Background(), fixture.ChainRequest{
		Commands: []fixture.Command{fixture.CommandReset, fixture.CommandAssert},
	}, func(s fixture.StepResult) { steps = append(steps, s) })
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.False(t, steps[0].Reset.Success)
	assert.Contains(t, steps[0].Reset.Error, "connection refused")
	assert.False(t, steps[1].Assert.Success)
	assert.True(t, steps[0].Failed())
	assert.True(t, steps[1].Failed())
	assert.Empty(t, dir.CallsTo("IssuesByLabel"))

	trig := wf.Trigger(context.Background(), "TAPS-212", []string{"go"})
	assert.False(t, trig.Success)
	assert.Empty(t, dir.CallsTo("Labels"))
}

func TestStepResult_Failed(t *testing.T) {
	t.Parallel()

	assert.False(t, fixture.StepResult{Assert: &model.AssertSummary{Success: true}}.Failed())
	assert.True(t, fixture.StepResult{Assert: &model.AssertSummary{Success: true, Failed: 1}}.Failed())
	assert.False(t, fixture.StepResult{Reset: &model.ResetSummary{Success: true}}.Failed())
	assert.True(t, fixture.StepResult{Trigger: &model.TriggerSummary{}}.Failed())
}
