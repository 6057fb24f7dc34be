package fixture_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/tests/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResetProcessor(dir fixture.Directory, out io.Writer) *fixture.ResetProcessor {
	if out == nil {
		out = io.Discard
	}
	return fixture.NewResetProcessor(dir, fixture.NewMatcher(), out, discardLogger())
}

func transitions(dir *testutil.FakeDirectory) []string {
	var out []string
	for _, c := range dir.CallsTo("TransitionIssue") {
		out = append(out, c.Key+"->"+c.Arg)
	}
	return out
}

func TestReset_MovesIssueToStartingStatus(t *testing.T) {
	t.Parallel()

	issues := []model.FixtureIssue{{
		Key:     "P-1",
		Summary: "I was in To Do - expected to be in Done",
		Status:  "In Progress",
	}}
	dir := testutil.NewFakeDirectory("rule-testing", issues...)

	summary := newResetProcessor(dir, nil).Reset(context.Background(), issues, "")

	assert.True(t, summary.Success)
	assert.Equal(t, []string{"P-1->To Do"}, transitions(dir))
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Transitions)
	assert.Empty(t, summary.Errors)
}

func TestReset_SkipsIssues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		issue model.FixtureIssue
		line  string
	}{
		{
			name: "already in starting status",
			issue: model.FixtureIssue{
				Key: "P-1", Summary: "I was in To Do - expected to be in Done", Status: "to do",
			},
			line: "already matches starting status",
		},
		{
			name: "summary without pattern",
			issue: model.FixtureIssue{
				Key: "P-2", Summary: "Plain issue", Status: "Done",
			},
			line: "doesn't match expected pattern",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.NewFakeDirectory("l", tt.issue)
			var out strings.Builder

			summary := newResetProcessor(dir, &out).
				Reset(context.Background(), []model.FixtureIssue{tt.issue}, "")

			assert.Empty(t, dir.CallsTo("TransitionIssue"))
			assert.Equal(t, 1, summary.Skipped)
			assert.Equal(t, 0, summary.Updated)
			assert.Contains(t, out.String(), tt.line)
		})
	}
}

func TestReset_ForceUpdateVia(t *testing.T) {
	t.Parallel()

	issue := model.FixtureIssue{
		Key: "P-1", Summary: "I was in To Do - expected to be in Done", Status: "To Do",
	}

	t.Run("round trip through intermediate status", func(t *testing.T) {
		t.Parallel()

		dir := testutil.NewFakeDirectory("l", issue)
		summary := newResetProcessor(dir, nil).
			Reset(context.Background(), []model.FixtureIssue{issue}, "In Progress")

		assert.Equal(t, []string{"P-1->In Progress", "P-1->To Do"}, transitions(dir))
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 2, summary.Transitions)
		assert.Equal(t, 0, summary.Skipped)
	})

	t.Run("failed intermediate step stops the round trip", func(t *testing.T) {
		t.Parallel()

		dir := testutil.NewFakeDirectory("l", issue)
		dir.TransitionErr["P-1->In Progress"] = errors.New("no such transition")

		summary := newResetProcessor(dir, nil).
			Reset(context.Background(), []model.FixtureIssue{issue}, "In Progress")

		assert.Equal(t, []string{"P-1->In Progress"}, transitions(dir))
		assert.Equal(t, 0, summary.Updated)
		assert.Equal(t, 0, summary.Transitions)
		require.Len(t, summary.Errors, 1)
		assert.Contains(t, summary.Errors[0], "P-1: failed to update to 'In Progress'")
	})

	t.Run("failed return leg still counts the issue as updated", func(t *testing.T) {
		t.Parallel()

		dir := testutil.NewFakeDirectory("l", issue)
		dir.TransitionErr["P-1->To Do"] = errors.New("no way back")

		summary := newResetProcessor(dir, nil).
			Reset(context.Background(), []model.FixtureIssue{issue}, "In Progress")

		assert.Equal(t, []string{"P-1->In Progress", "P-1->To Do"}, transitions(dir))
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 1, summary.Transitions)
		require.Len(t, summary.Errors, 1)
		assert.Contains(t, summary.Errors[0], "P-1: failed to update to 'To Do'")
	})

	t.Run("force does not apply to issues away from starting status", func(t *testing.T) {
		t.Parallel()

		moved := issue
		moved.Status = "Done"
		dir := testutil.NewFakeDirectory("l", moved)

		summary := newResetProcessor(dir, nil).
			Reset(context.Background(), []model.FixtureIssue{moved}, "In Progress")

		assert.Equal(t, []string{"P-1->To Do"}, transitions(dir))
		assert.Equal(t, 1, summary.Updated)
	})
}

func TestReset_ContinuesAfterTransitionError(t *testing.T) {
	t.Parallel()

	issues := []model.FixtureIssue{
		{Key: "P-1", Summary: "I was in To Do - expected to be in Done", Status: "Done", Rank: "0|a"},
		{Key: "P-2", Summary: "I was in To Do - expected to be in Done", Status: "Done", Rank: "0|b"},
	}
	dir := testutil.NewFakeDirectory("l", issues...)
	dir.TransitionErr["P-1"] = errors.New("permission denied")

	summary := newResetProcessor(dir, nil).Reset(context.Background(), issues, "")

	assert.True(t, summary.Success)
	assert.Equal(t, []string{"P-1->To Do", "P-2->To Do"}, transitions(dir))
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "permission denied")
}

func TestReset_ProcessesInRankOrder(t *testing.T) {
	t.Parallel()

	issues := []model.FixtureIssue{
		{Key: "C", Summary: "I was in A - expected to be in B", Status: "X"},
		{Key: "B", Summary: "I was in A - expected to be in B", Status: "X", Rank: "0|i0002:"},
		{Key: "A", Summary: "I was in A - expected to be in B", Status: "X", Rank: "0|i0001:"},
	}
	dir := testutil.NewFakeDirectory("l", issues...)

	newResetProcessor(dir, nil).Reset(context.Background(), issues, "")

	assert.Equal(t, []string{"A->A", "B->A", "C->A"}, transitions(dir))
}
