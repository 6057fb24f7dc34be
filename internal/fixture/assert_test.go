package fixture_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

func TestAssert_CountsAndOrder(t *testing.T) {
	t.Parallel()

	issues := []model.FixtureIssue{
		{Key: "P-3", Summary: "Not a fixture", Status: "Done", Rank: "0|c"},
		{Key: "P-2", Summary: "I was in To Do - expected to be in Done", Status: "In Progress", Rank: "0|b"},
		{Key: "P-1", Summary: "I was in To Do - expected to be in Done", Status: "done", Rank: "0|a"},
		{Key: "P-4", Summary: "starting in Open - expected to be in Closed", Status: "Open"},
	}

	var out strings.Builder
	summary := fixture.NewAssertProcessor(fixture.NewMatcher(), &out).Assert(issues)

	assert.True(t, summary.Success)
	assert.Equal(t, 4, summary.Processed)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.NotEvaluated)
	assert.Equal(t, 3, summary.Evaluated())
	assert.Equal(t, []string{"P-3"}, summary.NotEvaluatedKeys)

	var keys []string
	for _, o := range summary.Outcomes {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"P-1", "P-2", "P-3", "P-4"}, keys)

	assert.Contains(t, out.String(), "[OK] PASS")
	assert.Contains(t, out.String(),
		"[FAIL] FAIL - Current status 'In Progress' does not match expected status 'Done'")
}

func TestAssert_Evaluate(t *testing.T) {
	t.Parallel()

	p := fixture.NewAssertProcessor(fixture.NewMatcher(), io.Discard)

	tests := []struct {
		name      string
		issue     model.FixtureIssue
		result    model.Result
		evaluable bool
		expected  string
	}{
		{
			name:      "status matches expectation",
			issue:     model.FixtureIssue{Key: "A", Summary: "I was in X - expected to be in Y", Status: "Y"},
			result:    model.ResultPass,
			evaluable: true,
			expected:  "Y",
		},
		{
			name:      "status still at start",
			issue:     model.FixtureIssue{Key: "B", Summary: "I was in X - expected to be in Y", Status: "X"},
			result:    model.ResultFail,
			evaluable: true,
			expected:  "Y",
		},
		{
			name:   "no pattern",
			issue:  model.FixtureIssue{Key: "C", Summary: "Something else", Status: "X"},
			result: model.ResultSkip,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.Evaluate(tt.issue)
			assert.Equal(t, tt.result, got.Result)
			assert.Equal(t, tt.evaluable, got.Evaluable)
			assert.Equal(t, tt.expected, got.ExpectedStatus)
			assert.Equal(t, model.DefaultRank, got.Rank)
		})
	}
}

func TestAssert_ReportOnlyHoldsFailuresAndAncestors(t *testing.T) {
	t.Parallel()

	issues := []model.FixtureIssue{
		{Key: "E", IssueType: "Epic", Summary: "Epic container", Status: "Open", Rank: "0|a"},
		{Key: "S", IssueType: "Story", ParentKey: "E", Summary: "I was in A - expected to be in B", Status: "A", Rank: "0|b"},
		{Key: "OK", IssueType: "Story", ParentKey: "E", Summary: "I was in A - expected to be in B", Status: "B", Rank: "0|c"},
	}

	summary := fixture.NewAssertProcessor(fixture.NewMatcher(), io.Discard).Assert(issues)

	require.Len(t, summary.Report, 1)
	root := summary.Report[0]
	assert.Equal(t, "E", root.Outcome.Key)
	assert.True(t, root.Context)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "S", root.Children[0].Outcome.Key)

	// The context epic is still counted once as not evaluated.
	assert.Equal(t, 1, summary.NotEvaluated)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Passed)
}

func TestAssert_RepeatedRunsAgree(t *testing.T) {
	t.Parallel()

	issues := []model.FixtureIssue{
		{Key: "S", Summary: "I was in To Do - expected to be in Done", Status: "To Do", IssueType: "Story", ParentKey: "E", Rank: "0|b"},
		{Key: "E", Summary: "Epic without pattern", Status: "Open", IssueType: "Epic", Rank: "0|a"},
		{Key: "T", Summary: "I was in Open - expected to be in Closed", Status: "Closed", IssueType: "Sub-task", ParentKey: "S", Rank: "0|c"},
	}
	snapshot := append([]model.FixtureIssue(nil), issues...)

	p := fixture.NewAssertProcessor(fixture.NewMatcher(), io.Discard)
	first := p.Assert(issues)
	second := p.Assert(issues)

	assert.Equal(t, snapshot, issues, "input is not reordered")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.Passed)
	assert.Equal(t, 1, second.Failed)
	assert.Equal(t, 1, second.NotEvaluated)
}
