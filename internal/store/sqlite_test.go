package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/issuekey"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/internal/store"
	"github.com/costa-amore/JiraUtil-sub000/tests/testutil"
)

func sampleIssues() []store.SandboxIssue {
	return []store.SandboxIssue{
		{Key: "RT-3", Summary: "I was in To Do - expected to be in Done", Status: "To Do", IssueType: "Story", ParentKey: "RT-1", Rank: "0|b", Labels: []string{"rule-testing"}},
		{Key: "RT-1", Summary: "Epic", Status: "Open", IssueType: "Epic", Labels: []string{"rule-testing", "epic"}},
		{Key: "RT-9", Summary: "Unrelated", Status: "Open", IssueType: "Bug", Labels: []string{"other"}},
	}
}

func TestSQLiteStore_RequiresConnect(t *testing.T) {
	t.Parallel()

	s := testutil.NewTestStore(t)
	_, err := s.IssuesByLabel(context.Background(), "rule-testing")
	assert.ErrorIs(t, err, fixture.ErrNotConnected)
}

func TestSQLiteStore_IssuesByLabel(t *testing.T) {
	t.Parallel()

	s := testutil.NewConnectedStore(t, sampleIssues()...)

	issues, err := s.IssuesByLabel(context.Background(), "rule-testing")
	require.NoError(t, err)

	assert.Equal(t, []model.FixtureIssue{
		{Key: "RT-3", Summary: "I was in To Do - expected to be in Done", Status: "To Do", IssueType: "Story", ParentKey: "RT-1", Rank: "0|b"},
		{Key: "RT-1", Summary: "Epic", Status: "Open", IssueType: "Epic", Rank: model.DefaultRank},
	}, issues, "discovery order is insertion order")

	none, err := s.IssuesByLabel(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_UpsertKeepsPosition(t *testing.T) {
	t.Parallel()

	s := testutil.NewConnectedStore(t, sampleIssues()...)
	ctx := context.Background()

	updated := sampleIssues()[0]
	updated.Status = "Done"
	require.NoError(t, s.UpsertIssues(ctx, []store.SandboxIssue{updated}))

	issues, err := s.IssuesByLabel(ctx, "rule-testing")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "RT-3", issues[0].Key)
	assert.Equal(t, "Done", issues[0].Status)
}

func TestSQLiteStore_TransitionIssue(t *testing.T) {
	t.Parallel()

	t.Run("free transitions", func(t *testing.T) {
		t.Parallel()

		s := testutil.NewConnectedStore(t, sampleIssues()...)
		ctx := context.Background()

		require.NoError(t, s.TransitionIssue(ctx, "RT-3", "In Progress"))
		issue, err := s.Issue(ctx, "RT-3")
		require.NoError(t, err)
		assert.Equal(t, "In Progress", issue.Status)

		history, err := s.StatusHistory(ctx, "RT-3")
		require.NoError(t, err)
		assert.Equal(t, []store.StatusChange{{From: "To Do", To: "In Progress"}}, history)
	})

	t.Run("configured workflow", func(t *testing.T) {
		t.Parallel()

		s := testutil.NewConnectedStore(t, sampleIssues()...)
		ctx := context.Background()
		require.NoError(t, s.SetTransitions(ctx, []store.SandboxTransition{
			{From: "To Do", To: "In Progress"},
			{From: "In Progress", To: "Done"},
		}))

		err := s.TransitionIssue(ctx, "RT-3", "Done")
		assert.ErrorIs(t, err, fixture.ErrNoTransition)

		require.NoError(t, s.TransitionIssue(ctx, "RT-3", "in progress"))
		require.NoError(t, s.TransitionIssue(ctx, "RT-3", "Done"))

		issue, err := s.Issue(ctx, "RT-3")
		require.NoError(t, err)
		assert.Equal(t, "Done", issue.Status)
	})

	t.Run("unknown issue", func(t *testing.T) {
		t.Parallel()

		s := testutil.NewConnectedStore(t)
		err := s.TransitionIssue(context.Background(), "NOPE-1", "Done")
		assert.ErrorIs(t, err, store.ErrIssueNotFound)
	})
}

func TestSQLiteStore_Labels(t *testing.T) {
	t.Parallel()

	s := testutil.NewConnectedStore(t, sampleIssues()...)
	ctx := context.Background()

	got, err := s.Labels(ctx, "RT-1")
	require.NoError(t, err)
	assert.Equal(t, model.IssueLabels{Key: "RT-1", Summary: "Epic", Labels: []string{"rule-testing", "epic"}}, got)

	require.NoError(t, s.SetLabels(ctx, "RT-1", []string{"epic", "go"}))
	got, err = s.Labels(ctx, "RT-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"epic", "go"}, got.Labels)

	issues, err := s.IssuesByLabel(ctx, "rule-testing")
	require.NoError(t, err)
	assert.Len(t, issues, 1, "RT-1 lost the fixture label")

	assert.ErrorIs(t, s.SetLabels(ctx, "NOPE-1", nil), store.ErrIssueNotFound)
	_, err = s.Labels(ctx, "NOPE-1")
	assert.ErrorIs(t, err, store.ErrIssueNotFound)
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
issues:
  - key: RT-100
    summary: Checkout epic
    status: Open
    type: Epic
    labels: [rule-testing]
  - key: RT-101
    summary: I was in To Do - expected to be in Done
    status: Done
    type: Story
    parent: RT-100
    rank: "0|i0001:"
    labels: [rule-testing, checkout]
transitions:
  - {from: Done, to: To Do, name: 'Reopen "To Do"'}
`), 0o644))

	s := testutil.NewTestStore(t)
	ctx := context.Background()

	seed, err := store.LoadSeed(ctx, s, path)
	require.NoError(t, err)
	assert.Len(t, seed.Issues, 2)
	assert.Len(t, seed.Transitions, 1)

	require.NoError(t, s.Connect(ctx))
	issues, err := s.IssuesByLabel(ctx, "rule-testing")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "RT-100", issues[1].ParentKey)
	assert.Equal(t, "0|i0001:", issues[1].Rank)

	require.NoError(t, s.TransitionIssue(ctx, "RT-101", "To Do"))
	assert.ErrorIs(t, s.TransitionIssue(ctx, "RT-101", "Done"), fixture.ErrNoTransition)
}

func TestLoadSeed_Errors(t *testing.T) {
	t.Parallel()

	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := store.LoadSeed(ctx, s, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	lower := filepath.Join(t.TempDir(), "lower.yaml")
	require.NoError(t, os.WriteFile(lower, []byte("issues: [{key: rt-1}]\n"), 0o644))
	_, err = store.LoadSeed(ctx, s, lower)
	assert.ErrorIs(t, err, issuekey.ErrInvalid)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("issues: [{key: }]\n"), 0o644))
	_, err = store.LoadSeed(ctx, s, bad)
	assert.ErrorContains(t, err, "without key")
}

func TestFixtureRunAgainstSandbox(t *testing.T) {
	t.Parallel()

	s := testutil.NewConnectedStore(t,
		store.SandboxIssue{Key: "P-1", Summary: "I was in To Do - expected to be in Done", Status: "In Progress", Labels: []string{"rule-testing"}},
		store.SandboxIssue{Key: "P-2", Summary: "I was in To Do - expected to be in Done", Status: "To Do", Labels: []string{"rule-testing"}},
	)
	wf := fixture.NewWorkflow(s, fixture.Options{})
	ctx := context.Background()

	reset := wf.Reset(ctx, "", "")
	require.True(t, reset.Success)
	assert.Equal(t, 1, reset.Updated)
	assert.Equal(t, 1, reset.Skipped)

	result := wf.Assert(ctx, "")
	assert.Equal(t, 2, result.Failed, "both issues are back in To Do")
	assert.Len(t, result.Report, 2)
}
