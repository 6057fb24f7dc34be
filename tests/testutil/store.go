package testutil

import (
	"context"
	"testing"

	"github.com/costa-amore/JiraUtil-sub000/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", nil)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewConnectedStore is NewTestStore seeded with issues and connected.
func NewConnectedStore(t *testing.T, issues ...store.SandboxIssue) *store.SQLiteStore {
	t.Helper()

	s := NewTestStore(t)
	ctx := context.Background()
	if err := s.UpsertIssues(ctx, issues); err != nil {
		t.Fatalf("seeding test store: %v", err)
	}
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("connecting test store: %v", err)
	}
	return s
}
