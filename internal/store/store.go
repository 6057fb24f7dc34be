// Package store provides an offline issue directory backed by SQLite. It
// lets fixture runs be rehearsed without a Jira instance.
package store

import (
	"context"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
)

// SandboxIssue is one issue held by the sandbox, together with its labels.
type SandboxIssue struct {
	Key       string   `yaml:"key"`
	Summary   string   `yaml:"summary"`
	Status    string   `yaml:"status"`
	IssueType string   `yaml:"type"`
	ParentKey string   `yaml:"parent"`
	Rank      string   `yaml:"rank"`
	Labels    []string `yaml:"labels"`
}

// SandboxTransition allows an issue in From to move to To. Name is the
// transition name shown in logs, e.g. `Move to "Done"`.
type SandboxTransition struct {
	From string `yaml:"from"`
	Name string `yaml:"name"`
	To   string `yaml:"to"`
}

// StatusChange is one entry of an issue's status history.
type StatusChange struct {
	From string `db:"status_from"`
	To   string `db:"status_to"`
}

// Store is the sandbox persistence interface. Besides acting as a fixture
// directory it can be seeded and inspected.
type Store interface {
	fixture.Directory

	UpsertIssues(ctx context.Context, issues []SandboxIssue) error
	SetTransitions(ctx context.Context, transitions []SandboxTransition) error
	Issue(ctx context.Context, key string) (*SandboxIssue, error)
	StatusHistory(ctx context.Context, key string) ([]StatusChange, error)

	Close() error
}
