// Package fixture verifies Jira automation rules against a labelled set of
// fixture issues. Each fixture issue encodes its starting and expected
// status in its summary; the package resets issues to their starting
// status, triggers automation through labels and asserts where the
// automation left each issue.
package fixture

import (
	"context"
	"errors"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

var (
	// ErrNoTriggerLabels is returned when a trigger is requested without
	// any usable label.
	ErrNoTriggerLabels = errors.New("no valid trigger-labels provided")

	// ErrUnknownCommand is returned for a chain token that names no command.
	ErrUnknownCommand = errors.New("unknown test-fixture command")

	// ErrNoTriggerKey is returned when a trigger is requested without an
	// issue key.
	ErrNoTriggerKey = errors.New("no issue key provided for trigger")

	// ErrNotConnected is returned by directories used before Connect.
	ErrNotConnected = errors.New("issue directory not connected")

	// ErrNoTransition is returned when no workflow transition leads to the
	// requested status.
	ErrNoTransition = errors.New("no transition to requested status")
)

// Directory is the issue directory the fixture engine works against.
// Implementations talk to Jira or to an offline sandbox.
type Directory interface {
	// Connect verifies connectivity and credentials. It must succeed
	// before any other method is used.
	Connect(ctx context.Context) error

	// IssuesByLabel returns every issue carrying label, in discovery
	// order. No match is an empty slice, not an error.
	IssuesByLabel(ctx context.Context, label string) ([]model.FixtureIssue, error)

	// TransitionIssue moves the issue to the named status.
	TransitionIssue(ctx context.Context, key, status string) error

	// Labels returns the current labels of one issue.
	Labels(ctx context.Context, key string) (model.IssueLabels, error)

	// SetLabels replaces the full label set of one issue.
	SetLabels(ctx context.Context, key string, labels []string) error
}
