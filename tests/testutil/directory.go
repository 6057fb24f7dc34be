package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// Call is one recorded directory call.
type Call struct {
	Method string
	Key    string
	Arg    string
	Labels []string
}

// FakeDirectory is an in-memory fixture.Directory that records every call.
// Errors can be injected per method and key.
type FakeDirectory struct {
	mu sync.Mutex

	Issues map[string][]model.FixtureIssue
	Label  map[string]model.IssueLabels

	ConnectErr    error
	SearchErr     error
	TransitionErr map[string]error // keyed by "KEY->Status" or "KEY"
	LabelsErr     map[string]error
	SetLabelsErr  map[string]error
	// FailSetLabelsOnCall makes the n-th SetLabels call (1-based) fail.
	FailSetLabelsOnCall int

	Calls []Call
}

// NewFakeDirectory returns a fake serving issues under label.
func NewFakeDirectory(label string, issues ...model.FixtureIssue) *FakeDirectory {
	return &FakeDirectory{
		Issues:        map[string][]model.FixtureIssue{label: issues},
		Label:         map[string]model.IssueLabels{},
		TransitionErr: map[string]error{},
		LabelsErr:     map[string]error{},
		SetLabelsErr:  map[string]error{},
	}
}

// WithLabels registers the label state of an issue.
func (d *FakeDirectory) WithLabels(key, summary string, labels ...string) *FakeDirectory {
	d.Label[key] = model.IssueLabels{Key: key, Summary: summary, Labels: labels}
	return d
}

func (d *FakeDirectory) record(c Call) {
	d.Calls = append(d.Calls, c)
}

// Connect implements fixture.Directory.
func (d *FakeDirectory) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Call{Method: "Connect"})
	return d.ConnectErr
}

// IssuesByLabel implements fixture.Directory.
func (d *FakeDirectory) IssuesByLabel(ctx context.Context, label string) ([]model.FixtureIssue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Call{Method: "IssuesByLabel", Arg: label})
	if d.SearchErr != nil {
		return nil, d.SearchErr
	}
	return slices.Clone(d.Issues[label]), nil
}

// TransitionIssue implements fixture.Directory.
func (d *FakeDirectory) TransitionIssue(ctx context.Context, key, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Call{Method: "TransitionIssue", Key: key, Arg: status})
	if err, ok := d.TransitionErr[key+"->"+status]; ok {
		return err
	}
	if err, ok := d.TransitionErr[key]; ok {
		return err
	}
	return nil
}

// Labels implements fixture.Directory.
func (d *FakeDirectory) Labels(ctx context.Context, key string) (model.IssueLabels, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Call{Method: "Labels", Key: key})
	if err, ok := d.LabelsErr[key]; ok {
		return model.IssueLabels{}, err
	}
	labels, ok := d.Label[key]
	if !ok {
		return model.IssueLabels{}, fmt.Errorf("issue %s does not exist", key)
	}
	labels.Labels = slices.Clone(labels.Labels)
	return labels, nil
}

// SetLabels implements fixture.Directory.
func (d *FakeDirectory) SetLabels(ctx context.Context, key string, labels []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(Call{Method: "SetLabels", Key: key, Labels: slices.Clone(labels)})

	if d.FailSetLabelsOnCall > 0 && d.count("SetLabels") == d.FailSetLabelsOnCall {
		return fmt.Errorf("set labels failed on call %d", d.FailSetLabelsOnCall)
	}
	if err, ok := d.SetLabelsErr[key]; ok {
		return err
	}
	current := d.Label[key]
	current.Key = key
	current.Labels = slices.Clone(labels)
	d.Label[key] = current
	return nil
}

// CallsTo returns the recorded calls of one method.
func (d *FakeDirectory) CallsTo(method string) []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Call
	for _, c := range d.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (d *FakeDirectory) count(method string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

var _ fixture.Directory = (*FakeDirectory)(nil)
