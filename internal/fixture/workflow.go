package fixture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// Command is one step of a test-fixture chain.
type Command string

const (
	CommandReset   Command = "reset"
	CommandAssert  Command = "assert"
	CommandTrigger Command = "trigger"
)

// ParseCommand accepts a command name or its one-letter alias.
func ParseCommand(token string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "reset", "r":
		return CommandReset, nil
	case "assert", "a":
		return CommandAssert, nil
	case "trigger", "t":
		return CommandTrigger, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, token)
	}
}

// ParseChain parses every token of a chain before anything runs.
func ParseChain(tokens []string) ([]Command, error) {
	commands := make([]Command, 0, len(tokens))
	for _, token := range tokens {
		cmd, err := ParseCommand(token)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// Options configures a Workflow.
type Options struct {
	// DefaultLabel is used by reset and assert when no label is given.
	DefaultLabel string
	// SettleDelay is the pause inside a trigger between removing and
	// re-adding labels.
	SettleDelay time.Duration
	// Waiter performs the settle pause. Defaults to SleepWaiter.
	Waiter Waiter
	// Out receives per-issue progress lines.
	Out    io.Writer
	Logger *slog.Logger
}

// Workflow sequences reset, assert and trigger operations against one
// directory. The directory is connected once and shared by every step.
type Workflow struct {
	dir       Directory
	logger    *slog.Logger
	label     string
	reset     *ResetProcessor
	assert    *AssertProcessor
	trigger   *TriggerProcessor
	connected bool
}

// NewWorkflow creates a workflow over dir.
func NewWorkflow(dir Directory, opts Options) *Workflow {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.DefaultLabel == "" {
		opts.DefaultLabel = model.DefaultFixtureLabel
	}

	logger := opts.Logger.With("run", uuid.NewString())
	matcher := NewMatcher()

	return &Workflow{
		dir:     dir,
		logger:  logger,
		label:   opts.DefaultLabel,
		reset:   NewResetProcessor(dir, matcher, opts.Out, logger),
		assert:  NewAssertProcessor(matcher, opts.Out),
		trigger: NewTriggerProcessor(dir, opts.Out, logger, opts.SettleDelay, opts.Waiter),
	}
}

// connect establishes the directory connection on first use.
func (w *Workflow) connect(ctx context.Context) error {
	if w.connected {
		return nil
	}
	if err := w.dir.Connect(ctx); err != nil {
		w.logger.Error("connecting to issue directory", "error", err)
		return fmt.Errorf("failed to connect to Jira: %w", err)
	}
	w.connected = true
	return nil
}

func (w *Workflow) labelOrDefault(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return w.label
}

// fetch connects if needed and loads the fixture issues for label.
func (w *Workflow) fetch(ctx context.Context, label string) ([]model.FixtureIssue, error) {
	if err := w.connect(ctx); err != nil {
		return nil, err
	}
	issues, err := w.dir.IssuesByLabel(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("searching issues with label %q: %w", label, err)
	}
	w.logger.Debug("fetched fixture issues", "label", label, "count", len(issues))
	return issues, nil
}

// Reset moves every issue labelled label back to its starting status.
func (w *Workflow) Reset(ctx context.Context, label, forceVia string) model.ResetSummary {
	label = w.labelOrDefault(label)

	issues, err := w.fetch(ctx, label)
	if err != nil {
		return model.ResetSummary{Label: label, Error: err.Error()}
	}

	summary := w.reset.Reset(ctx, issues, strings.TrimSpace(forceVia))
	summary.Label = label
	return summary
}

// Assert checks every issue labelled label against its expected status.
func (w *Workflow) Assert(ctx context.Context, label string) model.AssertSummary {
	label = w.labelOrDefault(label)

	issues, err := w.fetch(ctx, label)
	if err != nil {
		return model.AssertSummary{Label: label, Error: err.Error()}
	}

	summary := w.assert.Assert(issues)
	summary.Label = label
	return summary
}

// Trigger sets labels on the issue identified by key.
func (w *Workflow) Trigger(ctx context.Context, key string, labels []string) model.TriggerSummary {
	if len(normalizeLabels(labels)) == 0 {
		return w.trigger.Trigger(ctx, key, labels)
	}
	if err := w.connect(ctx); err != nil {
		return w.trigger.fatal(model.TriggerSummary{Key: key, Labels: normalizeLabels(labels)}, err)
	}
	return w.trigger.Trigger(ctx, key, labels)
}

// ChainRequest describes a chain of commands and the parameters they
// share.
type ChainRequest struct {
	Commands       []Command
	Label          string
	ForceUpdateVia string
	TriggerKey     string
	TriggerLabels  []string
}

// StepResult is the outcome of one executed chain step. Exactly one of
// the summaries is set.
type StepResult struct {
	Command Command
	Reset   *model.ResetSummary
	Assert  *model.AssertSummary
	Trigger *model.TriggerSummary
}

// Failed reports whether the step should fail the process.
func (r StepResult) Failed() bool {
	switch {
	case r.Reset != nil:
		return !r.Reset.Success
	case r.Assert != nil:
		return !r.Assert.Success || r.Assert.Failed > 0
	case r.Trigger != nil:
		return !r.Trigger.Success
	}
	return false
}

// Run executes the chain strictly in order, handing each result to emit
// as soon as the step finishes. A trigger without labels, or a trigger
// that fails, stops the chain and its error is returned. Repeated
// commands run once per occurrence.
func (w *Workflow) Run(
	ctx context.Context,
	req ChainRequest,
	emit func(StepResult),
) error {
	if emit == nil {
		emit = func(StepResult) {}
	}

	for i, cmd := range req.Commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.logger.Info("executing chain step", "step", i+1, "command", string(cmd))

		switch cmd {
		case CommandReset:
			summary := w.Reset(ctx, req.Label, req.ForceUpdateVia)
			emit(StepResult{Command: cmd, Reset: &summary})

		case CommandAssert:
			summary := w.Assert(ctx, req.Label)
			emit(StepResult{Command: cmd, Assert: &summary})

		case CommandTrigger:
			summary := w.Trigger(ctx, req.TriggerKey, req.TriggerLabels)
			emit(StepResult{Command: cmd, Trigger: &summary})
			if len(normalizeLabels(req.TriggerLabels)) == 0 {
				return fmt.Errorf("%s requires trigger-labels: %w", cmd, ErrNoTriggerLabels)
			}
			if !summary.Success {
				return fmt.Errorf("trigger on %s failed: %s", req.TriggerKey, strings.Join(summary.Errors, "; "))
			}

		default:
			return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
		}
	}
	return nil
}
