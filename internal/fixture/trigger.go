package fixture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// Waiter blocks for a fixed duration. The trigger processor uses it
// between removing and re-adding labels; implementations must not return
// early.
type Waiter interface {
	Wait(d time.Duration)
}

// SleepWaiter waits with time.Sleep.
type SleepWaiter struct{}

// Wait implements Waiter.
func (SleepWaiter) Wait(d time.Duration) { time.Sleep(d) }

// TriggerProcessor provokes label-based automation on a single issue.
type TriggerProcessor struct {
	dir    Directory
	out    io.Writer
	logger *slog.Logger
	settle time.Duration
	waiter Waiter
}

// NewTriggerProcessor creates a trigger processor. settle is the pause
// between removing labels that are already present and setting them
// again.
func NewTriggerProcessor(
	dir Directory,
	out io.Writer,
	logger *slog.Logger,
	settle time.Duration,
	waiter Waiter,
) *TriggerProcessor {
	if waiter == nil {
		waiter = SleepWaiter{}
	}
	return &TriggerProcessor{
		dir:    dir,
		out:    out,
		logger: logger,
		settle: settle,
		waiter: waiter,
	}
}

// ParseLabels splits a comma separated label list, trimming each label
// and dropping empty entries.
func ParseLabels(raw string) []string {
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// Trigger sets labels on the issue. Automation rules typically fire only
// when a label is added, so labels that are already present are removed
// first and set again after the settle delay. Labels unrelated to the
// trigger are preserved throughout.
func (p *TriggerProcessor) Trigger(
	ctx context.Context,
	key string,
	labels []string,
) model.TriggerSummary {
	target := normalizeLabels(labels)
	summary := model.TriggerSummary{Key: key, Labels: target}

	if len(target) == 0 {
		return p.fatal(summary, ErrNoTriggerLabels)
	}
	if strings.TrimSpace(key) == "" {
		return p.fatal(summary, ErrNoTriggerKey)
	}

	current, err := p.dir.Labels(ctx, key)
	if err != nil {
		return p.fatal(summary, fmt.Errorf("loading issue %s: %w", key, err))
	}
	summary.IssueSummary = current.Summary
	summary.PreviousLabels = slices.Clone(current.Labels)

	var overlap []string
	for _, label := range target {
		if slices.Contains(current.Labels, label) {
			overlap = append(overlap, label)
		}
	}

	remaining := slices.DeleteFunc(slices.Clone(current.Labels), func(label string) bool {
		return slices.Contains(overlap, label)
	})

	if len(overlap) > 0 {
		if err := p.dir.SetLabels(ctx, key, remaining); err != nil {
			return p.fatal(summary, fmt.Errorf("removing labels from %s: %w", key, err))
		}
		summary.WasRemoved = true
		p.message(&summary, fmt.Sprintf("[INFO] Trigger-labels %v removed from %s", overlap, key))

		fmt.Fprintf(p.out, "Waiting for Jira to digest the toggle...\n")
		p.waiter.Wait(p.settle)
	}

	final := slices.Clone(remaining)
	for _, label := range target {
		if !slices.Contains(final, label) {
			final = append(final, label)
		}
	}

	if err := p.dir.SetLabels(ctx, key, final); err != nil {
		return p.fatal(summary, fmt.Errorf("setting labels on %s: %w", key, err))
	}
	p.message(&summary, fmt.Sprintf("[INFO] Trigger-labels %v set on %s", target, key))

	summary.Success = true
	summary.Triggered = true
	return summary
}

func (p *TriggerProcessor) message(summary *model.TriggerSummary, msg string) {
	fmt.Fprintln(p.out, msg)
	summary.Messages = append(summary.Messages, msg)
}

func (p *TriggerProcessor) fatal(summary model.TriggerSummary, err error) model.TriggerSummary {
	p.logger.Error("trigger failed", "key", summary.Key, "error", err)
	fmt.Fprintf(p.out, "FATAL ERROR: %v\n", err)
	summary.Success = false
	summary.Triggered = false
	summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", summary.Key, err))
	return summary
}

// normalizeLabels trims labels and drops empty and repeated entries.
func normalizeLabels(labels []string) []string {
	var out []string
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || slices.Contains(out, label) {
			continue
		}
		out = append(out, label)
	}
	return out
}
