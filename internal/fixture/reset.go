package fixture

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// ResetProcessor moves fixture issues back to the starting status their
// summary names.
type ResetProcessor struct {
	dir     Directory
	matcher *Matcher
	out     io.Writer
	logger  *slog.Logger
}

// NewResetProcessor creates a reset processor that writes per-issue
// progress to out.
func NewResetProcessor(
	dir Directory,
	matcher *Matcher,
	out io.Writer,
	logger *slog.Logger,
) *ResetProcessor {
	return &ResetProcessor{dir: dir, matcher: matcher, out: out, logger: logger}
}

// Reset processes issues in ascending rank order. An issue already in its
// starting status is skipped, unless forceVia names an intermediate
// status, in which case it makes a round trip through that status so
// that status-change automation fires again. A failed transition is
// recorded and the batch carries on.
func (p *ResetProcessor) Reset(
	ctx context.Context,
	issues []model.FixtureIssue,
	forceVia string,
) model.ResetSummary {
	summary := model.ResetSummary{
		Success:   true,
		Processed: len(issues),
	}

	for _, issue := range sortedByRank(issues, issueRank) {
		p.resetIssue(ctx, issue, forceVia, &summary)
	}

	return summary
}

func (p *ResetProcessor) resetIssue(
	ctx context.Context,
	issue model.FixtureIssue,
	forceVia string,
	summary *model.ResetSummary,
) {
	fmt.Fprintf(p.out, "Processing %s: %s\n", issue.Key, issue.Summary)
	fmt.Fprintf(p.out, "  Current status: %s\n", issue.Status)

	exp, ok := p.matcher.Parse(issue.Summary)
	if !ok {
		fmt.Fprintf(p.out, "  Skipping - summary doesn't match expected pattern\n")
		summary.Skipped++
		return
	}

	if !sameStatus(issue.Status, exp.Starting) {
		if p.transition(ctx, issue.Key, exp.Starting, summary) {
			summary.Updated++
		}
		return
	}

	if forceVia == "" {
		fmt.Fprintf(p.out,
			"  Skipping - current status '%s' already matches starting status '%s'\n",
			issue.Status, exp.Starting,
		)
		summary.Skipped++
		return
	}

	fmt.Fprintf(p.out, "  Force updating via intermediate state '%s'\n", forceVia)
	if !p.transition(ctx, issue.Key, forceVia, summary) {
		return
	}
	// The issue has moved even if the way back fails.
	summary.Updated++
	p.transition(ctx, issue.Key, exp.Starting, summary)
}

// transition performs one status change and records its outcome.
func (p *ResetProcessor) transition(
	ctx context.Context,
	key, status string,
	summary *model.ResetSummary,
) bool {
	fmt.Fprintf(p.out, "  Target status: %s\n", status)

	if err := p.dir.TransitionIssue(ctx, key, status); err != nil {
		p.logger.Warn("transition failed", "key", key, "status", status, "error", err)
		fmt.Fprintf(p.out, "  Error updating %s to %s: %v\n", key, status, err)
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("%s: failed to update to '%s': %v", key, status, err),
		)
		return false
	}

	summary.Transitions++
	return true
}
