package fixture

import (
	"fmt"
	"io"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// AssertProcessor checks that fixture issues ended in the status their
// summary expects. It never mutates the directory.
type AssertProcessor struct {
	matcher *Matcher
	out     io.Writer
}

// NewAssertProcessor creates an assert processor that writes per-issue
// progress to out.
func NewAssertProcessor(matcher *Matcher, out io.Writer) *AssertProcessor {
	return &AssertProcessor{matcher: matcher, out: out}
}

// Assert evaluates issues in ascending rank order and builds the failure
// hierarchy from the outcomes.
func (p *AssertProcessor) Assert(issues []model.FixtureIssue) model.AssertSummary {
	summary := model.AssertSummary{Success: true}

	for _, issue := range sortedByRank(issues, issueRank) {
		outcome := p.Evaluate(issue)
		p.printProgress(outcome)

		summary.Processed++
		summary.Outcomes = append(summary.Outcomes, outcome)

		switch outcome.Result {
		case model.ResultPass:
			summary.Passed++
		case model.ResultFail:
			summary.Failed++
		default:
			summary.NotEvaluated++
			summary.NotEvaluatedKeys = append(summary.NotEvaluatedKeys, outcome.Key)
		}
	}

	summary.Report = BuildReport(summary.Outcomes)
	return summary
}

// Evaluate classifies a single issue.
func (p *AssertProcessor) Evaluate(issue model.FixtureIssue) model.AssertionOutcome {
	outcome := model.AssertionOutcome{
		Key:       issue.Key,
		Summary:   issue.Summary,
		Status:    issue.Status,
		IssueType: issue.IssueType,
		ParentKey: issue.ParentKey,
		Rank:      issue.RankOrDefault(),
		Result:    model.ResultSkip,
	}

	exp, ok := p.matcher.Parse(issue.Summary)
	if !ok {
		return outcome
	}

	outcome.Evaluable = true
	outcome.ExpectedStatus = exp.Expected
	if sameStatus(issue.Status, exp.Expected) {
		outcome.Result = model.ResultPass
	} else {
		outcome.Result = model.ResultFail
	}
	return outcome
}

func (p *AssertProcessor) printProgress(outcome model.AssertionOutcome) {
	fmt.Fprintf(p.out, "Asserting %s: %s\n", outcome.Key, outcome.Summary)
	fmt.Fprintf(p.out, "  Current status: %s\n", outcome.Status)

	if !outcome.Evaluable {
		fmt.Fprintf(p.out, "  Skipping - summary doesn't match expected pattern\n")
		return
	}

	fmt.Fprintf(p.out, "  Expected status: %s\n", outcome.ExpectedStatus)
	if outcome.Result == model.ResultPass {
		fmt.Fprintf(p.out, "  [OK] PASS - Current status matches expected status\n")
		return
	}
	fmt.Fprintf(p.out,
		"  [FAIL] FAIL - Current status '%s' does not match expected status '%s'\n",
		outcome.Status, outcome.ExpectedStatus,
	)
}
