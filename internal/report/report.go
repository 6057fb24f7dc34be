// Package report renders fixture run summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
	"github.com/costa-amore/JiraUtil-sub000/internal/theme"
)

const bannerWidth = 60

// RenderReset writes the outcome of a reset run.
func RenderReset(w io.Writer, s model.ResetSummary) {
	if !s.Success {
		fmt.Fprintf(w, "%s %s\n",
			theme.FailureBannerStyle.Render("Rule-testing process failed:"),
			errorOrUnknown(s.Error),
		)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.HeaderStyle.Render(fmt.Sprintf("Rule-testing process completed (label %q):", s.Label)))
	fmt.Fprintf(w, "  Issues processed: %d\n", s.Processed)
	fmt.Fprintf(w, "  Issues updated: %d\n", s.Updated)
	if s.Transitions != s.Updated {
		fmt.Fprintf(w, "  Transitions performed: %d\n", s.Transitions)
	}
	fmt.Fprintf(w, "  Issues skipped: %d\n", s.Skipped)

	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "  Errors: %d\n", len(s.Errors))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "    - %s\n", theme.ErrorStyle.Render(e))
		}
	}
}

// RenderAssert writes the outcome of an assert run: totals, the failure
// hierarchy, the keys that could not be evaluated and a closing banner.
func RenderAssert(w io.Writer, s model.AssertSummary) {
	if !s.Success {
		fmt.Fprintf(w, "%s %s\n",
			theme.FailureBannerStyle.Render("Assertion process failed:"),
			errorOrUnknown(s.Error),
		)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.HeaderStyle.Render(fmt.Sprintf("Assertion process completed (label %q):", s.Label)))
	fmt.Fprintf(w, "  Issues processed: %d\n", s.Processed)
	fmt.Fprintf(w, "  Assertions passed: %d\n", s.Passed)
	fmt.Fprintf(w, "  Assertions failed: %d\n", s.Failed)
	fmt.Fprintf(w, "  Not evaluated: %d\n", s.NotEvaluated)

	if len(s.Report) > 0 {
		fmt.Fprintln(w, "  Failures:")
		for _, root := range s.Report {
			root.Walk(0, func(node *model.ReportNode, depth int) {
				fmt.Fprintln(w, Line(node, depth))
			})
		}
	}

	if len(s.NotEvaluatedKeys) > 0 {
		fmt.Fprintf(w, "  Not evaluated: %s\n", strings.Join(s.NotEvaluatedKeys, ", "))
	}

	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	if s.Failed == 0 {
		fmt.Fprintln(w, theme.SuccessBannerStyle.Render("[SUCCESS] ALL ASSERTIONS PASSED! [SUCCESS]"))
		fmt.Fprintln(w, theme.SuccessBannerStyle.Render(
			fmt.Sprintf("[OK] All %d evaluated issues are in their expected status", s.Passed),
		))
	} else {
		fmt.Fprintln(w, theme.FailureBannerStyle.Render("[FAIL] ASSERTION FAILURES DETECTED! [FAIL]"))
		fmt.Fprintln(w, theme.FailureBannerStyle.Render(
			fmt.Sprintf("[WARN] %d out of %d evaluated issues are NOT in their expected status",
				s.Failed, s.Evaluated()),
		))
	}
	fmt.Fprintln(w, rule)
}

// Line formats one node of the failure hierarchy at the given depth.
func Line(node *model.ReportNode, depth int) string {
	o := node.Outcome
	indent := "    " + strings.Repeat("  ", depth) + "- "

	marker := theme.ResultStyle(o.Result).Render("[" + string(o.Result) + "]")

	var detail string
	if o.Evaluable {
		detail = fmt.Sprintf("expected '%s' but was '%s'", o.ExpectedStatus, o.Status)
	} else {
		detail = o.Summary
	}

	text := fmt.Sprintf("[%s] %s: %s", issueType(o.IssueType), o.Key, detail)
	if node.Context {
		text = theme.MutedStyle.Render(text)
	}

	return indent + marker + " " + text
}

// RenderTrigger writes the outcome of one trigger.
func RenderTrigger(w io.Writer, s model.TriggerSummary) {
	if !s.Success {
		fmt.Fprintln(w, theme.FailureBannerStyle.Render("Trigger operation failed:"))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  - %s\n", theme.ErrorStyle.Render(e))
		}
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.HeaderStyle.Render("Trigger operation completed:"))
	fmt.Fprintf(w, "  Issue: %s\n", s.Key)
	fmt.Fprintf(w, "  Labels set: %s\n", strings.Join(s.Labels, ", "))
	if s.IssueSummary != "" {
		fmt.Fprintf(w, "  Summary: %s\n", s.IssueSummary)
	}
	if s.WasRemoved {
		fmt.Fprintln(w, "  Labels were already present and have been toggled off and on again")
	}
}

func issueType(t string) string {
	if t == "" {
		return "Unknown"
	}
	return t
}

func errorOrUnknown(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	return msg
}
