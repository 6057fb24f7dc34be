package model

// ResetSummary aggregates a reset run over the fixture issues.
type ResetSummary struct {
	Success bool
	Error   string

	Label     string
	Processed int
	// Updated counts issues whose status was changed. A forced round trip
	// counts once, as soon as its first leg succeeds.
	Updated int
	// Transitions counts every successful transition call, so a forced
	// round trip counts twice.
	Transitions int
	Skipped     int
	Errors      []string
}

// AssertSummary aggregates an assert run over the fixture issues.
type AssertSummary struct {
	Success bool
	Error   string

	Label        string
	Processed    int
	Passed       int
	Failed       int
	NotEvaluated int

	// Outcomes holds every evaluated issue in ascending rank order.
	Outcomes []AssertionOutcome
	// NotEvaluatedKeys lists the keys whose summary did not match the
	// fixture pattern, in rank order.
	NotEvaluatedKeys []string
	// Report is the failure hierarchy built from Outcomes.
	Report []*ReportNode
}

// Evaluated returns the number of issues that produced a verdict.
func (s AssertSummary) Evaluated() int {
	return s.Passed + s.Failed
}

// TriggerSummary describes one label trigger on a single issue.
type TriggerSummary struct {
	Success bool

	Key          string
	IssueSummary string
	Labels       []string
	// PreviousLabels is the label set found on the issue before the trigger.
	PreviousLabels []string
	Triggered      bool
	// WasRemoved is true when some of Labels were already present and had
	// to be cycled off before being set again.
	WasRemoved bool
	Messages   []string
	Errors     []string
}
