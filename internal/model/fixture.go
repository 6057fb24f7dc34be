package model

import "strings"

// DefaultRank is assigned to issues that carry no explicit rank. It sorts
// after every rank Jira hands out.
const DefaultRank = "0|zzzzz:"

// DefaultFixtureLabel is the label that marks fixture issues when the
// caller does not name one.
const DefaultFixtureLabel = "rule-testing"

// Issue type names as Jira reports them for the standard hierarchy.
const (
	IssueTypeEpic    = "Epic"
	IssueTypeStory   = "Story"
	IssueTypeSubtask = "Sub-task"
)

// IssueKind is the hierarchy level an issue type maps to.
type IssueKind int

const (
	KindOther IssueKind = iota
	KindEpic
	KindStory
	KindSubtask
)

// KindOf classifies a Jira issue type name. Team-managed projects report
// sub-tasks as "Subtask", company-managed ones as "Sub-task".
func KindOf(issueType string) IssueKind {
	switch strings.ToLower(strings.TrimSpace(issueType)) {
	case "epic":
		return KindEpic
	case "story":
		return KindStory
	case "sub-task", "subtask":
		return KindSubtask
	default:
		return KindOther
	}
}

// FixtureIssue is a read-only snapshot of one issue returned by the
// issue directory.
type FixtureIssue struct {
	Key       string
	Summary   string
	Status    string
	IssueType string
	// ParentKey is empty when the issue has no parent.
	ParentKey string
	Rank      string
}

// RankOrDefault returns the issue rank, falling back to DefaultRank.
func (i FixtureIssue) RankOrDefault() string {
	if i.Rank == "" {
		return DefaultRank
	}
	return i.Rank
}

// IssueLabels is the label state of a single issue.
type IssueLabels struct {
	Key     string
	Summary string
	Labels  []string
}

// Result is the verdict of asserting one fixture issue.
type Result string

const (
	ResultPass Result = "PASS"
	ResultFail Result = "FAIL"
	ResultSkip Result = "SKIP"
)

// AssertionOutcome is the evaluation of a single fixture issue against
// the expectation encoded in its summary.
type AssertionOutcome struct {
	Key       string
	Summary   string
	Status    string
	IssueType string
	ParentKey string
	Rank      string

	// Evaluable is true when the summary matched the fixture pattern.
	Evaluable bool
	// ExpectedStatus is set only when Evaluable.
	ExpectedStatus string
	Result         Result
}

// ReportNode is one line of the failure hierarchy together with the
// nodes nested under it.
type ReportNode struct {
	Outcome AssertionOutcome
	// Context marks a node that did not fail itself but is shown because
	// a failing descendant hangs below it.
	Context  bool
	Children []*ReportNode
}

// Walk visits the node and its descendants depth first, passing the
// nesting depth of each node.
func (n *ReportNode) Walk(depth int, fn func(node *ReportNode, depth int)) {
	fn(n, depth)
	for _, child := range n.Children {
		child.Walk(depth+1, fn)
	}
}
