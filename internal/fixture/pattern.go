package fixture

import (
	"regexp"
	"strings"
)

// summaryPattern recognises both fixture summary forms:
//
//	<context> I was in <A> - expected to be in <B>
//	<context> starting in <A> - expected to be in <B>
const summaryPattern = `(?i).*(?:I was in|starting in) (.+?) - expected to be in (.+)`

// Expectation is the pair of statuses a fixture summary encodes.
type Expectation struct {
	Starting string
	Expected string
}

// Matcher extracts expectations from issue summaries. A Matcher is
// immutable and safe to share.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles the fixture summary pattern.
func NewMatcher() *Matcher {
	return &Matcher{re: regexp.MustCompile(summaryPattern)}
}

// Parse returns the starting and expected status encoded in summary.
// ok is false when the summary is not a fixture summary.
func (m *Matcher) Parse(summary string) (exp Expectation, ok bool) {
	match := m.re.FindStringSubmatch(summary)
	if match == nil {
		return Expectation{}, false
	}
	exp = Expectation{
		Starting: strings.TrimSpace(match[1]),
		Expected: strings.TrimSpace(match[2]),
	}
	if exp.Starting == "" || exp.Expected == "" {
		return Expectation{}, false
	}
	return exp, true
}

// sameStatus compares workflow status names the way Jira users read them.
func sameStatus(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
