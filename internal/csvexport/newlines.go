package csvexport

import (
	"io"
	"regexp"
	"strings"
)

var (
	lineBreaks = regexp.MustCompile(`[\r\n\x{2028}\x{2029}\x{0085}]+`)
	spaceRuns  = regexp.MustCompile(`\s{2,}`)
)

// CleanField replaces every run of line breaking characters with a single
// space, collapses repeated whitespace and trims the result.
func CleanField(field string) string {
	field = lineBreaks.ReplaceAllString(field, " ")
	field = spaceRuns.ReplaceAllString(field, " ")
	return strings.TrimSpace(field)
}

// RemoveNewlines copies a CSV document, cleaning every data field so that
// spreadsheet tools do not break rows inside a field. The header row is
// copied unchanged.
func RemoveNewlines(r io.Reader, w io.Writer) error {
	return transform(r, w, removeNewlinesRecord)
}

// RemoveNewlinesFile applies RemoveNewlines to input and writes output.
func RemoveNewlinesFile(input, output string) error {
	return transformFile(input, output, removeNewlinesRecord)
}

func removeNewlinesRecord(index int, record []string) []string {
	if index == 0 {
		return record
	}
	cleaned := make([]string, len(record))
	for i, field := range record {
		cleaned[i] = CleanField(field)
	}
	return cleaned
}
