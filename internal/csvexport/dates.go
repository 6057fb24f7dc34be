package csvexport

import (
	"io"
	"strings"
	"time"
)

// EUDateLayout is the day-first layout European spreadsheet locales parse.
const EUDateLayout = "02/01/2006 15:04:05"

// dateColumns are rewritten by FixDatesEU.
var dateColumns = []string{"Created", "Updated"}

// inputLayouts are the timestamp formats found in Jira CSV exports,
// most specific first.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/Jan/06 3:04 PM",
	"02/Jan/06 15:04",
	"02/Jan/2006 3:04 PM",
	"02/Jan/2006 15:04",
	"2/Jan/06 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"2 Jan 2006 15:04",
	time.RFC1123Z,
	time.RFC1123,
}

// FormatEUDate reformats a timestamp as EUDateLayout. Values that cannot
// be parsed are returned unchanged.
func FormatEUDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(EUDateLayout)
		}
	}
	return value
}

// FixDatesEU copies a CSV document, rewriting the Created and Updated
// columns in day-first form.
func FixDatesEU(r io.Reader, w io.Writer) error {
	return transform(r, w, fixDates())
}

// FixDatesEUFile applies FixDatesEU to input and writes output.
func FixDatesEUFile(input, output string) error {
	return transformFile(input, output, fixDates())
}

func fixDates() func(int, []string) []string {
	var columns []int
	return func(index int, record []string) []string {
		if index == 0 {
			for _, name := range dateColumns {
				if c := findColumn(record, name); c >= 0 {
					columns = append(columns, c)
				}
			}
			return record
		}
		for _, c := range columns {
			if c < len(record) {
				record[c] = FormatEUDate(record[c])
			}
		}
		return record
	}
}
