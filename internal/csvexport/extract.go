package csvexport

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ExtractFieldValues returns the distinct non-empty values of the named
// column in first-seen order. found is false when the column is missing.
func ExtractFieldValues(r io.Reader, field string) (values []string, found bool, err error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	column := findColumn(records[0], field)
	if column < 0 {
		return nil, false, nil
	}

	seen := make(map[string]bool)
	for _, record := range records[1:] {
		if column >= len(record) || record[column] == "" || seen[record[column]] {
			continue
		}
		seen[record[column]] = true
		values = append(values, record[column])
	}
	return values, true, nil
}

// FormatFieldValues renders values as "(a,b,c)" followed by a count line.
func FormatFieldValues(values []string, field string) string {
	return fmt.Sprintf("(%s)\n%s found=%d\n", strings.Join(values, ","), field, len(values))
}

// FieldSlug turns a column name into a file name fragment: characters
// other than letters, digits, spaces, dashes and underscores are dropped,
// spaces become dashes and the result is lower case.
func FieldSlug(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	slug := strings.TrimRight(b.String(), " ")
	return strings.ToLower(strings.ReplaceAll(slug, " ", "-"))
}

// ExtractFieldValuesFile extracts the column from input and writes the
// formatted list next to it as <stem>-<field-slug>.txt. The returned path
// is empty when no values were found and nothing was written.
func ExtractFieldValuesFile(input, field string) (path string, count int, err error) {
	in, err := os.Open(input)
	if err != nil {
		return "", 0, fmt.Errorf("opening %s: %w", input, err)
	}
	defer in.Close()

	values, _, err := ExtractFieldValues(in, field)
	if err != nil {
		return "", 0, fmt.Errorf("processing %s: %w", input, err)
	}
	if len(values) == 0 {
		return "", 0, nil
	}

	path = siblingPath(input, "-"+FieldSlug(field), ".txt")
	if err := os.WriteFile(path, []byte(FormatFieldValues(values, field)), 0o644); err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, len(values), nil
}
