package csvexport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no breaks", "no breaks"},
		{"lf", "line one\nline two", "line one line two"},
		{"crlf runs", "a\r\n\r\nb", "a b"},
		{"unicode separators", "a b c\u0085d", "a b c d"},
		{"collapse spaces", "  lots   of\t\tspace  ", "lots of space"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanField(tt.in))
		})
	}
}

func TestRemoveNewlines(t *testing.T) {
	t.Parallel()

	in := "Summary,Description\n\"first\nline\",\"x  \r\n y\"\nplain,\n"

	var out bytes.Buffer
	require.NoError(t, RemoveNewlines(strings.NewReader(in), &out))
	assert.Equal(t, "Summary,Description\r\nfirst line,x y\r\nplain,\r\n", out.String())
}

func TestRemoveNewlinesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(input, []byte("\xEF\xBB\xBFKey,Summary\nP-1,\"a\nb\"\n"), 0o644))

	output := OutputPath(input, "", "-no-newlines")
	assert.Equal(t, filepath.Join(dir, "export-no-newlines.csv"), output)

	require.NoError(t, RemoveNewlinesFile(input, output))
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Key,Summary\r\nP-1,a b\r\n", string(data))

	assert.Error(t, RemoveNewlinesFile(filepath.Join(dir, "missing.csv"), output))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "custom.csv", OutputPath("in.csv", "custom.csv", "-x"))
	assert.Equal(t, filepath.Join("data", "jira-eu-dates.csv"), OutputPath(filepath.Join("data", "jira.csv"), "", "-eu-dates"))
}

func TestExtractFieldValues(t *testing.T) {
	t.Parallel()

	doc := "Issue key,Status, Sprint \nP-1,Done,S1\nP-2,To Do,S2\nP-3,Done,\nP-4,Done,S1\n"

	tests := []struct {
		name      string
		field     string
		want      []string
		wantFound bool
	}{
		{"exact", "Status", []string{"Done", "To Do"}, true},
		{"case and spacing", "sprint", []string{"S1", "S2"}, true},
		{"missing", "Assignee", nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values, found, err := ExtractFieldValues(strings.NewReader(doc), tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, values)
		})
	}

	values, found, err := ExtractFieldValues(strings.NewReader(""), "Status")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, values)
}

func TestExtractFieldValuesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(input, []byte("Key,Fix Version/s\nP-1,1.0\nP-2,1.1\nP-3,1.0\n"), 0o644))

	path, count, err := ExtractFieldValuesFile(input, "Fix Version/s")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, filepath.Join(dir, "export-fix-versions.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "(1.0,1.1)\nFix Version/s found=2\n", string(data))

	path, count, err = ExtractFieldValuesFile(input, "Nope")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Zero(t, count)
}

func TestFieldSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "status", FieldSlug("Status"))
	assert.Equal(t, "fix-versions", FieldSlug("Fix Version/s"))
	assert.Equal(t, "custom-field-10019", FieldSlug("Custom field (10019)"))
	assert.Equal(t, "team_name", FieldSlug("Team_Name"))
}

func TestFormatEUDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05T14:30:00.000+0100", "05/03/2024 14:30:00"},
		{"2024-03-05T14:30:00Z", "05/03/2024 14:30:00"},
		{"2024-03-05 14:30", "05/03/2024 14:30:00"},
		{"2024-03-05", "05/03/2024 00:00:00"},
		{"05/Mar/24 2:30 PM", "05/03/2024 14:30:00"},
		{"03/05/2024 14:30", "05/03/2024 14:30:00"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatEUDate(tt.in))
		})
	}
}

func TestFixDatesEU(t *testing.T) {
	t.Parallel()

	in := "Key,Created,Resolved,updated\nP-1,2024-03-05 14:30,2024-03-06,05/Mar/24 2:30 PM\nP-2,,2024-03-06\n"

	var out bytes.Buffer
	require.NoError(t, FixDatesEU(strings.NewReader(in), &out))
	assert.Equal(t,
		"Key,Created,Resolved,updated\r\n"+
			"P-1,05/03/2024 14:30:00,2024-03-06,05/03/2024 14:30:00\r\n"+
			"P-2,,2024-03-06\r\n",
		out.String())
}
