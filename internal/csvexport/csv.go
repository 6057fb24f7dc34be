// Package csvexport cleans up CSV files exported from Jira so that they
// open correctly in spreadsheet tools.
package csvexport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newReader returns a lenient CSV reader in the dialect Jira exports:
// comma separated, double quoted, rows of varying width.
func newReader(r io.Reader) *csv.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// newWriter returns a CSV writer with CRLF line endings.
func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

// transformFile streams every record of input through fn into output.
// The header row is handed to fn with index 0.
func transformFile(input, output string, fn func(index int, record []string) []string) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}

	if err := transform(in, out, fn); err != nil {
		out.Close()
		return fmt.Errorf("processing %s: %w", input, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}
	return nil
}

func transform(r io.Reader, w io.Writer, fn func(index int, record []string) []string) error {
	cr := newReader(r)
	cw := newWriter(w)

	for index := 0; ; index++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading record %d: %w", index+1, err)
		}
		if err := cw.Write(fn(index, record)); err != nil {
			return fmt.Errorf("writing record %d: %w", index+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// OutputPath returns explicit when set, otherwise a sibling of input named
// <stem><suffix>.csv.
func OutputPath(input, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return siblingPath(input, suffix, ".csv")
}

func siblingPath(input, suffix, ext string) string {
	dir := filepath.Dir(input)
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, stem+suffix+ext)
}

// findColumn returns the index of name in header, trying an exact match
// first and then a trimmed, case-insensitive one. It returns -1 when the
// column is absent.
func findColumn(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}
