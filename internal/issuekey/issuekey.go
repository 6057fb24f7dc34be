// Package issuekey validates Jira issue keys such as PROJ-123.
package issuekey

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalid is returned for a string that is not an issue key.
var ErrInvalid = errors.New("invalid issue key")

var keyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-\d+$`)

// Valid reports whether key is a well-formed, upper case issue key.
func Valid(key string) bool {
	return keyPattern.MatchString(key)
}

// Normalize trims and upper-cases key and checks that the result is an
// issue key. Jira accepts keys in any case but always reports them in
// upper case.
func Normalize(key string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(key))
	if !Valid(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, key)
	}
	return normalized, nil
}
