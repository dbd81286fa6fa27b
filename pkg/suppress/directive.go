// Package suppress decides whether a lint match is disabled by a
// `bpflint: disable=...` comment preceding it.
package suppress

import (
	"strings"
	"unicode"
)

const (
	directivePrefix = "bpflint:"
	disableKey      = "disable="

	// All disables every lint.
	All = "all"
)

// ParseDirective returns the value of a `bpflint: disable=<value>` comment.
// comment is the full comment text including its `//` or `/* */`
// delimiters. The value is the first whitespace-delimited token after
// `disable=`.
func ParseDirective(comment string) (string, bool) {
	body := strings.TrimSpace(comment)
	switch {
	case strings.HasPrefix(body, "//"):
		body = strings.TrimPrefix(body, "//")
	case strings.HasPrefix(body, "/*"):
		body = strings.TrimSuffix(strings.TrimPrefix(body, "/*"), "*/")
	}
	body = strings.TrimSpace(body)

	rest, ok := strings.CutPrefix(body, directivePrefix)
	if !ok {
		return "", false
	}
	rest, ok = strings.CutPrefix(strings.TrimLeft(rest, " \t"), disableKey)
	if !ok {
		return "", false
	}
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		rest = rest[:i]
	}
	return rest, rest != ""
}

// Disables reports whether comment is a directive disabling lint.
func Disables(comment, lint string) bool {
	value, ok := ParseDirective(comment)
	if !ok {
		return false
	}
	return value == All || value == lint
}
