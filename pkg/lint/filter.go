package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// FilterConfig specifies include and exclude patterns for lint filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching lints included
	Exclude []string // Regex patterns - matching lints excluded
}

// Empty reports whether the config selects every lint.
func (c FilterConfig) Empty() bool {
	return len(c.Include) == 0 && len(c.Exclude) == 0
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to lint names.
// Include is applied first, then exclude.
// Empty include means "include all".
// Returns error if any pattern is invalid regex.
func Filter(defs []types.Definition, config FilterConfig) ([]types.Definition, error) {
	includeRegexes, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	excludeRegexes, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	result := make([]types.Definition, 0, len(defs))
	for _, d := range defs {
		if len(includeRegexes) > 0 && !matchesAny(d.Name, includeRegexes) {
			continue
		}
		if matchesAny(d.Name, excludeRegexes) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	regexes := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func matchesAny(name string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
