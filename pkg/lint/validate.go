package lint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// ErrInvalidName is returned for lint names that are not lower-case ASCII
// slugs.
var ErrInvalidName = errors.New("invalid lint name")

// IsSlug reports whether s is non-empty, consists of [a-z] and '-' only,
// and neither starts nor ends with a hyphen.
func IsSlug(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && c != '-' {
			return false
		}
	}
	return true
}

// ValidateDefinition checks that a definition can enter a catalog.
func ValidateDefinition(d types.Definition) error {
	if !IsSlug(d.Name) {
		return fmt.Errorf("%w %q: allowed are [a-z] and `-`", ErrInvalidName, d.Name)
	}
	if strings.TrimSpace(d.Source) == "" {
		return fmt.Errorf("lint %s: query source is empty", d.Name)
	}
	return nil
}
