package suppress

import (
	"log/slog"
	"unicode/utf8"

	"github.com/praetorian-inc/bpflint/pkg/syntax"
)

// Resolver walks a tree upwards from a match to find suppression comments.
// It holds no per-match state and may be shared by concurrent callers
// that lint the same code.
type Resolver struct {
	code   []byte
	logger *slog.Logger
}

// NewResolver creates a resolver over code, the bytes the tree was parsed
// from. A nil logger means slog.Default().
func NewResolver(code []byte, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{code: code, logger: logger}
}

// Suppressed reports whether a match of lint anchored at node is disabled.
// The node and each of its ancestors is checked for an immediately
// preceding comment directive that disables `all` or lint.
func (r *Resolver) Suppressed(node syntax.Node, lint string) bool {
	for n := node; n != nil; n = n.Parent() {
		prev := n.PrevSibling()
		if prev == nil || prev.Kind() != syntax.KindComment {
			continue
		}
		text := syntax.Text(prev, r.code)
		if !utf8.Valid(text) {
			r.logger.Warn("comment is not valid UTF-8; ignoring it",
				slog.String("lint", lint),
				slog.Int("start_byte", prev.StartByte()),
				slog.Int("end_byte", prev.EndByte()),
			)
			continue
		}
		if Disables(string(text), lint) {
			return true
		}
	}
	return false
}
