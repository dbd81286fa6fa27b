package matcher

import (
	"fmt"
	"log/slog"

	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// candidate is a match before suppression, together with the node it
// was captured on.
type candidate struct {
	match  types.Match
	anchor syntax.Node
}

// execute runs one lint over a tree and returns a candidate per capture.
func execute(engine syntax.Engine, l *compiledLint, tree syntax.Tree, code []byte, logger *slog.Logger) ([]candidate, error) {
	result, err := engine.Run(l.pattern, tree, code)
	if err != nil {
		return nil, fmt.Errorf("failed to run lint %s: %w", l.def.Name, err)
	}

	candidates := make([]candidate, 0, len(result.Captures))
	for _, capture := range result.Captures {
		msg, err := l.messageFor(capture.PatternIndex)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{
			match: types.Match{
				LintName: l.def.Name,
				Message:  msg,
				Range:    capture.Node.Range(),
			},
			anchor: capture.Node,
		})
	}

	if result.MatchLimitExceeded {
		logger.Warn("query exceeded maximum number of in-progress captures",
			slog.String("lint", l.def.Name),
		)
	}
	return candidates, nil
}
