package matcher

import (
	"slices"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Sort orders matches by start point, then end point. The sort is stable:
// equal matches keep their relative order.
func Sort(matches []types.Match) {
	slices.SortStableFunc(matches, types.Match.Compare)
}
