// Package lineup assembles single GPP lineups: primary stack selection,
// strategy-driven greedy fill, and tournament validation.
package lineup

import "github.com/gridironlabs/gpp-engine/internal/types"

// Strategy names a lineup construction style.
type Strategy string

const (
	Balanced    Strategy = "balanced"
	Leverage    Strategy = "leverage"
	Contrarian  Strategy = "contrarian"
	StarsScrubs Strategy = "stars_scrubs"
)

// Strategies lists every known strategy in mix order.
var Strategies = []Strategy{Balanced, Leverage, Contrarian, StarsScrubs}

// fillPriority orders position fills per strategy. Leverage builds lock
// the cheap contrarian pieces first so budget pressure never forces
// them out; stars-and-scrubs spends on pass catchers first.
func fillPriority(s Strategy) []types.Position {
	switch s {
	case StarsScrubs:
		return []types.Position{types.WR, types.RB, types.TE, types.QB, types.FLEX, types.DST}
	case Leverage:
		return []types.Position{types.TE, types.DST, types.RB, types.WR, types.FLEX, types.QB}
	default:
		return []types.Position{types.RB, types.WR, types.TE, types.FLEX, types.DST, types.QB}
	}
}

// Strategy thresholds for anchor QB and candidate pools.
const (
	leverageQBOwnMax   = 15.0
	contrarianQBOwnMax = 10.0
	contrarianMatchMin = 60.0
	contrarianOwnMax   = 15.0
)
