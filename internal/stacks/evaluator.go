// Package stacks finds and scores QB-anchored correlation stacks:
// double stacks, game stacks with a bring-back, skinny stacks, and the
// low-owned leverage subset.
package stacks

import (
	"fmt"
	"sort"

	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// Pairwise correlation boosts. A stack's score multiplies the base by
// (1 + boost) per correlated pairing.
const (
	baseScore    = 100.0
	boostQBWR    = 0.35
	boostQBTE    = 0.20
	boostOppPass = 0.15
	boostQBRB    = -0.10
	boostRBDST   = 0.18
	shootoutMult = 1.15

	topPerType       = 5
	leverageOwnMax   = 25.0
	leverageScoreMin = 70.0
)

// StackSet groups the ranked stacks found for one QB.
type StackSet struct {
	QB       string        `json:"qb"`
	Double   []types.Stack `json:"double_stacks"`
	Game     []types.Stack `json:"game_stacks"`
	Skinny   []types.Stack `json:"skinny_stacks"`
	Leverage []types.Stack `json:"leverage_stacks"`
}

// Evaluator scores stacks against one session.
type Evaluator struct {
	session *slate.Session
}

func NewEvaluator(s *slate.Session) *Evaluator {
	return &Evaluator{session: s}
}

// FindStacks enumerates and ranks every stack type for the QB. Each
// list keeps the top five by score.
func (e *Evaluator) FindStacks(qb *types.Player) (*StackSet, error) {
	if qb == nil || qb.Position != types.QB {
		return nil, fmt.Errorf("stack anchor must be a QB")
	}

	mates := passCatchers(e.session.Teammates(qb.Team))
	oppMates := passCatchers(e.session.Teammates(qb.Opponent))
	game := e.session.Games[qb.GameKey()]

	set := &StackSet{QB: qb.Name}

	for _, m := range mates {
		set.Skinny = append(set.Skinny, e.buildStack(types.SkinnyStack, qb, game, m))
	}
	for i := 0; i < len(mates); i++ {
		for j := i + 1; j < len(mates); j++ {
			set.Double = append(set.Double, e.buildStack(types.DoubleStack, qb, game, mates[i], mates[j]))
		}
	}
	for _, m := range mates {
		for _, o := range oppMates {
			set.Game = append(set.Game, e.buildStack(types.GameStack, qb, game, m, o))
		}
	}

	rank(&set.Skinny)
	rank(&set.Double)
	rank(&set.Game)
	set.Leverage = e.leverageSubset(set)
	return set, nil
}

// FindStacksByName resolves the QB by display name.
func (e *Evaluator) FindStacksByName(qbName string) (*StackSet, error) {
	for _, p := range e.session.Players {
		if p.Position == types.QB && p.Name == qbName {
			return e.FindStacks(p)
		}
	}
	return nil, fmt.Errorf("no QB named %q in slate", qbName)
}

// buildStack assembles one stack and applies the multiplicative
// correlation scoring.
func (e *Evaluator) buildStack(kind types.StackType, qb *types.Player, game *types.Game, mates ...*types.Player) types.Stack {
	score := baseScore
	members := []*types.Player{qb}

	for _, m := range mates {
		members = append(members, m)
		score *= 1 + pairBoost(qb, m)
	}
	if game != nil && game.Shootout {
		score *= shootoutMult
	}

	s := types.Stack{
		Type:  kind,
		QB:    qb.Name,
		Score: score,
	}
	if game != nil {
		s.GameTotal = game.Total
	}

	var levSum float64
	for _, m := range members {
		s.Players = append(s.Players, m.Name)
		s.PlayerIDs = append(s.PlayerIDs, m.ID)
		s.TotalOwnership += m.Ownership
		s.TotalSalary += m.Salary
		if m.Ownership > s.MaxOwnership {
			s.MaxOwnership = m.Ownership
		}
		levSum += m.LeverageScore
	}
	s.AvgLeverage = levSum / float64(len(members))
	return s
}

// pairBoost is the QB-to-mate correlation term. Opponent pass catchers
// get the bring-back boost regardless of position.
func pairBoost(qb, mate *types.Player) float64 {
	if mate.Team != qb.Team {
		return boostOppPass
	}
	switch mate.Position {
	case types.WR:
		return boostQBWR
	case types.TE:
		return boostQBTE
	case types.RB:
		return boostQBRB
	default:
		return 0
	}
}

// leverageSubset pulls the low-owned, still-correlated stacks from the
// double and game lists.
func (e *Evaluator) leverageSubset(set *StackSet) []types.Stack {
	var out []types.Stack
	for _, s := range append(append([]types.Stack{}, set.Double...), set.Game...) {
		if s.TotalOwnership < leverageOwnMax && s.Score > leverageScoreMin {
			s.Type = types.LeverageStack
			out = append(out, s)
		}
	}
	rank(&out)
	return out
}

func rank(stacks *[]types.Stack) {
	s := *stacks
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].TotalOwnership < s[j].TotalOwnership
	})
	if len(s) > topPerType {
		s = s[:topPerType]
	}
	*stacks = s
}

// passCatchers filters teammates down to WR and TE plus pass-catching
// RBs, which keeps the negative QB-RB boost available without flooding
// the combinations.
func passCatchers(mates []*types.Player) []*types.Player {
	var out []*types.Player
	for _, m := range mates {
		if m.Position == types.WR || m.Position == types.TE || m.Position == types.RB {
			out = append(out, m)
		}
	}
	return out
}

// LineupCorrelation sums the pairwise correlation terms present in a
// rostered lineup, the score the ranker reads as correlation quality.
func LineupCorrelation(players []*types.Player) float64 {
	var total float64
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			total += playerPairBoost(players[i], players[j])
		}
	}
	return total
}

func playerPairBoost(a, b *types.Player) float64 {
	// orient so a QB (or DST) is first when present
	if b.Position == types.QB || b.Position == types.DST {
		a, b = b, a
	}
	sameTeam := a.Team == b.Team
	sameGame := a.GameKey() == b.GameKey()

	switch {
	case a.Position == types.QB && sameTeam:
		return pairBoost(a, b)
	case a.Position == types.QB && sameGame && (b.Position == types.WR || b.Position == types.TE):
		return boostOppPass
	case a.Position == types.DST && sameTeam && b.Position == types.RB:
		return boostRBDST
	default:
		return 0
	}
}
