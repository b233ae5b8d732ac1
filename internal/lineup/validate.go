package lineup

import (
	"github.com/gridironlabs/gpp-engine/internal/stacks"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// GPP construction targets. Lineups outside them are kept but flagged,
// so callers can decide how strict to be.
const (
	OwnershipTargetMin = 100.0
	OwnershipTargetMax = 140.0
	LowOwnedThreshold  = 10.0
	HighOwnedThreshold = 20.0
	MinLowOwned        = 3
	MaxHighOwned       = 3
	MinDartThrows      = 1
)

// finalize computes lineup stats and runs tournament validation.
func (b *Builder) finalize(l *types.Lineup) {
	players := l.Players()
	st := &l.Stats

	var ownSum, levSum, matchSum float64
	for _, p := range players {
		st.SalaryUsed += p.Salary
		ownSum += p.Ownership
		levSum += p.LeverageScore
		matchSum += p.MatchupRating
		if p.Ownership > st.MaxOwnership {
			st.MaxOwnership = p.Ownership
		}
		if p.Ownership > HighOwnedThreshold {
			st.HighOwnedCount++
		}
		if p.Ownership < LowOwnedThreshold {
			st.LowOwnedCount++
		}
		if p.DartThrow {
			st.DartThrowCount++
		}
		if p.Sim != nil {
			st.ProjectedPoints += p.Sim.Mean
			st.ProjectedCeiling += p.Sim.Ceiling()
		}
	}
	st.SalaryRemaining = types.SalaryCap - st.SalaryUsed
	st.TotalOwnership = ownSum
	if len(players) > 0 {
		st.AvgOwnership = ownSum / float64(len(players))
		st.AvgLeverage = levSum / float64(len(players))
		st.AvgMatchup = matchSum / float64(len(players))
	}
	st.StackCorrelation = stacks.LineupCorrelation(players)
	st.HasQBStack = hasQBStack(players)

	l.Failed = b.failedChecks(l)
	l.Valid = len(l.Failed) == 0
}

func (b *Builder) failedChecks(l *types.Lineup) []string {
	var failed []string
	st := l.Stats

	if !l.Complete() {
		failed = append(failed, "incomplete_roster")
	}
	if st.SalaryUsed < types.MinSalaryUsed {
		failed = append(failed, "salary_floor")
	}
	if st.TotalOwnership < OwnershipTargetMin {
		failed = append(failed, "ownership_below_target")
	}
	if st.TotalOwnership > OwnershipTargetMax {
		failed = append(failed, "ownership_above_target")
	}
	if st.LowOwnedCount < MinLowOwned {
		failed = append(failed, "insufficient_low_owned")
	}
	if st.DartThrowCount < MinDartThrows {
		failed = append(failed, "no_dart_throw")
	}
	if st.HighOwnedCount > MaxHighOwned {
		failed = append(failed, "too_much_chalk")
	}
	if !st.HasQBStack {
		failed = append(failed, "no_qb_stack")
	}
	return failed
}

// hasQBStack reports whether the rostered QB has at least one same-team
// pass catcher alongside.
func hasQBStack(players []*types.Player) bool {
	var qb *types.Player
	for _, p := range players {
		if p.Position == types.QB {
			qb = p
			break
		}
	}
	if qb == nil {
		return false
	}
	for _, p := range players {
		if p.Team == qb.Team && (p.Position == types.WR || p.Position == types.TE || p.Position == types.RB) {
			return true
		}
	}
	return false
}
