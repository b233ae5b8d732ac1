// Package metrics turns simulation summaries into the selection scores
// the portfolio layer keys on: boom score, leverage, dart throw and
// value flags.
package metrics

import (
	"sort"

	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

const (
	dartOwnershipMax   = 5.0
	dartBoomMin        = 70.0
	highLeverageFloor  = 10.0
	leverageOwnFloor   = 0.1
)

// Enrich computes every derived score for the session's players.
// It requires simulation summaries to be attached already.
func Enrich(s *slate.Session) {
	computeBoomScores(s)

	darts, highLev := 0, 0
	for _, p := range s.Players {
		if p.Sim != nil && p.Salary > 0 {
			p.ValueRating = p.Sim.Mean / (float64(p.Salary) / 1000)
		}

		p.LeverageScore = p.BoomScore / maxF(p.Ownership, leverageOwnFloor)
		p.HighLeverage = p.LeverageScore > highLeverageFloor
		p.DartThrow = p.Ownership <= dartOwnershipMax && p.BoomScore >= dartBoomMin

		if p.DartThrow {
			darts++
		}
		if p.HighLeverage {
			highLev++
		}
	}

	logger.WithComponent("metrics").
		WithField("slate_id", s.ID).
		WithField("dart_throws", darts).
		WithField("high_leverage", highLev).
		Info("player scores computed")
}

// computeBoomScores ranks players within their position by a ceiling
// composite and maps the ranks onto [0, 100] with uniform spacing. A
// score of 80 always means the same thing: better composite than 80% of
// the position group.
func computeBoomScores(s *slate.Session) {
	for _, pos := range []types.Position{types.QB, types.RB, types.WR, types.TE, types.DST} {
		group := s.PlayersByPosition(pos)
		if len(group) == 0 {
			continue
		}
		if len(group) == 1 {
			group[0].BoomScore = 50
			continue
		}

		medianPerK := medianValuePerK(group)
		composites := make(map[string]float64, len(group))
		for _, p := range group {
			composites[p.ID] = boomComposite(p, medianPerK)
		}
		sort.Slice(group, func(i, j int) bool {
			if composites[group[i].ID] != composites[group[j].ID] {
				return composites[group[i].ID] < composites[group[j].ID]
			}
			return group[i].ID < group[j].ID
		})

		span := float64(len(group) - 1)
		for i, p := range group {
			p.BoomScore = 100 * float64(i) / span
		}
	}
}

// boomComposite blends boom probability with the chance of beating the
// site projection, then nudges for ownership and for salary value
// relative to the position group median.
func boomComposite(p *types.Player, medianPerK float64) float64 {
	if p.Sim == nil {
		return 0
	}
	c := p.Sim.BoomProb
	if p.Sim.HasSite {
		c = 0.6*p.Sim.BoomProb + 0.4*p.Sim.BeatSite
	}

	switch {
	case p.Ownership <= 5:
		c *= 1.3
	case p.Ownership <= 10:
		c *= 1.2
	case p.Ownership <= 20:
		c *= 1.1
	}

	if p.Salary > 0 && medianPerK > 0 {
		ratio := p.Sim.Mean / (float64(p.Salary) / 1000) / medianPerK
		if ratio > 1 {
			c *= 1 + minF(0.15, (ratio-1)*0.15)
		}
	}
	return c
}

// medianValuePerK is the position group's median mean-points per $1K of
// salary. Players without summaries or salaries are left out.
func medianValuePerK(group []*types.Player) float64 {
	var perK []float64
	for _, p := range group {
		if p.Sim != nil && p.Salary > 0 {
			perK = append(perK, p.Sim.Mean/(float64(p.Salary)/1000))
		}
	}
	if len(perK) == 0 {
		return 0
	}
	sort.Float64s(perK)
	mid := len(perK) / 2
	if len(perK)%2 == 1 {
		return perK[mid]
	}
	return (perK[mid-1] + perK[mid]) / 2
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
