// Package ranker orders finished lineups by tournament win equity. The
// score is a weighted blend of ceiling, ownership profile, leverage,
// correlation, uniqueness and strategy narrative, each on a 0-100
// scale.
package ranker

import (
	"sort"

	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

// Weights blends the component scores. They sum to 1.
type Weights struct {
	Ceiling     float64 `json:"ceiling"`
	Ownership   float64 `json:"ownership"`
	Leverage    float64 `json:"leverage"`
	Correlation float64 `json:"correlation"`
	Uniqueness  float64 `json:"uniqueness"`
	Narrative   float64 `json:"narrative"`
}

// DefaultWeights tilts toward ceiling, the stat that wins large-field
// tournaments.
func DefaultWeights() Weights {
	return Weights{
		Ceiling:     0.25,
		Ownership:   0.20,
		Leverage:    0.20,
		Correlation: 0.15,
		Uniqueness:  0.10,
		Narrative:   0.10,
	}
}

const (
	// eliteCeiling is the lineup ceiling that maxes the component.
	eliteCeiling = 200.0
	// optimalOwnership is the cumulative ownership sweet spot.
	optimalOwnership = 120.0
	// ownershipFloor/ownershipCeiling bound the target ownership band.
	ownershipFloor   = 100.0
	ownershipCeiling = 140.0
	// noStackScore is the correlation floor for stackless lineups.
	noStackScore = 20.0
	// gameStackBonus rewards bring-back construction.
	gameStackBonus = 10.0
)

var narrativeBase = map[string]float64{
	"leverage":     85,
	"contrarian":   90,
	"balanced":     70,
	"stars_scrubs": 75,
}

// Ranker scores and orders lineups.
type Ranker struct {
	weights Weights
}

func New(weights Weights) *Ranker {
	return &Ranker{weights: weights}
}

// Score computes the weighted total and attaches the component
// breakdown to the lineup.
func (r *Ranker) Score(l *types.Lineup) float64 {
	c := map[string]float64{
		"ceiling":     scoreCeiling(l),
		"ownership":   scoreOwnership(l),
		"leverage":    scoreLeverage(l),
		"correlation": scoreCorrelation(l),
		"uniqueness":  scoreUniqueness(l),
		"narrative":   scoreNarrative(l),
	}
	total := c["ceiling"]*r.weights.Ceiling +
		c["ownership"]*r.weights.Ownership +
		c["leverage"]*r.weights.Leverage +
		c["correlation"]*r.weights.Correlation +
		c["uniqueness"]*r.weights.Uniqueness +
		c["narrative"]*r.weights.Narrative

	l.Rank = &types.RankScore{Total: total, Components: c}
	return total
}

// Rank scores every lineup and orders them best first, attaching rank
// and win percentile. The sort is fully deterministic: ties break on
// lineup ID.
func (r *Ranker) Rank(lineups []*types.Lineup) []*types.Lineup {
	for _, l := range lineups {
		r.Score(l)
	}

	ranked := make([]*types.Lineup, len(lineups))
	copy(ranked, lineups)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rank.Total != ranked[j].Rank.Total {
			return ranked[i].Rank.Total > ranked[j].Rank.Total
		}
		return ranked[i].ID < ranked[j].ID
	})

	n := len(ranked)
	for i, l := range ranked {
		l.Rank.Rank = i + 1
		l.Rank.WinPercentile = 100 * float64(n-i) / float64(n)
	}

	if n > 0 {
		logger.WithComponent("ranker").
			WithField("lineups", n).
			WithField("top_score", ranked[0].Rank.Total).
			Debug("lineups ranked")
	}
	return ranked
}

// scoreCeiling is non-linear: ceiling matters more at the high end, so
// the top tier gets a boost and the bottom tier a haircut.
func scoreCeiling(l *types.Lineup) float64 {
	normalized := clamp(l.Stats.ProjectedCeiling/eliteCeiling*100, 0, 100)
	switch {
	case normalized > 80:
		return clamp(normalized*1.1, 0, 100)
	case normalized > 60:
		return normalized
	default:
		return normalized * 0.8
	}
}

// scoreOwnership peaks at the optimal cumulative ownership inside the
// target band. Outside the band, bloat costs more than thinness: a
// bloated lineup shares its outcome with too much of the field.
func scoreOwnership(l *types.Lineup) float64 {
	own := l.Stats.TotalOwnership
	switch {
	case own >= ownershipFloor && own <= ownershipCeiling:
		dev := own - optimalOwnership
		if dev < 0 {
			dev = -dev
		}
		return 100 - dev*1.5
	case own < ownershipFloor:
		return clamp(70-(ownershipFloor-own)*2, 20, 100)
	default:
		return clamp(60-(own-ownershipCeiling)*3, 10, 100)
	}
}

// scoreLeverage blends the count of low-owned pieces (3 to 5 is the
// sweet spot), average leverage quality and a dart throw bonus.
func scoreLeverage(l *types.Lineup) float64 {
	low := float64(l.Stats.LowOwnedCount)
	var count float64
	switch {
	case low >= 3 && low <= 5:
		count = 100
	case low < 3:
		count = low / 3 * 80
	default:
		count = clamp(100-(low-5)*10, 70, 100)
	}
	quality := clamp(l.Stats.AvgLeverage*5, 0, 100)
	darts := clamp(float64(l.Stats.DartThrowCount)*15, 0, 30)
	return count*0.4 + quality*0.4 + darts*0.2
}

// scoreCorrelation rewards rostered correlation; lineups with no QB
// stack floor out, game stacks earn the bring-back bonus.
func scoreCorrelation(l *types.Lineup) float64 {
	if !l.Stats.HasQBStack {
		return noStackScore
	}
	score := clamp(80+l.Stats.StackCorrelation*20, 0, 100)
	if l.Stack != nil && l.Stack.Type == types.GameStack {
		score = clamp(score+gameStackBonus, 0, 100)
	}
	return score
}

// scoreUniqueness reads differentiation off the ownership level, with
// a capped boost per low-owned piece.
func scoreUniqueness(l *types.Lineup) float64 {
	var base float64
	switch {
	case l.Stats.TotalOwnership < 110:
		base = 85
	case l.Stats.TotalOwnership < 125:
		base = 70
	default:
		base = 55
	}
	return clamp(base+clamp(float64(l.Stats.LowOwnedCount)*7, 0, 15), 0, 100)
}

func scoreNarrative(l *types.Lineup) float64 {
	base, ok := narrativeBase[l.Strategy]
	if !ok {
		base = 70
	}
	if l.Stats.AvgLeverage > 15 {
		base += 10
	}
	return clamp(base, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
