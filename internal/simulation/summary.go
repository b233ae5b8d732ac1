package simulation

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gridironlabs/gpp-engine/internal/types"
)

// summarize reduces a trial vector to the persisted summary. Quantiles
// come off one sorted copy, which keeps them monotonic by construction.
func (e *Engine) summarize(p *types.Player, draws []float64) *types.SimSummary {
	sorted := make([]float64, len(draws))
	copy(sorted, draws)
	sort.Float64s(sorted)

	threshold := e.session.Store.BoomThreshold(p.Position)
	boom := fractionAtOrAbove(sorted, threshold)

	s := &types.SimSummary{
		Mean:     stat.Mean(sorted, nil),
		StdDev:   stat.StdDev(sorted, nil),
		P10:      stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P25:      stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P50:      stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P75:      stat.Quantile(0.75, stat.Empirical, sorted, nil),
		P90:      stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P95:      stat.Quantile(0.95, stat.Empirical, sorted, nil),
		BoomProb: boom,
		Trials:   len(draws),
		Fallback: p.UsedFallback,
	}

	if p.SiteProjection > 0 {
		s.HasSite = true
		s.BeatSite = fractionAtOrAbove(sorted, p.SiteProjection)
	}
	return s
}

// fractionAtOrAbove assumes sorted input and uses a binary search.
func fractionAtOrAbove(sorted []float64, threshold float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := sort.SearchFloat64s(sorted, threshold)
	return float64(len(sorted)-idx) / float64(len(sorted))
}
