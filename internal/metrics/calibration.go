package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/gridironlabs/gpp-engine/internal/slate"
)

// CalibrationStats compares simulated means to site projections.
type CalibrationStats struct {
	N           int     `json:"n"`
	MAE         float64 `json:"mae"`
	RMSE        float64 `json:"rmse"`
	Correlation float64 `json:"correlation"`
	// Coverage is the share of site projections landing inside the
	// simulated P10-P90 band.
	Coverage float64 `json:"coverage"`
}

// CalibrationReport carries overall and per-position calibration.
type CalibrationReport struct {
	Overall    CalibrationStats            `json:"overall"`
	ByPosition map[string]CalibrationStats `json:"by_position"`
}

// Calibrate measures model agreement with site projections. Fallback
// players are excluded since their draws are anchored on the projection
// itself and would flatter every statistic.
func Calibrate(s *slate.Session) *CalibrationReport {
	report := &CalibrationReport{ByPosition: make(map[string]CalibrationStats)}

	type pair struct {
		sim, site float64
		covered   bool
	}
	all := []pair{}
	byPos := map[string][]pair{}

	for _, p := range s.Players {
		if p.Sim == nil || p.UsedFallback || !p.Sim.HasSite {
			continue
		}
		pr := pair{
			sim:     p.Sim.Mean,
			site:    p.SiteProjection,
			covered: p.SiteProjection >= p.Sim.P10 && p.SiteProjection <= p.Sim.P90,
		}
		all = append(all, pr)
		byPos[string(p.Position)] = append(byPos[string(p.Position)], pr)
	}

	stats := func(pairs []pair) CalibrationStats {
		n := len(pairs)
		if n == 0 {
			return CalibrationStats{}
		}
		sims := make([]float64, n)
		sites := make([]float64, n)
		var absSum, sqSum float64
		covered := 0
		for i, pr := range pairs {
			sims[i], sites[i] = pr.sim, pr.site
			d := pr.sim - pr.site
			absSum += math.Abs(d)
			sqSum += d * d
			if pr.covered {
				covered++
			}
		}
		cs := CalibrationStats{
			N:        n,
			MAE:      absSum / float64(n),
			RMSE:     math.Sqrt(sqSum / float64(n)),
			Coverage: float64(covered) / float64(n),
		}
		if n >= 2 {
			cs.Correlation = stat.Correlation(sims, sites, nil)
		}
		return cs
	}

	report.Overall = stats(all)
	for pos, pairs := range byPos {
		report.ByPosition[pos] = stats(pairs)
	}
	return report
}
