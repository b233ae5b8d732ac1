// Package portfolio builds tournament portfolios: a strategy mix of
// lineups constrained by exposure caps and pairwise overlap.
package portfolio

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/gpp-engine/internal/lineup"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

// Config is the portfolio construction policy.
type Config struct {
	Size              int     `json:"size"`
	Seed              int64   `json:"seed"`
	ChalkExposureCap  float64 `json:"chalk_exposure_cap"`
	BaseExposureCap   float64 `json:"base_exposure_cap"`
	MaxOverlap        int     `json:"max_overlap"`
	OverlapWindow     int     `json:"overlap_window"`
	AttemptsPerLineup int     `json:"attempts_per_lineup"`
}

// DefaultConfig returns the standard GPP policy.
func DefaultConfig(size int) Config {
	return Config{
		Size:              size,
		Seed:              1,
		ChalkExposureCap:  0.40,
		BaseExposureCap:   0.20,
		MaxOverlap:        6,
		OverlapWindow:     10,
		AttemptsPerLineup: 10,
	}
}

// Portfolio is the generated set plus its aggregate profile.
type Portfolio struct {
	Lineups  []*types.Lineup  `json:"lineups"`
	Stats    Stats            `json:"stats"`
	Exposure []PlayerExposure `json:"exposure"`
}

// Stats summarizes a portfolio.
type Stats struct {
	Requested      int            `json:"requested"`
	Generated      int            `json:"generated"`
	Valid          int            `json:"valid"`
	StrategyCounts map[string]int `json:"strategy_counts"`
	AvgOwnership   float64        `json:"avg_ownership"`
	MinOwnership   float64        `json:"min_ownership"`
	MaxOwnership   float64        `json:"max_ownership"`
	AvgLeverage    float64        `json:"avg_leverage"`
	AvgCeiling     float64        `json:"avg_ceiling"`
	UniquePlayers  int            `json:"unique_players"`
}

// StrategyMix allocates lineup counts to strategies by portfolio size.
// Singles stay balanced, small portfolios alternate balanced and
// leverage, mid sizes add contrarian, and full-size portfolios carry
// all four styles. Rounding remainders go to balanced.
func StrategyMix(n int) map[lineup.Strategy]int {
	mix := map[lineup.Strategy]int{}
	switch {
	case n <= 0:
		return mix
	case n == 1:
		mix[lineup.Balanced] = 1
	case n <= 5:
		mix[lineup.Balanced] = (n + 1) / 2
		mix[lineup.Leverage] = n / 2
	case n < 20:
		mix[lineup.Balanced] = int(0.4 * float64(n))
		mix[lineup.Leverage] = int(0.4 * float64(n))
		mix[lineup.Contrarian] = int(0.2 * float64(n))
	default:
		mix[lineup.Balanced] = int(0.35 * float64(n))
		mix[lineup.Leverage] = int(0.35 * float64(n))
		mix[lineup.Contrarian] = int(0.25 * float64(n))
		mix[lineup.StarsScrubs] = int(0.05 * float64(n))
	}

	assigned := 0
	for _, c := range mix {
		assigned += c
	}
	mix[lineup.Balanced] += n - assigned
	return mix
}

// Generate builds a portfolio with the default strategy mix for its
// size.
func Generate(s *slate.Session, cfg Config) (*Portfolio, error) {
	return GenerateWithMix(s, cfg, StrategyMix(cfg.Size))
}

// GenerateWithMix builds a portfolio against an explicit strategy mix.
// Exhausting the attempt budget yields a short portfolio, never a
// partial lineup.
func GenerateWithMix(s *slate.Session, cfg Config, mix map[lineup.Strategy]int) (*Portfolio, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("portfolio size must be positive, got %d", cfg.Size)
	}
	log := logger.WithPortfolio(s.ID, cfg.Size)

	builder := lineup.NewBuilder(s, cfg.Seed)
	em := NewExposureManager(cfg.ChalkExposureCap, cfg.BaseExposureCap)
	p := &Portfolio{}

	blocked := func(pl *types.Player) bool { return !em.CanAdd(pl) }

	for _, strat := range lineup.Strategies {
		want := mix[strat]
		for built := 0; built < want; built++ {
			l, ok := buildOne(builder, strat, blocked, p.Lineups, cfg)
			if !ok {
				log.WithField("strategy", strat).
					Warn("attempt budget exhausted, portfolio will be short")
				continue
			}
			em.Commit(l)
			p.Lineups = append(p.Lineups, l)
		}
	}

	p.Exposure = em.Report()
	p.Stats = computeStats(p.Lineups, cfg.Size)

	log.WithFields(logrus.Fields{
		"generated": p.Stats.Generated,
		"valid":     p.Stats.Valid,
	}).Info("portfolio generated")
	return p, nil
}

func buildOne(b *lineup.Builder, strat lineup.Strategy, blocked func(*types.Player) bool, accepted []*types.Lineup, cfg Config) (*types.Lineup, bool) {
	for attempt := 0; attempt < cfg.AttemptsPerLineup; attempt++ {
		l := b.Build(strat, blocked)
		if !l.Complete() {
			continue
		}
		if overlapsTooMuch(l, accepted, cfg) {
			continue
		}
		return l, true
	}
	return nil, false
}

// overlapsTooMuch checks the candidate against the trailing window of
// accepted lineups.
func overlapsTooMuch(l *types.Lineup, accepted []*types.Lineup, cfg Config) bool {
	start := 0
	if len(accepted) > cfg.OverlapWindow {
		start = len(accepted) - cfg.OverlapWindow
	}
	for _, prev := range accepted[start:] {
		if l.SharedPlayers(prev) > cfg.MaxOverlap {
			return true
		}
	}
	return false
}

func computeStats(lineups []*types.Lineup, requested int) Stats {
	st := Stats{
		Requested:      requested,
		Generated:      len(lineups),
		StrategyCounts: map[string]int{},
	}
	if len(lineups) == 0 {
		return st
	}

	unique := map[string]struct{}{}
	var ownSum, levSum, ceilSum float64
	st.MinOwnership = lineups[0].Stats.TotalOwnership

	for _, l := range lineups {
		if l.Valid {
			st.Valid++
		}
		st.StrategyCounts[l.Strategy]++
		own := l.Stats.TotalOwnership
		ownSum += own
		levSum += l.Stats.AvgLeverage
		ceilSum += l.Stats.ProjectedCeiling
		if own < st.MinOwnership {
			st.MinOwnership = own
		}
		if own > st.MaxOwnership {
			st.MaxOwnership = own
		}
		for _, p := range l.Players() {
			unique[p.ID] = struct{}{}
		}
	}

	n := float64(len(lineups))
	st.AvgOwnership = ownSum / n
	st.AvgLeverage = levSum / n
	st.AvgCeiling = ceilSum / n
	st.UniquePlayers = len(unique)
	return st
}
