package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/gpp-engine/internal/lineup"
	"github.com/gridironlabs/gpp-engine/internal/metrics"
	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/ranker"
	"github.com/gridironlabs/gpp-engine/internal/scoring"
	"github.com/gridironlabs/gpp-engine/internal/simulation"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// pipelineSession is a two-game slate. KC and LAC players carry real
// priors and exercise the structural models; SF and SEA run on the
// fallback projection model.
func pipelineSession(t *testing.T) *slate.Session {
	t.Helper()

	teams := map[string]priors.TeamPrior{
		"KC":  {Team: "KC", PlaysPerGame: 66, PassRate: 0.62, OffEfficiency: 1.10, DefEfficiency: 0.96},
		"LAC": {Team: "LAC", PlaysPerGame: 63, PassRate: 0.60, OffEfficiency: 1.00, DefEfficiency: 1.06},
	}
	playerPriors := map[string]priors.PlayerPrior{
		types.PlayerID("KC", types.QB, "Pat Star"): {
			PassAttempts: 35, PassYPA: 7.8, PassTDRate: 0.06, IntRate: 0.02,
			RushAttempts: 4, RushYPC: 5.0, RushTDRate: 0.04,
		},
		types.PlayerID("KC", types.WR, "Rashee Wideout"): {
			Targets: 9, CatchRate: 0.66, YardsPerTarget: 8.8, RecTDRate: 0.08,
		},
		types.PlayerID("KC", types.TE, "Travis Tight"): {
			Targets: 8, CatchRate: 0.70, YardsPerTarget: 8.0, RecTDRate: 0.07,
		},
		types.PlayerID("LAC", types.QB, "Justin Gun"): {
			PassAttempts: 34, PassYPA: 7.2, PassTDRate: 0.05, IntRate: 0.021,
		},
		types.PlayerID("LAC", types.RB, "Austin Back"): {
			RushAttempts: 14, RushYPC: 4.7, RushTDRate: 0.05,
			Targets: 5, CatchRate: 0.8, YardsPerTarget: 7.0, RecTDRate: 0.03,
		},
	}

	rows := []slate.PlayerInput{
		{Name: "Pat Star", Team: "KC", Opponent: "LAC", Position: "QB", Salary: 8000, Ownership: 25, Projection: 23, GameTotal: 48},
		{Name: "Isiah Back", Team: "KC", Opponent: "LAC", Position: "RB", Salary: 5600, Ownership: 14, Projection: 14, GameTotal: 48},
		{Name: "Rashee Wideout", Team: "KC", Opponent: "LAC", Position: "WR", Salary: 7000, Ownership: 22, Projection: 17, GameTotal: 48},
		{Name: "Travis Tight", Team: "KC", Opponent: "LAC", Position: "TE", Salary: 6800, Ownership: 18, Projection: 16, GameTotal: 48},
		{Name: "Chiefs D", Team: "KC", Opponent: "LAC", Position: "DST", Salary: 3000, Ownership: 12, Projection: 7, GameTotal: 48},

		{Name: "Justin Gun", Team: "LAC", Opponent: "KC", Position: "QB", Salary: 7000, Ownership: 12, Projection: 20, GameTotal: 48},
		{Name: "Austin Back", Team: "LAC", Opponent: "KC", Position: "RB", Salary: 6600, Ownership: 18, Projection: 15, GameTotal: 48},
		{Name: "Keenan Wideout", Team: "LAC", Opponent: "KC", Position: "WR", Salary: 6400, Ownership: 9, Projection: 14, GameTotal: 48},
		{Name: "Donald Tight", Team: "LAC", Opponent: "KC", Position: "TE", Salary: 2800, Ownership: 2, Projection: 6, GameTotal: 48},
		{Name: "Chargers D", Team: "LAC", Opponent: "KC", Position: "DST", Salary: 2600, Ownership: 4, Projection: 5, GameTotal: 48},

		{Name: "Brock Game", Team: "SF", Opponent: "SEA", Position: "QB", Salary: 6600, Ownership: 15, Projection: 19, GameTotal: 40},
		{Name: "Christian Back", Team: "SF", Opponent: "SEA", Position: "RB", Salary: 8200, Ownership: 30, Projection: 20, GameTotal: 40},
		{Name: "Deebo Wideout", Team: "SF", Opponent: "SEA", Position: "WR", Salary: 5200, Ownership: 11, Projection: 13, GameTotal: 40},
		{Name: "George Tight", Team: "SF", Opponent: "SEA", Position: "TE", Salary: 5400, Ownership: 10, Projection: 12, GameTotal: 40},
		{Name: "Niners D", Team: "SF", Opponent: "SEA", Position: "DST", Salary: 3200, Ownership: 14, Projection: 8, GameTotal: 40},

		{Name: "Geno Value", Team: "SEA", Opponent: "SF", Position: "QB", Salary: 5600, Ownership: 4, Projection: 16, GameTotal: 40},
		{Name: "Kenneth Back", Team: "SEA", Opponent: "SF", Position: "RB", Salary: 4800, Ownership: 12, Projection: 13, GameTotal: 40},
		{Name: "DK Wideout", Team: "SEA", Opponent: "SF", Position: "WR", Salary: 5300, Ownership: 8, Projection: 14, GameTotal: 40},
		{Name: "Noah Tight", Team: "SEA", Opponent: "SF", Position: "TE", Salary: 2600, Ownership: 3, Projection: 7, GameTotal: 40},
		{Name: "Seahawks D", Team: "SEA", Opponent: "SF", Position: "DST", Salary: 2400, Ownership: 3, Projection: 5, GameTotal: 40},
	}

	sess, err := slate.NewSession(rows, priors.NewStaticStore(teams, playerPriors))
	require.NoError(t, err)
	return sess
}

func TestFullPipeline(t *testing.T) {
	sess := pipelineSession(t)

	simCfg := simulation.DefaultConfig()
	simCfg.Trials = 10000
	simCfg.Seed = 42
	res, err := simulation.New(sess, scoring.DraftKings(), simCfg).Run()
	require.NoError(t, err)
	require.Len(t, res.Summaries, 20)

	metrics.Enrich(sess)

	// the slate is too shallow for the production exposure caps, so
	// diversity rides on the overlap rule alone
	cfg := DefaultConfig(20)
	cfg.Seed = 42
	cfg.ChalkExposureCap = 1.0
	cfg.BaseExposureCap = 1.0
	cfg.AttemptsPerLineup = 50

	p, err := Generate(sess, cfg)
	require.NoError(t, err)
	require.Equal(t, 20, p.Stats.Generated, "expected a full portfolio")

	assert.Equal(t, 7, p.Stats.StrategyCounts[string(lineup.Balanced)])
	assert.Equal(t, 7, p.Stats.StrategyCounts[string(lineup.Leverage)])
	assert.Equal(t, 5, p.Stats.StrategyCounts[string(lineup.Contrarian)])
	assert.Equal(t, 1, p.Stats.StrategyCounts[string(lineup.StarsScrubs)])

	for i, l := range p.Lineups {
		assert.True(t, l.Complete(), "lineup %d", i)
		assert.LessOrEqual(t, l.SalaryUsed(), types.SalaryCap, "lineup %d", i)
	}

	for i := 1; i < len(p.Lineups); i++ {
		start := i - cfg.OverlapWindow
		if start < 0 {
			start = 0
		}
		for j := start; j < i; j++ {
			assert.LessOrEqual(t, p.Lineups[i].SharedPlayers(p.Lineups[j]), cfg.MaxOverlap,
				"lineups %d and %d", i, j)
		}
	}

	ranked := ranker.New(ranker.DefaultWeights()).Rank(p.Lineups)
	require.Len(t, ranked, 20)
	assert.Equal(t, 1, ranked[0].Rank.Rank)
	assert.InDelta(t, 100.0, ranked[0].Rank.WinPercentile, 1e-9)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Rank.Total, ranked[i].Rank.Total)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	build := func() *Portfolio {
		sess := pipelineSession(t)
		cfg := simulation.DefaultConfig()
		cfg.Trials = 2000
		cfg.Seed = 99
		_, err := simulation.New(sess, scoring.DraftKings(), cfg).Run()
		require.NoError(t, err)
		metrics.Enrich(sess)

		pcfg := DefaultConfig(5)
		pcfg.Seed = 7
		pcfg.ChalkExposureCap = 1.0
		pcfg.BaseExposureCap = 1.0
		pcfg.AttemptsPerLineup = 50
		p, err := Generate(sess, pcfg)
		require.NoError(t, err)
		return p
	}

	a := build()
	b := build()
	require.Equal(t, a.Stats.Generated, b.Stats.Generated)
	for i := range a.Lineups {
		var an, bn []string
		for _, pl := range a.Lineups[i].Players() {
			an = append(an, pl.ID)
		}
		for _, pl := range b.Lineups[i].Players() {
			bn = append(bn, pl.ID)
		}
		assert.Equal(t, an, bn, "lineup %d", i)
	}
}
