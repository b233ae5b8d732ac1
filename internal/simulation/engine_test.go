package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/scoring"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

func testStore() *priors.StaticStore {
	teams := map[string]priors.TeamPrior{
		"BUF": {Team: "BUF", PlaysPerGame: 65, PassRate: 0.60, OffEfficiency: 1.08, DefEfficiency: 0.95},
		"MIA": {Team: "MIA", PlaysPerGame: 62, PassRate: 0.58, OffEfficiency: 0.98, DefEfficiency: 1.05},
	}
	players := map[string]priors.PlayerPrior{
		types.PlayerID("BUF", types.QB, "Josh Allen"): {
			PassAttempts: 33, PassYPA: 7.6, PassTDRate: 0.055, IntRate: 0.022,
			RushAttempts: 7, RushYPC: 5.5, RushTDRate: 0.05,
		},
		types.PlayerID("BUF", types.WR, "Stefon Diggs"): {
			Targets: 9.5, CatchRate: 0.68, YardsPerTarget: 8.4, RecTDRate: 0.07,
		},
		types.PlayerID("MIA", types.RB, "Raheem Mostert"): {
			RushAttempts: 15, RushYPC: 4.6, RushTDRate: 0.055,
			Targets: 3, CatchRate: 0.75, YardsPerTarget: 6.5, RecTDRate: 0.04,
		},
	}
	return priors.NewStaticStore(teams, players)
}

func testInputs() []slate.PlayerInput {
	return []slate.PlayerInput{
		{Name: "Josh Allen", Team: "BUF", Opponent: "MIA", Position: "QB", Salary: 8200, Ownership: 24, Projection: 23.5, GameTotal: 49},
		{Name: "Stefon Diggs", Team: "BUF", Opponent: "MIA", Position: "WR", Salary: 8000, Ownership: 18, Projection: 18.2, GameTotal: 49},
		{Name: "Raheem Mostert", Team: "MIA", Opponent: "BUF", Position: "RB", Salary: 6400, Ownership: 12, Projection: 14.8, GameTotal: 49},
		{Name: "Bills", Team: "BUF", Opponent: "MIA", Position: "DST", Salary: 3200, Ownership: 9, Projection: 7.5, GameTotal: 49},
		{Name: "Braxton Berrios", Team: "MIA", Opponent: "BUF", Position: "WR", Salary: 3000, Ownership: 1.5, Projection: 6.0, GameTotal: 49},
	}
}

func runSim(t *testing.T, cfg Config) (*slate.Session, *Result) {
	t.Helper()
	sess, err := slate.NewSession(testInputs(), testStore())
	require.NoError(t, err)
	res, err := New(sess, scoring.DraftKings(), cfg).Run()
	require.NoError(t, err)
	return sess, res
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trials = 1500
	cfg.Seed = 42

	_, first := runSim(t, cfg)
	_, second := runSim(t, cfg)

	require.Equal(t, len(first.Summaries), len(second.Summaries))
	for id, a := range first.Summaries {
		b := second.Summaries[id]
		require.NotNil(t, b, id)
		assert.Equal(t, a.Mean, b.Mean, id)
		assert.Equal(t, a.P90, b.P90, id)
		assert.Equal(t, a.BoomProb, b.BoomProb, id)
		assert.Equal(t, first.PlayerDraws(id), second.PlayerDraws(id), id)
	}
}

func TestRunSeedsDiffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trials = 500
	cfg.Seed = 1
	_, a := runSim(t, cfg)

	cfg.Seed = 2
	_, b := runSim(t, cfg)

	id := types.PlayerID("BUF", types.QB, "Josh Allen")
	assert.NotEqual(t, a.PlayerDraws(id), b.PlayerDraws(id))
}

func TestDrawsNonNegativeAndPercentilesMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trials = 1000
	cfg.Seed = 7

	sess, res := runSim(t, cfg)
	for _, p := range sess.Players {
		for _, d := range res.PlayerDraws(p.ID) {
			require.GreaterOrEqual(t, d, 0.0, p.Name)
		}
		s := res.Summaries[p.ID]
		require.NotNil(t, s)
		assert.LessOrEqual(t, s.P10, s.P25, p.Name)
		assert.LessOrEqual(t, s.P25, s.P50, p.Name)
		assert.LessOrEqual(t, s.P50, s.P75, p.Name)
		assert.LessOrEqual(t, s.P75, s.P90, p.Name)
		assert.LessOrEqual(t, s.P90, s.P95, p.Name)
		assert.Equal(t, cfg.Trials, s.Trials)
	}
}

func TestTeammatesCorrelate(t *testing.T) {
	qb := types.PlayerID("BUF", types.QB, "Josh Allen")
	wr := types.PlayerID("BUF", types.WR, "Stefon Diggs")

	cfg := DefaultConfig()
	cfg.Trials = 4000
	cfg.Seed = 11
	_, shocked := runSim(t, cfg)
	withShocks := stat.Correlation(shocked.PlayerDraws(qb), shocked.PlayerDraws(wr), nil)

	cfg.TeamShockSD = 0
	cfg.PosShockSD = 0
	cfg.EnvNoiseSD = 0
	_, flat := runSim(t, cfg)
	without := stat.Correlation(flat.PlayerDraws(qb), flat.PlayerDraws(wr), nil)

	assert.Greater(t, withShocks, 0.05, "teammates should move together")
	assert.Greater(t, withShocks, without, "shared shocks should drive the correlation")
}

func TestFallbackModelTracksProjection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trials = 3000
	cfg.Seed = 3

	sess, res := runSim(t, cfg)
	id := types.PlayerID("MIA", types.WR, "Braxton Berrios")
	p, ok := sess.PlayerByID(id)
	require.True(t, ok)

	assert.True(t, p.UsedFallback)
	s := res.Summaries[id]
	require.NotNil(t, s)
	assert.True(t, s.Fallback)
	assert.InDelta(t, p.SiteProjection, s.Mean, p.SiteProjection*0.15)
}

func TestNoPriorNoProjectionYieldsZeros(t *testing.T) {
	inputs := []slate.PlayerInput{
		{Name: "Mystery Guy", Team: "NYJ", Opponent: "NE", Position: "WR", Salary: 3000},
	}
	sess, err := slate.NewSession(inputs, priors.Empty())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Trials = 200
	cfg.Seed = 5
	res, err := New(sess, scoring.DraftKings(), cfg).Run()
	require.NoError(t, err)

	id := types.PlayerID("NYJ", types.WR, "Mystery Guy")
	s := res.Summaries[id]
	require.NotNil(t, s)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.P95)
}

func TestConfigValidation(t *testing.T) {
	sess, err := slate.NewSession(testInputs(), testStore())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Trials = 0
	_, err = New(sess, scoring.DraftKings(), cfg).Run()
	assert.Error(t, err)

	cfg.Trials = maxTrials + 1
	_, err = New(sess, scoring.DraftKings(), cfg).Run()
	assert.Error(t, err)
}
