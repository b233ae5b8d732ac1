package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

func enrichedSession(t *testing.T) *slate.Session {
	t.Helper()
	inputs := []slate.PlayerInput{
		{Name: "Alpha", Team: "DAL", Opponent: "PHI", Position: "WR", Salary: 8500, Ownership: 28, Projection: 19},
		{Name: "Bravo", Team: "DAL", Opponent: "PHI", Position: "WR", Salary: 6200, Ownership: 12, Projection: 13},
		{Name: "Charlie", Team: "PHI", Opponent: "DAL", Position: "WR", Salary: 4100, Ownership: 4, Projection: 9},
		{Name: "Delta", Team: "PHI", Opponent: "DAL", Position: "WR", Salary: 3300, Ownership: 1, Projection: 5},
		{Name: "Echo", Team: "DAL", Opponent: "PHI", Position: "TE", Salary: 3900, Ownership: 6, Projection: 8},
	}
	sess, err := slate.NewSession(inputs, priors.Empty())
	require.NoError(t, err)

	// Hand-built summaries stand in for a simulation run.
	sims := map[string]*types.SimSummary{
		types.PlayerID("DAL", types.WR, "Alpha"):   {Mean: 18.5, P10: 9, P90: 30, BoomProb: 0.42, BeatSite: 0.48, HasSite: true},
		types.PlayerID("DAL", types.WR, "Bravo"):   {Mean: 13.8, P10: 6, P90: 24, BoomProb: 0.30, BeatSite: 0.52, HasSite: true},
		types.PlayerID("PHI", types.WR, "Charlie"): {Mean: 10.2, P10: 3, P90: 21, BoomProb: 0.24, BeatSite: 0.55, HasSite: true},
		types.PlayerID("PHI", types.WR, "Delta"):   {Mean: 4.9, P10: 0, P90: 12, BoomProb: 0.05, BeatSite: 0.45, HasSite: true},
		types.PlayerID("DAL", types.TE, "Echo"):    {Mean: 8.4, P10: 2, P90: 17, BoomProb: 0.22, BeatSite: 0.51, HasSite: true},
	}
	for _, p := range sess.Players {
		p.Sim = sims[p.ID]
	}
	return sess
}

func TestBoomScoresSpanPositionGroup(t *testing.T) {
	sess := enrichedSession(t)
	Enrich(sess)

	var scores []float64
	for _, p := range sess.PlayersByPosition(types.WR) {
		scores = append(scores, p.BoomScore)
	}
	require.Len(t, scores, 4)
	assert.Contains(t, scores, 0.0)
	assert.Contains(t, scores, 100.0)

	// A lone TE sits at the neutral midpoint.
	te := sess.PlayersByPosition(types.TE)[0]
	assert.Equal(t, 50.0, te.BoomScore)
}

func TestLowOwnedCeilingBeatsChalk(t *testing.T) {
	sess := enrichedSession(t)
	Enrich(sess)

	charlie, _ := sess.PlayerByID(types.PlayerID("PHI", types.WR, "Charlie"))
	delta, _ := sess.PlayerByID(types.PlayerID("PHI", types.WR, "Delta"))

	assert.Greater(t, charlie.LeverageScore, delta.LeverageScore)
	assert.True(t, charlie.HighLeverage)
}

func TestValueBoostIsRelativeToPositionMedian(t *testing.T) {
	// Identical ceilings and ownership; only salary separates them, and
	// both sit under 3 pts per $1K. The cheaper player clears the group
	// median and must win the boom ranking on the value boost alone.
	inputs := []slate.PlayerInput{
		{Name: "Asher", Team: "DAL", Opponent: "PHI", Position: "WR", Salary: 3600, Ownership: 15, Projection: 10},
		{Name: "Zeke", Team: "DAL", Opponent: "PHI", Position: "WR", Salary: 5000, Ownership: 15, Projection: 10},
	}
	sess, err := slate.NewSession(inputs, priors.Empty())
	require.NoError(t, err)

	sim := types.SimSummary{Mean: 10, P10: 4, P90: 20, BoomProb: 0.30, BeatSite: 0.50, HasSite: true}
	for _, p := range sess.Players {
		s := sim
		p.Sim = &s
	}

	Enrich(sess)

	asher, _ := sess.PlayerByID(types.PlayerID("DAL", types.WR, "Asher"))
	zeke, _ := sess.PlayerByID(types.PlayerID("DAL", types.WR, "Zeke"))
	assert.Greater(t, asher.BoomScore, zeke.BoomScore)
}

func TestEnrichIdempotent(t *testing.T) {
	sess := enrichedSession(t)
	Enrich(sess)

	first := map[string]float64{}
	for _, p := range sess.Players {
		first[p.ID] = p.BoomScore
	}

	Enrich(sess)
	for _, p := range sess.Players {
		assert.Equal(t, first[p.ID], p.BoomScore, p.Name)
	}
}

func TestValueRating(t *testing.T) {
	sess := enrichedSession(t)
	Enrich(sess)

	alpha, _ := sess.PlayerByID(types.PlayerID("DAL", types.WR, "Alpha"))
	assert.InDelta(t, 18.5/8.5, alpha.ValueRating, 1e-9)
}

func TestCalibrate(t *testing.T) {
	sess := enrichedSession(t)
	Enrich(sess)

	report := Calibrate(sess)
	require.Equal(t, 5, report.Overall.N)
	assert.Greater(t, report.Overall.Correlation, 0.9)
	assert.Less(t, report.Overall.MAE, 2.0)
	assert.Equal(t, 1.0, report.Overall.Coverage)
	assert.Equal(t, 4, report.ByPosition["WR"].N)
}

func TestCalibrateSkipsFallbacks(t *testing.T) {
	sess := enrichedSession(t)
	for _, p := range sess.Players {
		p.UsedFallback = true
	}
	report := Calibrate(sess)
	assert.Zero(t, report.Overall.N)
	assert.Zero(t, report.Overall.MAE)
}
