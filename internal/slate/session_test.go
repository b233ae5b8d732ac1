package slate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

func validInputs() []PlayerInput {
	return []PlayerInput{
		{Name: "QB A", Team: "KC", Opponent: "LAC", Position: "QB", Salary: 7000, Ownership: 20, Projection: 22, GameTotal: 47},
		{Name: "WR A", Team: "KC", Opponent: "LAC", Position: "WR", Salary: 6000, Ownership: 15, Projection: 15, GameTotal: 47},
		{Name: "WR B", Team: "LAC", Opponent: "KC", Position: "WR", Salary: 5000, Ownership: 8, Projection: 12, GameTotal: 47},
		{Name: "QB B", Team: "SF", Opponent: "SEA", Position: "QB", Salary: 6500, Ownership: 10, Projection: 19},
	}
}

func TestNewSessionBuildsGames(t *testing.T) {
	sess, err := NewSession(validInputs(), priors.Empty())
	require.NoError(t, err)

	assert.Len(t, sess.Players, 4)
	require.Len(t, sess.Games, 2)

	g := sess.Games[types.GameKey("KC", "LAC")]
	require.NotNil(t, g)
	assert.Equal(t, 47.0, g.Total)
	assert.False(t, g.Shootout)
}

func TestNewSessionReportsAllProblems(t *testing.T) {
	bad := []PlayerInput{
		{Name: "", Team: "KC", Opponent: "LAC", Position: "QB", Salary: 7000},
		{Name: "No Salary", Team: "KC", Opponent: "LAC", Position: "WR"},
		{Name: "Bad Pos", Team: "KC", Opponent: "LAC", Position: "K", Salary: 4000},
	}
	_, err := NewSession(bad, priors.Empty())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
	assert.Contains(t, err.Error(), "missing salary")
	assert.Contains(t, err.Error(), `invalid position "K"`)
}

func TestNewSessionRejectsDuplicates(t *testing.T) {
	dup := []PlayerInput{
		{Name: "Same Guy", Team: "KC", Opponent: "LAC", Position: "WR", Salary: 5000},
		{Name: "same  guy", Team: "KC", Opponent: "LAC", Position: "WR", Salary: 5100},
	}
	_, err := NewSession(dup, priors.Empty())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewSessionRejectsEmptyPool(t *testing.T) {
	_, err := NewSession(nil, priors.Empty())
	assert.Error(t, err)
}

func TestDefaultsApplied(t *testing.T) {
	inputs := []PlayerInput{
		{Name: "No Total", Team: "SF", Opponent: "SEA", Position: "QB", Salary: 6000, Ownership: 130},
	}
	sess, err := NewSession(inputs, priors.Empty())
	require.NoError(t, err)

	p := sess.Players[0]
	assert.Equal(t, priors.LeagueAvgTotal, p.GameTotal)
	assert.Equal(t, 100.0, p.Ownership)
}

func TestShootoutFlag(t *testing.T) {
	inputs := []PlayerInput{
		{Name: "Hot QB", Team: "KC", Opponent: "LAC", Position: "QB", Salary: 7000, GameTotal: 54},
	}
	sess, err := NewSession(inputs, priors.Empty())
	require.NoError(t, err)
	assert.True(t, sess.Games[types.GameKey("KC", "LAC")].Shootout)
}

func TestMatchupRatingNeutralWithoutPriors(t *testing.T) {
	sess, err := NewSession(validInputs(), priors.Empty())
	require.NoError(t, err)
	for _, p := range sess.Players {
		assert.Equal(t, 50.0, p.MatchupRating, p.Name)
	}
}

func TestMatchupRatingTracksDefense(t *testing.T) {
	store := priors.NewStaticStore(map[string]priors.TeamPrior{
		"LAC": {Team: "LAC", PlaysPerGame: 63, PassRate: 0.58, OffEfficiency: 1.0, DefEfficiency: 1.10},
		"SEA": {Team: "SEA", PlaysPerGame: 63, PassRate: 0.58, OffEfficiency: 1.0, DefEfficiency: 0.90},
	}, nil)

	inputs := []PlayerInput{
		{Name: "Soft Matchup", Team: "KC", Opponent: "LAC", Position: "QB", Salary: 7000},
		{Name: "Tough Matchup", Team: "SF", Opponent: "SEA", Position: "QB", Salary: 7000},
	}
	sess, err := NewSession(inputs, store)
	require.NoError(t, err)

	soft, _ := sess.PlayerByID(types.PlayerID("KC", types.QB, "Soft Matchup"))
	tough, _ := sess.PlayerByID(types.PlayerID("SF", types.QB, "Tough Matchup"))
	assert.Greater(t, soft.MatchupRating, 50.0)
	assert.Less(t, tough.MatchupRating, 50.0)
}

func TestDefensiveMultiplierBounds(t *testing.T) {
	assert.Equal(t, 1.0, DefensiveMultiplier(50))
	assert.Equal(t, 1.3, DefensiveMultiplier(100))
	assert.Equal(t, 0.7, DefensiveMultiplier(0))
	assert.Equal(t, 1.3, DefensiveMultiplier(500))
}

func TestAnalyzeReport(t *testing.T) {
	sess, err := NewSession(validInputs(), priors.Empty())
	require.NoError(t, err)

	for _, p := range sess.Players {
		p.BoomScore = 80
		p.LeverageScore = p.BoomScore / p.Ownership
		p.HighLeverage = p.LeverageScore > 10
		p.DartThrow = p.Ownership <= 5 && p.BoomScore >= 70
	}

	r := sess.Analyze()
	assert.Equal(t, 4, r.PlayerCount)
	assert.Equal(t, 2, r.GameCount)
	assert.InDelta(t, (20.0+15+8+10)/4, r.AvgOwnership, 1e-9)
	assert.Empty(t, r.ShootoutGames)
}
