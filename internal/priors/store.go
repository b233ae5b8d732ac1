// Package priors serves the statistical baselines the simulation
// samples from: team pace and pass-rate priors, per-player usage and
// efficiency rates, and the position boom thresholds.
package priors

import (
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// TeamPrior captures a team's offensive environment baseline.
// Efficiency is a multiplier around 1.0 relative to league average.
type TeamPrior struct {
	Team          string  `json:"team"`
	PlaysPerGame  float64 `json:"plays_per_game"`
	PassRate      float64 `json:"pass_rate"`
	OffEfficiency float64 `json:"off_efficiency"`
	DefEfficiency float64 `json:"def_efficiency"`
}

// PlayerPrior captures a player's per-game usage and per-touch
// efficiency rates. Only the fields relevant to the player's position
// are populated.
type PlayerPrior struct {
	PlayerID string `json:"player_id"`

	// Passing (QB)
	PassAttempts float64 `json:"pass_attempts"`
	PassYPA      float64 `json:"pass_ypa"`
	PassTDRate   float64 `json:"pass_td_rate"`
	IntRate      float64 `json:"int_rate"`

	// Rushing (QB scrambles use these too)
	RushAttempts float64 `json:"rush_attempts"`
	RushYPC      float64 `json:"rush_ypc"`
	RushTDRate   float64 `json:"rush_td_rate"`

	// Receiving
	Targets        float64 `json:"targets"`
	CatchRate      float64 `json:"catch_rate"`
	YardsPerTarget float64 `json:"yards_per_target"`
	RecTDRate      float64 `json:"rec_td_rate"`
}

// Store is the read-only view the simulation takes over prior tables.
type Store interface {
	TeamPrior(team string) (TeamPrior, bool)
	PlayerPrior(playerID string) (PlayerPrior, bool)
	BoomThreshold(pos types.Position) float64
}

// League-wide fallbacks applied when a team has no prior row.
const (
	LeagueAvgPlays    = 63.0
	LeagueAvgPassRate = 0.58
	LeagueAvgTotal    = 44.0
)

// DefaultBoomThresholds are the ceiling cut lines used when no
// boom_thresholds.json artifact is loaded.
var DefaultBoomThresholds = map[types.Position]float64{
	types.QB:  25,
	types.RB:  20,
	types.WR:  18,
	types.TE:  15,
	types.DST: 12,
}

// DefaultTeamPrior is the neutral environment for unknown teams.
func DefaultTeamPrior(team string) TeamPrior {
	return TeamPrior{
		Team:          team,
		PlaysPerGame:  LeagueAvgPlays,
		PassRate:      LeagueAvgPassRate,
		OffEfficiency: 1.0,
		DefEfficiency: 1.0,
	}
}

// StaticStore is an in-memory Store, used by tests and by slates built
// from request payloads rather than artifact files.
type StaticStore struct {
	Teams      map[string]TeamPrior
	Players    map[string]PlayerPrior
	Thresholds map[types.Position]float64
}

// NewStaticStore builds a StaticStore with boom threshold defaults
// filled in.
func NewStaticStore(teams map[string]TeamPrior, players map[string]PlayerPrior) *StaticStore {
	return &StaticStore{
		Teams:      teams,
		Players:    players,
		Thresholds: DefaultBoomThresholds,
	}
}

func (s *StaticStore) TeamPrior(team string) (TeamPrior, bool) {
	p, ok := s.Teams[team]
	return p, ok
}

func (s *StaticStore) PlayerPrior(playerID string) (PlayerPrior, bool) {
	p, ok := s.Players[playerID]
	return p, ok
}

func (s *StaticStore) BoomThreshold(pos types.Position) float64 {
	if t, ok := s.Thresholds[pos]; ok {
		return t
	}
	return DefaultBoomThresholds[pos]
}

// Empty returns a Store with no rows. Every player simulated against it
// uses the fallback projection model.
func Empty() *StaticStore {
	return NewStaticStore(map[string]TeamPrior{}, map[string]PlayerPrior{})
}
