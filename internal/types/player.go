package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Position is a DraftKings roster position.
type Position string

const (
	QB   Position = "QB"
	RB   Position = "RB"
	WR   Position = "WR"
	TE   Position = "TE"
	DST  Position = "DST"
	FLEX Position = "FLEX"
)

// FlexEligible reports whether the position may occupy the FLEX slot.
func (p Position) FlexEligible() bool {
	return p == RB || p == WR || p == TE
}

// RosterRequirements maps each slot to the number of players it needs.
// FLEX accepts RB, WR or TE.
var RosterRequirements = map[Position]int{
	QB:   1,
	RB:   2,
	WR:   3,
	TE:   1,
	FLEX: 1,
	DST:  1,
}

// SlotOrder is the DraftKings classic upload column order. Exports and
// lineup display depend on this ordering, so it never changes.
var SlotOrder = []Position{QB, RB, RB, WR, WR, WR, TE, FLEX, DST}

const (
	SalaryCap     = 50000
	MinSalaryUsed = 49500
	RosterSize    = 9
)

// Player is a slate entry enriched in place as the pipeline runs:
// simulation attaches Sim, the metrics layer fills the score fields.
type Player struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Team           string   `json:"team"`
	Opponent       string   `json:"opponent"`
	Position       Position `json:"position"`
	Salary         int      `json:"salary"`
	Ownership      float64  `json:"ownership"`
	SiteProjection float64  `json:"site_projection"`
	GameTotal      float64  `json:"game_total"`
	Spread         float64  `json:"spread"`

	Sim *SimSummary `json:"sim,omitempty"`

	BoomScore     float64 `json:"boom_score"`
	LeverageScore float64 `json:"leverage_score"`
	ValueRating   float64 `json:"value_rating"`
	MatchupRating float64 `json:"matchup_rating"`
	DartThrow     bool    `json:"dart_throw"`
	HighLeverage  bool    `json:"high_leverage"`
	UsedFallback  bool    `json:"used_fallback"`
}

// GameKey returns the canonical key for the player's game, with the two
// teams sorted so both sides of a matchup map to the same game.
func (p *Player) GameKey() string {
	return GameKey(p.Team, p.Opponent)
}

// GameKey builds the canonical "AWAY@HOME"-style key with teams sorted
// alphabetically.
func GameKey(team, opponent string) string {
	a, b := strings.ToUpper(team), strings.ToUpper(opponent)
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s@%s", a, b)
}

// PlayerID derives the stable identifier for a player. The same
// (team, position, name) triple always yields the same ID regardless of
// name formatting, so re-uploaded slates keep their prior bindings.
func PlayerID(team string, position Position, name string) string {
	return fmt.Sprintf("%s_%s_%s",
		strings.ToLower(strings.TrimSpace(team)),
		strings.ToLower(string(position)),
		normalizeName(name))
}

func normalizeName(name string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSep = false
		case !lastSep:
			b.WriteRune('_')
			lastSep = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Game is a matchup shared by two teams. Every player on either team
// samples from the same per-trial environment.
type Game struct {
	Key      string  `json:"key"`
	Home     string  `json:"home"`
	Away     string  `json:"away"`
	Total    float64 `json:"total"`
	Spread   float64 `json:"spread"`
	Shootout bool    `json:"shootout"`
}

// SimSummary holds the per-player aggregates kept after a simulation
// run. Raw draws are discarded once these are computed.
type SimSummary struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	P10        float64 `json:"p10"`
	P25        float64 `json:"p25"`
	P50        float64 `json:"p50"`
	P75        float64 `json:"p75"`
	P90        float64 `json:"p90"`
	P95        float64 `json:"p95"`
	BoomProb   float64 `json:"boom_prob"`
	BeatSite   float64 `json:"beat_site_prob"`
	HasSite    bool    `json:"has_site_projection"`
	Trials     int     `json:"trials"`
	Fallback   bool    `json:"fallback_model"`
}

// Ceiling is the score used by ceiling-driven selection and ranking.
func (s *SimSummary) Ceiling() float64 {
	if s == nil {
		return 0
	}
	return s.P90
}
