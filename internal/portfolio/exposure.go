package portfolio

import (
	"sort"

	"github.com/gridironlabs/gpp-engine/internal/lineup"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// ExposureManager tracks how often each player and team appears as a
// portfolio grows, and answers whether another appearance would breach
// the caps. Chalk (ownership above the high-owned threshold) gets a
// looser cap than the field.
type ExposureManager struct {
	chalkCap float64
	baseCap  float64

	playerCounts map[string]int
	teamCounts   map[string]int
	total        int
}

func NewExposureManager(chalkCap, baseCap float64) *ExposureManager {
	return &ExposureManager{
		chalkCap:     chalkCap,
		baseCap:      baseCap,
		playerCounts: make(map[string]int),
		teamCounts:   make(map[string]int),
	}
}

// CanAdd reports whether the player fits under their cap if the next
// lineup includes them.
func (em *ExposureManager) CanAdd(p *types.Player) bool {
	cap := em.baseCap
	if p.Ownership > lineup.HighOwnedThreshold {
		cap = em.chalkCap
	}
	return float64(em.playerCounts[p.ID]) < cap*float64(em.total+1)
}

// Commit records a completed lineup's players.
func (em *ExposureManager) Commit(l *types.Lineup) {
	for _, p := range l.Players() {
		em.playerCounts[p.ID]++
		em.teamCounts[p.Team]++
	}
	em.total++
}

// Exposure reports a player's current exposure fraction.
func (em *ExposureManager) Exposure(playerID string) float64 {
	if em.total == 0 {
		return 0
	}
	return float64(em.playerCounts[playerID]) / float64(em.total)
}

// PlayerExposure is one row of the exposure report.
type PlayerExposure struct {
	PlayerID string  `json:"player_id"`
	Count    int     `json:"count"`
	Exposure float64 `json:"exposure"`
}

// Report lists player exposures, highest first.
func (em *ExposureManager) Report() []PlayerExposure {
	out := make([]PlayerExposure, 0, len(em.playerCounts))
	for id, count := range em.playerCounts {
		out = append(out, PlayerExposure{
			PlayerID: id,
			Count:    count,
			Exposure: em.Exposure(id),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
