package slate

import (
	"fmt"
	"sort"

	"github.com/gridironlabs/gpp-engine/internal/types"
)

// PlayerEdge is a single callout in the edge report.
type PlayerEdge struct {
	Name      string  `json:"name"`
	Team      string  `json:"team"`
	Position  string  `json:"position"`
	Salary    int     `json:"salary"`
	Ownership float64 `json:"ownership"`
	Boom      float64 `json:"boom_score"`
	Leverage  float64 `json:"leverage_score"`
	Note      string  `json:"note,omitempty"`
}

// EdgeReport summarizes where the tournament edge sits on a slate.
type EdgeReport struct {
	SlateID        string       `json:"slate_id"`
	PlayerCount    int          `json:"player_count"`
	GameCount      int          `json:"game_count"`
	AvgOwnership   float64      `json:"avg_ownership"`
	ChalkCount     int          `json:"chalk_count"`
	ShootoutGames  []string     `json:"shootout_games"`
	LeveragePlays  []PlayerEdge `json:"leverage_plays"`
	DartThrows     []PlayerEdge `json:"dart_throws"`
	BadChalk       []PlayerEdge `json:"bad_chalk"`
}

// Analyze builds the edge report. It expects the session to be enriched
// (simulation summaries and metric scores attached); unenriched pools
// still produce a structurally valid report from ownership alone.
func (s *Session) Analyze() *EdgeReport {
	r := &EdgeReport{
		SlateID:     s.ID,
		PlayerCount: len(s.Players),
		GameCount:   len(s.Games),
	}

	var ownSum float64
	for _, p := range s.Players {
		ownSum += p.Ownership
		if p.Ownership > 20 {
			r.ChalkCount++
		}
	}
	if len(s.Players) > 0 {
		r.AvgOwnership = ownSum / float64(len(s.Players))
	}

	for _, key := range s.SortedGameKeys() {
		g := s.Games[key]
		if g.Shootout {
			r.ShootoutGames = append(r.ShootoutGames,
				fmt.Sprintf("%s (%.1f)", g.Key, g.Total))
		}
	}

	r.LeveragePlays = s.topEdges(func(p *types.Player) bool {
		return p.HighLeverage
	}, byLeverage, 10)

	r.DartThrows = s.topEdges(func(p *types.Player) bool {
		return p.DartThrow
	}, byBoom, 10)

	r.BadChalk = s.topEdges(func(p *types.Player) bool {
		return p.Ownership > 20 && p.BoomScore < 40
	}, byOwnership, 5)
	for i := range r.BadChalk {
		r.BadChalk[i].Note = "ownership outruns ceiling"
	}

	return r
}

func byLeverage(a, b *types.Player) bool  { return a.LeverageScore > b.LeverageScore }
func byBoom(a, b *types.Player) bool      { return a.BoomScore > b.BoomScore }
func byOwnership(a, b *types.Player) bool { return a.Ownership > b.Ownership }

func (s *Session) topEdges(keep func(*types.Player) bool, less func(a, b *types.Player) bool, limit int) []PlayerEdge {
	var picked []*types.Player
	for _, p := range s.Players {
		if keep(p) {
			picked = append(picked, p)
		}
	}
	sort.Slice(picked, func(i, j int) bool {
		if less(picked[i], picked[j]) != less(picked[j], picked[i]) {
			return less(picked[i], picked[j])
		}
		return picked[i].ID < picked[j].ID
	})
	if len(picked) > limit {
		picked = picked[:limit]
	}
	out := make([]PlayerEdge, len(picked))
	for i, p := range picked {
		out[i] = PlayerEdge{
			Name:      p.Name,
			Team:      p.Team,
			Position:  string(p.Position),
			Salary:    p.Salary,
			Ownership: p.Ownership,
			Boom:      p.BoomScore,
			Leverage:  p.LeverageScore,
		}
	}
	return out
}
