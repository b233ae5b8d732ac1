// Package slate turns raw player pool uploads into a validated session:
// canonical player IDs, derived games, and matchup ratings. A Session is
// the unit of work every downstream stage operates on.
package slate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

// PlayerInput is one row of an uploaded player pool.
type PlayerInput struct {
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	Opponent   string  `json:"opponent"`
	Position   string  `json:"position"`
	Salary     int     `json:"salary"`
	Ownership  float64 `json:"ownership"`
	Projection float64 `json:"projection"`
	GameTotal  float64 `json:"game_total"`
	Spread     float64 `json:"spread"`
}

var validPositions = map[types.Position]bool{
	types.QB: true, types.RB: true, types.WR: true,
	types.TE: true, types.DST: true,
}

// Session is a validated slate bound to its prior tables. All engine
// state hangs off a Session; nothing is process-global, so concurrent
// slates never interfere.
type Session struct {
	ID      string
	Players []*types.Player
	Games   map[string]*types.Game
	Store   priors.Store

	byID map[string]*types.Player
	log  *logrus.Entry
}

// NewSession validates the uploaded pool and builds the session.
// Validation failures are collected and reported together so a bad
// upload surfaces every problem at once.
func NewSession(inputs []PlayerInput, store priors.Store) (*Session, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("empty player pool")
	}
	if store == nil {
		store = priors.Empty()
	}

	s := &Session{
		ID:    uuid.New().String()[:8],
		Games: make(map[string]*types.Game),
		Store: store,
		byID:  make(map[string]*types.Player, len(inputs)),
	}
	s.log = logger.WithComponent("slate").WithField("slate_id", s.ID)

	var problems []string
	for i, in := range inputs {
		p, errs := buildPlayer(in)
		if len(errs) > 0 {
			problems = append(problems, fmt.Sprintf("row %d (%s): %s",
				i+1, in.Name, strings.Join(errs, ", ")))
			continue
		}
		if _, dup := s.byID[p.ID]; dup {
			problems = append(problems, fmt.Sprintf("row %d: duplicate player %s", i+1, p.ID))
			continue
		}
		s.byID[p.ID] = p
		s.Players = append(s.Players, p)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid player pool: %s", strings.Join(problems, "; "))
	}

	s.deriveGames()
	s.rateMatchups()

	s.log.WithFields(logrus.Fields{
		"players": len(s.Players),
		"games":   len(s.Games),
	}).Info("slate session created")
	return s, nil
}

func buildPlayer(in PlayerInput) (*types.Player, []string) {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "missing name")
	}
	if strings.TrimSpace(in.Team) == "" {
		errs = append(errs, "missing team")
	}
	if strings.TrimSpace(in.Opponent) == "" {
		errs = append(errs, "missing opponent")
	}
	pos := types.Position(strings.ToUpper(strings.TrimSpace(in.Position)))
	if !validPositions[pos] {
		errs = append(errs, fmt.Sprintf("invalid position %q", in.Position))
	}
	if in.Salary <= 0 {
		errs = append(errs, "missing salary")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	team := strings.ToUpper(strings.TrimSpace(in.Team))
	opp := strings.ToUpper(strings.TrimSpace(in.Opponent))

	own := in.Ownership
	if own < 0 {
		own = 0
	}
	if own > 100 {
		own = 100
	}
	total := in.GameTotal
	if total <= 0 {
		total = priors.LeagueAvgTotal
	}

	return &types.Player{
		ID:             types.PlayerID(team, pos, in.Name),
		Name:           strings.TrimSpace(in.Name),
		Team:           team,
		Opponent:       opp,
		Position:       pos,
		Salary:         in.Salary,
		Ownership:      own,
		SiteProjection: in.Projection,
		GameTotal:      total,
		Spread:         in.Spread,
	}, nil
}

// deriveGames groups the pool into matchups. The first player seen for
// a matchup defines its total and spread; later disagreements are
// logged, not fatal.
func (s *Session) deriveGames() {
	for _, p := range s.Players {
		key := p.GameKey()
		g, ok := s.Games[key]
		if !ok {
			s.Games[key] = &types.Game{
				Key:      key,
				Home:     p.Team,
				Away:     p.Opponent,
				Total:    p.GameTotal,
				Spread:   p.Spread,
				Shootout: p.GameTotal > 50,
			}
			continue
		}
		if p.GameTotal != g.Total {
			s.log.WithFields(logrus.Fields{
				"game":     key,
				"existing": g.Total,
				"player":   p.Name,
				"reported": p.GameTotal,
			}).Warn("conflicting game total, keeping first value")
		}
	}
}

// positionImpact weights how much opposing defense quality moves a
// position's output.
var positionImpact = map[types.Position]float64{
	types.QB:  0.25,
	types.RB:  0.30,
	types.WR:  0.20,
	types.TE:  0.15,
	types.DST: 1.00,
}

// rateMatchups assigns every player a 0-100 matchup rating, 50 neutral.
// Offensive players rate against the opponent's defensive efficiency;
// a DST rates against the opponent's offense, inverted.
func (s *Session) rateMatchups() {
	for _, p := range s.Players {
		p.MatchupRating = s.matchupRating(p)
	}
}

func (s *Session) matchupRating(p *types.Player) float64 {
	opp, ok := s.Store.TeamPrior(p.Opponent)
	if !ok {
		return 50
	}
	impact := positionImpact[p.Position]
	var edge float64
	if p.Position == types.DST {
		edge = 1.0 - opp.OffEfficiency
	} else {
		edge = opp.DefEfficiency - 1.0
	}
	return clamp(50+edge*500*impact, 0, 100)
}

// DefensiveMultiplier converts a matchup rating into the efficiency
// multiplier applied during simulation, bounded to [0.7, 1.3].
func DefensiveMultiplier(rating float64) float64 {
	return clamp(1.0+(rating-50)/50*0.3, 0.7, 1.3)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PlayerByID looks up a player by canonical ID.
func (s *Session) PlayerByID(id string) (*types.Player, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// PlayersByPosition returns the pool at a position, sorted by ID for
// deterministic iteration.
func (s *Session) PlayersByPosition(pos types.Position) []*types.Player {
	var out []*types.Player
	for _, p := range s.Players {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Teammates returns the skill players (non-QB, non-DST) on a team.
func (s *Session) Teammates(team string) []*types.Player {
	var out []*types.Player
	for _, p := range s.Players {
		if p.Team == team && p.Position != types.QB && p.Position != types.DST {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedGameKeys returns game keys in stable order.
func (s *Session) SortedGameKeys() []string {
	keys := make([]string, 0, len(s.Games))
	for k := range s.Games {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TeamPlayers returns every rostered player on a team sorted by ID.
func (s *Session) TeamPlayers(team string) []*types.Player {
	var out []*types.Player
	for _, p := range s.Players {
		if p.Team == team {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
