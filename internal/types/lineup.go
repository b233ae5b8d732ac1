package types

// StackType identifies the construction pattern of a correlated stack.
type StackType string

const (
	DoubleStack   StackType = "double_stack"
	GameStack     StackType = "game_stack"
	SkinnyStack   StackType = "skinny_stack"
	LeverageStack StackType = "leverage_stack"
)

// Stack is a QB-anchored group of correlated players with its
// correlation-adjusted score and ownership footprint.
type Stack struct {
	Type           StackType `json:"type"`
	QB             string    `json:"qb"`
	Players        []string  `json:"players"`
	PlayerIDs      []string  `json:"player_ids"`
	Score          float64   `json:"score"`
	TotalOwnership float64   `json:"total_ownership"`
	MaxOwnership   float64   `json:"max_ownership"`
	TotalSalary    int       `json:"total_salary"`
	AvgLeverage    float64   `json:"avg_leverage"`
	GameTotal      float64   `json:"game_total"`
}

// LineupStats is the aggregate profile computed once a lineup is full.
type LineupStats struct {
	SalaryUsed       int     `json:"salary_used"`
	SalaryRemaining  int     `json:"salary_remaining"`
	TotalOwnership   float64 `json:"total_ownership"`
	MaxOwnership     float64 `json:"max_ownership"`
	AvgOwnership     float64 `json:"avg_ownership"`
	HighOwnedCount   int     `json:"high_owned_count"`
	LowOwnedCount    int     `json:"low_owned_count"`
	DartThrowCount   int     `json:"dart_throw_count"`
	ProjectedPoints  float64 `json:"projected_points"`
	ProjectedCeiling float64 `json:"projected_ceiling"`
	AvgLeverage      float64 `json:"avg_leverage"`
	AvgMatchup       float64 `json:"avg_matchup"`
	StackCorrelation float64 `json:"stack_correlation"`
	HasQBStack       bool    `json:"has_qb_stack"`
}

// RankScore is attached by the win-probability ranker.
type RankScore struct {
	Total         float64            `json:"total"`
	Components    map[string]float64 `json:"components"`
	Rank          int                `json:"rank"`
	WinPercentile float64            `json:"win_percentile"`
}

// Lineup is a full 9-slot roster. Slots follows SlotOrder exactly, so
// Slots[i] fills SlotOrder[i].
type Lineup struct {
	ID       string     `json:"id"`
	Strategy string     `json:"strategy"`
	Slots    []*Player  `json:"slots"`
	Stack    *Stack     `json:"stack,omitempty"`
	Stats    LineupStats `json:"stats"`
	Valid    bool       `json:"valid"`
	Failed   []string   `json:"failed_checks,omitempty"`
	Rank     *RankScore `json:"rank,omitempty"`
}

// Contains reports whether the lineup already rosters the player.
func (l *Lineup) Contains(id string) bool {
	for _, p := range l.Slots {
		if p != nil && p.ID == id {
			return true
		}
	}
	return false
}

// Players returns the non-nil rostered players in slot order.
func (l *Lineup) Players() []*Player {
	out := make([]*Player, 0, len(l.Slots))
	for _, p := range l.Slots {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Complete reports whether all nine slots are filled.
func (l *Lineup) Complete() bool {
	if len(l.Slots) != RosterSize {
		return false
	}
	for _, p := range l.Slots {
		if p == nil {
			return false
		}
	}
	return true
}

// SharedPlayers counts players rostered by both lineups. Portfolio
// diversity rejects pairs sharing more than the overlap cap.
func (l *Lineup) SharedPlayers(other *Lineup) int {
	seen := make(map[string]struct{}, RosterSize)
	for _, p := range l.Players() {
		seen[p.ID] = struct{}{}
	}
	shared := 0
	for _, p := range other.Players() {
		if _, ok := seen[p.ID]; ok {
			shared++
		}
	}
	return shared
}

// SalaryUsed totals the rostered salaries.
func (l *Lineup) SalaryUsed() int {
	total := 0
	for _, p := range l.Players() {
		total += p.Salary
	}
	return total
}
