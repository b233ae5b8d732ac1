package lineup

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/stacks"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

const (
	// minFillSalary is reserved per unfilled slot when sizing a
	// candidate's affordable salary.
	minFillSalary = 3000
	candidatePool = 10
	pickWindow    = 3
	anchorWindow  = 3
)

// Builder assembles lineups for one session. The rng only breaks ties
// among top candidates, so builds vary across attempts while a fixed
// seed keeps a portfolio reproducible.
type Builder struct {
	session *slate.Session
	eval    *stacks.Evaluator
	rng     *rand.Rand
	log     *logrus.Entry
}

func NewBuilder(s *slate.Session, seed int64) *Builder {
	return &Builder{
		session: s,
		eval:    stacks.NewEvaluator(s),
		rng:     rand.New(rand.NewSource(uint64(seed))),
		log:     logger.WithComponent("lineup").WithField("slate_id", s.ID),
	}
}

// Build assembles one lineup. blocked lets the caller veto players
// (exposure caps); pass nil for no vetoes. An unfillable pool yields an
// incomplete, invalid lineup rather than an error.
func (b *Builder) Build(strategy Strategy, blocked func(*types.Player) bool) *types.Lineup {
	if blocked == nil {
		blocked = func(*types.Player) bool { return false }
	}

	l := &types.Lineup{
		ID:       fmt.Sprintf("lineup_%s", uuid.New().String()[:8]),
		Strategy: string(strategy),
		Slots:    make([]*types.Player, types.RosterSize),
	}

	if stack := b.selectPrimaryStack(strategy, blocked); stack != nil {
		l.Stack = stack
		for _, id := range stack.PlayerIDs {
			if p, ok := b.session.PlayerByID(id); ok && !blocked(p) {
				b.place(l, p)
			}
		}
	}

	for _, pos := range fillPriority(strategy) {
		for b.openSlots(l, pos) > 0 {
			c := b.pickCandidate(l, pos, strategy, blocked)
			if c == nil {
				break
			}
			if !b.place(l, c) {
				break
			}
		}
	}

	b.finalize(l)
	return l
}

// selectPrimaryStack picks the anchor QB per strategy and takes the
// best stack of the strategy's preferred shape.
func (b *Builder) selectPrimaryStack(strategy Strategy, blocked func(*types.Player) bool) *types.Stack {
	qbs := b.anchorQBs(strategy, blocked)
	if len(qbs) == 0 {
		return nil
	}
	qb := qbs[b.rng.Intn(minInt(anchorWindow, len(qbs)))]

	set, err := b.eval.FindStacks(qb)
	if err != nil {
		return nil
	}

	var order [][]types.Stack
	switch strategy {
	case Leverage:
		order = [][]types.Stack{set.Leverage, set.Double, set.Skinny}
	case Contrarian:
		order = [][]types.Stack{set.Game, set.Double, set.Skinny}
	case StarsScrubs:
		order = [][]types.Stack{set.Skinny, set.Double}
	default:
		order = [][]types.Stack{set.Double, set.Game, set.Skinny}
	}
	for _, list := range order {
		if len(list) > 0 {
			s := list[0]
			return &s
		}
	}
	return nil
}

func (b *Builder) anchorQBs(strategy Strategy, blocked func(*types.Player) bool) []*types.Player {
	var pool []*types.Player
	for _, qb := range b.session.PlayersByPosition(types.QB) {
		if blocked(qb) {
			continue
		}
		switch strategy {
		case Leverage:
			if qb.Ownership >= leverageQBOwnMax {
				continue
			}
		case Contrarian:
			if qb.Ownership >= contrarianQBOwnMax || qb.MatchupRating <= contrarianMatchMin {
				continue
			}
		}
		pool = append(pool, qb)
	}
	// a too-strict filter falls back to the full QB pool
	if len(pool) == 0 {
		for _, qb := range b.session.PlayersByPosition(types.QB) {
			if !blocked(qb) {
				pool = append(pool, qb)
			}
		}
	}
	sortByBoom(pool)
	return pool
}

// pickCandidate gathers affordable, unblocked players for the slot,
// orders them by the strategy's metric, and picks from the top of that
// list.
func (b *Builder) pickCandidate(l *types.Lineup, pos types.Position, strategy Strategy, blocked func(*types.Player) bool) *types.Player {
	open := b.totalOpen(l)
	budget := types.SalaryCap - l.SalaryUsed() - b.reserveFor(l, pos, blocked)

	var pool []*types.Player
	for _, p := range b.session.Players {
		if !eligible(p.Position, pos) || l.Contains(p.ID) || blocked(p) {
			continue
		}
		if p.Salary > budget {
			continue
		}
		if strategy == Contrarian && p.Ownership > contrarianOwnMax {
			continue
		}
		pool = append(pool, p)
	}
	if len(pool) == 0 && strategy == Contrarian {
		// contrarian ownership cap can empty a slot, retry unfiltered
		for _, p := range b.session.Players {
			if eligible(p.Position, pos) && !l.Contains(p.ID) && !blocked(p) && p.Salary <= budget {
				pool = append(pool, p)
			}
		}
	}
	if len(pool) == 0 {
		return nil
	}

	switch strategy {
	case Leverage, Contrarian:
		sort.Slice(pool, func(i, j int) bool {
			if pool[i].LeverageScore != pool[j].LeverageScore {
				return pool[i].LeverageScore > pool[j].LeverageScore
			}
			return pool[i].ID < pool[j].ID
		})
	case StarsScrubs:
		rich := budget/maxInt(open, 1) > 6000
		sort.Slice(pool, func(i, j int) bool {
			if pool[i].Salary != pool[j].Salary {
				if rich {
					return pool[i].Salary > pool[j].Salary
				}
				return pool[i].Salary < pool[j].Salary
			}
			return pool[i].ID < pool[j].ID
		})
	default:
		sortByBoom(pool)
	}

	if len(pool) > candidatePool {
		pool = pool[:candidatePool]
	}
	return pool[b.rng.Intn(minInt(pickWindow, len(pool)))]
}

func sortByBoom(pool []*types.Player) {
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].BoomScore != pool[j].BoomScore {
			return pool[i].BoomScore > pool[j].BoomScore
		}
		return pool[i].ID < pool[j].ID
	})
}

// reserveFor prices the cheapest completion of every other open slot,
// so the current pick can never spend the roster into a dead end. Each
// reserved player is claimed once.
func (b *Builder) reserveFor(l *types.Lineup, filling types.Position, blocked func(*types.Player) bool) int {
	claimed := map[string]bool{}
	for _, p := range l.Players() {
		claimed[p.ID] = true
	}

	reserve := 0
	skipped := false
	for i, slot := range types.SlotOrder {
		if l.Slots[i] != nil {
			continue
		}
		if slot == filling && !skipped {
			skipped = true
			continue
		}
		cheapest := 0
		cheapestID := ""
		for _, p := range b.session.Players {
			if claimed[p.ID] || blocked(p) || !eligible(p.Position, slot) {
				continue
			}
			if cheapestID == "" || p.Salary < cheapest {
				cheapest, cheapestID = p.Salary, p.ID
			}
		}
		if cheapestID == "" {
			reserve += minFillSalary
			continue
		}
		claimed[cheapestID] = true
		reserve += cheapest
	}
	return reserve
}

// slot eligibility: a position fills its own slots, FLEX takes any
// flex-eligible position.
func eligible(have types.Position, want types.Position) bool {
	if want == types.FLEX {
		return have.FlexEligible()
	}
	return have == want
}

// place puts the player in their first open slot, spilling flex-eligible
// positions into FLEX when their dedicated slots are taken.
func (b *Builder) place(l *types.Lineup, p *types.Player) bool {
	if l.Contains(p.ID) || p.Salary+l.SalaryUsed() > types.SalaryCap {
		return false
	}
	for i, slot := range types.SlotOrder {
		if l.Slots[i] != nil {
			continue
		}
		if slot == p.Position || (slot == types.FLEX && p.Position.FlexEligible()) {
			l.Slots[i] = p
			return true
		}
	}
	return false
}

// openSlots counts unfilled slots the position could occupy, excluding
// FLEX unless asked for directly.
func (b *Builder) openSlots(l *types.Lineup, pos types.Position) int {
	n := 0
	for i, slot := range types.SlotOrder {
		if l.Slots[i] == nil && slot == pos {
			n++
		}
	}
	return n
}

func (b *Builder) totalOpen(l *types.Lineup) int {
	n := 0
	for _, p := range l.Slots {
		if p == nil {
			n++
		}
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
