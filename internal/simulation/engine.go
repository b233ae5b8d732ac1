// Package simulation runs correlated Monte Carlo trials over a slate.
// Correlation comes from structure, not a copula: every player in a game
// samples against the same per-trial environment vectors, and every
// player on a team shares that team's per-trial shock vectors.
package simulation

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/gridironlabs/gpp-engine/internal/scoring"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

const maxTrials = 200000

// Config controls trial count, seeding, and the noise scales of the
// correlation structure.
type Config struct {
	Trials int   `json:"trials"`
	Seed   int64 `json:"seed"`

	// EnvNoiseSD perturbs per-trial pace and pass rate.
	EnvNoiseSD float64 `json:"env_noise_sd"`
	// TeamShockSD scales the shared per-team trial shock.
	TeamShockSD float64 `json:"team_shock_sd"`
	// PosShockSD scales the positional sub-shock within a team.
	PosShockSD float64 `json:"pos_shock_sd"`
	// EffRelSD is per-touch efficiency noise as a fraction of the prior.
	EffRelSD float64 `json:"eff_rel_sd"`
	// FallbackRelSD is the relative spread of the fallback normal model.
	FallbackRelSD float64 `json:"fallback_rel_sd"`
}

// DefaultConfig returns production noise scales with 10k trials.
func DefaultConfig() Config {
	return Config{
		Trials:        10000,
		Seed:          0,
		EnvNoiseSD:    0.08,
		TeamShockSD:   0.12,
		PosShockSD:    0.08,
		EffRelSD:      0.15,
		FallbackRelSD: 0.30,
	}
}

func (c Config) validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Trials > maxTrials {
		return fmt.Errorf("trials %d exceeds maximum %d", c.Trials, maxTrials)
	}
	return nil
}

// Engine is a single-use simulation bound to one session. A fresh
// Engine per run keeps the RNG stream reproducible from the seed.
type Engine struct {
	session *slate.Session
	rules   scoring.Rules
	cfg     Config
	rng     *rand.Rand
	log     *logrus.Entry
}

// New builds an Engine. A zero seed is replaced with the wall clock so
// unseeded runs differ; the effective seed is always logged.
func New(session *slate.Session, rules scoring.Rules, cfg Config) *Engine {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Engine{
		session: session,
		rules:   rules,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(uint64(cfg.Seed))),
		log:     logger.WithSimulation(session.ID, cfg.Trials, cfg.Seed),
	}
}

// Result carries the per-player summaries. Raw draws stay internal and
// are released with the Result.
type Result struct {
	Summaries map[string]*types.SimSummary
	Seed      int64
	Trials    int

	draws map[string][]float64
}

// PlayerDraws exposes a player's raw trial vector for diagnostics.
func (r *Result) PlayerDraws(id string) []float64 {
	return r.draws[id]
}

// Run executes the full trial loop and enriches every session player
// with its summary. Iteration is fully ordered (sorted games, sorted
// teams, sorted players) so a fixed seed reproduces every draw.
func (e *Engine) Run() (*Result, error) {
	if err := e.cfg.validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}
	start := time.Now()

	res := &Result{
		Summaries: make(map[string]*types.SimSummary, len(e.session.Players)),
		Seed:      e.cfg.Seed,
		Trials:    e.cfg.Trials,
		draws:     make(map[string][]float64, len(e.session.Players)),
	}

	simulated := make(map[string]bool, len(e.session.Players))
	fellBack := make(map[string]bool)

	for _, gameKey := range e.session.SortedGameKeys() {
		game := e.session.Games[gameKey]
		teams := []string{game.Home, game.Away}
		sort.Strings(teams)

		envs := make(map[string]*teamEnv, 2)
		for _, team := range teams {
			envs[team] = e.buildTeamEnv(team, game)
		}

		for _, team := range teams {
			for _, p := range e.session.TeamPlayers(team) {
				draws, fb := e.simulatePlayer(p, envs[team], envs[opponentOf(team, teams)], game)
				fellBack[p.ID] = fb
				res.draws[p.ID] = draws
				simulated[p.ID] = true
			}
		}
	}

	// Players whose opponent never made the pool still get draws.
	for _, p := range e.session.Players {
		if !simulated[p.ID] {
			draws, _ := e.fallbackDraws(p)
			res.draws[p.ID] = draws
			fellBack[p.ID] = true
		}
	}

	fallbacks := 0
	for _, p := range e.session.Players {
		p.UsedFallback = fellBack[p.ID]
		if p.UsedFallback {
			fallbacks++
		}
		summary := e.summarize(p, res.draws[p.ID])
		res.Summaries[p.ID] = summary
		p.Sim = summary
	}

	e.log.WithFields(logrus.Fields{
		"players":     len(res.Summaries),
		"fallbacks":   fallbacks,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("simulation complete")
	return res, nil
}

func opponentOf(team string, teams []string) string {
	if teams[0] == team {
		return teams[1]
	}
	return teams[0]
}
