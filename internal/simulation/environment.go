package simulation

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// teamEnv holds one team's per-trial environment and shock vectors.
// Every player on the team indexes into the same vectors, which is what
// makes teammate outcomes move together within a trial.
type teamEnv struct {
	team  string
	prior priors.TeamPrior

	// usage scaling relative to the team's prior baseline
	paceFactor []float64
	passFactor []float64
	runFactor  []float64

	// shared efficiency shocks, centered on 1.0
	overall  []float64
	posShock map[types.Position][]float64
}

var shockedPositions = []types.Position{types.QB, types.RB, types.WR, types.TE}

// buildTeamEnv samples the team's environment vectors for every trial.
// Pace scales with the game's implied total relative to league average
// and is perturbed per trial; pass rate gets a smaller perturbation and
// stays within realistic bounds.
func (e *Engine) buildTeamEnv(team string, game *types.Game) *teamEnv {
	prior, ok := e.session.Store.TeamPrior(team)
	if !ok {
		prior = priors.DefaultTeamPrior(team)
	}

	n := e.cfg.Trials
	env := &teamEnv{
		team:       team,
		prior:      prior,
		paceFactor: make([]float64, n),
		passFactor: make([]float64, n),
		runFactor:  make([]float64, n),
		overall:    make([]float64, n),
		posShock:   make(map[types.Position][]float64, len(shockedPositions)),
	}

	totalScale := game.Total / priors.LeagueAvgTotal
	envNoise := e.normal(0, e.cfg.EnvNoiseSD)
	passNoise := e.normal(0, e.cfg.EnvNoiseSD/2)

	for i := 0; i < n; i++ {
		env.paceFactor[i] = clampF(totalScale*(1+envNoise.Rand()), 0.5, 1.8)

		passRate := clampF(prior.PassRate*(1+passNoise.Rand()), 0.35, 0.75)
		env.passFactor[i] = passRate / prior.PassRate
		env.runFactor[i] = (1 - passRate) / (1 - prior.PassRate)
	}

	teamShock := e.normal(0, e.cfg.TeamShockSD)
	for i := 0; i < n; i++ {
		env.overall[i] = clampF(1+teamShock.Rand(), 0.2, 2.5)
	}

	posNoise := e.normal(0, e.cfg.PosShockSD)
	for _, pos := range shockedPositions {
		v := make([]float64, n)
		for i := 0; i < n; i++ {
			v[i] = clampF(1+posNoise.Rand(), 0.2, 2.5)
		}
		env.posShock[pos] = v
	}

	return env
}

// shock returns the combined team and positional shock for a trial.
func (t *teamEnv) shock(pos types.Position, trial int) float64 {
	s := t.overall[trial]
	if v, ok := t.posShock[pos]; ok {
		s *= v[trial]
	}
	return s
}

func (e *Engine) normal(mu, sigma float64) distuv.Normal {
	if sigma <= 0 {
		sigma = 1e-9
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: e.rng}
}

func (e *Engine) poisson(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda, Src: e.rng}.Rand()
}

func (e *Engine) binomial(n int, p float64) float64 {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return float64(n)
	}
	return distuv.Binomial{N: float64(n), P: p, Src: e.rng}.Rand()
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
