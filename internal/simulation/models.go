package simulation

import (
	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
)

// simulatePlayer produces the trial vector for one player. Players
// without usable priors drop to the fallback projection model; the
// second return reports that.
func (e *Engine) simulatePlayer(p *types.Player, own, opp *teamEnv, game *types.Game) ([]float64, bool) {
	if p.Position == types.DST {
		return e.dstDraws(p, opp, game), false
	}

	prior, ok := e.session.Store.PlayerPrior(p.ID)
	if !ok || !hasUsage(p.Position, prior) {
		return e.fallbackDraws(p)
	}

	defMult := slate.DefensiveMultiplier(p.MatchupRating)

	switch p.Position {
	case types.QB:
		return e.qbDraws(p, prior, own, defMult), false
	default:
		return e.skillDraws(p, prior, own, defMult), false
	}
}

func hasUsage(pos types.Position, prior priors.PlayerPrior) bool {
	if pos == types.QB {
		return prior.PassAttempts > 0 && prior.PassYPA > 0
	}
	return prior.Targets > 0 || prior.RushAttempts > 0
}

// qbDraws samples a passing line plus scrambles per trial. Attempt
// volume tracks the shared pace and pass-rate environment; per-attempt
// efficiency tracks the shared team shock, so a QB spike trial lifts
// his pass catchers through the same vectors.
func (e *Engine) qbDraws(p *types.Player, prior priors.PlayerPrior, env *teamEnv, defMult float64) []float64 {
	n := e.cfg.Trials
	draws := make([]float64, n)

	ypaNoise := e.normal(0, e.cfg.EffRelSD*prior.PassYPA)
	ypcNoise := e.normal(0, e.cfg.EffRelSD*maxF(prior.RushYPC, 1))

	for i := 0; i < n; i++ {
		shock := env.shock(types.QB, i) * defMult

		attempts := int(e.poisson(prior.PassAttempts * env.paceFactor[i] * env.passFactor[i]))
		ypa := maxF(prior.PassYPA*shock+ypaNoise.Rand(), 0)
		passYds := float64(attempts) * ypa
		passTD := int(e.binomial(attempts, clampProb(prior.PassTDRate*shock)))
		ints := int(e.binomial(attempts, clampProb(prior.IntRate)))

		pts := e.rules.PassingPoints(passYds, passTD, ints)

		if prior.RushAttempts > 0 {
			carries := int(e.poisson(prior.RushAttempts * env.paceFactor[i]))
			ypc := maxF(prior.RushYPC*shock+ypcNoise.Rand(), 0)
			rushTD := int(e.binomial(carries, clampProb(prior.RushTDRate)))
			pts += e.rules.RushingPoints(float64(carries)*ypc, rushTD)
		}

		draws[i] = maxF(pts, 0)
	}
	return draws
}

// skillDraws samples a touch-based line for RB, WR and TE. Target
// volume follows pace and pass rate; carry volume follows pace and the
// complementary run rate.
func (e *Engine) skillDraws(p *types.Player, prior priors.PlayerPrior, env *teamEnv, defMult float64) []float64 {
	n := e.cfg.Trials
	draws := make([]float64, n)

	yptNoise := e.normal(0, e.cfg.EffRelSD*maxF(prior.YardsPerTarget, 1))
	ypcNoise := e.normal(0, e.cfg.EffRelSD*maxF(prior.RushYPC, 1))

	for i := 0; i < n; i++ {
		shock := env.shock(p.Position, i) * defMult
		var pts float64

		if prior.Targets > 0 {
			targets := int(e.poisson(prior.Targets * env.paceFactor[i] * env.passFactor[i]))
			recs := int(e.binomial(targets, clampProb(prior.CatchRate)))
			ypt := maxF(prior.YardsPerTarget*shock+yptNoise.Rand(), 0)
			recTD := int(e.binomial(recs, clampProb(prior.RecTDRate)))
			pts += e.rules.ReceivingPoints(float64(targets)*ypt, recs, recTD)
		}

		if prior.RushAttempts > 0 {
			carries := int(e.poisson(prior.RushAttempts * env.paceFactor[i] * env.runFactor[i]))
			ypc := maxF(prior.RushYPC*shock+ypcNoise.Rand(), 0)
			rushTD := int(e.binomial(carries, clampProb(prior.RushTDRate)))
			pts += e.rules.RushingPoints(float64(carries)*ypc, rushTD)
		}

		draws[i] = maxF(pts, 0)
	}
	return draws
}

// dstDraws samples takeaways and points allowed against the opposing
// offense. A weak opposing offense raises event rates and lowers the
// points-allowed center.
func (e *Engine) dstDraws(p *types.Player, opp *teamEnv, game *types.Game) []float64 {
	n := e.cfg.Trials
	draws := make([]float64, n)

	paNoise := e.normal(0, 7)

	for i := 0; i < n; i++ {
		offFactor := clampF(opp.prior.OffEfficiency*opp.overall[i], 0.5, 2.0)
		pressure := 1 / offFactor

		sacks := int(e.poisson(2.5 * pressure))
		ints := int(e.poisson(0.9 * pressure))
		fumbles := int(e.poisson(0.5 * pressure))
		tds := int(e.binomial(ints+fumbles, 0.12))

		allowed := maxF(game.Total/2*offFactor+paNoise.Rand(), 0)

		draws[i] = maxF(e.rules.DSTPoints(sacks, ints, fumbles, tds, allowed), 0)
	}
	return draws
}

// fallbackDraws is the projection-anchored normal model used when no
// prior supports a structural model. A missing projection yields a zero
// vector, which downstream layers surface rather than hide.
func (e *Engine) fallbackDraws(p *types.Player) ([]float64, bool) {
	draws := make([]float64, e.cfg.Trials)
	if p.SiteProjection <= 0 {
		e.log.WithField("player", p.Name).
			Warn("no prior and no site projection, simulating zeros")
		return draws, true
	}
	dist := e.normal(p.SiteProjection, e.cfg.FallbackRelSD*p.SiteProjection)
	for i := range draws {
		draws[i] = maxF(dist.Rand(), 0)
	}
	return draws, true
}

func clampProb(p float64) float64 {
	return clampF(p, 0, 1)
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
