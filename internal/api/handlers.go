package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridironlabs/gpp-engine/internal/export"
	"github.com/gridironlabs/gpp-engine/internal/lineup"
	"github.com/gridironlabs/gpp-engine/internal/metrics"
	"github.com/gridironlabs/gpp-engine/internal/portfolio"
	"github.com/gridironlabs/gpp-engine/internal/ranker"
	"github.com/gridironlabs/gpp-engine/internal/simulation"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/stacks"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/cache"
)

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := gin.H{
		"status":        "ok",
		"slate_loaded":  s.session != nil,
		"simulated":     s.simulated,
		"has_portfolio": s.portfolio != nil,
	}
	if s.session != nil {
		status["slate_id"] = s.session.ID
		status["players"] = len(s.session.Players)
		status["games"] = len(s.session.Games)
	}
	c.JSON(http.StatusOK, status)
}

type uploadRequest struct {
	Players []slate.PlayerInput `json:"players" binding:"required"`
}

func (s *Server) handleUploadSlate(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	sess, err := slate.NewSession(req.Players, s.store)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.session = sess
	s.simulated = false
	s.portfolio = nil
	s.ranked = nil
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"slate_id": sess.ID,
		"players":  len(sess.Players),
		"games":    len(sess.Games),
	})
}

type simulateRequest struct {
	Trials int   `json:"trials"`
	Seed   int64 `json:"seed"`
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no slate loaded"})
		return
	}

	cfg := simulation.DefaultConfig()
	cfg.Trials = s.cfg.SimulationTrials
	if req.Trials > 0 {
		cfg.Trials = req.Trials
	}
	cfg.Seed = s.cfg.SimulationSeed
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	// A zero seed means the engine picks one from the clock, so the key
	// is unknowable up front. Unseeded runs skip the read and store
	// under the seed the engine actually used.
	if cfg.Seed != 0 {
		key := cache.Key(s.session.ID, cfg.Seed, cfg.Trials)
		if cached, err := s.cache.Get(c.Request.Context(), key); err == nil && cached != nil {
			for _, p := range s.session.Players {
				if sum, ok := cached[p.ID]; ok {
					p.Sim = sum
					p.UsedFallback = sum.Fallback
				}
			}
			metrics.Enrich(s.session)
			s.simulated = true
			c.JSON(http.StatusOK, gin.H{"slate_id": s.session.ID, "cached": true, "trials": cfg.Trials, "seed": cfg.Seed})
			return
		}
	}

	res, err := simulation.New(s.session, s.rules, cfg).Run()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	metrics.Enrich(s.session)
	s.simulated = true

	if err := s.cache.Set(c.Request.Context(), cache.Key(s.session.ID, res.Seed, res.Trials), res.Summaries); err != nil {
		s.log.WithError(err).Warn("failed to cache simulation summaries")
	}

	c.JSON(http.StatusOK, gin.H{
		"slate_id": s.session.ID,
		"cached":   false,
		"trials":   res.Trials,
		"seed":     res.Seed,
		"players":  len(res.Summaries),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no slate loaded"})
		return
	}
	c.JSON(http.StatusOK, s.session.Analyze())
}

func (s *Server) handleCalibration(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || !s.simulated {
		c.JSON(http.StatusConflict, gin.H{"error": "no simulated slate"})
		return
	}
	c.JSON(http.StatusOK, metrics.Calibrate(s.session))
}

func (s *Server) handleStacks(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no slate loaded"})
		return
	}

	set, err := stacks.NewEvaluator(s.session).FindStacksByName(c.Param("qb"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, set)
}

type buildRequest struct {
	Strategy string `json:"strategy"`
	Seed     int64  `json:"seed"`
}

func (s *Server) handleBuild(c *gin.Context) {
	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	strategy := lineup.Balanced
	if req.Strategy != "" {
		strategy = lineup.Strategy(req.Strategy)
		known := false
		for _, st := range lineup.Strategies {
			if st == strategy {
				known = true
				break
			}
		}
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown strategy %q", req.Strategy)})
			return
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || !s.simulated {
		c.JSON(http.StatusConflict, gin.H{"error": "simulate the slate before building a lineup"})
		return
	}

	l := lineup.NewBuilder(s.session, req.Seed).Build(strategy, nil)
	c.JSON(http.StatusOK, l)
}

type portfolioRequest struct {
	Size int   `json:"size"`
	Seed int64 `json:"seed"`
}

func (s *Server) handlePortfolio(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || !s.simulated {
		c.JSON(http.StatusConflict, gin.H{"error": "simulate the slate before building a portfolio"})
		return
	}

	cfg := portfolio.DefaultConfig(s.cfg.PortfolioSize)
	cfg.ChalkExposureCap = s.cfg.MaxChalkExposure
	cfg.BaseExposureCap = s.cfg.MaxBaseExposure
	cfg.MaxOverlap = s.cfg.MaxOverlap
	if req.Size > 0 {
		cfg.Size = req.Size
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	p, err := portfolio.Generate(s.session, cfg)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.portfolio = p
	s.ranked = s.rankerFor().Rank(p.Lineups)

	c.JSON(http.StatusOK, gin.H{
		"stats":    p.Stats,
		"exposure": p.Exposure,
		"lineups":  s.ranked,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	s.serveCSV(c, "lineups.csv", export.WriteLineups)
}

func (s *Server) handleExportSummary(c *gin.Context) {
	s.serveCSV(c, "lineup_summary.csv", export.WriteSummary)
}

func (s *Server) serveCSV(c *gin.Context, filename string, write func(w io.Writer, lineups []*types.Lineup) error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.portfolio == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no portfolio generated"})
		return
	}

	lineups := s.ranked
	if lineups == nil {
		lineups = s.portfolio.Lineups
	}

	var buf bytes.Buffer
	if err := write(&buf, lineups); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (s *Server) rankerFor() *ranker.Ranker {
	return ranker.New(ranker.DefaultWeights())
}
