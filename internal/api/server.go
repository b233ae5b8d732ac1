// Package api exposes the engine over HTTP. Handlers stay thin: parse,
// call into the engine packages, shape the response.
package api

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/gpp-engine/internal/portfolio"
	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/internal/scoring"
	"github.com/gridironlabs/gpp-engine/internal/slate"
	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/cache"
	"github.com/gridironlabs/gpp-engine/pkg/config"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

// summaryCache is the slice of pkg/cache the handlers touch.
type summaryCache interface {
	Get(ctx context.Context, key string) (map[string]*types.SimSummary, error)
	Set(ctx context.Context, key string, summaries map[string]*types.SimSummary) error
}

// Server owns the active session and its derived artifacts. One slate
// is active at a time; uploading a new one replaces everything built
// from the old one.
type Server struct {
	mu sync.RWMutex

	cfg   *config.Config
	cache summaryCache
	store priors.Store
	rules scoring.Rules
	log   *logrus.Entry

	session   *slate.Session
	simulated bool
	portfolio *portfolio.Portfolio
	ranked    []*types.Lineup
}

// NewServer wires the HTTP layer.
func NewServer(cfg *config.Config, store priors.Store, c *cache.SummaryCache) *Server {
	return &Server{
		cfg:   cfg,
		cache: c,
		store: store,
		rules: scoring.DraftKings(),
		log:   logger.WithComponent("api"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	api := r.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/slate", s.handleUploadSlate)
		api.POST("/simulate", s.handleSimulate)
		api.GET("/analyze", s.handleAnalyze)
		api.GET("/calibration", s.handleCalibration)
		api.GET("/stacks/:qb", s.handleStacks)
		api.POST("/build", s.handleBuild)
		api.POST("/portfolio", s.handlePortfolio)
		api.GET("/export", s.handleExport)
		api.GET("/export/summary", s.handleExportSummary)
	}
	return r
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Debug("request handled")
	}
}
