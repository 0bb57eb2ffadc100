package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fraudlab/fraudsim/internal/domain/result"
	"github.com/fraudlab/fraudsim/internal/domain/scenario"
	"github.com/fraudlab/fraudsim/internal/ratelimit"
	"github.com/fraudlab/fraudsim/internal/services/scheduler"
)

// Server is the thin operator-facing control surface over the scheduler
// core. The full admin console lives elsewhere; this only exposes run-state
// control and read access to scenarios and their results.
type Server struct {
	log       *zap.Logger
	sched     *scheduler.Scheduler
	scenarios scenario.Repo
	results   result.Repo
	limiter   *ratelimit.Limiter
	health    func(context.Context) error
}

func NewServer(
	log *zap.Logger,
	sched *scheduler.Scheduler,
	scenarios scenario.Repo,
	results result.Repo,
	limiter *ratelimit.Limiter,
	health func(context.Context) error,
) *Server {
	return &Server{
		log:       log,
		sched:     sched,
		scenarios: scenarios,
		results:   results,
		limiter:   limiter,
		health:    health,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthz)

	v1 := r.Group("/v1")
	v1.GET("/scheduler", s.schedulerStatus)
	v1.POST("/scheduler/start", RateLimit(s.limiter), s.schedulerStart)
	v1.POST("/scheduler/stop", RateLimit(s.limiter), s.schedulerStop)
	v1.GET("/scenarios", s.listScenarios)
	v1.GET("/scenarios/:id/results", s.listResults)

	return r
}

// Bootstrap starts the control API server in the background.
func (s *Server) Bootstrap(addr string) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	go func() {
		s.log.Info("control api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("control api server error", zap.Error(err))
		}
	}()
	return srv
}
