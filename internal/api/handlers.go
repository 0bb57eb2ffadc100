package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
	defer cancel()
	if err := s.health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) schedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"running": s.sched.IsRunning()})
}

func (s *Server) schedulerStart(c *gin.Context) {
	s.sched.Start()
	c.JSON(http.StatusOK, gin.H{"running": true})
}

func (s *Server) schedulerStop(c *gin.Context) {
	s.sched.Stop()
	c.JSON(http.StatusOK, gin.H{"running": false})
}

func (s *Server) listScenarios(c *gin.Context) {
	list, err := s.scenarios.List(c.Request.Context())
	if err != nil {
		s.log.Warn("list scenarios", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list scenarios failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": list})
}

func (s *Server) listResults(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario id"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := s.results.ListByScenario(c.Request.Context(), id, limit)
	if err != nil {
		s.log.Warn("list results", zap.Int64("scenario_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list results failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": list})
}
