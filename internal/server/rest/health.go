package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) healthDB(c *gin.Context) {
	if err := s.deps.DBPing(c.Request.Context()); err != nil {
		s.logger.Error(c.Request.Context(), "db health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "component": "database"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "component": "database"})
}

func (s *Server) healthRedis(c *gin.Context) {
	if err := s.deps.RedisPing(c.Request.Context()); err != nil {
		s.logger.Error(c.Request.Context(), "redis health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "component": "redis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "component": "redis"})
}

// healthFull reports each component without failing the request; the body
// carries per-component state for dashboards.
func (s *Server) healthFull(c *gin.Context) {
	ctx := c.Request.Context()

	components := gin.H{"database": "ok", "redis": "ok"}
	status := "ok"

	if err := s.deps.DBPing(ctx); err != nil {
		components["database"] = "unhealthy"
		status = "degraded"
	}
	if err := s.deps.RedisPing(ctx); err != nil {
		components["redis"] = "unhealthy"
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "components": components})
}
