package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/golfcoachpro/backend/internal/common"
)

func (s *Server) currentUser(c *gin.Context) {
	user, profile, err := s.deps.Users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user, profile))
}

func (s *Server) updateCurrentUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, profile, err := s.deps.Users.Update(c.Request.Context(), currentUserID(c), req.toUpdate())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user, profile))
}

func (s *Server) deleteCurrentUser(c *gin.Context) {
	if err := s.deps.Users.Delete(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// userStats serves only the caller's own stats; other ids are forbidden
// rather than hidden, since user ids are not secret.
func (s *Server) userStats(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, common.ErrorNotFound)
		return
	}
	if targetID != currentUserID(c) {
		respondError(c, common.ErrorForbidden)
		return
	}

	period := c.DefaultQuery("period", "month")

	stats, err := s.deps.Users.Stats(c.Request.Context(), targetID, period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		UserID:           stats.UserID,
		Period:           stats.Period,
		SwingsAnalyzed:   stats.SwingsAnalyzed,
		AverageScore:     stats.AverageScore,
		ImprovementTrend: stats.ImprovementTrend,
	})
}
