// Package rest exposes the HTTP API: session endpoints, user and profile
// management, swing uploads and health checks.
package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/golfcoachpro/backend/internal/logging"
	"github.com/golfcoachpro/backend/internal/server/auth"
	"github.com/golfcoachpro/backend/internal/server/models"
	"github.com/golfcoachpro/backend/internal/server/services"
)

// userService is the slice of the user service the handlers need.
type userService interface {
	Register(ctx context.Context, email, password, fullName string) (*models.User, *auth.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AccessTokenResult, error)
	Logout(ctx context.Context, refreshToken string) error
	GetByID(ctx context.Context, userID int64) (*models.User, *models.UserProfile, error)
	Update(ctx context.Context, userID int64, update services.UserUpdate) (*models.User, *models.UserProfile, error)
	Delete(ctx context.Context, userID int64) error
	Stats(ctx context.Context, userID int64, period string) (*services.UserStats, error)
}

// swingService is the slice of the swing service the handlers need.
type swingService interface {
	Upload(ctx context.Context, userID int64, upload services.SwingUpload) (*models.Swing, error)
	Get(ctx context.Context, userID, swingID int64) (*services.SwingDetail, error)
	Analyze(ctx context.Context, userID, swingID int64) (*models.Swing, error)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	SubjectUserID(tokenString string) (int64, error)
}

// Deps bundles everything the HTTP layer talks to.
type Deps struct {
	Users          userService
	Swings         swingService
	Verifier       TokenVerifier
	DBPing         func(ctx context.Context) error
	RedisPing      func(ctx context.Context) error
	MaxUploadBytes int64
}

// Server is the HTTP server backed by gin.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	deps       Deps
	logger     logging.Logger
}

// NewServer builds the engine, registers validators and routes.
func NewServer(addr string, deps Deps, logger logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	// Multipart bodies above this spill to disk instead of RAM.
	engine.MaxMultipartMemory = 8 << 20

	registerValidators()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		engine: engine,
		deps:   deps,
		logger: logger.With("module", "rest"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/health/db", s.healthDB)
	s.engine.GET("/health/redis", s.healthRedis)
	s.engine.GET("/health/full", s.healthFull)

	api := s.engine.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.POST("/refresh", s.refresh)
	authGroup.POST("/logout", s.logout)

	authed := api.Group("", requireAuth(s.deps.Verifier))

	users := authed.Group("/users")
	users.GET("/me", s.currentUser)
	users.PATCH("/me", s.updateCurrentUser)
	users.DELETE("/me", s.deleteCurrentUser)
	users.GET("/:id/stats", s.userStats)

	swings := authed.Group("/swings")
	swings.POST("/upload", s.uploadSwing)
	swings.GET("/:id", s.getSwing)
	swings.POST("/:id/analyze", s.analyzeSwing)
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a
// goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error(ctx, "http server error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.httpServer.Addr)
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info(ctx, "http server stopped")
	return nil
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
