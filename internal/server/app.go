// Package server initializes and runs the application: it wires storage,
// the revocation ledger, the analysis queue and the HTTP API, and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/golfcoachpro/backend/internal/logging"
	"github.com/golfcoachpro/backend/internal/server/auth"
	"github.com/golfcoachpro/backend/internal/server/config"
	"github.com/golfcoachpro/backend/internal/server/queue"
	"github.com/golfcoachpro/backend/internal/server/repositories/repomanager"
	"github.com/golfcoachpro/backend/internal/server/rest"
	"github.com/golfcoachpro/backend/internal/server/revocation"
	"github.com/golfcoachpro/backend/internal/server/services"
	"github.com/golfcoachpro/backend/internal/server/storage"
)

// App is the HTTP server process.
type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	rdb        *redis.Client
	publisher  *queue.KafkaPublisher
	restServer *rest.Server
}

// NewApp wires all components from config. Migrations run here so the
// process fails fast on schema problems.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	issuer, err := auth.NewIssuer(cfg.SecretKey, cfg.JWTAlgorithm,
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer init: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ledger := revocation.NewLedger(rdb)

	store := storage.NewS3Store(storage.Config{
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})

	publisher := queue.NewKafkaPublisher(queue.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	}, logger)

	hasher := auth.NewPasswordHasher(0)

	userService := services.NewUserService(db, rm, issuer, hasher, ledger, logger)
	swingService := services.NewSwingService(db, rm, store, publisher, logger,
		cfg.VideoMaxSizeBytes(), cfg.VideoAllowedFormats)

	restServer := rest.NewServer(cfg.EndpointAddr, rest.Deps{
		Users:          userService,
		Swings:         swingService,
		Verifier:       issuer,
		DBPing:         db.PingContext,
		RedisPing:      ledger.Ping,
		MaxUploadBytes: cfg.VideoMaxSizeBytes(),
	}, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		rdb:        rdb,
		publisher:  publisher,
		restServer: restServer,
	}, nil
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until the context is cancelled or a termination signal
// arrives, then shuts everything down.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	initSignalHandler(cancelFunc)

	if err := app.restServer.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")

	shutdownCtx := context.Background()
	if err := app.restServer.Stop(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "rest server stop failed", "error", err.Error())
	}
	if err := app.publisher.Close(); err != nil {
		app.logger.Error(shutdownCtx, "kafka publisher close failed", "error", err.Error())
	}
	if err := app.rdb.Close(); err != nil {
		app.logger.Error(shutdownCtx, "redis close failed", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close failed", "error", err.Error())
	}

	return nil
}
