package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/golfcoachpro/backend/internal/logging"
	"github.com/golfcoachpro/backend/internal/server/config"
	"github.com/golfcoachpro/backend/internal/server/queue"
	"github.com/golfcoachpro/backend/internal/server/repositories/repomanager"
	"github.com/golfcoachpro/backend/internal/server/services"
)

// Worker consumes analysis tasks from the queue and runs them against the
// swing service. It shares the schema with the HTTP server but never
// migrates it.
type Worker struct {
	logger   logging.Logger
	db       *sql.DB
	consumer *queue.Consumer
	swings   *services.SwingService
}

func NewWorker(cfg *config.Config) (*Worker, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	consumer := queue.NewConsumer(queue.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	}, logger)

	// The worker only updates swing rows; storage and the publisher are
	// not needed for the stub analyzer.
	swings := services.NewSwingService(db, rm, nil, nil, logger,
		cfg.VideoMaxSizeBytes(), cfg.VideoAllowedFormats)

	return &Worker{logger: logger, db: db, consumer: consumer, swings: swings}, nil
}

// Run consumes until the context is cancelled or a termination signal
// arrives.
func (w *Worker) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	w.logger.Info(ctx, "starting analysis worker")

	initSignalHandler(cancelFunc)

	err := w.consumer.Run(ctx, w.swings.ProcessAnalysis)

	if cerr := w.consumer.Close(); cerr != nil {
		w.logger.Error(ctx, "consumer close failed", "error", cerr.Error())
	}
	if derr := w.db.Close(); derr != nil {
		w.logger.Error(ctx, "db close failed", "error", derr.Error())
	}

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
