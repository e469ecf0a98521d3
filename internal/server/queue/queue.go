// Package queue moves swing-analysis tasks between the API and the worker
// over Kafka.
package queue

import (
	"context"
	"time"
)

// AnalysisTask is the message published for each swing to analyze.
type AnalysisTask struct {
	SwingID    int64     `json:"swing_id"`
	UserID     int64     `json:"user_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Publisher enqueues analysis tasks.
type Publisher interface {
	PublishAnalysis(ctx context.Context, task AnalysisTask) error
}
