package swings

import (
	"context"
	"time"

	"github.com/golfcoachpro/backend/internal/server/models"
)

// Repository is the durable store for swing records. It replaces an earlier
// in-process registry so that any API instance can serve any swing.
type Repository interface {
	Create(ctx context.Context, swing *models.Swing) (*models.Swing, error)
	GetByID(ctx context.Context, id int64) (*models.Swing, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// SetAnalysis records the worker's verdict: final status plus the
	// analysis notes merged into the metadata document.
	SetAnalysis(ctx context.Context, id int64, status string, notes string) error
	CountByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error)
}
