package swings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golfcoachpro/backend/internal/common"
	"github.com/golfcoachpro/backend/internal/dbx"
	"github.com/golfcoachpro/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, swing *models.Swing) (*models.Swing, error) {
	metadata, err := json.Marshal(swing.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}

	query :=
		`INSERT INTO swings (user_id, club_type, intended_shape, notes, video_key, status, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, recorded_at, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		swing.UserID, swing.ClubType, swing.IntendedShape, swing.Notes,
		swing.VideoKey, swing.Status, metadata).
		Scan(&swing.ID, &swing.RecordedAt, &swing.CreatedAt, &swing.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return swing, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Swing, error) {
	query :=
		`SELECT id, user_id, recorded_at, club_type, intended_shape, notes,
		        video_key, thumbnail_key, duration_ms, status, metadata,
		        created_at, updated_at
		 FROM swings
		 WHERE id = $1
		 `

	s := &models.Swing{}
	var metadata []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.RecordedAt, &s.ClubType, &s.IntendedShape, &s.Notes,
		&s.VideoKey, &s.ThumbnailKey, &s.DurationMs, &s.Status, &metadata,
		&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(metadata, &s.Metadata); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE swings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetAnalysis(ctx context.Context, id int64, status string, notes string) error {
	query :=
		`UPDATE swings
		 SET status = $2,
		     metadata = metadata || jsonb_build_object('analysis_notes', $3::text),
		     updated_at = NOW()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, status, notes)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByUserSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM swings
		 WHERE user_id = $1 AND recorded_at >= $2
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
