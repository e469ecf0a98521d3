package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/golfcoachpro/backend/internal/common"
	"github.com/golfcoachpro/backend/internal/dbx"
	"github.com/golfcoachpro/backend/internal/server/models"
)

// pgUniqueViolation is the SQLSTATE class for unique-constraint failures.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, full_name, handicap)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Handicap).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, full_name, handicap, created_at, updated_at
		 FROM users
		 WHERE email = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, full_name, handicap, created_at, updated_at
		 FROM users
		 WHERE id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users
		 SET full_name = $2, handicap = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, user.ID, user.FullName, user.Handicap).
		Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id) VALUES ($1)`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query :=
		`SELECT id, user_id, date_of_birth, height_cm, weight_kg, dominant_hand,
		        primary_miss, goals, physical_limitations, created_at, updated_at
		 FROM user_profiles
		 WHERE user_id = $1
		 `

	p := &models.UserProfile{}
	var goals, limitations []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.DateOfBirth, &p.HeightCm, &p.WeightKg, &p.DominantHand,
		&p.PrimaryMiss, &goals, &limitations, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(goals, &p.Goals); err != nil {
		return nil, fmt.Errorf("decoding goals: %w", err)
	}
	if err := json.Unmarshal(limitations, &p.PhysicalLimitations); err != nil {
		return nil, fmt.Errorf("decoding physical_limitations: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	goals, err := json.Marshal(profile.Goals)
	if err != nil {
		return nil, fmt.Errorf("encoding goals: %w", err)
	}
	limitations, err := json.Marshal(profile.PhysicalLimitations)
	if err != nil {
		return nil, fmt.Errorf("encoding physical_limitations: %w", err)
	}

	query :=
		`UPDATE user_profiles
		 SET date_of_birth = $2, height_cm = $3, weight_kg = $4, dominant_hand = $5,
		     primary_miss = $6, goals = $7, physical_limitations = $8, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING id, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query, profile.UserID,
		profile.DateOfBirth, profile.HeightCm, profile.WeightKg, profile.DominantHand,
		profile.PrimaryMiss, goals, limitations).
		Scan(&profile.ID, &profile.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.Handicap, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
