// Package services contains the server-side business logic. This file
// implements UserService: account registration, login, token refresh,
// logout, and profile management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golfcoachpro/backend/internal/common"
	"github.com/golfcoachpro/backend/internal/dbx"
	"github.com/golfcoachpro/backend/internal/logging"
	"github.com/golfcoachpro/backend/internal/server/auth"
	"github.com/golfcoachpro/backend/internal/server/models"
	"github.com/golfcoachpro/backend/internal/server/repositories/repomanager"
	"github.com/golfcoachpro/backend/internal/server/revocation"
)

// AccessTokenResult is the payload of a successful refresh: a new access
// token only, the refresh token itself is not rotated.
type AccessTokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// UserUpdate carries a partial account update; nil fields are left as-is.
type UserUpdate struct {
	FullName *string
	Handicap *float64
	Profile  *ProfileUpdate
}

// ProfileUpdate carries a partial profile update; nil fields are left as-is.
type ProfileUpdate struct {
	DateOfBirth         *time.Time
	HeightCm            *int
	WeightKg            *int
	DominantHand        *string
	PrimaryMiss         *string
	Goals               []string
	PhysicalLimitations []string
}

// UserStats aggregates a user's activity over a period.
type UserStats struct {
	UserID           int64
	Period           string
	SwingsAnalyzed   int64
	AverageScore     float64
	ImprovementTrend string
}

// UserService orchestrates the session lifecycle over the credential store,
// the token issuer and the revocation ledger.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	hasher      *auth.PasswordHasher
	ledger      *revocation.Ledger
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer,
	hasher *auth.PasswordHasher, ledger *revocation.Ledger, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		hasher:      hasher,
		ledger:      ledger,
		logger:      logger.With("module", "user_service"),
	}
}

// Register creates an account with a freshly hashed password and issues the
// first token pair. Email uniqueness is enforced by the storage layer: a
// race between two identical registrations yields one success and one
// common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*models.User, *auth.TokenPair, error) {
	if err := auth.CheckPasswordPolicy(password); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, FullName: fullName}

	// User row and empty profile land in one transaction.
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		created, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		return repo.CreateProfile(ctx, user.ID)
	}); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, nil, common.ErrorConflict
		}
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password produce the same error so account existence is not
// revealed.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *auth.TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login failed: unknown email")
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "login failed: wrong password", "user_id", user.ID)
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

// Refresh validates a refresh token and mints a new access token. All
// failure causes collapse to common.ErrorUnauthorized; the specific cause
// goes to the logs only.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AccessTokenResult, error) {
	claims, err := s.issuer.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		s.logger.Info(ctx, "refresh rejected", "cause", err.Error())
		return nil, common.ErrorUnauthorized
	}

	revoked, err := s.ledger.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if revoked {
		s.logger.Info(ctx, "refresh rejected", "cause", common.ErrTokenRevoked.Error())
		return nil, common.ErrorUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		s.logger.Info(ctx, "refresh rejected", "cause", "non-numeric subject")
		return nil, common.ErrorUnauthorized
	}

	// The subject must still exist: deleting an account invalidates its
	// outstanding refresh tokens.
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "refresh rejected", "cause", "subject deleted", "user_id", userID)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	access, err := s.issuer.Issue(userID, auth.TokenKindAccess, s.issuer.AccessTTL())
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AccessTokenResult{
		AccessToken: access,
		TokenType:   auth.TokenType,
		ExpiresIn:   int64(s.issuer.AccessTTL().Seconds()),
	}, nil
}

// Logout revokes the refresh token unconditionally, whether or not it is
// still valid. The ledger entry lives only as long as the token would have.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	ttl, ok := s.issuer.RemainingLifetime(refreshToken)
	if !ok {
		// Unreadable expiry: keep the entry for the full refresh lifetime.
		ttl = s.issuer.RefreshTTL()
	}

	if err := s.ledger.Revoke(ctx, refreshToken, ttl); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// GetByID loads the user and its profile. A missing profile row is not an
// error; the profile comes back nil.
func (s *UserService) GetByID(ctx context.Context, userID int64) (*models.User, *models.UserProfile, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	profile, err := repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, common.ErrorInternal
	}

	return user, profile, nil
}

// Update applies a partial update to the account and, when present, its
// profile.
func (s *UserService) Update(ctx context.Context, userID int64, update UserUpdate) (*models.User, *models.UserProfile, error) {
	user, profile, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Handicap != nil {
		user.Handicap = update.Handicap
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Update(ctx, user)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	if update.Profile != nil {
		if profile == nil {
			if err := repo.CreateProfile(ctx, userID); err != nil {
				return nil, nil, common.ErrorInternal
			}
			profile = &models.UserProfile{UserID: userID}
		}
		applyProfileUpdate(profile, update.Profile)

		profile, err = repo.UpdateProfile(ctx, profile)
		if err != nil {
			return nil, nil, common.ErrorInternal
		}
	}

	return user, profile, nil
}

// Delete removes the account; the profile and swings cascade at the
// storage layer.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user deleted", "user_id", userID)
	return nil
}

// Stats aggregates swing activity for the given period (week, month, year
// or all).
func (s *UserService) Stats(ctx context.Context, userID int64, period string) (*UserStats, error) {
	since, err := periodStart(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	count, err := s.repomanager.Swings(s.db).CountByUserSince(ctx, userID, since)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &UserStats{
		UserID:           userID,
		Period:           period,
		SwingsAnalyzed:   count,
		ImprovementTrend: "stable",
	}, nil
}

func applyProfileUpdate(profile *models.UserProfile, update *ProfileUpdate) {
	if update.DateOfBirth != nil {
		profile.DateOfBirth = update.DateOfBirth
	}
	if update.HeightCm != nil {
		profile.HeightCm = update.HeightCm
	}
	if update.WeightKg != nil {
		profile.WeightKg = update.WeightKg
	}
	if update.DominantHand != nil {
		profile.DominantHand = update.DominantHand
	}
	if update.PrimaryMiss != nil {
		profile.PrimaryMiss = update.PrimaryMiss
	}
	if update.Goals != nil {
		profile.Goals = update.Goals
	}
	if update.PhysicalLimitations != nil {
		profile.PhysicalLimitations = update.PhysicalLimitations
	}
}

func periodStart(period string) (time.Time, error) {
	now := time.Now()
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	case "all":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("invalid period %q, must be one of: week, month, year, all", period)
	}
}
