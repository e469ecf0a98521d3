package rest

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/golfcoachpro/backend/internal/server/auth"
	"github.com/golfcoachpro/backend/internal/server/models"
	"github.com/golfcoachpro/backend/internal/server/services"
)

// registerValidators installs custom validators on gin's binding engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return auth.CheckPasswordPolicy(fl.Field().String()) == nil
	})
}

// --- requests ---

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpassword"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type profileRequest struct {
	DateOfBirth         *string  `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	HeightCm            *int     `json:"height_cm" binding:"omitempty,gte=50,lte=300"`
	WeightKg            *int     `json:"weight_kg" binding:"omitempty,gte=20,lte=300"`
	DominantHand        *string  `json:"dominant_hand" binding:"omitempty,oneof=left right"`
	PrimaryMiss         *string  `json:"primary_miss" binding:"omitempty,max=50"`
	Goals               []string `json:"goals" binding:"omitempty,dive,max=255"`
	PhysicalLimitations []string `json:"physical_limitations" binding:"omitempty,dive,max=255"`
}

type updateUserRequest struct {
	FullName *string         `json:"full_name" binding:"omitempty,min=1,max=255"`
	Handicap *float64        `json:"handicap" binding:"omitempty,gte=0,lte=54"`
	Profile  *profileRequest `json:"profile"`
}

func (r *updateUserRequest) toUpdate() services.UserUpdate {
	update := services.UserUpdate{FullName: r.FullName, Handicap: r.Handicap}
	if r.Profile == nil {
		return update
	}

	p := &services.ProfileUpdate{
		HeightCm:            r.Profile.HeightCm,
		WeightKg:            r.Profile.WeightKg,
		DominantHand:        r.Profile.DominantHand,
		PrimaryMiss:         r.Profile.PrimaryMiss,
		Goals:               r.Profile.Goals,
		PhysicalLimitations: r.Profile.PhysicalLimitations,
	}
	if r.Profile.DateOfBirth != nil {
		// Format already checked by the datetime binding rule.
		dob, err := time.Parse("2006-01-02", *r.Profile.DateOfBirth)
		if err == nil {
			p.DateOfBirth = &dob
		}
	}
	update.Profile = p
	return update
}

// --- responses ---

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type userResponse struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Handicap  *float64         `json:"handicap,omitempty"`
	Profile   *profileResponse `json:"profile,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type profileResponse struct {
	DateOfBirth         *string  `json:"date_of_birth,omitempty"`
	HeightCm            *int     `json:"height_cm,omitempty"`
	WeightKg            *int     `json:"weight_kg,omitempty"`
	DominantHand        *string  `json:"dominant_hand,omitempty"`
	PrimaryMiss         *string  `json:"primary_miss,omitempty"`
	Goals               []string `json:"goals"`
	PhysicalLimitations []string `json:"physical_limitations"`
}

type authResponse struct {
	User userResponse `json:"user"`
	tokenResponse
}

type statsResponse struct {
	UserID           int64   `json:"user_id"`
	Period           string  `json:"period"`
	SwingsAnalyzed   int64   `json:"swings_analyzed"`
	AverageScore     float64 `json:"average_score"`
	ImprovementTrend string  `json:"improvement_trend"`
}

type swingResponse struct {
	ID            int64                `json:"id"`
	UserID        int64                `json:"user_id"`
	Status        string               `json:"status"`
	ClubType      *string              `json:"club_type,omitempty"`
	IntendedShape *string              `json:"intended_shape,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Metadata      models.SwingMetadata `json:"metadata"`
	VideoURL      string               `json:"video_url,omitempty"`
	ThumbnailURL  *string              `json:"thumbnail_url,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func toUserResponse(user *models.User, profile *models.UserProfile) userResponse {
	resp := userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Handicap:  user.Handicap,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if profile != nil {
		p := &profileResponse{
			HeightCm:            profile.HeightCm,
			WeightKg:            profile.WeightKg,
			DominantHand:        profile.DominantHand,
			PrimaryMiss:         profile.PrimaryMiss,
			Goals:               profile.Goals,
			PhysicalLimitations: profile.PhysicalLimitations,
		}
		if profile.DateOfBirth != nil {
			dob := profile.DateOfBirth.Format("2006-01-02")
			p.DateOfBirth = &dob
		}
		if p.Goals == nil {
			p.Goals = []string{}
		}
		if p.PhysicalLimitations == nil {
			p.PhysicalLimitations = []string{}
		}
		resp.Profile = p
	}
	return resp
}

func toTokenResponse(pair *auth.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

func toSwingResponse(swing *models.Swing) swingResponse {
	return swingResponse{
		ID:            swing.ID,
		UserID:        swing.UserID,
		Status:        swing.Status,
		ClubType:      swing.ClubType,
		IntendedShape: swing.IntendedShape,
		Notes:         swing.Notes,
		Metadata:      swing.Metadata,
		CreatedAt:     swing.CreatedAt,
		UpdatedAt:     swing.UpdatedAt,
	}
}
