// Package auth implements the credential primitives of the session
// lifecycle: signed access/refresh tokens and password hashing.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/golfcoachpro/backend/internal/common"
)

// TokenKind distinguishes the two token roles carried in the "type" claim.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenType is the scheme reported to clients alongside issued tokens.
const TokenType = "bearer"

// signingMethods is the closed set of accepted JWT algorithms.
var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// SigningMethod resolves an algorithm name against the allowed set.
func SigningMethod(name string) (jwt.SigningMethod, error) {
	m, ok := signingMethods[name]
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", name)
	}
	return m, nil
}

// Claims is the payload of both token kinds: subject is the stringified
// user id, TokenKind tells access and refresh tokens apart.
type Claims struct {
	jwt.RegisteredClaims
	TokenKind TokenKind `json:"type"`
}

// TokenPair is what register and login hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// Issuer mints and verifies signed tokens with a symmetric secret.
type Issuer struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an Issuer. The algorithm name must come from the
// enumerated HS* set; anything else is a startup error.
func NewIssuer(secret string, algorithm string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	method, err := SigningMethod(algorithm)
	if err != nil {
		return nil, err
	}
	return &Issuer{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue signs a token of the given kind for userID, expiring after ttl.
// The random jti makes every token unique even within one second; the
// revocation ledger keys on the raw token string, so two sessions must
// never share one.
func (i *Issuer) Issue(userID int64, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(i.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenKind: kind,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// IssuePair mints an access+refresh pair with the configured lifetimes.
// ExpiresIn reflects the access token's TTL in seconds.
func (i *Issuer) IssuePair(userID int64) (*TokenPair, error) {
	access, err := i.Issue(userID, TokenKindAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.Issue(userID, TokenKindRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenType,
		ExpiresIn:    int64(i.accessTTL.Seconds()),
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Verify validates signature and expiry and checks the "type" claim.
// The returned errors are for internal logging only; callers must surface
// every failure as the same unauthorized response.
func (i *Issuer) Verify(tokenString string, expected TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{i.method.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenKind != expected {
		return nil, common.ErrWrongTokenUse
	}

	return claims, nil
}

// SubjectUserID verifies tokenString as an access token and parses its
// subject as the user id.
func (i *Issuer) SubjectUserID(tokenString string) (int64, error) {
	claims, err := i.Verify(tokenString, TokenKindAccess)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric subject", common.ErrInvalidToken)
	}

	return userID, nil
}

// RemainingLifetime reads the expiry of tokenString without requiring the
// token to still be valid, so logout can size the revocation entry.
// Returns false when the expiry cannot be determined.
func (i *Issuer) RemainingLifetime(tokenString string) (time.Duration, bool) {
	claims := &Claims{}

	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil || claims.ExpiresAt == nil {
		return 0, false
	}

	return time.Until(claims.ExpiresAt.Time), true
}
