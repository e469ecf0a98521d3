// Package models contains the persisted domain entities of the server.
package models

import "time"

// User is an account record. Email is unique (enforced by the storage
// layer); PasswordHash is a self-contained bcrypt hash.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Handicap     *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile holds the optional coaching profile, 1:1 with User and
// deleted together with it.
type UserProfile struct {
	ID                  int64
	UserID              int64
	DateOfBirth         *time.Time
	HeightCm            *int
	WeightKg            *int
	DominantHand        *string
	PrimaryMiss         *string
	Goals               []string
	PhysicalLimitations []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
