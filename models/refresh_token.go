package models

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken stores the SHA-256 of an issued refresh token.
type RefreshToken struct {
	gorm.Model
	TokenHash string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (t RefreshToken) IsExpired(reference time.Time) bool {
	if reference.IsZero() {
		reference = time.Now()
	}
	return !reference.Before(t.ExpiresAt)
}
