package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"gorm.io/gorm"
)

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *models.User
}

type AuthService struct {
	db    *gorm.DB
	users *UserService
}

func NewAuthService(db *gorm.DB, users *UserService) *AuthService {
	return &AuthService{db: db, users: users}
}

func (s *AuthService) Login(login, password string) (*TokenPair, error) {
	user, err := s.users.Authenticate(login, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			logger.App().WithField("login", login).Warn("login failed")
		}
		return nil, err
	}

	pair, err := s.issue(s.db, user)
	if err != nil {
		return nil, err
	}
	logger.AuditAction("login", user.ID, "users", user.ID, nil)
	return pair, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *AuthService) Refresh(raw string) (*TokenPair, error) {
	claims, err := utils.VerifyRefreshToken(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}

	var pair *TokenPair
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		err := tx.Where("token_hash = ? AND user_id = ?", utils.HashToken(raw), claims.UserID).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		if err != nil {
			return err
		}
		if stored.IsExpired(time.Now()) {
			return ErrUnauthorized
		}
		if err := tx.Unscoped().Delete(&stored).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Preload("Bidang").First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnauthorized
			}
			return err
		}
		if !user.IsActive {
			return ErrUnauthorized
		}

		pair, err = s.issue(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the given refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(userID uint, raw string) error {
	return s.db.Unscoped().
		Where("token_hash = ? AND user_id = ?", utils.HashToken(raw), userID).
		Delete(&models.RefreshToken{}).Error
}

// PurgeExpired removes refresh tokens past their expiry.
func (s *AuthService) PurgeExpired(now time.Time) (int64, error) {
	res := s.db.Unscoped().Where("expires_at <= ?", now).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (s *AuthService) issue(db *gorm.DB, user *models.User) (*TokenPair, error) {
	access, accessClaims, err := utils.GenerateAccessToken(*user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, refreshClaims, err := utils.GenerateRefreshToken(*user)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	record := models.RefreshToken{
		TokenHash: utils.HashToken(refresh),
		UserID:    user.ID,
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	}
	if err := db.Omit("User").Create(&record).Error; err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
		User:             user,
	}, nil
}
