package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/penoFahmi/e-arsip-sub000/config"
	"github.com/penoFahmi/e-arsip-sub000/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type JWTClaims struct {
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	Username  string      `json:"username"`
	TokenType string      `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(user models.User) (string, *JWTClaims, error) {
	cfg := config.LoadJWTConfig()
	return generateToken(cfg, user, TokenTypeAccess, cfg.AccessTokenTTL)
}

func VerifyAccessToken(tokenString string) (*JWTClaims, error) {
	return verifyToken(config.LoadJWTConfig(), tokenString, TokenTypeAccess)
}

func GenerateRefreshToken(user models.User) (string, *JWTClaims, error) {
	cfg := config.LoadJWTConfig()
	return generateToken(cfg, user, TokenTypeRefresh, cfg.RefreshTokenTTL)
}

func VerifyRefreshToken(tokenString string) (*JWTClaims, error) {
	return verifyToken(config.LoadJWTConfig(), tokenString, TokenTypeRefresh)
}

func generateToken(cfg config.JWTConfig, user models.User, tokenType string, ttl time.Duration) (string, *JWTClaims, error) {
	now := time.Now()

	claims := &JWTClaims{
		UserID:    user.ID,
		Role:      user.Role,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.SecretKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func verifyToken(cfg config.JWTConfig, tokenString, expectedType string) (*JWTClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}

	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return cfg.SecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	if expectedType != "" && !strings.EqualFold(claims.TokenType, expectedType) {
		return nil, errors.New("invalid token type")
	}

	return claims, nil
}
