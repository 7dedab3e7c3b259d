package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
)

const (
	ContextClaimsKey   = "jwtClaims"
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
	ContextUserKey     = "currentUser"
)

// RequireAuth memverifikasi bearer access token dan menyimpan klaimnya di Locals.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.Unauthorized(c, "missing Authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.Unauthorized(c, "invalid Authorization header")
		}

		tokenString := strings.TrimSpace(parts[1])
		claims, err := utils.VerifyAccessToken(tokenString)
		if err != nil {
			return utils.Unauthorized(c, "invalid or expired token")
		}

		c.Locals(ContextClaimsKey, claims)
		c.Locals(ContextUserIDKey, claims.UserID)
		c.Locals(ContextUserRoleKey, claims.Role)

		return c.Next()
	}
}

// LoadCurrentUser memuat pengguna pemilik token beserta bidangnya. Akun yang
// sudah dihapus atau dinonaktifkan ditolak walau tokennya masih berlaku.
func LoadCurrentUser(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetJWTClaims(c)
		if !ok {
			return utils.Unauthorized(c, "authorization context missing")
		}

		user, err := users.Get(claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return utils.Unauthorized(c, "akun tidak ditemukan")
			}
			logger.App().WithError(err).WithField("user_id", claims.UserID).Error("failed to load current user")
			return utils.InternalServerError(c, "gagal memuat pengguna")
		}
		if !user.IsActive {
			return utils.Unauthorized(c, "akun tidak aktif")
		}

		c.Locals(ContextUserKey, user)
		c.Locals(ContextUserRoleKey, user.Role)
		return c.Next()
	}
}

func GetJWTClaims(c *fiber.Ctx) (*utils.JWTClaims, bool) {
	claims, ok := c.Locals(ContextClaimsKey).(*utils.JWTClaims)
	return claims, ok
}

// CurrentUser returns the user stored by LoadCurrentUser, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(ContextUserKey).(*models.User)
	return user
}
