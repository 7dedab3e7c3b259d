package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// RequireRole membatasi route ke role tertentu. Role diambil dari pengguna
// yang dimuat, atau dari klaim token bila LoadCurrentUser belum dipasang.
func RequireRole(allowedRoles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		var role models.Role
		if user := CurrentUser(c); user != nil {
			role = user.Role
		} else if claims, ok := GetJWTClaims(c); ok {
			role = claims.Role
		} else {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if len(allowed) == 0 {
			return c.Next()
		}
		if _, ok := allowed[role]; !ok {
			return utils.Forbidden(c, "Anda tidak memiliki akses")
		}
		return c.Next()
	}
}

func RequireSuperAdmin() fiber.Handler { return RequireRole(models.RoleSuperAdmin) }

// RequireLeadership untuk pengirim disposisi.
func RequireLeadership() fiber.Handler {
	return RequireRole(models.RoleSuperAdmin, models.RoleLevel1, models.RoleLevel2, models.RoleLevel3)
}
