package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// RequireRealEmail blocks every route behind it while the account still
// carries the placeholder email of the seeded admin. Profile, email
// replacement and logout are registered before it.
func RequireRealEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if user.HasPlaceholderEmail() {
			return utils.JSONError(c, fiber.StatusForbidden, "Ganti email akun terlebih dahulu", fiber.Map{
				"email": "email placeholder harus diganti",
			})
		}
		return c.Next()
	}
}
