package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto"
	"github.com/penoFahmi/e-arsip-sub000/dto/users"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
)

type AuthHandler struct {
	auth     *services.AuthService
	users    *services.UserService
	settings *services.SettingService
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService, settings *services.SettingService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, settings: settings}
}

// Login - username atau email + password
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	pair, err := h.auth.Login(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return utils.Unauthorized(c, "Username/email atau password salah")
		}
		return respondError(c, err, "Gagal login")
	}
	return utils.OK(c, "Login berhasil", dto.NewLoginResponse(pair, h.roleLabel(pair.User.Role)))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return utils.Unauthorized(c, "Refresh token tidak valid")
		}
		return respondError(c, err, "Gagal memperbarui token")
	}
	return utils.OK(c, "Token diperbarui", dto.NewLoginResponse(pair, h.roleLabel(pair.User.Role)))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	if err := h.auth.Logout(user.ID, req.RefreshToken); err != nil {
		return respondError(c, err, "Gagal logout")
	}
	logger.AuditAction("logout", user.ID, "users", user.ID, nil)
	return utils.OK(c, "Logout berhasil", nil)
}

// Me - profil pengguna yang sedang login
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	return utils.OK(c, "Profil pengguna", dto.NewUserSummary(user, h.roleLabel(user.Role)))
}

// ReplaceEmail - satu-satunya aksi yang diizinkan selama email masih placeholder
func (h *AuthHandler) ReplaceEmail(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var req users.ReplaceEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	updated, err := h.users.ReplaceEmail(user, req.Email)
	if err != nil {
		return respondError(c, err, "Gagal mengganti email")
	}
	return utils.OK(c, "Email berhasil diganti", dto.NewUserSummary(updated, h.roleLabel(updated.Role)))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var req users.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	if err := h.users.ChangePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "Gagal mengganti password")
	}
	return utils.OK(c, "Password berhasil diganti", nil)
}

func (h *AuthHandler) roleLabel(role models.Role) string {
	label, err := h.settings.RoleLabel(role)
	if err != nil {
		logger.App().WithError(err).Warn("failed to read role label")
		return string(role)
	}
	return label
}
