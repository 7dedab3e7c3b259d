package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto/users"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/sirupsen/logrus"
)

type SettingsHandler struct {
	settings *services.SettingService
}

func NewSettingsHandler(settings *services.SettingService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings - branding aplikasi, terbaca oleh semua pengguna yang login
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	all, err := h.settings.All()
	if err != nil {
		return respondError(c, err, "Gagal memuat pengaturan")
	}
	return utils.OK(c, "Pengaturan aplikasi", all)
}

// UpdateSettings - hanya super admin
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if !actor.IsSuperAdmin() {
		return utils.Forbidden(c, msgForbidden)
	}

	var req users.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	if err := h.settings.SetMany(req.Settings); err != nil {
		return respondError(c, err, "Gagal menyimpan pengaturan")
	}
	keys := make([]string, 0, len(req.Settings))
	for k := range req.Settings {
		keys = append(keys, k)
	}
	logger.AuditAction("pengaturan_diubah", actor.ID, "settings", 0, logrus.Fields{"keys": keys})

	all, err := h.settings.All()
	if err != nil {
		return respondError(c, err, "Gagal memuat pengaturan")
	}
	return utils.OK(c, "Pengaturan berhasil disimpan", all)
}

func (h *SettingsHandler) RoleLabels(c *fiber.Ctx) error {
	labels, err := h.settings.RoleLabels()
	if err != nil {
		return respondError(c, err, "Gagal memuat label peran")
	}
	return utils.OK(c, "Label peran", labels)
}
