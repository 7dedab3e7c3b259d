package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto"
	"github.com/penoFahmi/e-arsip-sub000/dto/users"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
)

type UserHandler struct {
	users    *services.UserService
	settings *services.SettingService
}

func NewUserHandler(users *services.UserService, settings *services.SettingService) *UserHandler {
	return &UserHandler{users: users, settings: settings}
}

// ListUsers - ?role=&bidang_id=&q=&page=&limit=
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return utils.BadRequest(c, "Invalid query", err.Error())
	}
	if errMap := q.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	filter := services.UserFilter{
		Role:     models.Role(c.Query("role")),
		BidangID: q.Unit(),
		Query:    q.Q,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	list, total, err := h.users.List(filter)
	if err != nil {
		return respondError(c, err, "Gagal memuat pengguna")
	}

	labels := h.labels()
	data := make([]users.AdminUserResponse, 0, len(list))
	for _, u := range list {
		data = append(data, users.NewAdminUserResponse(u, labels[u.Role]))
	}
	page, limit := q.Paging()
	return utils.PaginatedResponse(c, "Daftar pengguna", data, utils.NewPaginationMeta(page, limit, total))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	user, err := h.users.Get(id)
	if err != nil {
		return respondError(c, err, "Gagal memuat pengguna")
	}
	return utils.OK(c, "Detail pengguna", users.NewAdminUserResponse(*user, h.labels()[user.Role]))
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var req users.AdminUserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	user, err := h.users.Create(actor, req.ToInput())
	if err != nil {
		return respondError(c, err, "Gagal membuat pengguna")
	}
	return utils.Created(c, "Pengguna berhasil dibuat", users.NewAdminUserResponse(*user, h.labels()[user.Role]))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	var req users.AdminUserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	current, err := h.users.Get(id)
	if err != nil {
		return respondError(c, err, "Gagal memuat pengguna")
	}
	user, err := h.users.Update(actor, id, req.ToInput(current))
	if err != nil {
		return respondError(c, err, "Gagal memperbarui pengguna")
	}
	return utils.OK(c, "Pengguna berhasil diperbarui", users.NewAdminUserResponse(*user, h.labels()[user.Role]))
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	if err := h.users.Delete(actor, id); err != nil {
		return respondError(c, err, "Gagal menghapus pengguna")
	}
	return utils.OK(c, "Pengguna berhasil dihapus", nil)
}

// Recipients - calon penerima disposisi
func (h *UserHandler) Recipients(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	list, err := h.users.Recipients(actor)
	if err != nil {
		return respondError(c, err, "Gagal memuat penerima")
	}
	labels := h.labels()
	data := make([]dto.UserSummary, 0, len(list))
	for i := range list {
		data = append(data, dto.NewUserSummary(&list[i], labels[list[i].Role]))
	}
	return utils.OK(c, "Daftar penerima disposisi", data)
}

func (h *UserHandler) labels() map[models.Role]string {
	labels, err := h.settings.RoleLabels()
	if err != nil {
		logger.App().WithError(err).Warn("failed to read role labels")
		return map[models.Role]string{}
	}
	return labels
}
