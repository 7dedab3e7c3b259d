package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto/users"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

type BidangHandler struct {
	units *services.UnitService
}

func NewBidangHandler(units *services.UnitService) *BidangHandler {
	return &BidangHandler{units: units}
}

// ListBidang - ?tree=1 untuk struktur bertingkat
func (h *BidangHandler) ListBidang(c *fiber.Ctx) error {
	if c.QueryBool("tree") {
		tree, err := h.units.Tree()
		if err != nil {
			return respondError(c, err, "Gagal memuat bidang")
		}
		return utils.OK(c, "Struktur bidang", tree)
	}
	list, err := h.units.List()
	if err != nil {
		return respondError(c, err, "Gagal memuat bidang")
	}
	return utils.OK(c, "Daftar bidang", list)
}

func (h *BidangHandler) GetBidang(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	unit, err := h.units.Get(id)
	if err != nil {
		return respondError(c, err, "Gagal memuat bidang")
	}
	return utils.OK(c, "Detail bidang", unit)
}

func (h *BidangHandler) CreateBidang(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var req users.BidangRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	unit, err := h.units.Create(actor, req.ToInput())
	if err != nil {
		return respondError(c, err, "Gagal membuat bidang")
	}
	return utils.Created(c, "Bidang berhasil dibuat", unit)
}

func (h *BidangHandler) UpdateBidang(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	var req users.BidangRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	unit, err := h.units.Update(actor, id, req.ToInput())
	if err != nil {
		return respondError(c, err, "Gagal memperbarui bidang")
	}
	return utils.OK(c, "Bidang berhasil diperbarui", unit)
}

func (h *BidangHandler) DeleteBidang(c *fiber.Ctx) error {
	actor := currentUser(c)
	if actor == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	if err := h.units.Delete(actor, id); err != nil {
		return respondError(c, err, "Gagal menghapus bidang")
	}
	return utils.OK(c, "Bidang berhasil dihapus", nil)
}
