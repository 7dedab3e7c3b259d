package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto"
	"github.com/penoFahmi/e-arsip-sub000/dto/letters"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

const (
	fieldSurat = "file_surat"
	fieldBukti = "file_bukti"
)

type LetterKeluarHandler struct {
	outgoing *services.OutgoingService
	store    storage.Store
}

func NewLetterKeluarHandler(outgoing *services.OutgoingService, store storage.Store) *LetterKeluarHandler {
	return &LetterKeluarHandler{outgoing: outgoing, store: store}
}

// CreateSuratKeluar - draft surat keluar, nomor agenda dibuat otomatis
func (h *LetterKeluarHandler) CreateSuratKeluar(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// Fiber mencocokkan field form-data dengan tag `form:"..."`
	var req letters.LetterKeluarRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Format data tidak valid", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	file, closeFile, err := formFile(c, fieldSurat)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFile()

	letter, err := h.outgoing.Register(c.UserContext(), user, req.ToInput(file))
	if err != nil {
		return respondError(c, err, "Gagal membuat surat keluar")
	}
	return utils.Created(c, "Surat keluar berhasil dibuat", letters.NewOutgoingLetterResponse(letter, fileLinker(c, h.store)))
}

// ListSuratKeluar - ?page=&limit=&q=&status=&bidang_id=&from=&to=
func (h *LetterKeluarHandler) ListSuratKeluar(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return utils.BadRequest(c, "Invalid query", err.Error())
	}
	if errMap := q.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	list, total, err := h.outgoing.List(user, q.OutgoingFilter())
	if err != nil {
		return respondError(c, err, "Gagal memuat surat keluar")
	}
	page, limit := q.Paging()
	data := letters.NewOutgoingLetterResponses(list, fileLinker(c, h.store))
	return utils.PaginatedResponse(c, "Daftar surat keluar", data, utils.NewPaginationMeta(page, limit, total))
}

func (h *LetterKeluarHandler) GetSuratKeluar(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	letter, err := h.outgoing.Get(user, id)
	if err != nil {
		return respondError(c, err, "Gagal memuat surat keluar")
	}
	return utils.OK(c, "Detail surat keluar", letters.NewOutgoingLetterResponse(letter, fileLinker(c, h.store)))
}

// UpdateSuratKeluar - hanya selama draft; file_surat baru menggantikan yang lama
func (h *LetterKeluarHandler) UpdateSuratKeluar(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	var req letters.LetterKeluarRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Format data tidak valid", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	file, closeFile, err := formFile(c, fieldSurat)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFile()

	letter, err := h.outgoing.Update(c.UserContext(), user, id, req.ToInput(file))
	if err != nil {
		return respondError(c, err, "Gagal memperbarui surat keluar")
	}
	return utils.OK(c, "Surat keluar berhasil diperbarui", letters.NewOutgoingLetterResponse(letter, fileLinker(c, h.store)))
}

func (h *LetterKeluarHandler) DeleteSuratKeluar(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	if err := h.outgoing.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, err, "Gagal menghapus surat keluar")
	}
	return utils.OK(c, "Surat keluar berhasil dihapus", nil)
}

// MarkSent - isi nomor surat resmi, status menjadi terkirim
func (h *LetterKeluarHandler) MarkSent(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	var req letters.MarkSentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Format data tidak valid", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	letter, err := h.outgoing.MarkSent(user, id, req.NoSurat, req.SentAt())
	if err != nil {
		return respondError(c, err, "Gagal menandai surat terkirim")
	}
	return utils.OK(c, "Surat keluar terkirim", letters.NewOutgoingLetterResponse(letter, fileLinker(c, h.store)))
}

// MarkReceived - unggah bukti terima (file_bukti), status menjadi diterima
func (h *LetterKeluarHandler) MarkReceived(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	var req letters.MarkReceivedRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Format data tidak valid", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	file, closeFile, err := formFile(c, fieldBukti)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFile()

	letter, err := h.outgoing.MarkReceived(c.UserContext(), user, id, req.ReceivedAt(), file)
	if err != nil {
		return respondError(c, err, "Gagal menandai surat diterima")
	}
	return utils.OK(c, "Surat keluar diterima", letters.NewOutgoingLetterResponse(letter, fileLinker(c, h.store)))
}
