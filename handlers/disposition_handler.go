package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto"
	"github.com/penoFahmi/e-arsip-sub000/dto/letters"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

const fieldTindakLanjut = "file_tindak_lanjut"

type DispositionHandler struct {
	dispositions *services.DispositionService
	store        storage.Store
}

func NewDispositionHandler(dispositions *services.DispositionService, store storage.Store) *DispositionHandler {
	return &DispositionHandler{dispositions: dispositions, store: store}
}

// CreateDisposisi - kirim atau teruskan disposisi (parent_id)
func (h *DispositionHandler) CreateDisposisi(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	var req letters.CreateDispositionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	d, err := h.dispositions.Create(c.UserContext(), user, req.ToInput())
	if err != nil {
		return respondError(c, err, "Gagal mengirim disposisi")
	}
	return utils.Created(c, "Disposisi berhasil dikirim", letters.NewDispositionResponse(*d, fileLinker(c, h.store)))
}

// UpdateStatus - balasan penerima: status, catatan, file tindak lanjut, agenda
func (h *DispositionHandler) UpdateStatus(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	// hanya penerima yang boleh melihat hasil validasi
	if err := h.dispositions.CheckRecipient(user, id); err != nil {
		return respondError(c, err, "Gagal memperbarui status disposisi")
	}
	var req letters.UpdateDispositionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	file, closeFile, err := formFile(c, fieldTindakLanjut)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFile()

	d, err := h.dispositions.UpdateStatus(c.UserContext(), user, id, req.ToInput(file))
	if err != nil {
		return respondError(c, err, "Gagal memperbarui status disposisi")
	}
	return utils.OK(c, "Status disposisi diperbarui", letters.NewDispositionResponse(*d, fileLinker(c, h.store)))
}

// Inbox - disposisi yang ditujukan ke pengguna
func (h *DispositionHandler) Inbox(c *fiber.Ctx) error {
	return h.list(c, "Kotak masuk disposisi", h.dispositions.Inbox)
}

// Sent - disposisi yang dikirim pengguna
func (h *DispositionHandler) Sent(c *fiber.Ctx) error {
	return h.list(c, "Disposisi terkirim", h.dispositions.Sent)
}

type dispositionLister func(*models.User, services.DispositionFilter) ([]models.Disposition, int64, error)

func (h *DispositionHandler) list(c *fiber.Ctx, message string, fetch dispositionLister) error {
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

	list, total, err := fetch(user, q.DispositionFilter())
	if err != nil {
		return respondError(c, err, "Gagal memuat disposisi")
	}
	page, limit := q.Paging()
	return utils.PaginatedResponse(c, message, letters.NewDispositionResponses(list, fileLinker(c, h.store)), utils.NewPaginationMeta(page, limit, total))
}

func (h *DispositionHandler) GetDisposisi(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	d, err := h.dispositions.Get(user, id)
	if err != nil {
		return respondError(c, err, "Gagal memuat disposisi")
	}
	return utils.OK(c, "Detail disposisi", letters.NewDispositionResponse(*d, fileLinker(c, h.store)))
}

// ListAgenda - ?from=YYYY-MM-DD&to=YYYY-MM-DD, default bulan berjalan
func (h *DispositionHandler) ListAgenda(c *fiber.Ctx) error {
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

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, -1)
	if f, t := q.Range(); f != nil || t != nil {
		if f != nil {
			from = *f
		}
		if t != nil {
			to = *t
		} else {
			to = from.AddDate(0, 1, -1)
		}
	}

	items, err := h.dispositions.Agendas(user, from, to)
	if err != nil {
		return respondError(c, err, "Gagal memuat agenda")
	}
	return utils.OK(c, "Agenda", items)
}
