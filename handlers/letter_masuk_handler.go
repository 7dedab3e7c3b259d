package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto"
	"github.com/penoFahmi/e-arsip-sub000/dto/letters"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

const fieldScan = "file_scan"

type LetterMasukHandler struct {
	incoming     *services.IncomingService
	dispositions *services.DispositionService
	store        storage.Store
}

func NewLetterMasukHandler(incoming *services.IncomingService, dispositions *services.DispositionService, store storage.Store) *LetterMasukHandler {
	return &LetterMasukHandler{incoming: incoming, dispositions: dispositions, store: store}
}

// CreateSuratMasuk - catat surat masuk, opsional langsung dengan disposisi pertama
func (h *LetterMasukHandler) CreateSuratMasuk(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// 1. Parsing Form Data (DTO)
	var req letters.LetterMasukRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}

	// 2. Validasi Input
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}

	// 3. File scan (boleh lebih dari satu)
	scans, closeFiles, err := formFiles(c, fieldScan)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFiles()

	letter, err := h.incoming.Register(c.UserContext(), user, req.ToInput(scans))
	if err != nil {
		return respondError(c, err, "Gagal mencatat surat masuk")
	}
	return utils.Created(c, "Surat masuk berhasil dicatat", letters.NewIncomingLetterResponse(letter, fileLinker(c, h.store)))
}

// ListSuratMasuk - ?page=&limit=&q=&status=&bidang_id=&from=&to=
func (h *LetterMasukHandler) ListSuratMasuk(c *fiber.Ctx) error {
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

	list, total, err := h.incoming.List(user, q.IncomingFilter())
	if err != nil {
		return respondError(c, err, "Gagal memuat surat masuk")
	}
	url := fileLinker(c, h.store)
	data := make([]letters.IncomingLetterResponse, 0, len(list))
	for i := range list {
		data = append(data, letters.NewIncomingLetterResponse(&list[i], url))
	}
	page, limit := q.Paging()
	return utils.PaginatedResponse(c, "Daftar surat masuk", data, utils.NewPaginationMeta(page, limit, total))
}

func (h *LetterMasukHandler) GetSuratMasuk(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}

	letter, err := h.incoming.Get(user, id)
	if err != nil {
		return respondError(c, err, "Gagal memuat surat masuk")
	}
	return utils.OK(c, "Detail surat masuk", letters.NewIncomingLetterResponse(letter, fileLinker(c, h.store)))
}

// UpdateSuratMasuk - edit metadata; file_scan baru ditambahkan ke lampiran
func (h *LetterMasukHandler) UpdateSuratMasuk(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}

	var req letters.LetterMasukRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}
	if errMap := req.Validate(); len(errMap) > 0 {
		return utils.BadRequest(c, "Validasi gagal", errMap)
	}
	if req.HasDisposition() {
		return utils.BadRequest(c, "Validasi gagal", map[string]string{
			"disposisi_ke_user_id": "gunakan endpoint disposisi untuk surat yang sudah tercatat",
		})
	}

	scans, closeFiles, err := formFiles(c, fieldScan)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFiles()

	letter, err := h.incoming.Update(c.UserContext(), user, id, req.ToInput(scans))
	if err != nil {
		return respondError(c, err, "Gagal memperbarui surat masuk")
	}
	return utils.OK(c, "Surat masuk berhasil diperbarui", letters.NewIncomingLetterResponse(letter, fileLinker(c, h.store)))
}

func (h *LetterMasukHandler) DeleteSuratMasuk(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	if err := h.incoming.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, err, "Gagal menghapus surat masuk")
	}
	return utils.OK(c, "Surat masuk berhasil dihapus", nil)
}

// ArchiveSuratMasuk - status menjadi diarsipkan
func (h *LetterMasukHandler) ArchiveSuratMasuk(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	letter, err := h.incoming.Archive(user, id)
	if err != nil {
		return respondError(c, err, "Gagal mengarsipkan surat")
	}
	return utils.OK(c, "Surat masuk diarsipkan", letters.NewIncomingLetterResponse(letter, fileLinker(c, h.store)))
}

func (h *LetterMasukHandler) AddScan(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}

	file, closeFile, err := formFile(c, fieldScan)
	if err != nil {
		return utils.BadRequest(c, "Gagal membaca file", err.Error())
	}
	defer closeFile()
	if file == nil {
		return utils.BadRequest(c, "Validasi gagal", map[string]string{fieldScan: "file scan wajib diunggah"})
	}

	scan, err := h.incoming.AddScan(c.UserContext(), user, id, *file)
	if err != nil {
		return respondError(c, err, "Gagal menambahkan scan")
	}
	return utils.Created(c, "Scan berhasil ditambahkan", letters.NewScanResponse(*scan, fileLinker(c, h.store)))
}

func (h *LetterMasukHandler) RemoveScan(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	scanID, okScan := paramID(c, "scanId")
	if !ok || !okScan {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	if err := h.incoming.RemoveScan(c.UserContext(), user, id, scanID); err != nil {
		return respondError(c, err, "Gagal menghapus scan")
	}
	return utils.OK(c, "Scan berhasil dihapus", nil)
}

// GetLogs - riwayat aksi surat
func (h *LetterMasukHandler) GetLogs(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	logs, err := h.incoming.Logs(user, id)
	if err != nil {
		return respondError(c, err, "Gagal memuat riwayat surat")
	}
	return utils.OK(c, "Riwayat surat", logs)
}

// GetDispositions - rantai disposisi satu surat
func (h *LetterMasukHandler) GetDispositions(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}
	list, err := h.dispositions.ByLetter(user, id)
	if err != nil {
		return respondError(c, err, "Gagal memuat disposisi")
	}
	return utils.OK(c, "Disposisi surat", letters.NewDispositionResponses(list, fileLinker(c, h.store)))
}
