package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/dto"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ExportSuratMasuk - buku agenda surat masuk (.xlsx), filter sama dengan daftar
func (h *ReportHandler) ExportSuratMasuk(c *fiber.Ctx) error {
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

	data, err := h.reports.ExportIncomingXLSX(user, q.IncomingFilter())
	if err != nil {
		return respondError(c, err, "Gagal membuat laporan surat masuk")
	}
	return sendAttachment(c, mimeXLSX, fmt.Sprintf("agenda-surat-masuk-%s.xlsx", time.Now().Format("20060102")), data)
}

func (h *ReportHandler) ExportSuratKeluar(c *fiber.Ctx) error {
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

	data, err := h.reports.ExportOutgoingXLSX(user, q.OutgoingFilter())
	if err != nil {
		return respondError(c, err, "Gagal membuat laporan surat keluar")
	}
	return sendAttachment(c, mimeXLSX, fmt.Sprintf("agenda-surat-keluar-%s.xlsx", time.Now().Format("20060102")), data)
}

// LembarDisposisi - cetak lembar disposisi (PDF) satu surat masuk
func (h *ReportHandler) LembarDisposisi(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "ID tidak valid", nil)
	}

	data, err := h.reports.DispositionSheetPDF(user, id)
	if err != nil {
		return respondError(c, err, "Gagal mencetak lembar disposisi")
	}
	return sendAttachment(c, "application/pdf", fmt.Sprintf("lembar-disposisi-%d.pdf", id), data)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Attachment(filename)
	return c.Status(fiber.StatusOK).Send(data)
}
