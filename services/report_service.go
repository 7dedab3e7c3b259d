package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/xuri/excelize/v2"
)

// exportLimit caps the rows of one spreadsheet export.
const exportLimit = 5000

var incomingHeader = []string{
	"No", "No Agenda", "No Surat", "Tanggal Surat", "Tanggal Terima", "Pengirim",
	"Perihal", "Sifat", "Bidang Tujuan", "Status",
}

var outgoingHeader = []string{
	"No", "No Agenda", "No Surat", "Tanggal Surat", "Tujuan", "Perihal",
	"Sifat", "Bidang", "Status", "Tanggal Kirim", "Tanggal Terima",
}

var incomingWidths = []float64{6, 12, 28, 14, 14, 30, 45, 10, 25, 14}
var outgoingWidths = []float64{6, 18, 28, 14, 30, 45, 10, 25, 12, 14, 14}

// ReportService builds agenda-book spreadsheets and the disposition sheet.
type ReportService struct {
	incoming *IncomingService
	outgoing *OutgoingService
	settings *SettingService
}

func NewReportService(incoming *IncomingService, outgoing *OutgoingService, settings *SettingService) *ReportService {
	return &ReportService{incoming: incoming, outgoing: outgoing, settings: settings}
}

// IncomingRows returns every visible letter matching f, oldest first.
func (s *ReportService) IncomingRows(actor *models.User, f IncomingFilter) ([]models.IncomingLetter, error) {
	var letters []models.IncomingLetter
	err := s.incoming.filtered(actor, f).
		Preload("BidangTujuan").
		Order("surat_masuk.tanggal_terima ASC, surat_masuk.id ASC").
		Limit(exportLimit).
		Find(&letters).Error
	return letters, err
}

func (s *ReportService) OutgoingRows(actor *models.User, f OutgoingFilter) ([]models.OutgoingLetter, error) {
	var letters []models.OutgoingLetter
	err := s.outgoing.filtered(actor, f).
		Preload("Bidang").
		Order("surat_keluar.tanggal_surat ASC, surat_keluar.id ASC").
		Limit(exportLimit).
		Find(&letters).Error
	return letters, err
}

func (s *ReportService) ExportIncomingXLSX(actor *models.User, f IncomingFilter) ([]byte, error) {
	letters, err := s.IncomingRows(actor, f)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(letters))
	for i, l := range letters {
		unit := ""
		if l.BidangTujuan != nil {
			unit = l.BidangTujuan.Nama
		}
		rows = append(rows, []interface{}{
			i + 1, l.NoAgenda, l.NoSurat, formatDate(l.TanggalSurat), l.TanggalTerima.Format("02-01-2006"),
			l.Pengirim, l.Perihal, string(l.SifatSurat), unit, string(l.StatusSurat),
		})
	}
	return s.workbook("Surat Masuk", "Buku Agenda Surat Masuk", incomingHeader, incomingWidths, rows)
}

func (s *ReportService) ExportOutgoingXLSX(actor *models.User, f OutgoingFilter) ([]byte, error) {
	letters, err := s.OutgoingRows(actor, f)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(letters))
	for i, l := range letters {
		unit, noSurat := "", ""
		if l.Bidang != nil {
			unit = l.Bidang.Nama
		}
		if l.NoSurat != nil {
			noSurat = *l.NoSurat
		}
		rows = append(rows, []interface{}{
			i + 1, l.NoAgenda, noSurat, l.TanggalSurat.Format("02-01-2006"), l.Tujuan, l.Perihal,
			string(l.SifatSurat), unit, string(l.StatusSurat), formatDate(l.TanggalKirim), formatDate(l.TanggalTerima),
		})
	}
	return s.workbook("Surat Keluar", "Buku Agenda Surat Keluar", outgoingHeader, outgoingWidths, rows)
}

// workbook writes a title row, a styled header on row 3 and the data below it.
func (s *ReportService) workbook(sheet, title string, header []string, widths []float64, rows [][]interface{}) ([]byte, error) {
	instansi, err := s.settings.Get(models.SettingInstansiName, models.DefaultSettings[models.SettingInstansiName])
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(index)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("%s - %s", title, instansi)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, "A2", "Dicetak: "+time.Now().Format("02-01-2006 15:04")); err != nil {
		return nil, err
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		if col < len(widths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+4, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      3,
		TopLeftCell: "A4",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DispositionSheetPDF prints the lembar disposisi of a letter: letter data
// followed by every disposition in the chain.
func (s *ReportService) DispositionSheetPDF(actor *models.User, letterID uint) ([]byte, error) {
	letter, err := s.incoming.Get(actor, letterID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.settings.All()
	if err != nil {
		return nil, err
	}
	labels, err := s.settings.RoleLabels()
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Lembar Disposisi "+letter.NoAgenda, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, tr(strings.ToUpper(cfg[models.SettingInstansiName])), "", 1, "C", false, 0, "")
	if addr := cfg[models.SettingInstansiAddress]; addr != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, tr(addr), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "LEMBAR DISPOSISI", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	unit := "-"
	if letter.BidangTujuan != nil {
		unit = letter.BidangTujuan.Nama
	}
	info := [][2]string{
		{"No. Agenda", letter.NoAgenda},
		{"No. Surat", letter.NoSurat},
		{"Tanggal Surat", formatDate(letter.TanggalSurat)},
		{"Tanggal Terima", letter.TanggalTerima.Format("02-01-2006")},
		{"Pengirim", letter.Pengirim},
		{"Perihal", letter.Perihal},
		{"Sifat", string(letter.SifatSurat)},
		{"Bidang Tujuan", unit},
	}
	pdf.SetFont("Arial", "", 10)
	for _, row := range info {
		pdf.CellFormat(40, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, tr(row[1]), "1", "L", false)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 243, 255)
	cols := []float64{8, 38, 38, 56, 20, 20}
	for i, h := range []string{"No", "Dari", "Kepada", "Instruksi", "Sifat", "Status"} {
		pdf.CellFormat(cols[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(letter.Dispositions) == 0 {
		pdf.CellFormat(180, 7, "Belum ada disposisi", "1", 1, "C", false, 0, "")
	}
	for i, d := range letter.Dispositions {
		cells := []string{
			fmt.Sprint(i + 1),
			userLine(d.DariUser, labels),
			userLine(d.KeUser, labels),
			d.Instruksi,
			string(d.SifatDisposisi),
			string(d.StatusDisposisi),
		}
		for j, c := range cells {
			pdf.CellFormat(cols[j], 7, tr(clip(pdf, c, cols[j]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		if d.Catatan != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(180, 5, tr("Catatan: "+d.Catatan), "1", "L", false)
			pdf.SetFont("Arial", "", 9)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func userLine(u *models.User, labels map[models.Role]string) string {
	if u == nil {
		return "-"
	}
	if label := labels[u.Role]; label != "" {
		return u.Name + " (" + label + ")"
	}
	return u.Name
}

// clip shortens s until it fits width mm in the current font.
func clip(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02-01-2006")
}
