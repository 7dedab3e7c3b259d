package letters

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// CreateDispositionRequest sends a disposisi. ParentID forwards one the
// sender received.
type CreateDispositionRequest struct {
	SuratMasukID   uint   `json:"surat_masuk_id" form:"surat_masuk_id" validate:"required"`
	KeUserID       uint   `json:"ke_user_id" form:"ke_user_id" validate:"required"`
	ParentID       *uint  `json:"parent_id" form:"parent_id"`
	Instruksi      string `json:"instruksi" form:"instruksi" validate:"required"`
	BatasWaktu     string `json:"batas_waktu" form:"batas_waktu" validate:"date"`
	SifatDisposisi string `json:"sifat_disposisi" form:"sifat_disposisi" validate:"omitempty,oneof=biasa segera sangat_segera rahasia"`
	Catatan        string `json:"catatan" form:"catatan"`
}

func (r *CreateDispositionRequest) Validate() map[string]string {
	r.Instruksi = strings.TrimSpace(r.Instruksi)
	return utils.ValidateStruct(r)
}

// UpdateDispositionStatusRequest is the recipient's reply. It arrives as JSON
// or as a multipart form carrying "file_tindak_lanjut". The agenda_* fields
// schedule a calendar entry when agenda_judul is set.
type UpdateDispositionStatusRequest struct {
	StatusDisposisi string `json:"status_disposisi" form:"status_disposisi" validate:"required,oneof=terkirim dibaca diproses selesai"`
	Catatan         string `json:"catatan" form:"catatan"`

	AgendaJudul        string `json:"agenda_judul" form:"agenda_judul" validate:"max=255"`
	AgendaTanggal      string `json:"agenda_tanggal" form:"agenda_tanggal" validate:"date"`
	AgendaWaktuMulai   string `json:"agenda_waktu_mulai" form:"agenda_waktu_mulai" validate:"clock"`
	AgendaWaktuSelesai string `json:"agenda_waktu_selesai" form:"agenda_waktu_selesai" validate:"clock"`
	AgendaLokasi       string `json:"agenda_lokasi" form:"agenda_lokasi" validate:"max=255"`
	AgendaKeterangan   string `json:"agenda_keterangan" form:"agenda_keterangan"`
}

func (r *UpdateDispositionStatusRequest) Validate() map[string]string {
	errors := utils.ValidateStruct(r)
	if r.HasAgenda() && strings.TrimSpace(r.AgendaTanggal) == "" {
		errors["agenda_tanggal"] = "agenda_tanggal is required"
	}
	return errors
}

func (r *UpdateDispositionStatusRequest) HasAgenda() bool {
	return strings.TrimSpace(r.AgendaJudul) != ""
}
