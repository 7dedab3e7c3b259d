package letters

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// LetterMasukRequest is the multipart form for registering or editing a
// surat masuk. Scans arrive as one or more "file_scan" parts; the
// disposisi_* fields optionally send the first disposisi in the same request.
type LetterMasukRequest struct {
	NoSurat        string `json:"no_surat" form:"no_surat" validate:"required,max=100"`
	Pengirim       string `json:"pengirim" form:"pengirim" validate:"required,max=200"`
	Perihal        string `json:"perihal" form:"perihal" validate:"required,max=255"`
	Ringkasan      string `json:"ringkasan" form:"ringkasan"`
	SifatSurat     string `json:"sifat_surat" form:"sifat_surat" validate:"omitempty,oneof=biasa penting rahasia"`
	Media          string `json:"media" form:"media" validate:"omitempty,oneof=fisik digital"`
	TanggalSurat   string `json:"tanggal_surat" form:"tanggal_surat" validate:"date"` // YYYY-MM-DD
	TanggalTerima  string `json:"tanggal_terima" form:"tanggal_terima" validate:"date"`
	BidangTujuanID uint   `json:"bidang_tujuan_id" form:"bidang_tujuan_id"`

	DisposisiKeUserID   uint   `json:"disposisi_ke_user_id" form:"disposisi_ke_user_id"`
	DisposisiInstruksi  string `json:"disposisi_instruksi" form:"disposisi_instruksi"`
	DisposisiSifat      string `json:"disposisi_sifat" form:"disposisi_sifat" validate:"omitempty,oneof=biasa segera sangat_segera rahasia"`
	DisposisiBatasWaktu string `json:"disposisi_batas_waktu" form:"disposisi_batas_waktu" validate:"date"`
	DisposisiCatatan    string `json:"disposisi_catatan" form:"disposisi_catatan"`
}

func (r *LetterMasukRequest) Validate() map[string]string {
	r.NoSurat = strings.TrimSpace(r.NoSurat)
	r.Pengirim = strings.TrimSpace(r.Pengirim)
	r.Perihal = strings.TrimSpace(r.Perihal)
	errors := utils.ValidateStruct(r)

	if r.HasDisposition() && r.DisposisiKeUserID == 0 {
		errors["disposisi_ke_user_id"] = "disposisi_ke_user_id is required"
	}
	if r.HasDisposition() && strings.TrimSpace(r.DisposisiInstruksi) == "" {
		errors["disposisi_instruksi"] = "disposisi_instruksi is required"
	}
	return errors
}

// HasDisposition reports whether any disposisi_* field was sent.
func (r *LetterMasukRequest) HasDisposition() bool {
	return r.DisposisiKeUserID != 0 || strings.TrimSpace(r.DisposisiInstruksi) != ""
}
