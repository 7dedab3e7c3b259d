package letters

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// LetterKeluarRequest is the multipart form for a surat keluar draft. The
// letter document arrives as the optional "file_surat" part.
type LetterKeluarRequest struct {
	Perihal      string `json:"perihal" form:"perihal" validate:"required,max=255"`
	Tujuan       string `json:"tujuan" form:"tujuan" validate:"required,max=255"`
	SifatSurat   string `json:"sifat_surat" form:"sifat_surat" validate:"omitempty,oneof=biasa penting rahasia"`
	TanggalSurat string `json:"tanggal_surat" form:"tanggal_surat" validate:"required,date"`
	Keterangan   string `json:"keterangan" form:"keterangan"`

	// Kosong = bidang pengguna yang mencatat
	BidangID uint `json:"bidang_id" form:"bidang_id"`
}

func (r *LetterKeluarRequest) Validate() map[string]string {
	r.Perihal = strings.TrimSpace(r.Perihal)
	r.Tujuan = strings.TrimSpace(r.Tujuan)
	return utils.ValidateStruct(r)
}

// MarkSentRequest records the external letter number once the draft is sent.
type MarkSentRequest struct {
	NoSurat      string `json:"no_surat" form:"no_surat" validate:"required,max=100"`
	TanggalKirim string `json:"tanggal_kirim" form:"tanggal_kirim" validate:"date"`
}

func (r *MarkSentRequest) Validate() map[string]string {
	r.NoSurat = strings.TrimSpace(r.NoSurat)
	return utils.ValidateStruct(r)
}

// MarkReceivedRequest accompanies the "file_bukti" proof of delivery.
type MarkReceivedRequest struct {
	TanggalTerima string `json:"tanggal_terima" form:"tanggal_terima" validate:"date"`
}

func (r *MarkReceivedRequest) Validate() map[string]string {
	return utils.ValidateStruct(r)
}
