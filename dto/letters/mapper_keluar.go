package letters

import (
	"strings"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

func (r *LetterKeluarRequest) ToInput(file *storage.File) services.OutgoingInput {
	in := services.OutgoingInput{
		Perihal:    strings.TrimSpace(r.Perihal),
		Tujuan:     strings.TrimSpace(r.Tujuan),
		SifatSurat: models.SifatSurat(r.SifatSurat),
		Keterangan: strings.TrimSpace(r.Keterangan),
		File:       file,
	}
	if t, _ := utils.ParseDate(r.TanggalSurat); t != nil {
		in.TanggalSurat = *t
	}
	if r.BidangID != 0 {
		id := r.BidangID
		in.BidangID = &id
	}
	return in
}

// SentAt is the parsed tanggal_kirim, zero when empty.
func (r *MarkSentRequest) SentAt() time.Time {
	return dateOrZero(r.TanggalKirim)
}

func (r *MarkReceivedRequest) ReceivedAt() time.Time {
	return dateOrZero(r.TanggalTerima)
}

func dateOrZero(s string) time.Time {
	if t, _ := utils.ParseDate(s); t != nil {
		return *t
	}
	return time.Time{}
}
