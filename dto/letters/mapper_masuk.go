package letters

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

// ToInput maps the form to the service input. Dates must already be
// validated; an empty tanggal_terima means today.
func (r *LetterMasukRequest) ToInput(scans []storage.File) services.IncomingInput {
	in := services.IncomingInput{
		NoSurat:    strings.TrimSpace(r.NoSurat),
		Pengirim:   strings.TrimSpace(r.Pengirim),
		Perihal:    strings.TrimSpace(r.Perihal),
		Ringkasan:  strings.TrimSpace(r.Ringkasan),
		SifatSurat: models.SifatSurat(r.SifatSurat),
		Media:      models.Media(r.Media),
		Scans:      scans,
	}
	in.TanggalSurat, _ = utils.ParseDate(r.TanggalSurat)
	if t, _ := utils.ParseDate(r.TanggalTerima); t != nil {
		in.TanggalTerima = *t
	}
	if r.BidangTujuanID != 0 {
		id := r.BidangTujuanID
		in.BidangTujuanID = &id
	}

	if r.HasDisposition() {
		batas, _ := utils.ParseDate(r.DisposisiBatasWaktu)
		in.Disposition = &services.DispositionInput{
			KeUserID:       r.DisposisiKeUserID,
			Instruksi:      strings.TrimSpace(r.DisposisiInstruksi),
			BatasWaktu:     batas,
			SifatDisposisi: models.SifatDisposisi(r.DisposisiSifat),
			Catatan:        strings.TrimSpace(r.DisposisiCatatan),
		}
	}
	return in
}
