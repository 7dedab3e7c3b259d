package letters

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

func (r *CreateDispositionRequest) ToInput() services.DispositionInput {
	batas, _ := utils.ParseDate(r.BatasWaktu)
	return services.DispositionInput{
		SuratMasukID:   r.SuratMasukID,
		KeUserID:       r.KeUserID,
		ParentID:       r.ParentID,
		Instruksi:      strings.TrimSpace(r.Instruksi),
		BatasWaktu:     batas,
		SifatDisposisi: models.SifatDisposisi(r.SifatDisposisi),
		Catatan:        strings.TrimSpace(r.Catatan),
	}
}

// ToInput maps the reply; file is the optional follow-up document.
func (r *UpdateDispositionStatusRequest) ToInput(file *storage.File) services.StatusInput {
	in := services.StatusInput{
		Status:  models.DispositionStatus(r.StatusDisposisi),
		Catatan: strings.TrimSpace(r.Catatan),
		File:    file,
	}
	if r.HasAgenda() {
		agenda := &services.AgendaInput{
			Judul:        strings.TrimSpace(r.AgendaJudul),
			WaktuMulai:   r.AgendaWaktuMulai,
			WaktuSelesai: r.AgendaWaktuSelesai,
			Lokasi:       strings.TrimSpace(r.AgendaLokasi),
			Keterangan:   strings.TrimSpace(r.AgendaKeterangan),
		}
		if t, _ := utils.ParseDate(r.AgendaTanggal); t != nil {
			agenda.Tanggal = *t
		}
		in.Agenda = agenda
	}
	return in
}
