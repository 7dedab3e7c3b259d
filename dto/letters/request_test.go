package letters

import (
	"testing"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterMasukRequestValidate(t *testing.T) {
	r := LetterMasukRequest{NoSurat: "  ", Pengirim: "Dinas A", SifatSurat: "kilat"}
	errs := r.Validate()
	assert.Equal(t, "no_surat is required", errs["no_surat"])
	assert.Equal(t, "perihal is required", errs["perihal"])
	assert.Contains(t, errs["sifat_surat"], "biasa, penting, rahasia")

	r = LetterMasukRequest{
		NoSurat:            "900/1",
		Pengirim:           "Dinas A",
		Perihal:            "LKPD",
		DisposisiInstruksi: "Pelajari",
	}
	require.True(t, r.HasDisposition())
	errs = r.Validate()
	assert.Contains(t, errs, "disposisi_ke_user_id")
	assert.NotContains(t, errs, "disposisi_instruksi")
}

func TestLetterMasukRequestToInput(t *testing.T) {
	r := LetterMasukRequest{
		NoSurat:             " 900/1 ",
		Pengirim:            "Dinas A",
		Perihal:             "LKPD",
		SifatSurat:          "penting",
		TanggalSurat:        "2025-02-01",
		TanggalTerima:       "2025-02-03",
		BidangTujuanID:      7,
		DisposisiKeUserID:   4,
		DisposisiInstruksi:  " Pelajari ",
		DisposisiSifat:      "segera",
		DisposisiBatasWaktu: "2025-02-10",
	}
	require.Empty(t, r.Validate())

	in := r.ToInput(nil)
	assert.Equal(t, "900/1", in.NoSurat)
	assert.Equal(t, models.SifatSurat("penting"), in.SifatSurat)
	require.NotNil(t, in.TanggalSurat)
	assert.Equal(t, 3, in.TanggalTerima.Day())
	require.NotNil(t, in.BidangTujuanID)
	assert.Equal(t, uint(7), *in.BidangTujuanID)
	require.NotNil(t, in.Disposition)
	assert.Equal(t, uint(4), in.Disposition.KeUserID)
	assert.Equal(t, "Pelajari", in.Disposition.Instruksi)
	require.NotNil(t, in.Disposition.BatasWaktu)

	plain := LetterMasukRequest{NoSurat: "1", Pengirim: "A", Perihal: "B"}
	assert.Nil(t, plain.ToInput(nil).Disposition)
	assert.True(t, plain.ToInput(nil).TanggalTerima.IsZero())
}

func TestUpdateDispositionStatusRequest(t *testing.T) {
	r := UpdateDispositionStatusRequest{StatusDisposisi: "ditolak"}
	assert.Contains(t, r.Validate(), "status_disposisi")

	r = UpdateDispositionStatusRequest{StatusDisposisi: "diproses", AgendaJudul: "Rapat", AgendaWaktuMulai: "9am"}
	errs := r.Validate()
	assert.Equal(t, "agenda_waktu_mulai must use format HH:MM", errs["agenda_waktu_mulai"])
	assert.Contains(t, errs, "agenda_tanggal")

	r = UpdateDispositionStatusRequest{StatusDisposisi: "selesai", AgendaJudul: "Rapat", AgendaTanggal: "2025-05-02", AgendaWaktuMulai: "09:00"}
	assert.Empty(t, r.Validate())
}

func TestResponsesLinkFiles(t *testing.T) {
	url := func(path string) string { return "https://files/" + path }

	letter := &models.OutgoingLetter{FilePath: "surat-keluar/a.pdf"}
	resp := NewOutgoingLetterResponse(letter, url)
	assert.Equal(t, "https://files/surat-keluar/a.pdf", resp.FileURL)
	assert.Empty(t, resp.FileBuktiURL)

	scan := NewScanResponse(models.LetterScan{FilePath: "surat-masuk/x.pdf"}, nil)
	assert.Empty(t, scan.URL)
	assert.Equal(t, IncomingLetterResponse{}, NewIncomingLetterResponse(nil, url))
}
