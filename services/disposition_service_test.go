package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLetterStartsAtFirstAgendaNumber(t *testing.T) {
	e := newTestEnv(t)

	letter, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
		NoSurat:    "100/X/2025",
		Pengirim:   "Dinas A",
		Perihal:    "Undangan Rapat",
		SifatSurat: models.SifatBiasa,
		Media:      models.MediaFisik,
	})
	require.NoError(t, err)

	assert.Equal(t, "001", letter.NoAgenda)
	assert.Equal(t, models.StatusBaru, letter.StatusSurat)
	assert.Nil(t, letter.BidangTujuanID)
	require.Len(t, letter.Logs, 1)
	assert.Equal(t, models.AksiInput, letter.Logs[0].Aksi)
}

func TestSendDispositionMarksLetterAndFillsInbox(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)

	d, err := e.dispositions.Create(context.Background(), &e.kepala, DispositionInput{
		SuratMasukID:   letter.ID,
		KeUserID:       e.kabid.ID,
		Instruksi:      "Siapkan bahan rapat",
		SifatDisposisi: models.DisposisiSangatSegera,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisposisiTerkirim, d.StatusDisposisi)

	var stored models.IncomingLetter
	require.NoError(t, e.db.First(&stored, letter.ID).Error)
	assert.Equal(t, models.StatusDidisposisi, stored.StatusSurat)

	logs := e.logs(t, letter.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, models.AksiDisposisiDikirim, logs[1].Aksi)
	require.NotNil(t, logs[1].UserID)
	assert.Equal(t, e.kepala.ID, *logs[1].UserID)

	inbox, total, err := e.dispositions.Inbox(&e.kabid, DispositionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.DisposisiTerkirim, inbox[0].StatusDisposisi)
	assert.Equal(t, letter.ID, inbox[0].SuratMasukID)
}

func TestRecipientCompletesDispositionWithNote(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	updated, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{
		Status:  models.DisposisiSelesai,
		Catatan: "Rapat sudah dihadiri",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisposisiSelesai, updated.StatusDisposisi)
	assert.Equal(t, "Rapat sudah dihadiri", updated.Catatan)

	logs := e.logs(t, letter.ID)
	last := logs[len(logs)-1]
	assert.Equal(t, string(models.DisposisiSelesai), last.Aksi)
	assert.Contains(t, last.Keterangan, "Rapat sudah dihadiri")
	assert.Contains(t, last.Keterangan, e.kabid.Name)

	var stored models.IncomingLetter
	require.NoError(t, e.db.First(&stored, letter.ID).Error)
	assert.Equal(t, models.StatusSelesai, stored.StatusSurat)
}

func TestStatusMessagesFollowTargetStatus(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	steps := []struct {
		status models.DispositionStatus
		want   string
	}{
		{models.DisposisiDibaca, "Disposisi telah dibaca oleh " + e.kabid.Name},
		{models.DisposisiDiproses, "Disposisi sedang diproses oleh " + e.kabid.Name},
		{models.DisposisiTerkirim, "Status disposisi dikembalikan ke terkirim oleh " + e.kabid.Name},
	}
	for _, step := range steps {
		_, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{Status: step.status})
		require.NoError(t, err)

		logs := e.logs(t, letter.ID)
		last := logs[len(logs)-1]
		assert.Equal(t, string(step.status), last.Aksi)
		assert.Equal(t, step.want, last.Keterangan)
	}
}

func TestForwardingClosesParentAndNotifiesNextRecipient(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	parent := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	child := e.dispose(t, &e.kabid, letter.ID, &e.kasubid, &parent.ID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	var reloaded models.Disposition
	require.NoError(t, e.db.First(&reloaded, parent.ID).Error)
	assert.Equal(t, models.DisposisiSelesai, reloaded.StatusDisposisi)
	assert.Contains(t, reloaded.Catatan, "Diteruskan kepada "+e.kasubid.Name)

	inbox, _, err := e.dispositions.Inbox(&e.kasubid, DispositionFilter{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.DisposisiTerkirim, inbox[0].StatusDisposisi)
	assert.Equal(t, letter.ID, inbox[0].SuratMasukID)

	var stored models.IncomingLetter
	require.NoError(t, e.db.First(&stored, letter.ID).Error)
	assert.Equal(t, models.StatusDidisposisi, stored.StatusSurat)
}

func TestForwardingFailureLeavesParentUntouched(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	parent := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := e.dispositions.Create(context.Background(), &e.kabid, DispositionInput{
			SuratMasukID: letter.ID,
			KeUserID:     9999,
			ParentID:     &parent.ID,
			Instruksi:    "Teruskan",
		})
		ve, ok := IsValidation(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Contains(t, ve.Fields, "ke_user_id")
	})

	t.Run("not the parent's recipient", func(t *testing.T) {
		_, err := e.dispositions.Create(context.Background(), &e.padHead, DispositionInput{
			SuratMasukID: letter.ID,
			KeUserID:     e.kasubid.ID,
			ParentID:     &parent.ID,
			Instruksi:    "Teruskan",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	var reloaded models.Disposition
	require.NoError(t, e.db.First(&reloaded, parent.ID).Error)
	assert.Equal(t, models.DisposisiTerkirim, reloaded.StatusDisposisi)
	assert.Empty(t, reloaded.Catatan)

	var count int64
	require.NoError(t, e.db.Model(&models.Disposition{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestOnlyRecipientMayUpdateStatus(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)
	logsBefore := len(e.logs(t, letter.ID))

	for _, actor := range []*models.User{&e.kepala, &e.admin, &e.kasubid, &e.sekre} {
		_, err := e.dispositions.UpdateStatus(context.Background(), actor, d.ID, StatusInput{
			Status:  models.DisposisiSelesai,
			Catatan: "bukan penerima",
		})
		assert.ErrorIs(t, err, ErrForbidden, "actor %s", actor.Username)
	}

	var reloaded models.Disposition
	require.NoError(t, e.db.First(&reloaded, d.ID).Error)
	assert.Equal(t, models.DisposisiTerkirim, reloaded.StatusDisposisi)
	assert.Empty(t, reloaded.Catatan)
	assert.Len(t, e.logs(t, letter.ID), logsBefore)
}

func TestStaffCannotOriginateDisposition(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", &e.keu.ID)

	_, err := e.dispositions.Create(context.Background(), &e.staf, DispositionInput{
		SuratMasukID: letter.ID,
		KeUserID:     e.kasubid.ID,
		Instruksi:    "Mohon ditindaklanjuti",
	})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, e.logs(t, letter.ID), 1)
}

func TestDispositionValidationWritesNothing(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)

	_, err := e.dispositions.Create(context.Background(), &e.kepala, DispositionInput{
		SuratMasukID:   letter.ID,
		KeUserID:       e.kabid.ID,
		SifatDisposisi: "kilat",
	})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "instruksi")
	assert.Contains(t, ve.Fields, "sifat_disposisi")

	_, err = e.dispositions.Create(context.Background(), &e.kepala, DispositionInput{
		SuratMasukID: 4242,
		KeUserID:     e.kabid.ID,
		Instruksi:    "x",
	})
	_, ok = IsValidation(err)
	assert.True(t, ok)

	assert.Len(t, e.logs(t, letter.ID), 1)
	var stored models.IncomingLetter
	require.NoError(t, e.db.First(&stored, letter.ID).Error)
	assert.Equal(t, models.StatusBaru, stored.StatusSurat)
}

func TestUrgentDispositionRoundTripAndVisibility(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)

	created, err := e.dispositions.Create(context.Background(), &e.kepala, DispositionInput{
		SuratMasukID:   letter.ID,
		KeUserID:       e.kabid.ID,
		Instruksi:      "Hadiri rapat koordinasi",
		SifatDisposisi: models.DisposisiSangatSegera,
	})
	require.NoError(t, err)

	got, err := e.dispositions.Get(&e.kabid, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisposisiSangatSegera, got.SifatDisposisi)
	assert.Equal(t, "Hadiri rapat koordinasi", got.Instruksi)

	for _, u := range []*models.User{&e.admin, &e.kepala, &e.sekre, &e.kabid, &e.kasubid, &e.staf, &e.padHead} {
		inbox, _, err := e.dispositions.Inbox(u, DispositionFilter{})
		require.NoError(t, err)
		if u.ID == e.kabid.ID {
			require.Len(t, inbox, 1)
			assert.Equal(t, created.ID, inbox[0].ID)
		} else {
			assert.Empty(t, inbox, "inbox of %s", u.Username)
		}
	}

	sent, _, err := e.dispositions.Sent(&e.kepala, DispositionFilter{})
	require.NoError(t, err)
	require.Len(t, sent, 1)
}

func TestDispositionDetailVisibility(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", &e.pad.ID)
	d := e.dispose(t, &e.kepala, letter.ID, &e.padHead, nil)

	_, err := e.dispositions.Get(&e.kepala, d.ID)
	assert.NoError(t, err)
	_, err = e.dispositions.Get(&e.sekre, d.ID)
	assert.NoError(t, err)
	_, err = e.dispositions.Get(&e.staf, d.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.dispositions.Get(&e.staf, 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatusUpdateStoresFollowUpAndAgenda(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	file := pdfFile("laporan.pdf")
	tanggal := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	updated, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{
		Status: models.DisposisiDiproses,
		File:   &file,
		Agenda: &AgendaInput{Judul: "Rapat koordinasi", Tanggal: tanggal, WaktuMulai: "09:00", WaktuSelesai: "11:00", Lokasi: "Aula"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, updated.FileTindakLanjut)
	assert.True(t, e.store.Has(updated.FileTindakLanjut))

	// a second update edits the same agenda row and replaces the file
	second := pdfFile("laporan-final.pdf")
	updated2, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{
		Status: models.DisposisiDiproses,
		File:   &second,
		Agenda: &AgendaInput{Judul: "Rapat koordinasi lanjutan", Tanggal: tanggal, WaktuMulai: "13:00", WaktuSelesai: "15:00"},
	})
	require.NoError(t, err)
	assert.False(t, e.store.Has(updated.FileTindakLanjut))
	assert.True(t, e.store.Has(updated2.FileTindakLanjut))

	var agendas []models.Agenda
	require.NoError(t, e.db.Where("surat_masuk_id = ?", letter.ID).Find(&agendas).Error)
	require.Len(t, agendas, 1)
	assert.Equal(t, "Rapat koordinasi lanjutan", agendas[0].Judul)
	require.NotNil(t, agendas[0].DisposisiID)
	assert.Equal(t, d.ID, *agendas[0].DisposisiID)

	list, err := e.dispositions.Agendas(&e.kabid, tanggal.AddDate(0, 0, -1), tanggal.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = e.dispositions.Agendas(&e.padHead, tanggal.AddDate(0, 0, -1), tanggal.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStatusUpdateRejectsInvalidInput(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)
	before := len(e.logs(t, letter.ID))

	bad := pdfFile("malware.exe")
	_, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{
		Status: "ditolak",
		File:   &bad,
		Agenda: &AgendaInput{WaktuMulai: "10:00", WaktuSelesai: "09:00"},
	})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	for _, f := range []string{"status_disposisi", "file_tindak_lanjut", "agenda.judul", "agenda.tanggal", "agenda.waktu_selesai"} {
		assert.Contains(t, ve.Fields, f)
	}
	assert.Len(t, e.logs(t, letter.ID), before)
	assert.Equal(t, 0, e.store.Len())
}

func TestStatusUpdateStorageFailure(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	e.store.FailPut = true
	file := pdfFile("laporan.pdf")
	_, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{
		Status: models.DisposisiSelesai,
		File:   &file,
	})
	assert.True(t, errors.Is(err, ErrStorage))

	var reloaded models.Disposition
	require.NoError(t, e.db.First(&reloaded, d.ID).Error)
	assert.Equal(t, models.DisposisiTerkirim, reloaded.StatusDisposisi)
}

func TestDispositionsByLetterInOrder(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	first := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)
	second := e.dispose(t, &e.kabid, letter.ID, &e.kasubid, &first.ID)

	chain, err := e.dispositions.ByLetter(&e.kasubid, letter.ID)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, first.ID, chain[0].ID)
	assert.Equal(t, second.ID, chain[1].ID)
	require.NotNil(t, chain[1].DariUser)
	assert.Equal(t, e.kabid.ID, chain[1].DariUser.ID)

	_, err = e.dispositions.ByLetter(&e.padHead, letter.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLetterStatusNeverMovesBackward(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	status := func() models.LetterStatus {
		var stored models.IncomingLetter
		require.NoError(t, e.db.First(&stored, letter.ID).Error)
		return stored.StatusSurat
	}

	_, err := e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{Status: models.DisposisiSelesai})
	require.NoError(t, err)
	require.Equal(t, models.StatusSelesai, status())

	// disposisi baru pada surat yang sudah selesai
	e.dispose(t, &e.kepala, letter.ID, &e.padHead, nil)
	assert.Equal(t, models.StatusSelesai, status())

	_, err = e.dispositions.UpdateStatus(context.Background(), &e.kabid, d.ID, StatusInput{Status: models.DisposisiDibaca})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelesai, status())
}

func TestCheckRecipient(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	d := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)

	assert.NoError(t, e.dispositions.CheckRecipient(&e.kabid, d.ID))
	assert.ErrorIs(t, e.dispositions.CheckRecipient(&e.kepala, d.ID), ErrForbidden)
	assert.ErrorIs(t, e.dispositions.CheckRecipient(&e.staf, d.ID), ErrForbidden)
	assert.ErrorIs(t, e.dispositions.CheckRecipient(&e.kabid, d.ID+100), ErrNotFound)

	_, err := e.dispositions.UpdateStatus(context.Background(), &e.staf, d.ID, StatusInput{Status: "ditunda"})
	assert.ErrorIs(t, err, ErrForbidden)
}
