package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgendaNumbersAreScopedByUnitAndYear(t *testing.T) {
	e := newTestEnv(t)

	a1 := e.register(t, "1/A", &e.keu.ID)
	a2 := e.register(t, "2/A", &e.keu.ID)
	b1 := e.register(t, "3/B", &e.pad.ID)
	n1 := e.register(t, "4/N", nil)
	a3 := e.register(t, "5/A", &e.keu.ID)

	assert.Equal(t, "001", a1.NoAgenda)
	assert.Equal(t, "002", a2.NoAgenda)
	assert.Equal(t, "001", b1.NoAgenda)
	assert.Equal(t, "001", n1.NoAgenda)
	assert.Equal(t, "003", a3.NoAgenda)

	lastYear, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
		NoSurat:        "6/A",
		Pengirim:       "Dinas B",
		Perihal:        "Laporan",
		TanggalTerima:  time.Date(time.Now().Year()-1, 12, 30, 0, 0, 0, 0, time.Local),
		BidangTujuanID: &e.keu.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "001", lastYear.NoAgenda)
	assert.Equal(t, time.Now().Year()-1, lastYear.TahunAgenda)
}

func TestAgendaNumbersAreNotReusedAfterDelete(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "1/A", nil)
	second := e.register(t, "2/A", nil)

	require.NoError(t, e.incoming.Delete(context.Background(), &e.sekre, second.ID))
	third := e.register(t, "3/A", nil)
	assert.Equal(t, "003", third.NoAgenda)
}

// The SQLite test pool has one connection, so these transactions run one after
// another. This checks uniqueness across goroutines, not the row lock itself.
func TestParallelCallersGetDistinctNumbers(t *testing.T) {
	e := newTestEnv(t)
	const n = 12

	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			letter, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
				NoSurat:        fmt.Sprintf("%d/PAR/2025", i),
				Pengirim:       "Dinas Paralel",
				Perihal:        "Uji",
				BidangTujuanID: &e.keu.ID,
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- letter.NoAgenda
		}(i)
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[string]bool{}
	for no := range numbers {
		assert.False(t, seen[no], "duplicate agenda number %s", no)
		seen[no] = true
	}
	assert.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("%03d", i)], "missing %03d", i)
	}
}

func TestRegisterWithInitialDispositionIsAtomic(t *testing.T) {
	e := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		letter, err := e.incoming.Register(context.Background(), &e.kepala, IncomingInput{
			NoSurat:  "10/INIT",
			Pengirim: "Gubernur",
			Perihal:  "Instruksi",
			Disposition: &DispositionInput{
				KeUserID:       e.kabid.ID,
				Instruksi:      "Segera laksanakan",
				SifatDisposisi: models.DisposisiSegera,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusDidisposisi, letter.StatusSurat)
		require.Len(t, letter.Dispositions, 1)
		assert.Equal(t, e.kabid.ID, letter.Dispositions[0].KeUserID)
		require.Len(t, letter.Logs, 2)
		assert.Equal(t, models.AksiInput, letter.Logs[0].Aksi)
		assert.Equal(t, models.AksiDisposisiDikirim, letter.Logs[1].Aksi)
	})

	t.Run("invalid recipient writes nothing", func(t *testing.T) {
		scan := pdfFile("scan.pdf")
		_, err := e.incoming.Register(context.Background(), &e.kepala, IncomingInput{
			NoSurat:  "11/INIT",
			Pengirim: "Gubernur",
			Perihal:  "Instruksi",
			Scans:    []storage.File{scan},
			Disposition: &DispositionInput{
				KeUserID:  9999,
				Instruksi: "Segera laksanakan",
			},
		})
		ve, ok := IsValidation(err)
		require.True(t, ok, "got %v", err)
		assert.Contains(t, ve.Fields, "disposisi.ke_user_id")

		var count int64
		require.NoError(t, e.db.Model(&models.IncomingLetter{}).Where("no_surat = ?", "11/INIT").Count(&count).Error)
		assert.Zero(t, count)
		assert.Equal(t, 0, e.store.Len())
	})

	t.Run("staff cannot attach a disposition", func(t *testing.T) {
		_, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
			NoSurat:     "12/INIT",
			Pengirim:    "Gubernur",
			Perihal:     "Instruksi",
			Disposition: &DispositionInput{KeUserID: e.kabid.ID, Instruksi: "x"},
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "100/X/2025", nil)

	future := time.Now().AddDate(0, 0, 3)
	missing := uint(4040)
	_, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
		NoSurat:        "100/X/2025",
		SifatSurat:     "super",
		Media:          "fax",
		TanggalSurat:   &future,
		BidangTujuanID: &missing,
		Scans:          []storage.File{pdfFile("surat.docx")},
	})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	for _, f := range []string{"no_surat", "pengirim", "perihal", "sifat_surat", "media", "tanggal_surat", "bidang_tujuan_id", "file_scan"} {
		assert.Contains(t, ve.Fields, f)
	}
}

func TestRegisterStorageFailureLeavesNoLetter(t *testing.T) {
	e := newTestEnv(t)
	e.store.FailPut = true

	_, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
		NoSurat:  "1/FAIL",
		Pengirim: "Dinas A",
		Perihal:  "Uji",
		Scans:    []storage.File{pdfFile("a.pdf")},
	})
	assert.True(t, errors.Is(err, ErrStorage))

	var count int64
	require.NoError(t, e.db.Model(&models.IncomingLetter{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLetterListVisibility(t *testing.T) {
	e := newTestEnv(t)
	toKeu := e.register(t, "1/KEU", &e.keu.ID)
	toPad := e.register(t, "2/PAD", &e.pad.ID)
	e.register(t, "3/NONE", nil)
	e.dispose(t, &e.kepala, toPad.ID, &e.staf, nil)

	ids := func(u *models.User) []uint {
		letters, _, err := e.incoming.List(u, IncomingFilter{Limit: 50})
		require.NoError(t, err)
		out := make([]uint, 0, len(letters))
		for _, l := range letters {
			out = append(out, l.ID)
		}
		return out
	}

	assert.Len(t, ids(&e.admin), 3)
	assert.Len(t, ids(&e.kepala), 3)
	assert.Len(t, ids(&e.sekre), 3)
	assert.ElementsMatch(t, []uint{toKeu.ID}, ids(&e.kabid))
	assert.ElementsMatch(t, []uint{toKeu.ID, toPad.ID}, ids(&e.staf))
	assert.ElementsMatch(t, []uint{toPad.ID}, ids(&e.padHead))

	_, err := e.incoming.Get(&e.padHead, toKeu.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.incoming.Get(&e.padHead, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLetterListFilters(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "1/KEU", &e.keu.ID)
	e.register(t, "2/PAD", &e.pad.ID)
	archived := e.register(t, "3/NONE", nil)
	_, err := e.incoming.Archive(&e.sekre, archived.ID)
	require.NoError(t, err)

	letters, total, err := e.incoming.List(&e.admin, IncomingFilter{Query: "PAD"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, letters, 1)
	assert.Equal(t, "2/PAD", letters[0].NoSurat)

	_, total, err = e.incoming.List(&e.admin, IncomingFilter{Status: models.StatusDiarsipkan})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = e.incoming.List(&e.admin, IncomingFilter{BidangID: &e.keu.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	twoDaysAgo := time.Now().AddDate(0, 0, -2)
	_, total, err = e.incoming.List(&e.admin, IncomingFilter{To: &twoDaysAgo})
	require.NoError(t, err)
	assert.Zero(t, total)

	page, total, err := e.incoming.List(&e.admin, IncomingFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestFailedUpdateAddsNoLogEntry(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "100/X/2025", nil)
	before := e.logs(t, letter.ID)

	_, err := e.incoming.Update(context.Background(), &e.sekre, letter.ID, IncomingInput{
		NoSurat:  "",
		Pengirim: "Dinas A",
		Perihal:  "Undangan Rapat",
	})
	_, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, before, e.logs(t, letter.ID))
}

func TestUpdateLogsEditAndRenumbersOnScopeChange(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "1/KEU", &e.keu.ID)
	letter := e.register(t, "2/NONE", nil)

	updated, err := e.incoming.Update(context.Background(), &e.sekre, letter.ID, IncomingInput{
		NoSurat:        "2/NONE",
		Pengirim:       "Dinas Z",
		Perihal:        "Perihal baru",
		BidangTujuanID: &e.keu.ID,
		Scans:          []storage.File{pdfFile("lampiran.pdf")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dinas Z", updated.Pengirim)
	assert.Equal(t, "002", updated.NoAgenda)
	assert.Equal(t, letter.TanggalTerima.Unix(), updated.TanggalTerima.Unix())
	require.Len(t, updated.Scans, 1)

	logs := e.logs(t, letter.ID)
	assert.Equal(t, models.AksiEdit, logs[len(logs)-1].Aksi)
}

func TestManagePermissions(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "1/KEU", &e.keu.ID)

	_, err := e.incoming.Update(context.Background(), &e.kabid, letter.ID, IncomingInput{NoSurat: "1/KEU", Pengirim: "x", Perihal: "y"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, e.incoming.Delete(context.Background(), &e.padHead, letter.ID), ErrForbidden)
	_, err = e.incoming.Archive(&e.staf, letter.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.incoming.Archive(&e.admin, letter.ID)
	assert.NoError(t, err)
	_, err = e.incoming.Archive(&e.admin, letter.ID)
	_, conflict := IsConflict(err)
	assert.True(t, conflict)
}

func TestDeleteRemovesChildrenAndFiles(t *testing.T) {
	e := newTestEnv(t)
	letter, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
		NoSurat:  "1/DEL",
		Pengirim: "Dinas A",
		Perihal:  "Hapus",
		Scans:    []storage.File{pdfFile("a.pdf"), pdfFile("b.png")},
	})
	require.NoError(t, err)
	parent := e.dispose(t, &e.kepala, letter.ID, &e.kabid, nil)
	child := e.dispose(t, &e.kabid, letter.ID, &e.kasubid, &parent.ID)
	file := pdfFile("tl.pdf")
	_, err = e.dispositions.UpdateStatus(context.Background(), &e.kasubid, child.ID, StatusInput{
		Status: models.DisposisiDiproses,
		File:   &file,
		Agenda: &AgendaInput{Judul: "Rapat", Tanggal: time.Now()},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, e.store.Len())

	require.NoError(t, e.incoming.Delete(context.Background(), &e.sekre, letter.ID))

	for _, m := range []interface{}{&models.IncomingLetter{}, &models.LetterScan{}, &models.Disposition{}, &models.ActionLog{}, &models.Agenda{}} {
		var count int64
		require.NoError(t, e.db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}
	assert.Equal(t, 0, e.store.Len())
}

func TestScansAndLogs(t *testing.T) {
	e := newTestEnv(t)
	letter := e.register(t, "1/SCAN", nil)

	scan, err := e.incoming.AddScan(context.Background(), &e.sekre, letter.ID, pdfFile("halaman1.pdf"))
	require.NoError(t, err)
	assert.True(t, e.store.Has(scan.FilePath))

	_, err = e.incoming.AddScan(context.Background(), &e.sekre, letter.ID, pdfFile("virus.exe"))
	_, ok := IsValidation(err)
	assert.True(t, ok)

	require.NoError(t, e.incoming.RemoveScan(context.Background(), &e.sekre, letter.ID, scan.ID))
	assert.False(t, e.store.Has(scan.FilePath))
	assert.ErrorIs(t, e.incoming.RemoveScan(context.Background(), &e.sekre, letter.ID, scan.ID), ErrNotFound)

	logs, err := e.incoming.Logs(&e.kepala, letter.ID)
	require.NoError(t, err)
	aksi := make([]string, 0, len(logs))
	for _, l := range logs {
		aksi = append(aksi, l.Aksi)
	}
	assert.Equal(t, []string{models.AksiInput, models.AksiScanDitambah, models.AksiScanDihapus}, aksi)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, e.sekre.ID, logs[0].User.ID)
}
