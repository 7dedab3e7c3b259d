package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IncomingInput registers or edits a surat masuk. Disposition is only read
// by Register and sends the first disposisi in the same transaction.
type IncomingInput struct {
	NoSurat        string
	Pengirim       string
	Perihal        string
	Ringkasan      string
	SifatSurat     models.SifatSurat
	Media          models.Media
	TanggalSurat   *time.Time
	TanggalTerima  time.Time
	BidangTujuanID *uint
	Scans          []storage.File
	Disposition    *DispositionInput
}

type IncomingFilter struct {
	Query    string
	Status   models.LetterStatus
	BidangID *uint
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

type IncomingService struct {
	db           *gorm.DB
	store        storage.Store
	seq          *SequenceService
	policy       *Policy
	dispositions *DispositionService
}

func NewIncomingService(db *gorm.DB, store storage.Store, seq *SequenceService, policy *Policy, dispositions *DispositionService) *IncomingService {
	return &IncomingService{db: db, store: store, seq: seq, policy: policy, dispositions: dispositions}
}

// Register numbers and stores a new letter with its scans, the input log entry
// and the optional first disposition, all or nothing.
func (s *IncomingService) Register(ctx context.Context, actor *models.User, in IncomingInput) (*models.IncomingLetter, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if in.Disposition != nil {
		if ok, err := s.policy.CanCreateDisposition(actor); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrForbidden
		}
	}
	if err := s.validate(0, &in); err != nil {
		return nil, err
	}

	paths, err := putFiles(ctx, s.store, PrefixScan, in.Scans)
	if err != nil {
		return nil, err
	}

	var letter models.IncomingLetter
	var dispositionID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		year := in.TanggalTerima.Year()
		seq, noAgenda, err := s.seq.NextIncoming(tx, year, in.BidangTujuanID)
		if err != nil {
			return err
		}

		letter = models.IncomingLetter{
			NoSurat:        in.NoSurat,
			NoAgenda:       noAgenda,
			NoUrut:         seq,
			TahunAgenda:    year,
			Pengirim:       in.Pengirim,
			Perihal:        in.Perihal,
			Ringkasan:      in.Ringkasan,
			SifatSurat:     in.SifatSurat,
			Media:          in.Media,
			StatusSurat:    models.StatusBaru,
			TanggalSurat:   in.TanggalSurat,
			TanggalTerima:  in.TanggalTerima,
			BidangTujuanID: in.BidangTujuanID,
			CreatedByID:    actor.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&letter).Error; err != nil {
			return fmt.Errorf("create letter: %w", err)
		}
		if err := createScans(tx, letter.ID, paths, in.Scans); err != nil {
			return err
		}

		msg := fmt.Sprintf("Surat masuk %s dicatat oleh %s dengan nomor agenda %s", letter.NoSurat, actor.Name, letter.NoAgenda)
		if err := appendLog(tx, letter.ID, models.AksiInput, &actor.ID, msg); err != nil {
			return err
		}

		if in.Disposition != nil {
			d, err := s.dispositions.createTx(tx, actor, &letter, *in.Disposition)
			if err != nil {
				return err
			}
			dispositionID = d.ID
		}
		return nil
	})
	if err != nil {
		removeFiles(ctx, s.store, paths...)
		return nil, err
	}

	logger.AuditAction(models.AksiInput, actor.ID, "surat_masuk", letter.ID, logrus.Fields{"no_agenda": letter.NoAgenda})
	if dispositionID != 0 {
		s.dispositions.announceSent(actor, dispositionID)
	}
	return s.Get(actor, letter.ID)
}

// Get returns a letter with its scans, dispositions, log and agenda.
func (s *IncomingService) Get(actor *models.User, id uint) (*models.IncomingLetter, error) {
	if err := s.dispositions.requireVisibleLetter(actor, id); err != nil {
		return nil, err
	}

	var letter models.IncomingLetter
	err := s.db.
		Preload("BidangTujuan").
		Preload("CreatedBy").
		Preload("Scans", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Dispositions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Dispositions.DariUser").
		Preload("Dispositions.KeUser").
		Preload("Logs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Logs.User").
		Preload("Agendas").
		First(&letter, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &letter, nil
}

// List returns the letters visible to the actor, newest receipt first.
func (s *IncomingService) List(actor *models.User, f IncomingFilter) ([]models.IncomingLetter, int64, error) {
	page, limit := NormalizePage(f.Page, f.Limit)

	q := s.filtered(actor, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var letters []models.IncomingLetter
	err := q.Preload("BidangTujuan").
		Order("surat_masuk.tanggal_terima DESC, surat_masuk.id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&letters).Error
	return letters, total, err
}

func (s *IncomingService) filtered(actor *models.User, f IncomingFilter) *gorm.DB {
	q := s.db.Model(&models.IncomingLetter{}).Scopes(s.policy.LetterVisibility(actor))
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where("(surat_masuk.no_surat LIKE ? OR surat_masuk.no_agenda LIKE ? OR surat_masuk.pengirim LIKE ? OR surat_masuk.perihal LIKE ?)", like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("surat_masuk.status_surat = ?", f.Status)
	}
	if f.BidangID != nil {
		q = q.Where("surat_masuk.bidang_tujuan_id = ?", *f.BidangID)
	}
	if f.From != nil {
		q = q.Where("surat_masuk.tanggal_terima >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("surat_masuk.tanggal_terima < ?", f.To.AddDate(0, 0, 1))
	}
	return q
}

// Update edits the letter metadata and appends new scans. Moving the letter
// to another year or destination unit gives it a number in the new scope.
func (s *IncomingService) Update(ctx context.Context, actor *models.User, id uint, in IncomingInput) (*models.IncomingLetter, error) {
	letter, err := s.manageable(actor, id)
	if err != nil {
		return nil, err
	}
	if in.TanggalTerima.IsZero() {
		in.TanggalTerima = letter.TanggalTerima
	}
	if err := s.validate(id, &in); err != nil {
		return nil, err
	}

	paths, err := putFiles(ctx, s.store, PrefixScan, in.Scans)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"no_surat":         in.NoSurat,
			"pengirim":         in.Pengirim,
			"perihal":          in.Perihal,
			"ringkasan":        in.Ringkasan,
			"sifat_surat":      in.SifatSurat,
			"media":            in.Media,
			"tanggal_surat":    in.TanggalSurat,
			"tanggal_terima":   in.TanggalTerima,
			"bidang_tujuan_id": in.BidangTujuanID,
		}

		year := in.TanggalTerima.Year()
		if year != letter.TahunAgenda || !sameUnit(letter.BidangTujuanID, in.BidangTujuanID) {
			seq, noAgenda, err := s.seq.NextIncoming(tx, year, in.BidangTujuanID)
			if err != nil {
				return err
			}
			updates["tahun_agenda"] = year
			updates["no_urut"] = seq
			updates["no_agenda"] = noAgenda
		}

		if err := tx.Model(&models.IncomingLetter{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update letter: %w", err)
		}
		if err := createScans(tx, id, paths, in.Scans); err != nil {
			return err
		}
		return appendLog(tx, id, models.AksiEdit, &actor.ID, fmt.Sprintf("Data surat diperbarui oleh %s", actor.Name))
	})
	if err != nil {
		removeFiles(ctx, s.store, paths...)
		return nil, err
	}

	logger.AuditAction(models.AksiEdit, actor.ID, "surat_masuk", id, nil)
	return s.Get(actor, id)
}

// Delete removes the letter with its scans, dispositions, agenda and log.
// Stored files are removed once the rows are gone.
func (s *IncomingService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.manageable(actor, id); err != nil {
		return err
	}

	var files []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var scans []string
		if err := tx.Model(&models.LetterScan{}).Where("surat_masuk_id = ?", id).Pluck("file_path", &scans).Error; err != nil {
			return err
		}
		var followUps []string
		if err := tx.Model(&models.Disposition{}).
			Where("surat_masuk_id = ? AND file_tindak_lanjut <> ''", id).
			Pluck("file_tindak_lanjut", &followUps).Error; err != nil {
			return err
		}
		files = append(scans, followUps...)

		if err := tx.Model(&models.Disposition{}).Where("surat_masuk_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{&models.Agenda{}, &models.ActionLog{}, &models.Disposition{}, &models.LetterScan{}} {
			if err := tx.Where("surat_masuk_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.IncomingLetter{}, id).Error
	})
	if err != nil {
		return err
	}

	removeFiles(ctx, s.store, files...)
	logger.AuditAction("surat_masuk_dihapus", actor.ID, "surat_masuk", id, nil)
	return nil
}

// Archive closes the letter for good.
func (s *IncomingService) Archive(actor *models.User, id uint) (*models.IncomingLetter, error) {
	letter, err := s.manageable(actor, id)
	if err != nil {
		return nil, err
	}
	if letter.StatusSurat == models.StatusDiarsipkan {
		return nil, &ConflictError{Message: "Surat sudah diarsipkan"}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.IncomingLetter{}).Where("id = ?", id).Update("status_surat", models.StatusDiarsipkan).Error; err != nil {
			return err
		}
		return appendLog(tx, id, models.AksiDiarsipkan, &actor.ID, fmt.Sprintf("Surat diarsipkan oleh %s", actor.Name))
	})
	if err != nil {
		return nil, err
	}
	logger.AuditAction(models.AksiDiarsipkan, actor.ID, "surat_masuk", id, nil)
	return s.Get(actor, id)
}

// AddScan attaches one more scanned file.
func (s *IncomingService) AddScan(ctx context.Context, actor *models.User, id uint, f storage.File) (*models.LetterScan, error) {
	if _, err := s.manageable(actor, id); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	checkUploads("file_scan", []storage.File{f}, fields)
	if err := invalid(fields); err != nil {
		return nil, err
	}

	path, err := putFile(ctx, s.store, PrefixScan, &f)
	if err != nil {
		return nil, err
	}

	scan := models.LetterScan{SuratMasukID: id, FilePath: path, NamaFile: f.Name}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scan).Error; err != nil {
			return err
		}
		return appendLog(tx, id, models.AksiScanDitambah, &actor.ID, fmt.Sprintf("File %s ditambahkan oleh %s", f.Name, actor.Name))
	})
	if err != nil {
		removeFiles(ctx, s.store, path)
		return nil, err
	}
	return &scan, nil
}

// RemoveScan deletes one attachment of the letter.
func (s *IncomingService) RemoveScan(ctx context.Context, actor *models.User, letterID, scanID uint) error {
	if _, err := s.manageable(actor, letterID); err != nil {
		return err
	}

	var scan models.LetterScan
	if err := s.db.Where("id = ? AND surat_masuk_id = ?", scanID, letterID).First(&scan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&scan).Error; err != nil {
			return err
		}
		return appendLog(tx, letterID, models.AksiScanDihapus, &actor.ID, fmt.Sprintf("File %s dihapus oleh %s", scan.NamaFile, actor.Name))
	})
	if err != nil {
		return err
	}
	removeFiles(ctx, s.store, scan.FilePath)
	return nil
}

// Logs returns the letter history oldest first.
func (s *IncomingService) Logs(actor *models.User, id uint) ([]models.ActionLog, error) {
	if err := s.dispositions.requireVisibleLetter(actor, id); err != nil {
		return nil, err
	}
	var logs []models.ActionLog
	err := s.db.Preload("User").
		Where("surat_masuk_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

// manageable loads a letter the actor may both see and change.
func (s *IncomingService) manageable(actor *models.User, id uint) (*models.IncomingLetter, error) {
	if err := s.dispositions.requireVisibleLetter(actor, id); err != nil {
		return nil, err
	}
	var letter models.IncomingLetter
	if err := s.db.First(&letter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ok, err := s.policy.CanManageLetter(actor, &letter)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return &letter, nil
}

func (s *IncomingService) validate(id uint, in *IncomingInput) error {
	in.NoSurat = strings.TrimSpace(in.NoSurat)
	in.Pengirim = strings.TrimSpace(in.Pengirim)
	in.Perihal = strings.TrimSpace(in.Perihal)
	in.Ringkasan = strings.TrimSpace(in.Ringkasan)
	if in.SifatSurat == "" {
		in.SifatSurat = models.SifatBiasa
	}
	if in.Media == "" {
		in.Media = models.MediaFisik
	}
	if in.TanggalTerima.IsZero() {
		in.TanggalTerima = time.Now()
	}

	fields := map[string]string{}
	if in.NoSurat == "" {
		fields["no_surat"] = "wajib diisi"
	}
	if in.Pengirim == "" {
		fields["pengirim"] = "wajib diisi"
	}
	if in.Perihal == "" {
		fields["perihal"] = "wajib diisi"
	}
	if !in.SifatSurat.IsValid() {
		fields["sifat_surat"] = "sifat surat tidak dikenal"
	}
	if !in.Media.IsValid() {
		fields["media"] = "media tidak dikenal"
	}
	if in.TanggalSurat != nil && in.TanggalSurat.After(in.TanggalTerima) {
		fields["tanggal_surat"] = "tidak boleh setelah tanggal terima"
	}
	checkUploads("file_scan", in.Scans, fields)

	if in.NoSurat != "" {
		var count int64
		if err := s.db.Model(&models.IncomingLetter{}).Where("no_surat = ? AND id <> ?", in.NoSurat, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			fields["no_surat"] = "nomor surat sudah terdaftar"
		}
	}
	if in.BidangTujuanID != nil {
		var count int64
		if err := s.db.Model(&models.Unit{}).Where("id = ?", *in.BidangTujuanID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			fields["bidang_tujuan_id"] = "bidang tidak ditemukan"
		}
	}
	if in.Disposition != nil {
		if err := s.checkDispositionRefs(in.Disposition, fields); err != nil {
			return err
		}
	}
	return invalid(fields)
}

// checkDispositionRefs rejects an initial disposition whose recipient does
// not exist before the letter is written.
func (s *IncomingService) checkDispositionRefs(d *DispositionInput, fields map[string]string) error {
	if d.ParentID != nil {
		fields["disposisi.parent_id"] = "disposisi awal tidak boleh memiliki induk"
	}
	if strings.TrimSpace(d.Instruksi) == "" {
		fields["disposisi.instruksi"] = "wajib diisi"
	}
	if d.SifatDisposisi != "" && !d.SifatDisposisi.IsValid() {
		fields["disposisi.sifat_disposisi"] = "sifat disposisi tidak dikenal"
	}
	if d.KeUserID == 0 {
		fields["disposisi.ke_user_id"] = "wajib diisi"
		return nil
	}
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ? AND is_active = ?", d.KeUserID, true).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		fields["disposisi.ke_user_id"] = "penerima tidak ditemukan"
	}
	return nil
}

func createScans(tx *gorm.DB, letterID uint, paths []string, files []storage.File) error {
	for i, p := range paths {
		scan := models.LetterScan{SuratMasukID: letterID, FilePath: p, NamaFile: files[i].Name}
		if err := tx.Create(&scan).Error; err != nil {
			return fmt.Errorf("create scan: %w", err)
		}
	}
	return nil
}

func sameUnit(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
