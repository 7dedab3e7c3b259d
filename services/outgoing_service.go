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

// OutgoingInput registers or edits a surat keluar. A nil BidangID falls back
// to the actor's unit.
type OutgoingInput struct {
	Perihal      string
	Tujuan       string
	SifatSurat   models.SifatSurat
	TanggalSurat time.Time
	Keterangan   string
	BidangID     *uint
	File         *storage.File
}

type OutgoingFilter struct {
	Query    string
	Status   models.OutgoingStatus
	BidangID *uint
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

type OutgoingService struct {
	db     *gorm.DB
	store  storage.Store
	seq    *SequenceService
	policy *Policy
}

func NewOutgoingService(db *gorm.DB, store storage.Store, seq *SequenceService, policy *Policy) *OutgoingService {
	return &OutgoingService{db: db, store: store, seq: seq, policy: policy}
}

func (s *OutgoingService) Register(ctx context.Context, actor *models.User, in OutgoingInput) (*models.OutgoingLetter, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	unit, err := s.validate(actor, &in)
	if err != nil {
		return nil, err
	}

	path, err := putFile(ctx, s.store, PrefixSuratKeluar, in.File)
	if err != nil {
		return nil, err
	}

	var letter models.OutgoingLetter
	err = s.db.Transaction(func(tx *gorm.DB) error {
		year := in.TanggalSurat.Year()
		seq, noAgenda, err := s.seq.NextOutgoing(tx, unit.Kode, year)
		if err != nil {
			return err
		}
		letter = models.OutgoingLetter{
			NoUrut:       seq,
			NoAgenda:     noAgenda,
			Perihal:      in.Perihal,
			Tujuan:       in.Tujuan,
			SifatSurat:   in.SifatSurat,
			StatusSurat:  models.KeluarDraft,
			TanggalSurat: in.TanggalSurat,
			Keterangan:   in.Keterangan,
			FilePath:     path,
			BidangID:     &unit.ID,
			KodeBidang:   strings.ToUpper(unit.Kode),
			Tahun:        year,
			CreatedByID:  actor.ID,
		}
		return tx.Omit(clause.Associations).Create(&letter).Error
	})
	if err != nil {
		removeFiles(ctx, s.store, path)
		return nil, err
	}

	logger.AuditAction("surat_keluar_dicatat", actor.ID, "surat_keluar", letter.ID, logrus.Fields{"no_agenda": letter.NoAgenda})
	return s.Get(actor, letter.ID)
}

func (s *OutgoingService) Get(actor *models.User, id uint) (*models.OutgoingLetter, error) {
	var letter models.OutgoingLetter
	if err := s.db.Preload("Bidang").Preload("CreatedBy").First(&letter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.policy.CanViewOutgoing(actor, &letter) {
		return nil, ErrForbidden
	}
	return &letter, nil
}

func (s *OutgoingService) List(actor *models.User, f OutgoingFilter) ([]models.OutgoingLetter, int64, error) {
	page, limit := NormalizePage(f.Page, f.Limit)

	q := s.filtered(actor, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var letters []models.OutgoingLetter
	err := q.Preload("Bidang").
		Order("surat_keluar.tanggal_surat DESC, surat_keluar.id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&letters).Error
	return letters, total, err
}

func (s *OutgoingService) filtered(actor *models.User, f OutgoingFilter) *gorm.DB {
	q := s.db.Model(&models.OutgoingLetter{}).Scopes(s.policy.OutgoingVisibility(actor))
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where("(surat_keluar.no_agenda LIKE ? OR surat_keluar.no_surat LIKE ? OR surat_keluar.perihal LIKE ? OR surat_keluar.tujuan LIKE ?)", like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("surat_keluar.status_surat = ?", f.Status)
	}
	if f.BidangID != nil {
		q = q.Where("surat_keluar.bidang_id = ?", *f.BidangID)
	}
	if f.From != nil {
		q = q.Where("surat_keluar.tanggal_surat >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("surat_keluar.tanggal_surat < ?", f.To.AddDate(0, 0, 1))
	}
	return q
}

// Update edits a draft. A change of unit or year renumbers the letter.
func (s *OutgoingService) Update(ctx context.Context, actor *models.User, id uint, in OutgoingInput) (*models.OutgoingLetter, error) {
	letter, err := s.manageable(actor, id)
	if err != nil {
		return nil, err
	}
	if letter.StatusSurat != models.KeluarDraft {
		return nil, &ConflictError{Message: "Surat keluar yang sudah dikirim tidak dapat diubah"}
	}
	if in.BidangID == nil {
		in.BidangID = letter.BidangID
	}
	unit, err := s.validate(actor, &in)
	if err != nil {
		return nil, err
	}

	path, err := putFile(ctx, s.store, PrefixSuratKeluar, in.File)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"perihal":       in.Perihal,
			"tujuan":        in.Tujuan,
			"sifat_surat":   in.SifatSurat,
			"tanggal_surat": in.TanggalSurat,
			"keterangan":    in.Keterangan,
			"bidang_id":     unit.ID,
		}
		if path != "" {
			updates["file_path"] = path
		}

		code := strings.ToUpper(unit.Kode)
		year := in.TanggalSurat.Year()
		if code != letter.KodeBidang || year != letter.Tahun {
			seq, noAgenda, err := s.seq.NextOutgoing(tx, code, year)
			if err != nil {
				return err
			}
			updates["kode_bidang"] = code
			updates["tahun"] = year
			updates["no_urut"] = seq
			updates["no_agenda"] = noAgenda
		}
		return tx.Model(&models.OutgoingLetter{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		removeFiles(ctx, s.store, path)
		return nil, err
	}
	if path != "" {
		removeFiles(ctx, s.store, letter.FilePath)
	}

	logger.AuditAction("surat_keluar_diubah", actor.ID, "surat_keluar", id, nil)
	return s.Get(actor, id)
}

func (s *OutgoingService) Delete(ctx context.Context, actor *models.User, id uint) error {
	letter, err := s.manageable(actor, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.OutgoingLetter{}, id).Error; err != nil {
		return err
	}
	removeFiles(ctx, s.store, letter.FilePath, letter.FileBukti)
	logger.AuditAction("surat_keluar_dihapus", actor.ID, "surat_keluar", id, nil)
	return nil
}

// MarkSent records the external letter number and moves a draft to terkirim.
func (s *OutgoingService) MarkSent(actor *models.User, id uint, noSurat string, sentAt time.Time) (*models.OutgoingLetter, error) {
	letter, err := s.manageable(actor, id)
	if err != nil {
		return nil, err
	}
	if letter.StatusSurat != models.KeluarDraft {
		return nil, &ConflictError{Message: "Surat keluar sudah dikirim"}
	}

	noSurat = strings.TrimSpace(noSurat)
	fields := map[string]string{}
	if noSurat == "" {
		fields["no_surat"] = "wajib diisi"
	} else {
		var count int64
		if err := s.db.Model(&models.OutgoingLetter{}).Where("no_surat = ? AND id <> ?", noSurat, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			fields["no_surat"] = "nomor surat sudah digunakan"
		}
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	err = s.db.Model(&models.OutgoingLetter{}).Where("id = ?", id).Updates(map[string]interface{}{
		"no_surat":      noSurat,
		"status_surat":  models.KeluarTerkirim,
		"tanggal_kirim": sentAt,
	}).Error
	if err != nil {
		return nil, err
	}
	logger.AuditAction("surat_keluar_dikirim", actor.ID, "surat_keluar", id, logrus.Fields{"no_surat": noSurat})
	return s.Get(actor, id)
}

// MarkReceived stores the proof of delivery and closes the letter.
func (s *OutgoingService) MarkReceived(ctx context.Context, actor *models.User, id uint, receivedAt time.Time, proof *storage.File) (*models.OutgoingLetter, error) {
	letter, err := s.manageable(actor, id)
	if err != nil {
		return nil, err
	}
	if letter.StatusSurat != models.KeluarTerkirim {
		return nil, &ConflictError{Message: "Hanya surat yang sudah dikirim dapat ditandai diterima"}
	}

	fields := map[string]string{}
	if proof == nil {
		fields["file_bukti"] = "wajib diunggah"
	} else {
		checkUploads("file_bukti", []storage.File{*proof}, fields)
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	path, err := putFile(ctx, s.store, PrefixBukti, proof)
	if err != nil {
		return nil, err
	}
	err = s.db.Model(&models.OutgoingLetter{}).Where("id = ?", id).Updates(map[string]interface{}{
		"file_bukti":     path,
		"status_surat":   models.KeluarDiterima,
		"tanggal_terima": receivedAt,
	}).Error
	if err != nil {
		removeFiles(ctx, s.store, path)
		return nil, err
	}
	removeFiles(ctx, s.store, letter.FileBukti)

	logger.AuditAction("surat_keluar_diterima", actor.ID, "surat_keluar", id, nil)
	return s.Get(actor, id)
}

func (s *OutgoingService) manageable(actor *models.User, id uint) (*models.OutgoingLetter, error) {
	letter, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanManageOutgoing(actor, letter) {
		return nil, ErrForbidden
	}
	return letter, nil
}

// validate normalises in and returns the unit whose code numbers the letter.
func (s *OutgoingService) validate(actor *models.User, in *OutgoingInput) (*models.Unit, error) {
	in.Perihal = strings.TrimSpace(in.Perihal)
	in.Tujuan = strings.TrimSpace(in.Tujuan)
	in.Keterangan = strings.TrimSpace(in.Keterangan)
	if in.SifatSurat == "" {
		in.SifatSurat = models.SifatBiasa
	}
	if in.BidangID == nil {
		in.BidangID = actor.BidangID
	}

	fields := map[string]string{}
	if in.Perihal == "" {
		fields["perihal"] = "wajib diisi"
	}
	if in.Tujuan == "" {
		fields["tujuan"] = "wajib diisi"
	}
	if in.TanggalSurat.IsZero() {
		fields["tanggal_surat"] = "wajib diisi"
	}
	if !in.SifatSurat.IsValid() {
		fields["sifat_surat"] = "sifat surat tidak dikenal"
	}
	if in.File != nil {
		checkUploads("file_surat", []storage.File{*in.File}, fields)
	}

	var unit models.Unit
	if in.BidangID == nil {
		fields["bidang_id"] = "wajib diisi"
	} else if err := s.db.First(&unit, *in.BidangID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		fields["bidang_id"] = "bidang tidak ditemukan"
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !s.policy.InSecretariat(actor) && !actor.InUnit(&unit.ID) {
		return nil, fmt.Errorf("%w: surat keluar hanya dapat dicatat untuk bidang sendiri", ErrForbidden)
	}
	return &unit, nil
}
