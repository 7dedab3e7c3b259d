package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/events"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DispositionInput creates a disposisi. ParentID forwards a disposisi the
// actor received; the parent is closed in the same transaction.
type DispositionInput struct {
	SuratMasukID   uint
	KeUserID       uint
	ParentID       *uint
	Instruksi      string
	BatasWaktu     *time.Time
	SifatDisposisi models.SifatDisposisi
	Catatan        string
}

// AgendaInput schedules a calendar entry from a disposition update.
type AgendaInput struct {
	Judul        string
	Tanggal      time.Time
	WaktuMulai   string
	WaktuSelesai string
	Lokasi       string
	Keterangan   string
}

// StatusInput is the recipient's reply to a disposisi.
type StatusInput struct {
	Status  models.DispositionStatus
	Catatan string
	File    *storage.File
	Agenda  *AgendaInput
}

type DispositionFilter struct {
	Status models.DispositionStatus
	Page   int
	Limit  int
}

// statusMessages is the log text per target status; %s is the actor name.
var statusMessages = map[models.DispositionStatus]string{
	models.DisposisiTerkirim: "Status disposisi dikembalikan ke terkirim oleh %s",
	models.DisposisiDibaca:   "Disposisi telah dibaca oleh %s",
	models.DisposisiDiproses: "Disposisi sedang diproses oleh %s",
	models.DisposisiSelesai:  "Disposisi diselesaikan oleh %s",
}

type DispositionService struct {
	db     *gorm.DB
	store  storage.Store
	policy *Policy
}

func NewDispositionService(db *gorm.DB, store storage.Store, policy *Policy) *DispositionService {
	return &DispositionService{db: db, store: store, policy: policy}
}

// Create sends a disposisi for an existing letter.
func (s *DispositionService) Create(ctx context.Context, actor *models.User, in DispositionInput) (*models.Disposition, error) {
	if ok, err := s.policy.CanCreateDisposition(actor); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrForbidden
	}

	var letter models.IncomingLetter
	if err := s.db.First(&letter, in.SuratMasukID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("surat_masuk_id", "surat masuk tidak ditemukan")
		}
		return nil, err
	}
	visible, err := s.policy.CanViewLetter(s.db, actor, letter.ID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrForbidden
	}

	var created *models.Disposition
	err = s.db.Transaction(func(tx *gorm.DB) error {
		d, err := s.createTx(tx, actor, &letter, in)
		created = d
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announceSent(actor, created.ID)
	return s.load(created.ID)
}

// createTx writes the disposition, closes the forwarded parent, moves the
// letter status and appends the log entry. Everything is checked before the
// first write.
func (s *DispositionService) createTx(tx *gorm.DB, actor *models.User, letter *models.IncomingLetter, in DispositionInput) (*models.Disposition, error) {
	fields := map[string]string{}
	in.Instruksi = strings.TrimSpace(in.Instruksi)
	if in.Instruksi == "" {
		fields["instruksi"] = "wajib diisi"
	}
	if in.SifatDisposisi == "" {
		in.SifatDisposisi = models.DisposisiBiasa
	} else if !in.SifatDisposisi.IsValid() {
		fields["sifat_disposisi"] = "sifat disposisi tidak dikenal"
	}

	var recipient models.User
	switch {
	case in.KeUserID == 0:
		fields["ke_user_id"] = "wajib diisi"
	case in.KeUserID == actor.ID:
		fields["ke_user_id"] = "tidak dapat mendisposisi kepada diri sendiri"
	default:
		err := tx.First(&recipient, in.KeUserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !recipient.IsActive):
			fields["ke_user_id"] = "penerima tidak ditemukan"
		case err != nil:
			return nil, err
		}
	}

	var parent models.Disposition
	if in.ParentID != nil {
		err := tx.First(&parent, *in.ParentID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.SuratMasukID != letter.ID):
			fields["parent_id"] = "disposisi induk tidak valid"
		case err != nil:
			return nil, err
		}
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}
	if in.ParentID != nil && parent.KeUserID != actor.ID {
		return nil, ErrForbidden
	}

	now := time.Now()
	d := models.Disposition{
		SuratMasukID:     letter.ID,
		DariUserID:       actor.ID,
		KeUserID:         recipient.ID,
		ParentID:         in.ParentID,
		TanggalDisposisi: now,
		Instruksi:        in.Instruksi,
		BatasWaktu:       in.BatasWaktu,
		SifatDisposisi:   in.SifatDisposisi,
		StatusDisposisi:  models.DisposisiTerkirim,
		Catatan:          strings.TrimSpace(in.Catatan),
	}
	if err := tx.Omit(clause.Associations).Create(&d).Error; err != nil {
		return nil, fmt.Errorf("create disposition: %w", err)
	}

	if in.ParentID != nil {
		note := fmt.Sprintf("Diteruskan kepada %s pada %s", recipient.Name, now.Format("02-01-2006 15:04"))
		if err := tx.Model(&models.Disposition{}).Where("id = ?", parent.ID).Updates(map[string]interface{}{
			"status_disposisi": models.DisposisiSelesai,
			"catatan":          note,
		}).Error; err != nil {
			return nil, fmt.Errorf("close parent disposition: %w", err)
		}
	}

	if err := syncLetterStatus(tx, letter.ID); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Disposisi dari %s kepada %s: %s", actor.Name, recipient.Name, d.Instruksi)
	if err := appendLog(tx, letter.ID, models.AksiDisposisiDikirim, &actor.ID, msg); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateStatus records the recipient's progress. Only the recipient may call it.
func (s *DispositionService) UpdateStatus(ctx context.Context, actor *models.User, id uint, in StatusInput) (*models.Disposition, error) {
	d, err := s.recipientOf(actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if !in.Status.IsValid() {
		fields["status_disposisi"] = "status tidak dikenal"
	}
	if in.File != nil {
		checkUploads("file_tindak_lanjut", []storage.File{*in.File}, fields)
	}
	if in.Agenda != nil {
		validateAgenda(in.Agenda, fields)
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	newFile, err := putFile(ctx, s.store, PrefixTindakLanjut, in.File)
	if err != nil {
		return nil, err
	}

	oldStatus := d.StatusDisposisi
	oldFile := d.FileTindakLanjut
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status_disposisi": in.Status}
		if note := strings.TrimSpace(in.Catatan); note != "" {
			updates["catatan"] = note
		}
		if newFile != "" {
			updates["file_tindak_lanjut"] = newFile
		}
		if err := tx.Model(&models.Disposition{}).Where("id = ?", d.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update disposition: %w", err)
		}

		msg := fmt.Sprintf(statusMessages[in.Status], actor.Name)
		if note := strings.TrimSpace(in.Catatan); note != "" && in.Status == models.DisposisiSelesai {
			msg += ". Catatan: " + note
		}
		if err := appendLog(tx, d.SuratMasukID, string(in.Status), &actor.ID, msg); err != nil {
			return err
		}

		if in.Agenda != nil {
			if err := upsertAgenda(tx, actor, d, in.Agenda); err != nil {
				return err
			}
		}
		return syncLetterStatus(tx, d.SuratMasukID)
	})
	if err != nil {
		removeFiles(ctx, s.store, newFile)
		return nil, err
	}
	if newFile != "" && oldFile != "" {
		removeFiles(ctx, s.store, oldFile)
	}

	logger.AuditAction("disposisi_"+string(in.Status), actor.ID, "disposisi", d.ID, logrus.Fields{"old_status": oldStatus})
	updated, err := s.load(d.ID)
	if err != nil {
		return nil, err
	}
	if updated.SuratMasuk != nil {
		events.Publish(events.DispositionEvent{
			Type:        events.DispositionStatusChanged,
			Disposition: *updated,
			Letter:      *updated.SuratMasuk,
			OldStatus:   oldStatus,
		})
	}
	return updated, nil
}

// CheckRecipient returns ErrForbidden unless actor is the disposition's
// recipient. Handlers call it before looking at the request body.
func (s *DispositionService) CheckRecipient(actor *models.User, id uint) error {
	_, err := s.recipientOf(actor, id)
	return err
}

func (s *DispositionService) recipientOf(actor *models.User, id uint) (*models.Disposition, error) {
	var d models.Disposition
	if err := s.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ok, err := s.policy.CanUpdateDisposition(actor, &d); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrForbidden
	}
	return &d, nil
}

// Inbox lists dispositions addressed to the actor.
func (s *DispositionService) Inbox(actor *models.User, f DispositionFilter) ([]models.Disposition, int64, error) {
	return s.list(s.db.Where("disposisi.ke_user_id = ?", actor.ID), f)
}

// Sent lists dispositions the actor sent.
func (s *DispositionService) Sent(actor *models.User, f DispositionFilter) ([]models.Disposition, int64, error) {
	return s.list(s.db.Where("disposisi.dari_user_id = ?", actor.ID), f)
}

func (s *DispositionService) list(q *gorm.DB, f DispositionFilter) ([]models.Disposition, int64, error) {
	page, limit := NormalizePage(f.Page, f.Limit)
	q = q.Model(&models.Disposition{})
	if f.Status != "" {
		q = q.Where("disposisi.status_disposisi = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Disposition
	err := q.Preload("SuratMasuk").Preload("DariUser").Preload("KeUser").
		Order("disposisi.created_at DESC, disposisi.id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&items).Error
	return items, total, err
}

// Get is allowed for the sender, the recipient and anyone who can see the letter.
func (s *DispositionService) Get(actor *models.User, id uint) (*models.Disposition, error) {
	d, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if d.DariUserID == actor.ID || d.KeUserID == actor.ID {
		return d, nil
	}
	visible, err := s.policy.CanViewLetter(s.db, actor, d.SuratMasukID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrForbidden
	}
	return d, nil
}

// ByLetter returns the disposition chain of a letter in creation order.
func (s *DispositionService) ByLetter(actor *models.User, letterID uint) ([]models.Disposition, error) {
	if err := s.requireVisibleLetter(actor, letterID); err != nil {
		return nil, err
	}
	var items []models.Disposition
	err := s.db.Preload("DariUser").Preload("KeUser").
		Where("surat_masuk_id = ?", letterID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// Agendas lists calendar entries in [from, to] for letters visible to the actor.
func (s *DispositionService) Agendas(actor *models.User, from, to time.Time) ([]models.Agenda, error) {
	var items []models.Agenda
	err := s.db.Model(&models.Agenda{}).
		Joins("JOIN surat_masuk ON surat_masuk.id = agenda.surat_masuk_id").
		Scopes(s.policy.LetterVisibility(actor)).
		Where("agenda.tanggal >= ? AND agenda.tanggal <= ?", from, to).
		Order("agenda.tanggal ASC, agenda.waktu_mulai ASC").
		Find(&items).Error
	return items, err
}

func (s *DispositionService) requireVisibleLetter(actor *models.User, letterID uint) error {
	var count int64
	if err := s.db.Model(&models.IncomingLetter{}).Where("id = ?", letterID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	visible, err := s.policy.CanViewLetter(s.db, actor, letterID)
	if err != nil {
		return err
	}
	if !visible {
		return ErrForbidden
	}
	return nil
}

func (s *DispositionService) load(id uint) (*models.Disposition, error) {
	var d models.Disposition
	err := s.db.Preload("SuratMasuk").Preload("DariUser").Preload("KeUser").First(&d, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// announceSent publishes DispositionSent and writes the audit entry.
func (s *DispositionService) announceSent(actor *models.User, id uint) {
	d, err := s.load(id)
	if err != nil {
		logger.App().WithError(err).WithField("disposition_id", id).Warn("reload disposition for event")
		return
	}
	logger.AuditAction(models.AksiDisposisiDikirim, actor.ID, "disposisi", d.ID, logrus.Fields{
		"surat_masuk_id": d.SuratMasukID,
		"ke_user_id":     d.KeUserID,
	})
	if d.SuratMasuk != nil {
		events.Publish(events.DispositionEvent{
			Type:        events.DispositionSent,
			Disposition: *d,
			Letter:      *d.SuratMasuk,
		})
	}
}

func validateAgenda(a *AgendaInput, fields map[string]string) {
	a.Judul = strings.TrimSpace(a.Judul)
	if a.Judul == "" {
		fields["agenda.judul"] = "wajib diisi"
	}
	if a.Tanggal.IsZero() {
		fields["agenda.tanggal"] = "wajib diisi"
	}
	if a.WaktuMulai != "" && a.WaktuSelesai != "" && a.WaktuSelesai < a.WaktuMulai {
		fields["agenda.waktu_selesai"] = "tidak boleh sebelum waktu mulai"
	}
}

// upsertAgenda keeps at most one agenda per disposition.
func upsertAgenda(tx *gorm.DB, actor *models.User, d *models.Disposition, in *AgendaInput) error {
	var agenda models.Agenda
	err := tx.Where("disposisi_id = ?", d.ID).First(&agenda).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	agenda.SuratMasukID = d.SuratMasukID
	agenda.DisposisiID = &d.ID
	agenda.Judul = in.Judul
	agenda.Tanggal = in.Tanggal
	agenda.WaktuMulai = in.WaktuMulai
	agenda.WaktuSelesai = in.WaktuSelesai
	agenda.Lokasi = strings.TrimSpace(in.Lokasi)
	agenda.Keterangan = strings.TrimSpace(in.Keterangan)
	if agenda.ID == 0 {
		agenda.CreatedByID = actor.ID
		return tx.Create(&agenda).Error
	}
	return tx.Save(&agenda).Error
}

// syncLetterStatus moves the letter forward to didisposisi, or to selesai once
// every disposition is closed. It never moves a letter back.
func syncLetterStatus(tx *gorm.DB, letterID uint) error {
	var letter models.IncomingLetter
	if err := tx.Select("id", "status_surat").First(&letter, letterID).Error; err != nil {
		return err
	}
	if letter.StatusSurat == models.StatusDiarsipkan {
		return nil
	}

	var total, open int64
	if err := tx.Model(&models.Disposition{}).Where("surat_masuk_id = ?", letterID).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	if err := tx.Model(&models.Disposition{}).
		Where("surat_masuk_id = ? AND status_disposisi <> ?", letterID, models.DisposisiSelesai).
		Count(&open).Error; err != nil {
		return err
	}

	target := models.StatusDidisposisi
	if open == 0 {
		target = models.StatusSelesai
	}
	if !letter.StatusSurat.Before(target) {
		return nil
	}
	return tx.Model(&models.IncomingLetter{}).Where("id = ?", letterID).Update("status_surat", target).Error
}

// appendLog writes one log_surat row in the caller's transaction.
func appendLog(tx *gorm.DB, letterID uint, aksi string, userID *uint, keterangan string) error {
	entry := models.ActionLog{
		SuratMasukID: letterID,
		Aksi:         aksi,
		UserID:       userID,
		Keterangan:   keterangan,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("append log %s: %w", aksi, err)
	}
	return nil
}
