package services

import (
	"fmt"
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceService issues agenda numbers. Every method must run inside the
// caller's transaction so the number and the record commit together.
type SequenceService struct{}

func NewSequenceService() *SequenceService {
	return &SequenceService{}
}

// IncomingScope is the counter key for incoming letters of one year and
// destination unit. Letters without a unit share scope 0.
func IncomingScope(year int, unitID *uint) string {
	var id uint
	if unitID != nil {
		id = *unitID
	}
	return fmt.Sprintf("masuk:%d:%d", year, id)
}

// OutgoingScope is the counter key for outgoing letters of one unit code and year.
func OutgoingScope(unitCode string, year int) string {
	return fmt.Sprintf("keluar:%s:%d", strings.ToUpper(unitCode), year)
}

// NextIncoming returns the next sequence and its printed no_agenda, e.g. "007".
func (s *SequenceService) NextIncoming(tx *gorm.DB, year int, unitID *uint) (int, string, error) {
	q := tx.Model(&models.IncomingLetter{}).Where("tahun_agenda = ?", year)
	if unitID != nil {
		q = q.Where("bidang_tujuan_id = ?", *unitID)
	} else {
		q = q.Where("bidang_tujuan_id IS NULL")
	}

	seq, err := s.next(tx, IncomingScope(year, unitID), q)
	if err != nil {
		return 0, "", err
	}
	return seq, fmt.Sprintf("%03d", seq), nil
}

// NextOutgoing returns the next sequence and its no_agenda, e.g. "012/KEU/2025".
func (s *SequenceService) NextOutgoing(tx *gorm.DB, unitCode string, year int) (int, string, error) {
	code := strings.ToUpper(unitCode)
	q := tx.Model(&models.OutgoingLetter{}).Where("kode_bidang = ? AND tahun = ?", code, year)

	seq, err := s.next(tx, OutgoingScope(code, year), q)
	if err != nil {
		return 0, "", err
	}
	return seq, fmt.Sprintf("%03d/%s/%d", seq, code, year), nil
}

// next bumps the counter row with an upsert, then locks it for the rest of the
// transaction. Rows that predate the counter (imports) are honoured by never
// issuing a number at or below the highest stored no_urut.
func (s *SequenceService) next(tx *gorm.DB, scope string, existing *gorm.DB) (int, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_value": gorm.Expr("last_value + 1")}),
	}).Create(&models.SequenceCounter{Scope: scope, LastValue: 1}).Error
	if err != nil {
		return 0, fmt.Errorf("bump counter %s: %w", scope, err)
	}

	var counter models.SequenceCounter
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ?", scope).
		First(&counter).Error; err != nil {
		return 0, fmt.Errorf("lock counter %s: %w", scope, err)
	}

	var maxExisting int
	if err := existing.Select("COALESCE(MAX(no_urut), 0)").Scan(&maxExisting).Error; err != nil {
		return 0, fmt.Errorf("read max sequence %s: %w", scope, err)
	}

	if counter.LastValue <= maxExisting {
		counter.LastValue = maxExisting + 1
		if err := tx.Model(&models.SequenceCounter{}).
			Where("scope = ?", scope).
			Update("last_value", counter.LastValue).Error; err != nil {
			return 0, fmt.Errorf("advance counter %s: %w", scope, err)
		}
	}
	return counter.LastValue, nil
}
