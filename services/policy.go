package services

import (
	"github.com/penoFahmi/e-arsip-sub000/models"
	"gorm.io/gorm"
)

// Policy holds every access rule of the archive. Users passed in must have
// Bidang loaded; the secretariat tier is decided from the unit code.
type Policy struct {
	sekretariatKode string
}

func NewPolicy(sekretariatKode string) *Policy {
	return &Policy{sekretariatKode: sekretariatKode}
}

// InSecretariat reports membership of the unit that registers mail.
func (p *Policy) InSecretariat(user *models.User) bool {
	return user != nil && user.Bidang != nil && p.sekretariatKode != "" && user.Bidang.Kode == p.sekretariatKode
}

// IsGlobalViewer reports the tier that sees every incoming letter.
func (p *Policy) IsGlobalViewer(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role.SeesAllLetters() || p.InSecretariat(user)
}

// LetterVisibility narrows a surat_masuk query to the letters user may see.
// It is the only place the visibility rule is written down.
func (p *Policy) LetterVisibility(user *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if user == nil {
			return db.Where("1 = 0")
		}
		if p.IsGlobalViewer(user) {
			return db
		}

		cond := "surat_masuk.created_by_id = ? OR EXISTS (SELECT 1 FROM disposisi d WHERE d.surat_masuk_id = surat_masuk.id AND d.ke_user_id = ?)"
		args := []interface{}{user.ID, user.ID}
		if user.BidangID != nil {
			cond = "surat_masuk.bidang_tujuan_id = ? OR " + cond
			args = append([]interface{}{*user.BidangID}, args...)
		}
		return db.Where("("+cond+")", args...)
	}
}

// CanViewLetter evaluates LetterVisibility for a single letter.
func (p *Policy) CanViewLetter(db *gorm.DB, user *models.User, letterID uint) (bool, error) {
	if user == nil {
		return false, ErrUnauthorized
	}
	var count int64
	err := db.Model(&models.IncomingLetter{}).
		Scopes(p.LetterVisibility(user)).
		Where("surat_masuk.id = ?", letterID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanManageLetter decides edit, delete, archive and scan changes. The letter
// must also be visible to the user.
func (p *Policy) CanManageLetter(user *models.User, letter *models.IncomingLetter) (bool, error) {
	if user == nil {
		return false, ErrUnauthorized
	}
	if letter == nil {
		return false, ErrNotFound
	}
	if user.IsSuperAdmin() || p.InSecretariat(user) {
		return true, nil
	}
	return letter.CreatedByID == user.ID, nil
}

// CanCreateDisposition applies the role allow-list for sending a disposisi.
func (p *Policy) CanCreateDisposition(user *models.User) (bool, error) {
	if user == nil {
		return false, ErrUnauthorized
	}
	return user.Role.CanOriginateDisposition(), nil
}

// CanUpdateDisposition allows only the recipient.
func (p *Policy) CanUpdateDisposition(user *models.User, d *models.Disposition) (bool, error) {
	if user == nil {
		return false, ErrUnauthorized
	}
	if d == nil {
		return false, ErrNotFound
	}
	return d.KeUserID == user.ID, nil
}

// CanViewOutgoing: global viewers, the letter's unit, and its author.
func (p *Policy) CanViewOutgoing(user *models.User, letter *models.OutgoingLetter) bool {
	if user == nil || letter == nil {
		return false
	}
	if p.IsGlobalViewer(user) || letter.CreatedByID == user.ID {
		return true
	}
	return user.InUnit(letter.BidangID)
}

// OutgoingVisibility is the list form of CanViewOutgoing.
func (p *Policy) OutgoingVisibility(user *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if user == nil {
			return db.Where("1 = 0")
		}
		if p.IsGlobalViewer(user) {
			return db
		}
		if user.BidangID != nil {
			return db.Where("(surat_keluar.bidang_id = ? OR surat_keluar.created_by_id = ?)", *user.BidangID, user.ID)
		}
		return db.Where("surat_keluar.created_by_id = ?", user.ID)
	}
}

// CanManageOutgoing decides edit, delete and delivery updates.
func (p *Policy) CanManageOutgoing(user *models.User, letter *models.OutgoingLetter) bool {
	if user == nil || letter == nil {
		return false
	}
	if user.IsSuperAdmin() || p.InSecretariat(user) || letter.CreatedByID == user.ID {
		return true
	}
	return user.InUnit(letter.BidangID) && user.Role != models.RoleStaf
}
