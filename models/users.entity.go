package models

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleLevel1     Role = "level_1" // pimpinan tertinggi
	RoleLevel2     Role = "level_2" // sekretaris / kepala bidang
	RoleLevel3     Role = "level_3" // kepala sub bidang / seksi
	RoleStaf       Role = "staf"
)

// PlaceholderEmail is carried by the seeded admin until it is replaced.
const PlaceholderEmail = "admin@e-arsip.invalid"

var AllRoles = []Role{RoleSuperAdmin, RoleLevel1, RoleLevel2, RoleLevel3, RoleStaf}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"type:varchar(191);uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	BidangID     *uint     `gorm:"index" json:"bidang_id"`
	Bidang       *Unit     `gorm:"foreignKey:BidangID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"bidang,omitempty"`
	Jabatan      string    `gorm:"type:varchar(150)" json:"jabatan"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// --- Helper Methods ---

func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

func (u *User) HasPlaceholderEmail() bool {
	return u.Email != nil && *u.Email == PlaceholderEmail
}

func (u *User) InUnit(unitID *uint) bool {
	return u.BidangID != nil && unitID != nil && *u.BidangID == *unitID
}

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleLevel1, RoleLevel2, RoleLevel3, RoleStaf:
		return true
	default:
		return false
	}
}

// CanOriginateDisposition reports whether the role belongs to the
// leadership/admin tiers allowed to send a disposisi.
func (r Role) CanOriginateDisposition() bool {
	switch r {
	case RoleSuperAdmin, RoleLevel1, RoleLevel2, RoleLevel3:
		return true
	default:
		return false
	}
}

// SeesAllLetters reports the roles with unconditional letter visibility.
func (r Role) SeesAllLetters() bool {
	return r == RoleSuperAdmin || r == RoleLevel1
}

// LabelKey is the settings key holding the printed job-title label of the
// role. Super admin has no hierarchy level.
func (r Role) LabelKey() string {
	switch r {
	case RoleLevel1:
		return SettingLabelLevel1
	case RoleLevel2:
		return SettingLabelLevel2
	case RoleLevel3:
		return SettingLabelLevel3
	case RoleStaf:
		return SettingLabelLevel4
	default:
		return ""
	}
}
