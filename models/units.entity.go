package models

import "time"

// Unit is a node of the organisation tree (bidang).
type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nama      string    `gorm:"type:varchar(150);not null" json:"nama"`
	Kode      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"kode"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Parent    *Unit     `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT" json:"-"`
	Children  []Unit    `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Urutan    int       `gorm:"not null;default:0" json:"urutan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Unit) TableName() string {
	return "bidang"
}
