package models

import "time"

type SifatDisposisi string
type DispositionStatus string

const (
	DisposisiBiasa        SifatDisposisi = "biasa"
	DisposisiSegera       SifatDisposisi = "segera"
	DisposisiSangatSegera SifatDisposisi = "sangat_segera"
	DisposisiRahasia      SifatDisposisi = "rahasia"
)

const (
	DisposisiTerkirim DispositionStatus = "terkirim"
	DisposisiDibaca   DispositionStatus = "dibaca"
	DisposisiDiproses DispositionStatus = "diproses"
	DisposisiSelesai  DispositionStatus = "selesai"
)

func (s SifatDisposisi) IsValid() bool {
	switch s {
	case DisposisiBiasa, DisposisiSegera, DisposisiSangatSegera, DisposisiRahasia:
		return true
	default:
		return false
	}
}

func (s DispositionStatus) IsValid() bool {
	switch s {
	case DisposisiTerkirim, DisposisiDibaca, DisposisiDiproses, DisposisiSelesai:
		return true
	default:
		return false
	}
}

// Disposition routes a letter's required action from one user to another.
// ParentID links a forwarded disposition to the one it was delegated from.
type Disposition struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	SuratMasukID     uint              `gorm:"not null;index" json:"surat_masuk_id"`
	SuratMasuk       *IncomingLetter   `gorm:"foreignKey:SuratMasukID" json:"surat_masuk,omitempty"`
	DariUserID       uint              `gorm:"not null;index" json:"dari_user_id"`
	DariUser         *User             `gorm:"foreignKey:DariUserID;constraint:OnDelete:RESTRICT" json:"dari_user,omitempty"`
	KeUserID         uint              `gorm:"not null;index" json:"ke_user_id"`
	KeUser           *User             `gorm:"foreignKey:KeUserID;constraint:OnDelete:RESTRICT" json:"ke_user,omitempty"`
	ParentID         *uint             `gorm:"index" json:"parent_id"`
	Parent           *Disposition      `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	TanggalDisposisi time.Time         `gorm:"not null" json:"tanggal_disposisi"`
	Instruksi        string            `gorm:"type:text;not null" json:"instruksi"`
	BatasWaktu       *time.Time        `gorm:"type:date" json:"batas_waktu"`
	SifatDisposisi   SifatDisposisi    `gorm:"type:varchar(20);not null" json:"sifat_disposisi"`
	StatusDisposisi  DispositionStatus `gorm:"type:varchar(20);not null;index" json:"status_disposisi"`
	Catatan          string            `gorm:"type:text" json:"catatan"`
	FileTindakLanjut string            `gorm:"type:varchar(255)" json:"file_tindak_lanjut"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (Disposition) TableName() string {
	return "disposisi"
}
