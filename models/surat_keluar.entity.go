package models

import "time"

type OutgoingStatus string

const (
	KeluarDraft    OutgoingStatus = "draft"
	KeluarTerkirim OutgoingStatus = "terkirim"
	KeluarDiterima OutgoingStatus = "diterima"
)

func (s OutgoingStatus) IsValid() bool {
	return s == KeluarDraft || s == KeluarTerkirim || s == KeluarDiterima
}

// OutgoingLetter is an archived letter sent by the agency (surat keluar).
// NoAgenda is formatted as {seq}/{kode bidang}/{tahun}.
type OutgoingLetter struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	NoUrut        int            `gorm:"not null" json:"no_urut"`
	NoAgenda      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"no_agenda"`
	NoSurat       *string        `gorm:"type:varchar(100);uniqueIndex" json:"no_surat"`
	Perihal       string         `gorm:"type:varchar(255);not null" json:"perihal"`
	Tujuan        string         `gorm:"type:varchar(255);not null" json:"tujuan"`
	SifatSurat    SifatSurat     `gorm:"type:varchar(20);not null;default:'biasa'" json:"sifat_surat"`
	StatusSurat   OutgoingStatus `gorm:"type:varchar(20);not null;index" json:"status_surat"`
	TanggalSurat  time.Time      `gorm:"not null;index" json:"tanggal_surat"`
	TanggalKirim  *time.Time     `json:"tanggal_kirim"`
	TanggalTerima *time.Time     `json:"tanggal_terima"`
	Keterangan    string         `gorm:"type:text" json:"keterangan"`
	FilePath      string         `gorm:"type:varchar(255)" json:"file_path"`
	FileBukti     string         `gorm:"type:varchar(255)" json:"file_bukti"`
	BidangID      *uint          `gorm:"index" json:"bidang_id"`
	Bidang        *Unit          `gorm:"foreignKey:BidangID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"bidang,omitempty"`
	KodeBidang    string         `gorm:"type:varchar(30);not null;index:idx_surat_keluar_scope,priority:1" json:"kode_bidang"`
	Tahun         int            `gorm:"not null;index:idx_surat_keluar_scope,priority:2" json:"tahun"`
	CreatedByID   uint           `gorm:"not null;index" json:"created_by_id"`
	CreatedBy     *User          `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (OutgoingLetter) TableName() string {
	return "surat_keluar"
}
