package models

import (
	"time"
)

type SifatSurat string
type Media string
type LetterStatus string

const (
	SifatBiasa   SifatSurat = "biasa"
	SifatPenting SifatSurat = "penting"
	SifatRahasia SifatSurat = "rahasia"
)

const (
	MediaFisik   Media = "fisik"
	MediaDigital Media = "digital"
)

const (
	StatusBaru        LetterStatus = "baru"
	StatusDidisposisi LetterStatus = "didisposisi"
	StatusSelesai     LetterStatus = "selesai"
	StatusDiarsipkan  LetterStatus = "diarsipkan"
)

var letterStatusRank = map[LetterStatus]int{
	StatusBaru:        0,
	StatusDidisposisi: 1,
	StatusSelesai:     2,
	StatusDiarsipkan:  3,
}

// Before reports whether s comes earlier than other in the letter lifecycle.
func (s LetterStatus) Before(other LetterStatus) bool {
	return letterStatusRank[s] < letterStatusRank[other]
}

func (s LetterStatus) IsValid() bool {
	_, ok := letterStatusRank[s]
	return ok
}

func (s SifatSurat) IsValid() bool {
	switch s {
	case SifatBiasa, SifatPenting, SifatRahasia:
		return true
	default:
		return false
	}
}

func (m Media) IsValid() bool {
	return m == MediaFisik || m == MediaDigital
}

// IncomingLetter is a received letter (surat masuk).
type IncomingLetter struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	NoSurat        string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"no_surat"`
	NoAgenda       string       `gorm:"type:varchar(10);not null" json:"no_agenda"`
	NoUrut         int          `gorm:"not null;index:idx_surat_masuk_scope,priority:3" json:"no_urut"`
	TahunAgenda    int          `gorm:"not null;index:idx_surat_masuk_scope,priority:1" json:"tahun_agenda"`
	Pengirim       string       `gorm:"type:varchar(200);not null;index" json:"pengirim"`
	Perihal        string       `gorm:"type:varchar(255);not null" json:"perihal"`
	Ringkasan      string       `gorm:"type:text" json:"ringkasan"`
	SifatSurat     SifatSurat   `gorm:"type:varchar(20);not null;default:'biasa'" json:"sifat_surat"`
	Media          Media        `gorm:"type:varchar(10);not null;default:'fisik'" json:"media"`
	StatusSurat    LetterStatus `gorm:"type:varchar(20);not null;index" json:"status_surat"`
	TanggalSurat   *time.Time   `gorm:"type:date" json:"tanggal_surat"`
	TanggalTerima  time.Time    `gorm:"not null;index" json:"tanggal_terima"`
	BidangTujuanID *uint        `gorm:"index:idx_surat_masuk_scope,priority:2" json:"bidang_tujuan_id"`
	BidangTujuan   *Unit        `gorm:"foreignKey:BidangTujuanID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"bidang_tujuan,omitempty"`
	CreatedByID    uint         `gorm:"not null;index" json:"created_by_id"`
	CreatedBy      *User        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"created_by,omitempty"`

	Scans        []LetterScan  `gorm:"foreignKey:SuratMasukID;constraint:OnDelete:CASCADE" json:"scans,omitempty"`
	Dispositions []Disposition `gorm:"foreignKey:SuratMasukID;constraint:OnDelete:CASCADE" json:"disposisi,omitempty"`
	Logs         []ActionLog   `gorm:"foreignKey:SuratMasukID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
	Agendas      []Agenda      `gorm:"foreignKey:SuratMasukID;constraint:OnDelete:CASCADE" json:"agenda,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IncomingLetter) TableName() string {
	return "surat_masuk"
}

// LetterScan is one scanned attachment of an incoming letter.
type LetterScan struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SuratMasukID uint      `gorm:"not null;index" json:"surat_masuk_id"`
	FilePath     string    `gorm:"type:varchar(255);not null" json:"file_path"`
	NamaFile     string    `gorm:"type:varchar(255)" json:"nama_file"`
	CreatedAt    time.Time `json:"created_at"`
}

func (LetterScan) TableName() string {
	return "file_scan"
}

// Action tags written to the letter log besides the disposition statuses.
const (
	AksiInput            = "input"
	AksiEdit             = "edit"
	AksiDisposisiDikirim = "disposisi_dikirim"
	AksiDiarsipkan       = "diarsipkan"
	AksiScanDitambah     = "scan_ditambah"
	AksiScanDihapus      = "scan_dihapus"
)

// ActionLog is an append-only entry of a letter's history. UserID is nil for
// system actions.
type ActionLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SuratMasukID uint      `gorm:"not null;index" json:"surat_masuk_id"`
	Aksi         string    `gorm:"type:varchar(50);not null" json:"aksi"`
	UserID       *uint     `gorm:"index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Keterangan   string    `gorm:"type:text" json:"keterangan"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (ActionLog) TableName() string {
	return "log_surat"
}

// Agenda is a calendar entry scheduled for an incoming letter.
type Agenda struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SuratMasukID uint      `gorm:"not null;index" json:"surat_masuk_id"`
	DisposisiID  *uint     `gorm:"uniqueIndex" json:"disposisi_id"`
	Judul        string    `gorm:"type:varchar(255);not null" json:"judul"`
	Tanggal      time.Time `gorm:"type:date;not null;index" json:"tanggal"`
	WaktuMulai   string    `gorm:"type:varchar(5)" json:"waktu_mulai"`
	WaktuSelesai string    `gorm:"type:varchar(5)" json:"waktu_selesai"`
	Lokasi       string    `gorm:"type:varchar(255)" json:"lokasi"`
	Keterangan   string    `gorm:"type:text" json:"keterangan"`
	CreatedByID  uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Agenda) TableName() string {
	return "agenda"
}
