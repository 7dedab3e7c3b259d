package models

import "time"

// Recognised setting keys.
const (
	SettingAppName         = "app_name"
	SettingInstansiName    = "instansi_name"
	SettingAppDescription  = "app_description"
	SettingAppLogo         = "app_logo"
	SettingInstansiAddress = "instansi_address"
	SettingLabelLevel1     = "label_level_1"
	SettingLabelLevel2     = "label_level_2"
	SettingLabelLevel3     = "label_level_3"
	SettingLabelLevel4     = "label_level_4"
)

// DefaultSettings is written by the seeder and used as fallback values.
var DefaultSettings = map[string]string{
	SettingAppName:         "E-Arsip",
	SettingInstansiName:    "Badan Pengelolaan Keuangan dan Aset Daerah",
	SettingAppDescription:  "Aplikasi pengelolaan surat masuk, surat keluar dan disposisi",
	SettingAppLogo:         "",
	SettingInstansiAddress: "",
	SettingLabelLevel1:     "Kepala Badan",
	SettingLabelLevel2:     "Sekretaris / Kepala Bidang",
	SettingLabelLevel3:     "Kepala Sub Bidang",
	SettingLabelLevel4:     "Staf",
}

func IsKnownSetting(key string) bool {
	_, ok := DefaultSettings[key]
	return ok
}

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"column:key;type:varchar(100);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// SequenceCounter holds the last number issued for one numbering scope.
type SequenceCounter struct {
	Scope     string    `gorm:"primaryKey;type:varchar(100)"`
	LastValue int       `gorm:"not null"`
	UpdatedAt time.Time
}

func (SequenceCounter) TableName() string {
	return "nomor_counters"
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Unit{},
		&User{},
		&RefreshToken{},
		&IncomingLetter{},
		&LetterScan{},
		&Disposition{},
		&ActionLog{},
		&Agenda{},
		&OutgoingLetter{},
		&Setting{},
		&SequenceCounter{},
	}
}
