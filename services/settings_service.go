package services

import (
	"errors"
	"fmt"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingService reads and writes the flat key/value settings table.
type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// Get returns the stored value, or fallback when the key has no row.
func (s *SettingService) Get(key, fallback string) (string, error) {
	var setting models.Setting
	err := s.db.Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// All merges stored values over the defaults.
func (s *SettingService) All() (map[string]string, error) {
	out := make(map[string]string, len(models.DefaultSettings))
	for k, v := range models.DefaultSettings {
		out[k] = v
	}

	var rows []models.Setting
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (s *SettingService) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany upserts every pair in one transaction. Unknown keys are rejected
// before anything is written.
func (s *SettingService) SetMany(values map[string]string) error {
	fields := map[string]string{}
	for k := range values {
		if !models.IsKnownSetting(k) {
			fields[k] = "pengaturan tidak dikenal"
		}
	}
	if err := invalid(fields); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&models.Setting{Key: k, Value: v}).Error
			if err != nil {
				return fmt.Errorf("save setting %s: %w", k, err)
			}
		}
		return nil
	})
}

// SeedDefaults writes default values for keys that have no row yet.
func (s *SettingService) SeedDefaults() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for k, v := range models.DefaultSettings {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Setting{Key: k, Value: v}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// RoleLabel is the display label of a role, configured by label_level_*.
func (s *SettingService) RoleLabel(role models.Role) (string, error) {
	if role == models.RoleSuperAdmin {
		return "Super Admin", nil
	}
	key := role.LabelKey()
	if key == "" {
		return string(role), nil
	}
	return s.Get(key, models.DefaultSettings[key])
}

// RoleLabels returns the label of every role, for listings.
func (s *SettingService) RoleLabels() (map[models.Role]string, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	out := make(map[models.Role]string, len(models.AllRoles))
	for _, r := range models.AllRoles {
		if key := r.LabelKey(); key != "" {
			out[r] = all[key]
		} else {
			out[r] = "Super Admin"
		}
	}
	return out, nil
}
