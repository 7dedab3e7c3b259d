package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"gorm.io/gorm"
)

// UnitInput is the editable part of a bidang.
type UnitInput struct {
	Nama     string
	Kode     string
	ParentID *uint
	Urutan   int
}

type UnitService struct {
	db *gorm.DB
}

func NewUnitService(db *gorm.DB) *UnitService {
	return &UnitService{db: db}
}

func (s *UnitService) List() ([]models.Unit, error) {
	var units []models.Unit
	err := s.db.Order("urutan ASC, nama ASC").Find(&units).Error
	return units, err
}

// Tree returns the top-level units with their descendants nested in Children.
func (s *UnitService) Tree() ([]models.Unit, error) {
	units, err := s.List()
	if err != nil {
		return nil, err
	}

	children := map[uint][]models.Unit{}
	var roots []models.Unit
	for _, u := range units {
		if u.ParentID == nil {
			roots = append(roots, u)
			continue
		}
		children[*u.ParentID] = append(children[*u.ParentID], u)
	}

	var attach func(u *models.Unit, depth int)
	attach = func(u *models.Unit, depth int) {
		if depth > len(units) {
			return
		}
		u.Children = children[u.ID]
		for i := range u.Children {
			attach(&u.Children[i], depth+1)
		}
	}
	for i := range roots {
		attach(&roots[i], 0)
	}
	return roots, nil
}

func (s *UnitService) Get(id uint) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (s *UnitService) Create(actor *models.User, in UnitInput) (*models.Unit, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	in.Kode = strings.ToUpper(strings.TrimSpace(in.Kode))
	if err := s.validate(0, in); err != nil {
		return nil, err
	}

	unit := models.Unit{Nama: strings.TrimSpace(in.Nama), Kode: in.Kode, ParentID: in.ParentID, Urutan: in.Urutan}
	if err := s.db.Create(&unit).Error; err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	logger.AuditAction("bidang_dibuat", actor.ID, "bidang", unit.ID, nil)
	return &unit, nil
}

func (s *UnitService) Update(actor *models.User, id uint, in UnitInput) (*models.Unit, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	unit, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	in.Kode = strings.ToUpper(strings.TrimSpace(in.Kode))
	if err := s.validate(id, in); err != nil {
		return nil, err
	}

	unit.Nama = strings.TrimSpace(in.Nama)
	unit.Kode = in.Kode
	unit.ParentID = in.ParentID
	unit.Urutan = in.Urutan
	if err := s.db.Model(unit).Select("nama", "kode", "parent_id", "urutan").Updates(unit).Error; err != nil {
		return nil, fmt.Errorf("update unit: %w", err)
	}
	logger.AuditAction("bidang_diubah", actor.ID, "bidang", unit.ID, nil)
	return unit, nil
}

// Delete refuses while users or child units still reference the unit.
func (s *UnitService) Delete(actor *models.User, id uint) error {
	if !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	if _, err := s.Get(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var members, children int64
		if err := tx.Model(&models.User{}).Where("bidang_id = ?", id).Count(&members).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Unit{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		switch {
		case members > 0 && children > 0:
			return &ConflictError{Message: fmt.Sprintf("Bidang masih memiliki %d pengguna dan %d sub bidang", members, children)}
		case members > 0:
			return &ConflictError{Message: fmt.Sprintf("Bidang masih memiliki %d pengguna", members)}
		case children > 0:
			return &ConflictError{Message: fmt.Sprintf("Bidang masih memiliki %d sub bidang", children)}
		}
		return tx.Delete(&models.Unit{}, id).Error
	})
	if err != nil {
		return err
	}
	logger.AuditAction("bidang_dihapus", actor.ID, "bidang", id, nil)
	return nil
}

func (s *UnitService) validate(id uint, in UnitInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Nama) == "" {
		fields["nama_bidang"] = "wajib diisi"
	}
	if in.Kode == "" {
		fields["kode"] = "wajib diisi"
	} else {
		var count int64
		if err := s.db.Model(&models.Unit{}).Where("kode = ? AND id <> ?", in.Kode, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			fields["kode"] = "kode sudah digunakan"
		}
	}

	if in.ParentID != nil {
		switch cyclic, err := s.createsCycle(id, *in.ParentID); {
		case errors.Is(err, ErrNotFound):
			fields["parent_id"] = "bidang induk tidak ditemukan"
		case err != nil:
			return err
		case cyclic:
			fields["parent_id"] = "bidang induk tidak boleh bidang itu sendiri atau turunannya"
		}
	}
	return invalid(fields)
}

// createsCycle walks up from parentID; reaching id means the new edge closes a loop.
func (s *UnitService) createsCycle(id, parentID uint) (bool, error) {
	seen := map[uint]bool{}
	current := &parentID
	for current != nil {
		if id != 0 && *current == id {
			return true, nil
		}
		if seen[*current] {
			return true, nil
		}
		seen[*current] = true

		var unit models.Unit
		if err := s.db.Select("id", "parent_id").First(&unit, *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrNotFound
			}
			return false, err
		}
		current = unit.ParentID
	}
	return false, nil
}
