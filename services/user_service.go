package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"gorm.io/gorm"
)

// UserInput is used for create and update. On update, a nil Email or
// IsActive and an empty Password leave the stored value alone.
type UserInput struct {
	Name     string
	Username string
	Email    *string
	Password string
	Role     models.Role
	BidangID *uint
	Jabatan  string
	IsActive *bool
}

type UserFilter struct {
	Role     models.Role
	BidangID *uint
	Query    string
	Page     int
	Limit    int
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get loads a user with its unit.
func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Bidang").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(f UserFilter) ([]models.User, int64, error) {
	page, limit := NormalizePage(f.Page, f.Limit)

	q := s.db.Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.BidangID != nil {
		q = q.Where("bidang_id = ?", *f.BidangID)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where("(name LIKE ? OR username LIKE ? OR email LIKE ? OR jabatan LIKE ?)", like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Preload("Bidang").Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

// Recipients lists the active users a disposition can be sent to, ordered by role tier.
func (s *UserService) Recipients(actor *models.User) ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Bidang").
		Where("is_active = ? AND id <> ?", true, actor.ID).
		Order("role ASC, name ASC").
		Find(&users).Error
	return users, err
}

func (s *UserService) Create(actor *models.User, in UserInput) (*models.User, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	in.normalize()

	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "wajib diisi"
	}
	if in.Username == "" {
		fields["username"] = "wajib diisi"
	}
	if len(in.Password) < 8 {
		fields["password"] = "minimal 8 karakter"
	}
	if err := s.checkCommon(0, in, fields); err != nil {
		return nil, err
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	user := models.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		BidangID:     in.BidangID,
		Jabatan:      in.Jabatan,
		IsActive:     active,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.AuditAction("pengguna_dibuat", actor.ID, "users", user.ID, nil)
	return s.Get(user.ID)
}

func (s *UserService) Update(actor *models.User, id uint, in UserInput) (*models.User, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	in.normalize()

	fields := map[string]string{}
	if in.Name == "" {
		in.Name = user.Name
	}
	if in.Username == "" {
		in.Username = user.Username
	}
	if in.Role == "" {
		in.Role = user.Role
	}
	if in.Password != "" && len(in.Password) < 8 {
		fields["password"] = "minimal 8 karakter"
	}
	if err := s.checkCommon(id, in, fields); err != nil {
		return nil, err
	}
	if user.ID == actor.ID && in.Role != models.RoleSuperAdmin {
		fields["role"] = "tidak dapat menurunkan peran akun sendiri"
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":      in.Name,
		"username":  in.Username,
		"role":      in.Role,
		"bidang_id": in.BidangID,
		"jabatan":   in.Jabatan,
	}
	if in.Email != nil {
		updates["email"] = in.Email
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = hash
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	logger.AuditAction("pengguna_diubah", actor.ID, "users", id, nil)
	return s.Get(id)
}

// Delete refuses while the user authored letters or dispositions.
func (s *UserService) Delete(actor *models.User, id uint) error {
	if !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	if actor.ID == id {
		return &ConflictError{Message: "Tidak dapat menghapus akun sendiri"}
	}
	if _, err := s.Get(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		checks := []struct {
			model interface{}
			where string
		}{
			{&models.IncomingLetter{}, "created_by_id = ?"},
			{&models.OutgoingLetter{}, "created_by_id = ?"},
			{&models.Disposition{}, "dari_user_id = ? OR ke_user_id = ?"},
		}
		for _, c := range checks {
			var count int64
			args := []interface{}{id}
			if strings.Count(c.where, "?") == 2 {
				args = append(args, id)
			}
			if err := tx.Model(c.model).Where(c.where, args...).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &ConflictError{Message: "Pengguna masih tercatat pada surat atau disposisi; nonaktifkan akun sebagai gantinya"}
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}
	logger.AuditAction("pengguna_dihapus", actor.ID, "users", id, nil)
	return nil
}

// ReplaceEmail is the one action the placeholder guard lets through.
func (s *UserService) ReplaceEmail(actor *models.User, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fields := map[string]string{}
	switch {
	case email == "":
		fields["email"] = "wajib diisi"
	case email == models.PlaceholderEmail:
		fields["email"] = "email harus diganti dengan alamat yang valid"
	case !strings.Contains(email, "@"):
		fields["email"] = "format email tidak valid"
	default:
		taken, err := s.emailTaken(actor.ID, email)
		if err != nil {
			return nil, err
		}
		if taken {
			fields["email"] = "email sudah digunakan"
		}
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", actor.ID).Update("email", email).Error; err != nil {
		return nil, fmt.Errorf("update email: %w", err)
	}
	logger.AuditAction("email_diganti", actor.ID, "users", actor.ID, nil)
	return s.Get(actor.ID)
}

func (s *UserService) ChangePassword(actor *models.User, current, next string) error {
	user, err := s.Get(actor.ID)
	if err != nil {
		return err
	}
	fields := map[string]string{}
	if !utils.CheckPassword(user.PasswordHash, current) {
		fields["current_password"] = "kata sandi lama salah"
	}
	if len(next) < 8 {
		fields["new_password"] = "minimal 8 karakter"
	}
	if err := invalid(fields); err != nil {
		return err
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", hash).Error; err != nil {
		return err
	}
	logger.AuditAction("password_diganti", actor.ID, "users", actor.ID, nil)
	return nil
}

// Authenticate checks a username or email and password pair. Any mismatch
// returns ErrUnauthorized without saying which part failed.
func (s *UserService) Authenticate(login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrUnauthorized
	}

	var user models.User
	err := s.db.Preload("Bidang").
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// SeedAdmin creates the first super admin with the placeholder email. It is a
// no-op when a super admin already exists.
func (s *UserService) SeedAdmin(username, password string) (*models.User, bool, error) {
	var existing models.User
	err := s.db.Where("role = ?", models.RoleSuperAdmin).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	email := models.PlaceholderEmail
	admin := models.User{
		Name:         "Administrator",
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		Jabatan:      "Administrator Sistem",
		IsActive:     true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, false, fmt.Errorf("seed admin: %w", err)
	}
	return &admin, true, nil
}

func (in *UserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Jabatan = strings.TrimSpace(in.Jabatan)
	if in.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		if e == "" {
			in.Email = nil
		} else {
			in.Email = &e
		}
	}
}

func (s *UserService) checkCommon(id uint, in UserInput, fields map[string]string) error {
	if !in.Role.IsValid() {
		fields["role"] = "peran tidak dikenal"
	}
	if in.Username != "" {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ? AND id <> ?", in.Username, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			fields["username"] = "username sudah digunakan"
		}
	}
	if in.Email != nil {
		if *in.Email == models.PlaceholderEmail {
			fields["email"] = "email tidak valid"
		} else {
			taken, err := s.emailTaken(id, *in.Email)
			if err != nil {
				return err
			}
			if taken {
				fields["email"] = "email sudah digunakan"
			}
		}
	}
	if in.BidangID != nil {
		var count int64
		if err := s.db.Model(&models.Unit{}).Where("id = ?", *in.BidangID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			fields["bidang_id"] = "bidang tidak ditemukan"
		}
	}
	return nil
}

func (s *UserService) emailTaken(id uint, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error
	return count > 0, err
}

// NormalizePage applies the default page size of list endpoints.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}
	return page, limit
}
