package users

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

type AdminUserCreateRequest struct {
	Name     string      `json:"name" validate:"required,max=150"`
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Email    string      `json:"email" validate:"omitempty,email,max=191"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     models.Role `json:"role" validate:"required,oneof=super_admin level_1 level_2 level_3 staf"`
	BidangID *uint       `json:"bidang_id"`
	Jabatan  string      `json:"jabatan" validate:"max=150"`
	IsActive *bool       `json:"is_active"`
}

// AdminUserUpdateRequest leaves nil fields unchanged. An empty password
// keeps the current one.
type AdminUserUpdateRequest struct {
	Name     *string      `json:"name" validate:"omitempty,max=150"`
	Username *string      `json:"username" validate:"omitempty,min=3,max=100"`
	Email    *string      `json:"email" validate:"omitempty,max=191"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=super_admin level_1 level_2 level_3 staf"`
	BidangID *uint        `json:"bidang_id"`
	Jabatan  *string      `json:"jabatan" validate:"omitempty,max=150"`
	IsActive *bool        `json:"is_active"`
}

type AdminUserResponse struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      models.Role  `json:"role"`
	RoleLabel string       `json:"role_label"`
	BidangID  *uint        `json:"bidang_id"`
	Bidang    *models.Unit `json:"bidang,omitempty"`
	Jabatan   string       `json:"jabatan"`
	IsActive  bool         `json:"is_active"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

func (r *AdminUserCreateRequest) Validate() map[string]string {
	return utils.ValidateStruct(r)
}

func (r *AdminUserUpdateRequest) Validate() map[string]string {
	errors := utils.ValidateStruct(r)
	if r.Password != nil {
		pwd := strings.TrimSpace(*r.Password)
		if pwd != "" && len(pwd) < 8 {
			errors["password"] = "password must be at least 8 characters"
		}
	}
	if r.Email != nil && strings.TrimSpace(*r.Email) != "" && !strings.Contains(*r.Email, "@") {
		errors["email"] = "email must be a valid email address"
	}
	return errors
}

func (r *AdminUserCreateRequest) ToInput() services.UserInput {
	in := services.UserInput{
		Name:     r.Name,
		Username: r.Username,
		Password: r.Password,
		Role:     r.Role,
		BidangID: r.BidangID,
		Jabatan:  r.Jabatan,
		IsActive: r.IsActive,
	}
	if e := strings.TrimSpace(r.Email); e != "" {
		in.Email = &e
	}
	return in
}

// ToInput fills unchanged fields from current so the service sees a full record.
func (r *AdminUserUpdateRequest) ToInput(current *models.User) services.UserInput {
	in := services.UserInput{
		Name:     current.Name,
		Username: current.Username,
		Role:     current.Role,
		BidangID: current.BidangID,
		Jabatan:  current.Jabatan,
		Email:    r.Email,
		IsActive: r.IsActive,
	}
	if r.Name != nil {
		in.Name = *r.Name
	}
	if r.Username != nil {
		in.Username = *r.Username
	}
	if r.Role != nil {
		in.Role = *r.Role
	}
	if r.BidangID != nil {
		if *r.BidangID == 0 {
			in.BidangID = nil
		} else {
			in.BidangID = r.BidangID
		}
	}
	if r.Jabatan != nil {
		in.Jabatan = *r.Jabatan
	}
	if r.Password != nil {
		in.Password = strings.TrimSpace(*r.Password)
	}
	return in
}

func NewAdminUserResponse(user models.User, roleLabel string) AdminUserResponse {
	resp := AdminUserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Role:      user.Role,
		RoleLabel: roleLabel,
		BidangID:  user.BidangID,
		Bidang:    user.Bidang,
		Jabatan:   user.Jabatan,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(timeLayout),
		UpdatedAt: user.UpdatedAt.Format(timeLayout),
	}
	if user.Email != nil {
		resp.Email = *user.Email
	}
	return resp
}
