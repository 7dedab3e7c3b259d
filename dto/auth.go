package dto

import (
	"strings"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

// LoginRequest accepts a username or an email in Login.
type LoginRequest struct {
	Login    string `json:"login" form:"login" validate:"required,max=191"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *LoginRequest) Validate() map[string]string {
	r.Login = strings.TrimSpace(r.Login)
	return utils.ValidateStruct(r)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

func (r *RefreshTokenRequest) Validate() map[string]string {
	return utils.ValidateStruct(r)
}

type LoginResponse struct {
	AccessToken      string      `json:"access_token"`
	RefreshToken     string      `json:"refresh_token"`
	TokenType        string      `json:"token_type"`
	ExpiresAt        time.Time   `json:"expires_at"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
	MustReplaceEmail bool        `json:"must_replace_email"`
	User             UserSummary `json:"user"`
}

type BidangSummary struct {
	ID   uint   `json:"id"`
	Nama string `json:"nama"`
	Kode string `json:"kode"`
}

type UserSummary struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Role      models.Role    `json:"role"`
	RoleLabel string         `json:"role_label"`
	Jabatan   string         `json:"jabatan,omitempty"`
	IsActive  bool           `json:"is_active"`
	Bidang    *BidangSummary `json:"bidang,omitempty"`
}

func NewUserSummary(user *models.User, roleLabel string) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	s := UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Role:      user.Role,
		RoleLabel: roleLabel,
		Jabatan:   user.Jabatan,
		IsActive:  user.IsActive,
	}
	if user.Email != nil {
		s.Email = *user.Email
	}
	if user.Bidang != nil {
		s.Bidang = &BidangSummary{ID: user.Bidang.ID, Nama: user.Bidang.Nama, Kode: user.Bidang.Kode}
	}
	return s
}

func NewLoginResponse(pair *services.TokenPair, roleLabel string) LoginResponse {
	return LoginResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		ExpiresAt:        pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		MustReplaceEmail: pair.User.HasPlaceholderEmail(),
		User:             NewUserSummary(pair.User, roleLabel),
	}
}
