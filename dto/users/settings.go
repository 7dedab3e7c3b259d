package users

import (
	"strings"

	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils"
)

const timeLayout = "2006-01-02 15:04:05"

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.CurrentPassword) == "" {
		errors["current_password"] = "password lama harus diisi"
	}
	if len(r.NewPassword) < 8 {
		errors["new_password"] = "password baru minimal 8 karakter"
	}
	if r.NewPassword != r.ConfirmPassword {
		errors["confirm_password"] = "konfirmasi password tidak cocok"
	}
	return errors
}

// ReplaceEmailRequest mengganti email placeholder admin awal.
type ReplaceEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=191"`
}

func (r *ReplaceEmailRequest) Validate() map[string]string {
	r.Email = strings.TrimSpace(r.Email)
	return utils.ValidateStruct(r)
}

type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

func (r *UpdateSettingsRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if len(r.Settings) == 0 {
		errors["settings"] = "settings harus diisi"
	}
	return errors
}

type BidangRequest struct {
	NamaBidang string `json:"nama_bidang" validate:"required,max=150"`
	Kode       string `json:"kode" validate:"required,max=30"`
	ParentID   *uint  `json:"parent_id"`
	Urutan     int    `json:"urutan" validate:"gte=0"`
}

func (r *BidangRequest) Validate() map[string]string {
	r.NamaBidang = strings.TrimSpace(r.NamaBidang)
	r.Kode = strings.TrimSpace(r.Kode)
	return utils.ValidateStruct(r)
}

func (r *BidangRequest) ToInput() services.UnitInput {
	in := services.UnitInput{
		Nama:   r.NamaBidang,
		Kode:   r.Kode,
		Urutan: r.Urutan,
	}
	if r.ParentID != nil && *r.ParentID != 0 {
		in.ParentID = r.ParentID
	}
	return in
}
