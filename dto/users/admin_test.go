package users

import (
	"testing"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func TestAdminUserCreateRequest(t *testing.T) {
	r := AdminUserCreateRequest{Name: "Ani", Username: "an", Password: "short", Role: "operator"}
	errs := r.Validate()
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "role")

	r = AdminUserCreateRequest{Name: "Ani", Username: "ani", Password: "rahasia123", Role: models.RoleStaf}
	require.Empty(t, r.Validate())
	assert.Nil(t, r.ToInput().Email)

	r.Email = "   "
	assert.Nil(t, r.ToInput().Email)

	r.Email = "ani@bpkad.go.id"
	in := r.ToInput()
	require.NotNil(t, in.Email)
	assert.Equal(t, "ani@bpkad.go.id", *in.Email)
}

func TestAdminUserUpdateRequestToInput(t *testing.T) {
	email := "kabid@bpkad.go.id"
	current := &models.User{
		ID:       3,
		Name:     "Kabid Lama",
		Username: "kabid",
		Email:    &email,
		Role:     models.RoleLevel2,
		BidangID: uintPtr(2),
		Jabatan:  "Kepala Bidang",
	}

	r := AdminUserUpdateRequest{Name: strPtr("Kabid Baru"), Password: strPtr("  ")}
	require.Empty(t, r.Validate())
	in := r.ToInput(current)
	assert.Equal(t, "Kabid Baru", in.Name)
	assert.Equal(t, "kabid", in.Username)
	assert.Equal(t, models.RoleLevel2, in.Role)
	assert.Equal(t, uintPtr(2), in.BidangID)
	assert.Empty(t, in.Password)
	assert.Nil(t, in.Email)

	r = AdminUserUpdateRequest{BidangID: uintPtr(0)}
	assert.Nil(t, r.ToInput(current).BidangID)

	r = AdminUserUpdateRequest{Password: strPtr("abc"), Email: strPtr("bukan-email")}
	errs := r.Validate()
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "email")
}

func TestNewAdminUserResponse(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	resp := NewAdminUserResponse(models.User{ID: 1, Username: "staf", Role: models.RoleStaf, CreatedAt: created}, "Staf")
	assert.Equal(t, "2025-01-02 03:04:05", resp.CreatedAt)
	assert.Empty(t, resp.Email)
	assert.Equal(t, "Staf", resp.RoleLabel)
}

func TestSettingsRequests(t *testing.T) {
	cp := ChangePasswordRequest{NewPassword: "rahasia123", ConfirmPassword: "rahasia124"}
	errs := cp.Validate()
	assert.Contains(t, errs, "current_password")
	assert.Contains(t, errs, "confirm_password")
	assert.NotContains(t, errs, "new_password")

	em := ReplaceEmailRequest{Email: " admin@bpkad.go.id "}
	assert.Empty(t, em.Validate())
	assert.Equal(t, "admin@bpkad.go.id", em.Email)

	assert.Contains(t, (&UpdateSettingsRequest{}).Validate(), "settings")

	b := BidangRequest{NamaBidang: " Anggaran ", Kode: "ANG", ParentID: uintPtr(0)}
	require.Empty(t, b.Validate())
	in := b.ToInput()
	assert.Equal(t, "Anggaran", in.Nama)
	assert.Nil(t, in.ParentID)

	b.ParentID = uintPtr(5)
	assert.Equal(t, uintPtr(5), b.ToInput().ParentID)
}
