// Package testutil provides in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database private to the test.
// The pool is limited to one connection so transactions run one at a time.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// CreateUnit inserts a bidang.
func CreateUnit(t *testing.T, db *gorm.DB, kode string, parentID *uint) models.Unit {
	t.Helper()
	unit := models.Unit{Nama: "Bidang " + kode, Kode: kode, ParentID: parentID}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("create unit %s: %v", kode, err)
	}
	return unit
}

// CreateUser inserts an active user whose password is Password.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role, unitID *uint) models.User {
	t.Helper()
	email := username + "@example.go.id"
	user := models.User{
		Name:         "User " + username,
		Username:     username,
		Email:        &email,
		PasswordHash: passwordHash,
		Role:         role,
		BidangID:     unitID,
		Jabatan:      string(role),
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if unitID != nil {
		var unit models.Unit
		if err := db.First(&unit, *unitID).Error; err == nil {
			user.Bidang = &unit
		}
	}
	return user
}

const Password = "password123"

var passwordHash = func() string {
	b, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(b)
}()

func UintPtr(v uint) *uint { return &v }
