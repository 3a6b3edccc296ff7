// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/maintenance-orders/internal/db"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
)

// New returns a migrated in-memory SQLite database private to t. Foreign keys
// are not enforced so tests can create orphaned rows.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=off", uuid.NewString())
	gdb, err := db.Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func CreateUser(t testing.TB, gdb *gorm.DB, name, email, passwordHash, role string) *models.User {
	t.Helper()

	u := &models.User{Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateEquipment(t testing.TB, gdb *gorm.DB, name, area string) *models.Equipment {
	t.Helper()

	e := &models.Equipment{Name: name, Area: area}
	if err := gdb.Create(e).Error; err != nil {
		t.Fatalf("create equipment: %v", err)
	}
	return e
}
