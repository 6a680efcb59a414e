// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobboard/internal/database"
)

var seq atomic.Int64

// Open returns a migrated in-memory database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sqlite: %v", err)
	}
	// a single connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role and a throwaway password hash.
func CreateUser(t *testing.T, db *gorm.DB, name, role string) database.User {
	t.Helper()
	user := database.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:         role,
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %q: %v", name, err)
	}
	return user
}

// CreateJob inserts a job owned by employerID and sets its active flag.
func CreateJob(t *testing.T, db *gorm.DB, employerID uint, title string, active bool) database.Job {
	t.Helper()
	job := database.Job{
		EmployerID:  employerID,
		Title:       title,
		Description: title + " description",
		Company:     "Acme",
		Location:    "Paris",
		Type:        "full_time",
		Category:    "technology",
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("create job %q: %v", title, err)
	}
	if !active {
		if err := db.Model(&job).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate job %q: %v", title, err)
		}
		job.IsActive = false
	}
	return job
}
