// Package testutil provides an in-memory gorm database and seed helpers
// shared by repository, service and handler tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

var dbCounter atomic.Int64

// DB opens a private in-memory sqlite database with the schema migrated.
// The pool is pinned to one connection so every query, including those from
// concurrent goroutines, sees the same database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(&model.Profile{}, &model.Contract{}, &model.Job{}); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func Logger() zerolog.Logger {
	return zerolog.Nop()
}

// FailUpdatesOf installs a trigger that aborts any balance update of the
// given profile, simulating a store fault in the middle of a transaction.
func FailUpdatesOf(tb testing.TB, db *gorm.DB, profileID uint) {
	tb.Helper()
	stmt := fmt.Sprintf(`
		CREATE TRIGGER fail_profile_%d BEFORE UPDATE ON profiles
		WHEN NEW.id = %d
		BEGIN
			SELECT RAISE(ABORT, 'injected failure');
		END;`, profileID, profileID)
	if err := db.Exec(stmt).Error; err != nil {
		tb.Fatalf("install trigger: %v", err)
	}
}

// SkipUpdatesOfJob installs a trigger that silently drops every update of the
// given job, so a conditional update affects no rows.
func SkipUpdatesOfJob(tb testing.TB, db *gorm.DB, jobID uint) {
	tb.Helper()
	stmt := fmt.Sprintf(`
		CREATE TRIGGER skip_job_%d BEFORE UPDATE ON jobs
		WHEN NEW.id = %d
		BEGIN
			SELECT RAISE(IGNORE);
		END;`, jobID, jobID)
	if err := db.Exec(stmt).Error; err != nil {
		tb.Fatalf("install trigger: %v", err)
	}
}
