// Package testutil wires repo tests to a real database. Set
// TEST_POSTGRES_DSN to run against postgres; otherwise tests fall back
// to an in-memory sqlite database so the suite stays self-contained.
package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	return log
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	var (
		db  *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
	} else {
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.UserToken{},
		&domain.ExerciseCompletion{},
		&domain.ExerciseStreak{},
		&domain.Report{},
		&domain.LedgerEntry{},
		&domain.AnalysisRun{},
	); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	return db
}

// Tx returns a transaction that is rolled back when the test finishes,
// so tests never leak rows into each other.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin test transaction: %v", tx.Error)
	}
	tb.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}
