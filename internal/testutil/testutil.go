// Package testutil holds helpers shared by package tests. It lives outside
// the production packages so the testing package never links into the binary.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pricetracker/database"
)

// Logger writes through the test's log output.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ConnectDB swaps database.DB for an in-memory sqlite database for the
// duration of a test. Each call gets a fresh schema.
func ConnectDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})
	return db
}
