package testutil

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB hands a test its own in-memory sqlite database. The shared-cache DSN
// is keyed on the test name so concurrent tests never see each other's rows,
// and the pool is capped at one connection because an in-memory database
// vanishes the moment its last connection closes. Models that migrate
// themselves (the kvstore record does) can call this with no arguments.
func OpenDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	pool, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql pool: %v", err)
	}
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = pool.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}
