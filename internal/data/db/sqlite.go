package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

// NewSQLiteDB opens a local database for DB_DRIVER=sqlite. Foreign keys are switched on
// so the edge table's restrict and cascade rules hold. Row locks are not available, so
// this mode serializes writers through SQLite's own database lock.
func NewSQLiteDB(logg *logger.Logger, path string) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "lingualeap.db"
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	logg.Info("Using sqlite database", "path", path)
	return db, nil
}
