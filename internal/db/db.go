package db

import (
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"strings"                      // Error message matching
	"tarot_portal/internal/config" // Application configuration

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Open connects to the database selected by cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN()) // MySQL in production
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DSN())) // Local file
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	return OpenDialector(dialector, cfg.IsProd)
}

// sqliteDSN makes writers wait for the file lock instead of failing with SQLITE_BUSY
func sqliteDSN(path string) string {
	if strings.Contains(path, "busy_timeout") {
		return path // Caller chose its own timeout
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}

// OpenDialector opens a GORM connection with the settings the store relies on
func OpenDialector(dialector gorm.Dialector, quiet bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true, // Unique violations surface as gorm.ErrDuplicatedKey
	}
	if quiet {
		gcfg.Logger = logger.Default.LogMode(logger.Silent) // Keep SQL out of production logs
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers that do not translate constraint errors
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
