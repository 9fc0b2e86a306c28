// Package database opens the gorm connection and migrates the blog schema.
package database

import (
	"errors"
	"fmt"

	"github.com/quillpress/quillpress/config"
	"github.com/quillpress/quillpress/database/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func initModels(db *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.APIKey{},
		&model.Category{},
		&model.Post{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("auto migrating %T: %w", m, err)
		}
	}
	return nil
}

// Open connects to the configured database and migrates the schema.
func Open(c *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	var gormLogger logger.Interface
	if debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Discard
	}

	gc := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		// references are resolved at read time; deleting a category leaves its posts alone
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	switch c.Type {
	case config.DatabaseTypeSQLite:
		if err := c.EnsureDirectoryExists(); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(c.DSN + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	case config.DatabaseTypePostgreSQL:
		dialector = postgres.Open(c.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	db, err := gorm.Open(dialector, gc)
	if err != nil {
		return nil, err
	}

	if c.IsSQLite() {
		if err := db.Exec("PRAGMA temp_store = MEMORY;").Error; err != nil {
			return nil, err
		}
	}

	if err := initModels(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the connection pool can reach the database.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Checkpoint flushes the SQLite write-ahead log into the main database file.
func Checkpoint(db *gorm.DB) error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
