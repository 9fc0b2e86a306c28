package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig is the parsed form of DATABASE_URL.
type DatabaseConfig struct {
	Type DatabaseType
	// DSN is passed unchanged to the gorm driver.
	DSN string
}

// ParseDatabaseURL accepts sqlite://<path> and postgres:// or postgresql:// URLs.
func ParseDatabaseURL(raw string) (*DatabaseConfig, error) {
	switch {
	case raw == "":
		return nil, fmt.Errorf("database url cannot be empty")
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("SQLite path cannot be empty")
		}
		return &DatabaseConfig{Type: DatabaseTypeSQLite, DSN: path}, nil
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return &DatabaseConfig{Type: DatabaseTypePostgreSQL, DSN: raw}, nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", schemeOf(raw))
	}
}

func schemeOf(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.DSN)
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
