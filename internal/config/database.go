// internal/config/database.go
package config

import (
	"fmt"

	"gorm.io/gorm/logger"
)

// DSN renders the keyword/value connection string for the postgres driver.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// GormLogLevel maps the configured level name onto gorm's logger levels.
// Unknown values fall back to Info so misconfiguration is visible, not quiet.
func (d *DatabaseConfig) GormLogLevel() logger.LogLevel {
	switch d.LogLevel {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	default:
		return logger.Info
	}
}
