package config

import (
	"log/slog"
	"strings"
)

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level slog.Level `env:"LEVEL" envDefault:"INFO"`

	// Format is json or text.
	Format string `env:"FORMAT" envDefault:"json"`

	// File, when set, also writes logs to a size-rotated file.
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB"  envDefault:"100"`
	MaxBackups int    `env:"MAX_BACKUPS"  envDefault:"3"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"28"`
	Compress   bool   `env:"COMPRESS"     envDefault:"true"`
}

// Sanitize normalises the format and rotation settings.
func (l *LogConfig) Sanitize() {
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	if l.Format != "text" {
		l.Format = "json"
	}
	l.File = strings.TrimSpace(l.File)
	if l.MaxSizeMB <= 0 {
		l.MaxSizeMB = 100
	}
	if l.MaxBackups < 0 {
		l.MaxBackups = 0
	}
	if l.MaxAgeDays < 0 {
		l.MaxAgeDays = 0
	}
}
