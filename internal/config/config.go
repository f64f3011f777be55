// Package config builds the service configuration from the environment once
// at process start, so the core packages never touch the environment
// themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultSheetName = "Daily Tracker"
	defaultTimezone  = "America/Los_Angeles"
)

// Storage backend selectors.
const (
	StorageSheets = "sheets"
	StorageLocal  = "local"
)

type Config struct {
	// SpreadsheetID is the Google Sheet to write to (SHEET_ID).
	SpreadsheetID string
	// SecretID names the Secrets Manager secret holding the service-account
	// JSON (SECRET_ID).
	SecretID string
	// SheetName is the tab inside the spreadsheet (RANGE_NAME).
	SheetName string
	// Storage selects the backend (HEALTHLOG_STORAGE): sheets or local.
	Storage string
	// LocalPath is the CSV file used by the local backend
	// (HEALTHLOG_LOCAL_PATH).
	LocalPath string
	// Location is the reference zone for "today" (HEALTHLOG_TZ).
	Location *time.Location
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		SpreadsheetID: strings.TrimSpace(os.Getenv("SHEET_ID")),
		SecretID:      strings.TrimSpace(os.Getenv("SECRET_ID")),
		SheetName:     strings.TrimSpace(os.Getenv("RANGE_NAME")),
		Storage:       strings.TrimSpace(os.Getenv("HEALTHLOG_STORAGE")),
		LocalPath:     strings.TrimSpace(os.Getenv("HEALTHLOG_LOCAL_PATH")),
	}
	if cfg.SheetName == "" {
		cfg.SheetName = defaultSheetName
	}

	tz := strings.TrimSpace(os.Getenv("HEALTHLOG_TZ"))
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	if strings.EqualFold(cfg.Storage, StorageLocal) {
		cfg.Storage = StorageLocal
		if cfg.LocalPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			cfg.LocalPath = filepath.Join(home, "healthlog", "daily-tracker.csv")
		}
		return cfg, nil
	}

	cfg.Storage = StorageSheets
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("SHEET_ID is required (set HEALTHLOG_STORAGE=local to use a local CSV file)")
	}
	if cfg.SecretID == "" {
		return nil, errors.New("SECRET_ID is required")
	}
	return cfg, nil
}
