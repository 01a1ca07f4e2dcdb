package config

import (
	"fmt"

	"github.com/dutymgr/dutymgr/core/roster/logging"
)

// RunLogConfig defines settings for generation-run log storage and rotation.
type RunLogConfig struct {
	// Backend selects the store type: "jsonl", "rotating" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in
	// megabytes. Rotating backend only.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *RunLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "runs.log"
	}
}

// Validate checks mandatory fields.
func (c RunLogConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown run log backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("run log path is required")
	}
	return nil
}

// OpenStore builds the configured run store.
func (c RunLogConfig) OpenStore() (logging.RunStore, error) {
	switch c.Backend {
	case "rotating":
		return logging.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case "sqlite":
		return logging.NewSQLiteStore(c.Path)
	default:
		return logging.NewJSONLStore(c.Path)
	}
}
