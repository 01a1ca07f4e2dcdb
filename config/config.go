package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dutymgr/dutymgr/core/roster"
	"github.com/dutymgr/dutymgr/metrics"
)

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig   `json:"server"`
	Roster  roster.Config  `json:"roster"`
	Metrics metrics.Config `json:"metrics"`
	RunLog  RunLogConfig   `json:"run_log"`
}

// ServerConfig defines the HTTP API and schedule store locations.
type ServerConfig struct {
	Addr      string `json:"addr"`
	DataFile  string `json:"data_file"`
	BackupDir string `json:"backup_dir"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":5001"
	}
	if c.DataFile == "" {
		c.DataFile = "data/schedule.json"
	}
	if c.BackupDir == "" {
		c.BackupDir = "data/backups"
	}
}

// Load reads the configuration file at path, applying DM_-prefixed
// environment overrides on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("DM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "dm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Roster.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.RunLog.SetDefaults()
	if err := cfg.RunLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
