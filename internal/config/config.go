package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataDir        string `json:"data_dir"`
	Backend        string `json:"backend"`
	DBPath         string `json:"db_path"`
	WorkMinutes    int    `json:"work_minutes"`
	BreakMinutes   int    `json:"break_minutes"`
	PollIntervalMS int    `json:"poll_interval_ms"`
	TickIntervalMS int    `json:"tick_interval_ms"`
	HistoryLimit   int    `json:"history_limit"`
	LogMode        string `json:"log_mode"`
	DoubtDir       string `json:"doubt_dir"`
	SyllabusDir    string `json:"syllabus_dir"`
}

func Default() Config {
	return Config{
		Backend:        BackendJSON,
		WorkMinutes:    25,
		BreakMinutes:   5,
		PollIntervalMS: 1000,
		TickIntervalMS: 1000,
		HistoryLimit:   20,
		LogMode:        "dev",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "studentguide", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Resolve fills the directory fields that default to locations under the
// config file's directory.
func (c *Config) Resolve(configPath string) {
	base := filepath.Dir(configPath)
	if c.DataDir == "" {
		c.DataDir = filepath.Join(base, "data")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "studentguide.db")
	}
	if c.DoubtDir == "" {
		c.DoubtDir = filepath.Join(c.DataDir, "saved_doubts")
	}
	if c.SyllabusDir == "" {
		c.SyllabusDir = filepath.Join(c.DataDir, "syllabus_files")
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.WorkMinutes <= 0 || c.BreakMinutes <= 0 {
		return fmt.Errorf("work and break minutes must be positive")
	}
	return nil
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.WorkMinutes == 0 {
		c.WorkMinutes = def.WorkMinutes
	}
	if c.BreakMinutes == 0 {
		c.BreakMinutes = def.BreakMinutes
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = def.PollIntervalMS
	}
	if c.TickIntervalMS <= 0 {
		c.TickIntervalMS = def.TickIntervalMS
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.LogMode == "" {
		c.LogMode = def.LogMode
	}
}
