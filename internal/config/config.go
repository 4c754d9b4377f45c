package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Workbook   WorkbookConfig   `yaml:"workbook"`
	Numerology NumerologyConfig `yaml:"numerology"`
	Inputs     InputsConfig     `yaml:"inputs"`
	Ephemeris  EphemerisConfig  `yaml:"ephemeris"`
	Log        LogConfig        `yaml:"log"`
	UI         UIConfig         `yaml:"ui"`
}

type WorkbookConfig struct {
	Path string `yaml:"path"`
}

type NumerologyConfig struct {
	KeepMaster bool `yaml:"keep_master"`
}

type InputsConfig struct {
	TZOffset float64 `yaml:"tz_offset"`
}

type EphemerisConfig struct {
	Database string `yaml:"database"`
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type UIConfig struct {
	DefaultTab string `yaml:"default_tab"`
}

// GetTimeout parses the ephemeris query timeout string
func (e *EphemerisConfig) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(e.Timeout)
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Workbook:   WorkbookConfig{Path: filepath.Join(configDir(), "cosmic_generator.xlsx")},
		Numerology: NumerologyConfig{KeepMaster: true},
		Ephemeris: EphemerisConfig{
			Database: filepath.Join(configDir(), "ephemeris.db"),
			Timeout:  "2s",
		},
		Log: LogConfig{Level: "info"},
		UI:  UIConfig{DefaultTab: "inputs"},
	}
}

// Load reads configuration from file, keeping defaults for anything the file omits
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if v := os.Getenv("COSMICGEN_WORKBOOK"); v != "" {
		cfg.Workbook.Path = v
	}

	// Expand home directory in file paths
	cfg.Workbook.Path = expandPath(cfg.Workbook.Path)
	cfg.Ephemeris.Database = expandPath(cfg.Ephemeris.Database)
	cfg.Log.File = expandPath(cfg.Log.File)

	if cfg.Ephemeris.Timeout == "" {
		cfg.Ephemeris.Timeout = "2s"
	}
	if _, err := cfg.Ephemeris.GetTimeout(); err != nil {
		return nil, fmt.Errorf("parsing ephemeris timeout: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Save writes configuration to file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "cosmicgen")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultLogPath is where the TUI logs when no log file is configured
func DefaultLogPath() string {
	return filepath.Join(configDir(), "cosmicgen.log")
}
