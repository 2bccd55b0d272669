// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, if present, is loaded into the
// process environment first, so its values take part in env overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers understood by the entry point.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file and can be overridden by
// the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// Storage selects and locates the record backend.
	Storage `yaml:"storage"`

	// Form holds the values the form controller stamps onto records.
	Form `yaml:"form"`

	// Window holds desktop window settings.
	Window `yaml:"window"`
}

// Storage holds backend settings. Nested under storage: in the YAML file.
type Storage struct {
	// Driver is "json" (snapshot file) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"json"`

	// Path is the snapshot file, or the SQLite .db file. Left empty it
	// defaults per driver (see DefaultPaths).
	Path string `yaml:"path" env:"STORAGE_PATH"`
}

// Form holds record defaults.
type Form struct {
	// University is attached to every record at creation time.
	University string `yaml:"university" env:"UNIVERSITY" env-default:"SRM University AP"`

	// Programs is the enumerated program list. The first entry is the
	// default selection. An empty list means free-text programs.
	Programs []string `yaml:"programs" env:"PROGRAMS" env-separator:","`
}

// Window holds settings for the desktop form.
type Window struct {
	Title  string  `yaml:"title" env:"WINDOW_TITLE" env-default:"SRM University AP - Student Record Management System"`
	Width  float32 `yaml:"width" env-default:"600"`
	Height float32 `yaml:"height" env-default:"450"`
}

// DefaultPaths is the storage path used for each driver when none is set.
var DefaultPaths = map[string]string{
	DriverJSON:   "srms_records.json",
	DriverSQLite: "srms_records.db",
}

// DefaultPrograms is used when neither the file nor the environment
// names any programs and free text was not explicitly requested.
var DefaultPrograms = []string{"B.Tech CSE", "B.Tech ECE", "B.Sc Physics", "B.Com"}

// Load reads the config file at path, applies env overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if cfg.Path == "" {
		cfg.Path = DefaultPaths[cfg.Driver]
	}

	if cfg.Programs == nil {
		cfg.Programs = append([]string(nil), DefaultPrograms...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.Path == "" {
		return errors.New("storage path is empty")
	}
	if c.University == "" {
		return errors.New("university is empty")
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to exit on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	// A missing .env is normal.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
