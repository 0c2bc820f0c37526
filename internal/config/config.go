package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port       string `yaml:"port"`
	MongoURI   string `yaml:"mongo_uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	LogLevel   string `yaml:"log_level"`

	Board Board `yaml:"board"`
}

// Board tunes the note interaction model.
type Board struct {
	Debounce    time.Duration `yaml:"debounce"`
	RemoteDelay time.Duration `yaml:"remote_delay"`
	CornerSize  float64       `yaml:"corner_size"`
	NoteWidth   float64       `yaml:"note_width"`
	NoteHeight  float64       `yaml:"note_height"`
	Trash       Rect          `yaml:"trash"`
}

type Rect struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func Default() Config {
	return Config{
		Port:       "7521",
		Database:   "stickyboard",
		Collection: "kv",
		LogLevel:   "info",
		Board: Board{
			Debounce:    250 * time.Millisecond,
			RemoteDelay: time.Second,
			CornerSize:  18,
			NoteWidth:   200,
			NoteHeight:  200,
			Trash:       Rect{Left: 24, Top: 96, Width: 96, Height: 96},
		},
	}
}

// Load applies, in order: defaults, the YAML file at path (if path is not
// empty) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.MongoURI = getEnv("MONGODB_URI", c.MongoURI)
	c.Database = getEnv("MONGODB_DATABASE", c.Database)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	var err error
	if c.Board.Debounce, err = getDuration("DEBOUNCE_DELAY", c.Board.Debounce); err != nil {
		return err
	}
	if c.Board.RemoteDelay, err = getDuration("REMOTE_DELAY", c.Board.RemoteDelay); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.MongoURI != "" && c.Database == "" {
		errs = append(errs, errors.New("database is required with mongo_uri"))
	}
	if c.Board.Debounce < 0 || c.Board.RemoteDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if c.Board.CornerSize < 0 {
		errs = append(errs, errors.New("corner_size must not be negative"))
	}
	if c.Board.NoteWidth <= 0 || c.Board.NoteHeight <= 0 {
		errs = append(errs, errors.New("note size must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
