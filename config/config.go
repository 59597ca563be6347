package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	History  HistoryConfig  `mapstructure:"history"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	UI       UIConfig       `mapstructure:"ui"`
	Drivers  DriversConfig  `mapstructure:"drivers"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

type SettingsConfig struct {
	DefaultProject string `mapstructure:"default_project"`
	Theme          string `mapstructure:"theme"`
	ShowRowCount   bool   `mapstructure:"show_row_count"`
}

type HistoryConfig struct {
	MaxEntries int  `mapstructure:"max_entries"`
	Persist    bool `mapstructure:"persist"`
}

type WorkerConfig struct {
	Schema string `mapstructure:"schema"`
	// Timeout bounds each provider call.
	Timeout time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	PageSizes    []int         `mapstructure:"page_sizes"`
}

type DriversConfig struct {
	// Postgres is "pq" or "pgx".
	Postgres string `mapstructure:"postgres"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Dir returns the config directory, ~/.config/lazydb.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lazydb"), nil
}

// ProjectsDir is where project files live.
func ProjectsDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("settings.default_project", "")
	v.SetDefault("settings.theme", "default")
	v.SetDefault("settings.show_row_count", true)
	v.SetDefault("history.max_entries", 100)
	v.SetDefault("history.persist", true)
	v.SetDefault("worker.schema", "public")
	v.SetDefault("worker.timeout", 30*time.Second)
	v.SetDefault("ui.tick_interval", 50*time.Millisecond)
	v.SetDefault("ui.page_sizes", []int{50, 100, 500})
	v.SetDefault("drivers.postgres", "pq")
	v.SetDefault("storage.path", filepath.Join(dir, "storage.db"))
	v.SetDefault("log.file", filepath.Join(dir, "lazydb.log"))
	v.SetDefault("log.level", "info")
}

// Load reads config from path, or searches the config directory and the
// working directory when path is empty. A missing file is not an error.
// LAZYDB_* environment variables override file values.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dir)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LAZYDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = 100
	}
	if c.UI.TickInterval <= 0 {
		c.UI.TickInterval = 50 * time.Millisecond
	}
	sizes := c.UI.PageSizes[:0]
	for _, s := range c.UI.PageSizes {
		if s > 0 {
			sizes = append(sizes, s)
		}
	}
	c.UI.PageSizes = sizes
	if len(c.UI.PageSizes) == 0 {
		c.UI.PageSizes = []int{50, 100, 500}
	}
	if c.Worker.Schema == "" {
		c.Worker.Schema = "public"
	}
	if c.Drivers.Postgres != "pgx" {
		c.Drivers.Postgres = "pq"
	}
}
