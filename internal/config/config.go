package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration, loaded from a YAML file with
// environment overrides for the paths that differ per deployment.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	DBPath     string `yaml:"db_path"`
	ListenAddr string `yaml:"listen_addr"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
}

type SchedulerConfig struct {
	FullWeekday     string `yaml:"full_weekday"`
	FullHour        int    `yaml:"full_hour"`
	IncrementalHour int    `yaml:"incremental_hour"`
	MaintenanceDay  int    `yaml:"maintenance_day"`
	MaintenanceHour int    `yaml:"maintenance_hour"`
	RetentionDays   int    `yaml:"retention_days"`
}

type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	Retries        int `yaml:"retries"`
}

type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

func defaults() Config {
	return Config{
		DataDir:    "data",
		DBPath:     "data/krishirag.db",
		ListenAddr: ":8080",
		Scheduler: SchedulerConfig{
			FullWeekday:     "Sunday",
			FullHour:        2,
			IncrementalHour: 6,
			MaintenanceDay:  1,
			MaintenanceHour: 3,
			RetentionDays:   90,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			Retries:        2,
		},
		Chunking: ChunkingConfig{
			ChunkSize: 512,
			Overlap:   50,
		},
	}
}

// Load reads the config file at path. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KRISHIRAG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("KRISHIRAG_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("KRISHIRAG_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// Weekday parses the configured weekday name, defaulting to Sunday on
// anything unrecognized.
func (c SchedulerConfig) Weekday() time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == c.FullWeekday {
			return d
		}
	}
	return time.Sunday
}
