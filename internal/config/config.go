package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"nandoku-quiz-service/internal/domain"
)

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Data struct {
		BaseURL  string `yaml:"base_url"`
		FileName string `yaml:"file_name"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"data"`
	Levels []domain.Level `yaml:"levels"`
	Redis  struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
}

// DefaultLevels is the level table used when the config names none.
// Only the first two levels have published data.
func DefaultLevels() []domain.Level {
	return []domain.Level{
		{ID: "1", Name: "初級", Dir: "level1", Ready: true},
		{ID: "2", Name: "中級", Dir: "level2", Ready: true},
		{ID: "3", Name: "上級", Dir: "level3"},
		{ID: "4", Name: "超級", Dir: "level4"},
		{ID: "5", Name: "神級", Dir: "level5"},
	}
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Env = "development"
	cfg.Server.Port = "8080"
	cfg.Data.BaseURL = "http://localhost:8080/data"
	cfg.Data.FileName = "data.csv"
	cfg.Data.Timeout = "10s"
	cfg.Levels = DefaultLevels()
	cfg.Cache.TTL = "10m"
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = DefaultLevels()
	}
	if cfg.Data.FileName == "" {
		cfg.Data.FileName = "data.csv"
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
