package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"penpals/content"
)

const DefaultPath = "penpals.yaml"

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Content  ContentConfig  `yaml:"content"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// ContentConfig points at an authored content tree. An empty path selects the
// content embedded in the binary.
type ContentConfig struct {
	Path string `yaml:"path" env:"PENPALS_CONTENT_PATH"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"PENPALS_DATABASE_DSN"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"PENPALS_SERVER_ADDR"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"PENPALS_LOG_LEVEL"`
	Encoding string `yaml:"encoding" env:"PENPALS_LOG_ENCODING"`
}

func Default() *ProjectConfig {
	return &ProjectConfig{
		Project:  "powerline-penpals",
		Version:  1,
		Database: DatabaseConfig{DSN: "sqlite://./penpals.db"},
		Server:   ServerConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "info", Encoding: "console"},
	}
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadProjectConfig but falls back to Default when
// the file does not exist.
func LoadOrDefault(path string) (*ProjectConfig, error) {
	cfg, err := LoadProjectConfig(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = Default()
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	if err := validateProjectConfig(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *ProjectConfig) error {
	for _, target := range []any{&cfg.Content, &cfg.Database, &cfg.Server, &cfg.Log} {
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("reading environment: %w", err)
		}
	}
	return nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		if !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return fmt.Errorf("unsupported database dsn scheme: %s", dsn)
		}
	}
	switch strings.ToLower(cfg.Log.Encoding) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log encoding: %s", cfg.Log.Encoding)
	}
	return nil
}

// FS returns the configured content tree, or the embedded one when no path
// is set.
func (c ContentConfig) FS() fs.FS {
	if strings.TrimSpace(c.Path) == "" {
		return content.FS
	}
	return os.DirFS(c.Path)
}
