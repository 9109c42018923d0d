package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything quill reads at startup.
type Config struct {
	DocumentPath string        `env:"QUILL_DOCUMENT"`
	PollInterval time.Duration `env:"QUILL_POLL_INTERVAL"`
	CommitDelay  time.Duration `env:"QUILL_COMMIT_DELAY"`
	LogPath      string        `env:"QUILL_LOG_PATH"`
	LogLevel     string        `env:"QUILL_LOG_LEVEL"`
	LogFormat    string        `env:"QUILL_LOG_FORMAT"`
}

const (
	defaultConfigPath   = "~/.config/quill/config.toml"
	defaultDocumentPath = "~/.local/share/quill/document.toml"
	defaultLogPath      = "~/.local/state/quill/quill.log"
	defaultPollInterval = 2 * time.Second
	defaultCommitDelay  = 500 * time.Millisecond
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DocumentPath: mustExpand(defaultDocumentPath),
		PollInterval: defaultPollInterval,
		CommitDelay:  defaultCommitDelay,
		LogPath:      mustExpand(defaultLogPath),
		LogLevel:     defaultLogLevel,
		LogFormat:    defaultLogFormat,
	}
}

// LoadDotenv loads .env files into the process environment. Missing files
// are not an error.
func LoadDotenv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load locates and parses the config file, falling back to defaults when
// missing, then applies QUILL_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := parseFile(file, &cfg); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg.normalize()
}

func parseFile(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DocumentPath string `toml:"document_path"`
		PollInterval string `toml:"poll_interval"`
		CommitDelay  string `toml:"commit_delay"`
		LogPath      string `toml:"log_path"`
		LogLevel     string `toml:"log_level"`
		LogFormat    string `toml:"log_format"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DocumentPath); v != "" {
		cfg.DocumentPath = v
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(raw.CommitDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: commit_delay: %w", err)
		}
		cfg.CommitDelay = d
	}
	return nil
}

// normalize expands paths and restores defaults for unusable values.
func (c Config) normalize() (Config, error) {
	var err error
	if c.DocumentPath, err = expandPath(c.DocumentPath); err != nil {
		return Config{}, fmt.Errorf("document path: %w", err)
	}
	if c.LogPath, err = expandPath(c.LogPath); err != nil {
		return Config{}, fmt.Errorf("log path: %w", err)
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.CommitDelay < 0 {
		c.CommitDelay = 0
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	return c, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
