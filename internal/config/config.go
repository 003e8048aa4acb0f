package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	RedirectURL   string `yaml:"redirect_url"`
	MoveListLimit int    `yaml:"move_list_limit"`
	SquarePNGSize int    `yaml:"square_png_size"`
	LabelsDir     string `yaml:"labels_dir"`
	ReadTimeout   int    `yaml:"read_timeout_sec"`
	WriteTimeout  int    `yaml:"write_timeout_sec"`
}

func (c *AppConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *AppConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

func defaults() *AppConfig {
	return &AppConfig{
		ListenAddr:    ":8000",
		RedirectURL:   "/",
		MoveListLimit: 65,
		SquarePNGSize: 80,
		ReadTimeout:   10,
		WriteTimeout:  10,
	}
}

// Load builds the config from defaults, the optional YAML file named by
// CHESS_WEB_CONFIG, and then environment variables, in that order.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CHESS_WEB_CONFIG")); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIRECT_URL")); v != "" {
		cfg.RedirectURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LABELS_DIR")); v != "" {
		cfg.LabelsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("MOVE_LIST_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MoveListLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SQUARE_PNG_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SquarePNGSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("READ_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadTimeout = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("WRITE_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WriteTimeout = n
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *AppConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	if strings.TrimSpace(c.RedirectURL) == "" {
		return errors.New("REDIRECT_URL is required")
	}
	if c.MoveListLimit <= 0 {
		return errors.New("MOVE_LIST_LIMIT must be positive")
	}
	if c.SquarePNGSize <= 0 || c.SquarePNGSize > 1024 {
		return errors.New("SQUARE_PNG_SIZE must be within 1..1024")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}
