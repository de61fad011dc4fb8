package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/RSSNext/Folo-sub005/internal/network"
)

const (
	AppName    = "Folo"
	AppVersion = "0.1.0"
)

// UserAgent identifies the local engine to the remote API.
var UserAgent = AppName + "-local/" + AppVersion

type Config struct {
	Addr                 string `toml:"addr"`
	DataDir              string `toml:"data_dir"`
	DBPath               string `toml:"db_path"`
	LogLevel             string `toml:"log_level"`
	LogFormat            string `toml:"log_format"`
	APIBaseURL           string `toml:"api_base_url"`
	APIToken             string `toml:"api_token"`
	UserID               string `toml:"user_id"`
	ProxyURL             string `toml:"proxy_url"`
	RetentionDays        int    `toml:"retention_days"`
	CleanIntervalMinutes int    `toml:"clean_interval_minutes"`
	RemoteTimeoutSeconds int    `toml:"remote_timeout_seconds"`
	RemoteQPS            int    `toml:"remote_qps"`
	NodeID               int64  `toml:"node_id"`
}

func Default() Config {
	return Config{
		Addr:                 "127.0.0.1:8787",
		DataDir:              "./data",
		LogLevel:             "info",
		LogFormat:            "text",
		APIBaseURL:           "https://api.follow.is",
		RetentionDays:        30,
		CleanIntervalMinutes: 360,
		RemoteTimeoutSeconds: 20,
		RemoteQPS:            10,
		NodeID:               1,
	}
}

// Load applies defaults, then the config file if one exists, then FOLO_* env vars.
func Load() (Config, error) {
	cfg := Default()

	path, explicit := configPath()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.finalize()
}

// Retention is how long an unvisited entity survives in the local cache.
func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c Config) CleanInterval() time.Duration {
	return time.Duration(c.CleanIntervalMinutes) * time.Minute
}

func (c Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

func configPath() (string, bool) {
	if p := os.Getenv("FOLO_CONFIG"); p != "" {
		return p, true
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "folo", "config.toml"), false
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "folo", "config.toml"), false
}

func loadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"FOLO_ADDR":         &cfg.Addr,
		"FOLO_DATA_DIR":     &cfg.DataDir,
		"FOLO_DB_PATH":      &cfg.DBPath,
		"FOLO_LOG_LEVEL":    &cfg.LogLevel,
		"FOLO_LOG_FORMAT":   &cfg.LogFormat,
		"FOLO_API_BASE_URL": &cfg.APIBaseURL,
		"FOLO_API_TOKEN":    &cfg.APIToken,
		"FOLO_USER_ID":      &cfg.UserID,
		"FOLO_PROXY_URL":    &cfg.ProxyURL,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"FOLO_RETENTION_DAYS":         &cfg.RetentionDays,
		"FOLO_CLEAN_INTERVAL_MINUTES": &cfg.CleanIntervalMinutes,
		"FOLO_REMOTE_TIMEOUT_SECONDS": &cfg.RemoteTimeoutSeconds,
		"FOLO_REMOTE_QPS":             &cfg.RemoteQPS,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("FOLO_NODE_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FOLO_NODE_ID: %w", err)
		}
		cfg.NodeID = n
	}
	return nil
}

func (c Config) finalize() (Config, error) {
	if c.RetentionDays <= 0 {
		return Config{}, fmt.Errorf("retention_days must be positive, got %d", c.RetentionDays)
	}
	if c.CleanIntervalMinutes <= 0 {
		return Config{}, fmt.Errorf("clean_interval_minutes must be positive, got %d", c.CleanIntervalMinutes)
	}
	if c.RemoteTimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("remote_timeout_seconds must be positive, got %d", c.RemoteTimeoutSeconds)
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return Config{}, fmt.Errorf("node_id must be within 0-1023, got %d", c.NodeID)
	}
	if err := network.ValidateProxyURL(c.ProxyURL); err != nil {
		return Config{}, fmt.Errorf("proxy_url: %w", err)
	}
	c.ProxyURL = strings.TrimSpace(c.ProxyURL)
	c.DataDir = filepath.Clean(c.DataDir)
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "folo.db")
	}
	c.DBPath = filepath.Clean(c.DBPath)
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return c, nil
}
