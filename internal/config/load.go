package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvDomain      = "WPSTACK_DOMAIN"
	EnvAdminEmail  = "WPSTACK_ADMIN_EMAIL"
	EnvLogPath     = "WPSTACK_LOG_PATH"
	EnvLogLevel    = "WPSTACK_LOG_LEVEL"
	EnvS3AccessKey = "WPSTACK_S3_ACCESS_KEY"
	EnvS3SecretKey = "WPSTACK_S3_SECRET_KEY"
)

// dotenvFile is loaded, if present, before environment overrides apply.
var dotenvFile = ".env"

// Load reads the configuration at path, applies environment overrides
// and defaults, and validates the result.
//
// An empty path looks for wpstack.yaml in the working directory; when
// that file does not exist either, the defaults are used.
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	cfg := newBase()
	if path == "" {
		if FileExists(DefaultConfigFilename) {
			path = DefaultConfigFilename
		}
	}

	if path != "" {
		// #nosec G304 -- path is an operator supplied config file
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FileExists reports whether a file exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func loadDotenv() error {
	err := godotenv.Load(dotenvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", dotenvFile, err)
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Site.Domain, EnvDomain)
	setFromEnv(&cfg.Site.AdminEmail, EnvAdminEmail)
	setFromEnv(&cfg.Log.Path, EnvLogPath)
	setFromEnv(&cfg.Log.Level, EnvLogLevel)
	setFromEnv(&cfg.Report.S3.AccessKey, EnvS3AccessKey)
	setFromEnv(&cfg.Report.S3.SecretKey, EnvS3SecretKey)
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
