// Package config loads runtime configuration from an optional TOML file
// with environment variable overrides. Secrets come from the environment
// only and are never written to the config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAddr       = ":5000"
	DefaultDBFileName = "cstsite.db"
	DefaultLogLevel   = "info"

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 15 * time.Minute

	DefaultSMTPPort        = 587
	DefaultMailSendTimeout = 30 * time.Second
	DefaultFromName        = "Complete Solution Technology"

	configPathEnvKey  = "CSTSITE_CONFIG"
	addrEnvKey        = "CSTSITE_ADDR"
	dbPathEnvKey      = "CSTSITE_DB_PATH"
	jwtSecretEnvKey   = "CSTSITE_JWT_SECRET"
	devModeEnvKey     = "CSTSITE_DEV_MODE"
	failOpenEnvKey    = "CSTSITE_AUTH_FAIL_OPEN"
	resumeStrictKey   = "CSTSITE_RESUME_UPLOAD_STRICT"
	logLevelEnvKey    = "CSTSITE_LOG_LEVEL"
	adminEmailEnvKey  = "CSTSITE_ADMIN_EMAIL"
	smtpHostEnvKey    = "CSTSITE_SMTP_HOST"
	smtpPortEnvKey    = "CSTSITE_SMTP_PORT"
	smtpUserEnvKey    = "CSTSITE_SMTP_USER"
	smtpPassEnvKey    = "CSTSITE_SMTP_PASS"
	smtpFromEnvKey    = "CSTSITE_SMTP_FROM"
	defaultConfigFile = "cstsite.toml"
)

// SMTPConfig carries mail transport settings. The password is env-only.
type SMTPConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Username    string `toml:"username"`
	Password    string `toml:"-"`
	FromName    string `toml:"from_name"`
	FromAddress string `toml:"from_address"`
}

// RateLimitConfig bounds requests per client IP within a rolling window.
type RateLimitConfig struct {
	Requests      int `toml:"requests"`
	WindowMinutes int `toml:"window_minutes"`
}

// Config defines runtime configuration for cstsite.
type Config struct {
	Addr      string `toml:"addr"`
	DBPath    string `toml:"db_path"`
	LogLevel  string `toml:"log_level"`
	DevMode   bool   `toml:"dev_mode"`
	JWTSecret string `toml:"-"`

	// AuthFailOpen keeps the original fail-open policy: when the admin
	// lookup backing a verified token fails transiently, the guard trusts
	// the token's claims instead of rejecting the request. Set false to
	// fail closed.
	AuthFailOpen bool `toml:"auth_fail_open"`

	// ResumeUploadStrict turns an oversized or disallowed resume into a
	// submission failure instead of dropping the attachment with a warning.
	ResumeUploadStrict bool `toml:"resume_upload_strict"`

	AdminEmail string          `toml:"admin_email"`
	RateLimit  RateLimitConfig `toml:"rate_limit"`
	SMTP       SMTPConfig      `toml:"smtp"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Addr:         DefaultAddr,
		DBPath:       DefaultDBFileName,
		LogLevel:     DefaultLogLevel,
		AuthFailOpen: true,
		RateLimit: RateLimitConfig{
			Requests:      DefaultRateLimitRequests,
			WindowMinutes: int(DefaultRateLimitWindow / time.Minute),
		},
		SMTP: SMTPConfig{
			Port:     DefaultSMTPPort,
			FromName: DefaultFromName,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file and
// environment overrides, in that order.
func Load() (Config, error) {
	cfg := Default()

	path := strings.TrimSpace(os.Getenv(configPathEnvKey))
	if path == "" {
		path = defaultConfigFile
	}
	if err := loadFileIfExists(path, &cfg); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = DefaultRateLimitRequests
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		cfg.RateLimit.WindowMinutes = int(DefaultRateLimitWindow / time.Minute)
	}

	return cfg, nil
}

// RateLimitWindow returns the rolling window as a duration.
func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowMinutes) * time.Minute
}

// MailConfigured reports whether the SMTP transport has enough settings to send.
func (c Config) MailConfigured() bool {
	return strings.TrimSpace(c.SMTP.Host) != "" && strings.TrimSpace(c.SMTP.FromAddress) != ""
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(addrEnvKey)); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(dbPathEnvKey)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(logLevelEnvKey)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(adminEmailEnvKey)); v != "" {
		cfg.AdminEmail = v
	}
	if v, ok := envBool(devModeEnvKey); ok {
		cfg.DevMode = v
	}
	if v, ok := envBool(failOpenEnvKey); ok {
		cfg.AuthFailOpen = v
	}
	if v, ok := envBool(resumeStrictKey); ok {
		cfg.ResumeUploadStrict = v
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv(jwtSecretEnvKey))

	if v := strings.TrimSpace(os.Getenv(smtpHostEnvKey)); v != "" {
		cfg.SMTP.Host = v
	}
	if v := strings.TrimSpace(os.Getenv(smtpPortEnvKey)); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.SMTP.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv(smtpUserEnvKey)); v != "" {
		cfg.SMTP.Username = v
	}
	if v := strings.TrimSpace(os.Getenv(smtpFromEnvKey)); v != "" {
		cfg.SMTP.FromAddress = v
	}
	cfg.SMTP.Password = strings.TrimSpace(os.Getenv(smtpPassEnvKey))
}

func envBool(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return value, true
}
