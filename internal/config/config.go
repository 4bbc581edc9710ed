// Package config loads application configuration from environment variables,
// optionally layered over a YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "IBANK_"

// Defaults.
const (
	DefaultAPIBaseURL = "http://127.0.0.1:9000"
	DefaultAPITimeout = 15 * time.Second
	DefaultListenAddr = "127.0.0.1:8080"
	DefaultDBPath     = "ibank.db"
	DefaultLocale     = "en-US"
	DefaultTimezone   = "Local"
	DefaultRateLimit  = 10
	DefaultRateBurst  = 20
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL string
	APIToken   string
	APITimeout time.Duration

	ListenAddr string
	DBPath     string

	Locale   language.Tag
	Timezone *time.Location

	// Premium overrides the session lookup when non-nil.
	Premium *bool

	RateLimit float64
	RateBurst int

	LogLevel  string
	LogFormat string
}

// Load reads configuration and returns a validated Config.
//
// Each setting is read from IBANK_<NAME>, then from the YAML file named by
// IBANK_CONFIG_FILE under the lowercase key <name>, then falls back to its
// default. Optional variables with defaults: IBANK_API_BASE_URL
// (http://127.0.0.1:9000), IBANK_API_TIMEOUT (15s), IBANK_LISTEN_ADDR
// (127.0.0.1:8080), IBANK_DB_PATH (ibank.db), IBANK_LOCALE (en-US),
// IBANK_TIMEZONE (Local), IBANK_RATE_LIMIT (10), IBANK_RATE_BURST (20),
// IBANK_LOG_LEVEL (info), IBANK_LOG_FORMAT (text). IBANK_API_TOKEN and
// IBANK_PREMIUM have no default.
func Load() (*Config, error) {
	src, err := newSource(os.Getenv(EnvPrefix + "CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL: src.str("API_BASE_URL", DefaultAPIBaseURL),
		APIToken:   src.str("API_TOKEN", ""),
		ListenAddr: src.str("LISTEN_ADDR", DefaultListenAddr),
		DBPath:     src.str("DB_PATH", DefaultDBPath),
		LogLevel:   strings.ToLower(src.str("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:  strings.ToLower(src.str("LOG_FORMAT", DefaultLogFormat)),
	}

	var errs []error

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%sAPI_BASE_URL must be an absolute URL, got %q", EnvPrefix, cfg.APIBaseURL))
	}

	if cfg.APITimeout, err = src.duration("API_TIMEOUT", DefaultAPITimeout); err != nil {
		errs = append(errs, err)
	} else if cfg.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sAPI_TIMEOUT must be positive, got %s", EnvPrefix, cfg.APITimeout))
	}

	locale := src.str("LOCALE", DefaultLocale)
	if cfg.Locale, err = language.Parse(locale); err != nil {
		errs = append(errs, fmt.Errorf("%sLOCALE has invalid language tag %q: %w", EnvPrefix, locale, err))
	}

	tz := src.str("TIMEZONE", DefaultTimezone)
	if cfg.Timezone, err = time.LoadLocation(tz); err != nil {
		errs = append(errs, fmt.Errorf("%sTIMEZONE has unknown zone %q: %w", EnvPrefix, tz, err))
	}

	if v, ok := src.lookup("PREMIUM"); ok && v != "" {
		premium, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPREMIUM has invalid bool %q: %w", EnvPrefix, v, err))
		} else {
			cfg.Premium = &premium
		}
	}

	if cfg.RateLimit, err = src.number("RATE_LIMIT", DefaultRateLimit); err != nil {
		errs = append(errs, err)
	} else if cfg.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%sRATE_LIMIT must not be negative, got %g", EnvPrefix, cfg.RateLimit))
	}

	if cfg.RateBurst, err = src.integer("RATE_BURST", DefaultRateBurst); err != nil {
		errs = append(errs, err)
	} else if cfg.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("%sRATE_BURST must not be negative, got %d", EnvPrefix, cfg.RateBurst))
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL must be one of debug, info, warn, error, got %q", EnvPrefix, cfg.LogLevel))
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%sLOG_FORMAT must be json or text, got %q", EnvPrefix, cfg.LogFormat))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// source resolves a setting from the environment first, then the file.
type source struct {
	file map[string]string
}

func newSource(path string) (*source, error) {
	src := &source{file: map[string]string{}}
	if path == "" {
		return src, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &src.file); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return src, nil
}

func (s *source) lookup(name string) (string, bool) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		return v, true
	}
	v, ok := s.file[strings.ToLower(name)]
	return v, ok
}

func (s *source) str(name, def string) string {
	if v, ok := s.lookup(name); ok {
		return v
	}
	return def
}

func (s *source) duration(name string, def time.Duration) (time.Duration, error) {
	v, ok := s.lookup(name)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s has invalid duration %q: %w", EnvPrefix, name, v, err)
	}
	return d, nil
}

func (s *source) number(name string, def float64) (float64, error) {
	v, ok := s.lookup(name)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s has invalid number %q: %w", EnvPrefix, name, v, err)
	}
	return f, nil
}

func (s *source) integer(name string, def int) (int, error) {
	v, ok := s.lookup(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s has invalid integer %q: %w", EnvPrefix, name, v, err)
	}
	return n, nil
}
