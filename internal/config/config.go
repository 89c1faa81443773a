package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/vadimtrunov/MovieExplore/internal/httpclient"
)

// Defaults applied by setDefaults.
const (
	DefaultBaseURL        = "http://127.0.0.1:8000/api/v1"
	DefaultTimeoutSeconds = 15
	DefaultMaxRetries     = 3
	DefaultDebounceMS     = 300
	DefaultFixturePort    = 8000
	DefaultLogLevel       = "info"

	maxDebounceMS = 5000
)

// Config represents the main application configuration
type Config struct {
	// Catalogue REST API
	API APIConfig `yaml:"api"`

	// Search box behaviour
	Search SearchConfig `yaml:"search"`

	// Frontends
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Local fixture catalogue server
	Fixture FixtureConfig `yaml:"fixture"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// APIConfig holds the catalogue API client settings
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	MaxRetries        int     `yaml:"max_retries"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"` // 0 disables pacing
	CacheTTLSeconds   int     `yaml:"cache_ttl_seconds,omitempty"`   // 0 disables response caching
}

// SearchConfig holds search settings. A nil DebounceMS means the default;
// zero delivers every keystroke immediately.
type SearchConfig struct {
	DebounceMS *int `yaml:"debounce_ms,omitempty"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// FixtureConfig holds the fixture server settings
type FixtureConfig struct {
	Port int `yaml:"port"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"`          // "debug", "info", "warn", "error"
	LogFile  string `yaml:"log_file,omitempty"` // where the interactive UI writes logs
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// LoadDotEnv loads variables from .env files into the environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from a YAML file, applies environment variable
// overrides and defaults, and validates the result. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	exists, err := validateConfigPath(path)
	if err != nil {
		return nil, err
	}
	if exists {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's --config flag
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// validateConfigPath reports whether path names a readable config file.
// A missing file is not an error; a directory is.
func validateConfigPath(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}

// applyEnvOverrides overrides config values with MOVEX_* environment variables.
// Unparseable numbers become -1 so that Validate reports them.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MOVEX_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("MOVEX_API_TIMEOUT"); v != "" {
		c.API.TimeoutSeconds = envInt(v)
	}
	if v := os.Getenv("MOVEX_API_CACHE_TTL"); v != "" {
		c.API.CacheTTLSeconds = envInt(v)
	}
	if v := os.Getenv("MOVEX_SEARCH_DEBOUNCE_MS"); v != "" {
		ms := envInt(v)
		c.Search.DebounceMS = &ms
	}
	if v := os.Getenv("MOVEX_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("MOVEX_FIXTURE_PORT"); v != "" {
		c.Fixture.Port = envInt(v)
	}
	if v := os.Getenv("MOVEX_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("MOVEX_LOG_FILE"); v != "" {
		c.App.LogFile = v
	}
}

func envInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return -1
	}
	return n
}

// setDefaults fills in zero values. Negative numbers are left for Validate.
func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.Search.DebounceMS == nil {
		ms := DefaultDebounceMS
		c.Search.DebounceMS = &ms
	}
	if c.Fixture.Port == 0 {
		c.Fixture.Port = DefaultFixturePort
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = DefaultLogLevel
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateURL(c.API.BaseURL, "api.base_url"); err != nil {
		return err
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative")
	}
	if c.API.CacheTTLSeconds < 0 {
		return fmt.Errorf("api.cache_ttl_seconds must not be negative")
	}

	if c.Search.DebounceMS != nil {
		if ms := *c.Search.DebounceMS; ms < 0 || ms > maxDebounceMS {
			return fmt.Errorf("search.debounce_ms must be between 0 and %d", maxDebounceMS)
		}
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if c.Fixture.Port < 1 || c.Fixture.Port > 65535 {
		return fmt.Errorf("fixture.port must be between 1 and 65535")
	}

	if _, ok := parseLevel(c.App.LogLevel); !ok {
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error")
	}
	return nil
}

// validateURL checks that raw is an absolute http(s) URL with a host.
func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}

// Debounce returns the search debounce delay.
func (c *Config) Debounce() time.Duration {
	if c.Search.DebounceMS == nil {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(*c.Search.DebounceMS) * time.Millisecond
}

// CacheTTL returns how long catalogue responses are cached. Zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

// HTTPClient returns retry, pacing and timeout settings for the catalogue client.
func (c *Config) HTTPClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	if c.API.TimeoutSeconds > 0 {
		hc.Timeout = time.Duration(c.API.TimeoutSeconds) * time.Second
	}
	if c.API.MaxRetries > 0 {
		hc.MaxRetries = c.API.MaxRetries
	}
	hc.RequestsPerSecond = c.API.RequestsPerSecond
	return hc
}
