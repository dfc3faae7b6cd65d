// Package config provides configuration management for the VacuumAssist site
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files, .env files, environment
// variable overrides with the VACUUMASSIST_ prefix, defaults and validation.
// It manages server settings, site metadata, the contact form session store,
// development live reload and logging.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/validation"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "VACUUMASSIST"

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Site        SiteConfig        `mapstructure:"site" yaml:"site"`
	Contact     ContactConfig     `mapstructure:"contact" yaml:"contact"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host"`
	Port            int             `mapstructure:"port" yaml:"port"`
	Environment     string          `mapstructure:"environment" yaml:"environment"`
	Open            bool            `mapstructure:"open" yaml:"open"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	BurstSize         int  `mapstructure:"burst_size" yaml:"burst_size"`
}

type SiteConfig struct {
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
	AssetsDir   string `mapstructure:"assets_dir" yaml:"assets_dir"`
	Stylesheet  string `mapstructure:"stylesheet" yaml:"stylesheet"`

	// ContactAction is where an exported page's form posts. Empty means the
	// server's own /contact route.
	ContactAction string `mapstructure:"contact_action" yaml:"contact_action"`
}

type ContactConfig struct {
	CookieName     string        `mapstructure:"cookie_name" yaml:"cookie_name"`
	SessionTTL     time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	MaxSessions    int           `mapstructure:"max_sessions" yaml:"max_sessions"`
	WebhookURL     string        `mapstructure:"webhook_url" yaml:"webhook_url"`
	WebhookTimeout time.Duration `mapstructure:"webhook_timeout" yaml:"webhook_timeout"`
	LogRequests    bool          `mapstructure:"log_requests" yaml:"log_requests"`
}

type DevelopmentConfig struct {
	HotReload  bool          `mapstructure:"hot_reload" yaml:"hot_reload"`
	WatchPaths []string      `mapstructure:"watch_paths" yaml:"watch_paths"`
	Debounce   time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			Environment:     "development",
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				BurstSize:         5,
			},
		},
		Site: SiteConfig{
			Title:       "VacuumAssist | Vacuum-assisted water-saving toilet",
			Description: "A vacuum-assisted toilet that saves up to 80% water per flush.",
			AssetsDir:   "./public",
			Stylesheet:  "/styles.css",
		},
		Contact: ContactConfig{
			CookieName:     "va_session",
			SessionTTL:     30 * time.Minute,
			MaxSessions:    10000,
			WebhookTimeout: 5 * time.Second,
			LogRequests:    true,
		},
		Development: DevelopmentConfig{
			Debounce: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every default value with v so that environment
// variables are picked up for keys that never appear in a config file.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.environment", d.Server.Environment)
	v.SetDefault("server.open", d.Server.Open)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate_limit.requests_per_minute", d.Server.RateLimit.RequestsPerMinute)
	v.SetDefault("server.rate_limit.burst_size", d.Server.RateLimit.BurstSize)

	v.SetDefault("site.title", d.Site.Title)
	v.SetDefault("site.description", d.Site.Description)
	v.SetDefault("site.assets_dir", d.Site.AssetsDir)
	v.SetDefault("site.stylesheet", d.Site.Stylesheet)
	v.SetDefault("site.contact_action", d.Site.ContactAction)

	v.SetDefault("contact.cookie_name", d.Contact.CookieName)
	v.SetDefault("contact.session_ttl", d.Contact.SessionTTL)
	v.SetDefault("contact.max_sessions", d.Contact.MaxSessions)
	v.SetDefault("contact.webhook_url", d.Contact.WebhookURL)
	v.SetDefault("contact.webhook_timeout", d.Contact.WebhookTimeout)
	v.SetDefault("contact.log_requests", d.Contact.LogRequests)

	v.SetDefault("development.hot_reload", d.Development.HotReload)
	v.SetDefault("development.watch_paths", []string{})
	v.SetDefault("development.debounce", d.Development.Debounce)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load builds the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds the configuration from v, applying defaults and validation.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.WrapConfig(err, apperrors.ErrCodeConfigLoad, "failed to unmarshal configuration")
	}

	// Slices bound from env vars arrive as one comma separated string
	if v.IsSet("server.allowed_origins") && len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Development.WatchPaths = splitList(cfg.Development.WatchPaths)

	// Live reload watches the assets directory unless told otherwise
	if len(cfg.Development.WatchPaths) == 0 {
		cfg.Development.WatchPaths = []string{cfg.Site.AssetsDir}
	}

	if err := Validate(&cfg); err != nil {
		return nil, apperrors.WrapConfig(err, apperrors.ErrCodeConfigInvalid, "invalid configuration")
	}

	return &cfg, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// NewEnvKeyReplacer maps nested keys such as server.port onto
// VACUUMASSIST_SERVER_PORT.
func NewEnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// LoggerConfig converts the log section into a logging configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = c.Log.Format
	return lc
}

// Validate validates configuration values for security and correctness
func Validate(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateSiteConfig(&config.Site); err != nil {
		return fmt.Errorf("site config: %w", err)
	}

	if err := validateContactConfig(&config.Contact); err != nil {
		return fmt.Errorf("contact config: %w", err)
	}

	if err := validateDevelopmentConfig(&config.Development); err != nil {
		return fmt.Errorf("development config: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// Port 0 lets the system pick one, which tests rely on
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %q", char)
			}
		}
	}

	switch config.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("environment must be development or production, got %q", config.Environment)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit.requests_per_minute must be positive")
		}
		if config.RateLimit.BurstSize <= 0 {
			return fmt.Errorf("rate_limit.burst_size must be positive")
		}
	}

	return nil
}

func validateSiteConfig(config *SiteConfig) error {
	if strings.TrimSpace(config.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if err := validation.ValidatePath(config.AssetsDir); err != nil {
		return fmt.Errorf("invalid assets_dir '%s': %w", config.AssetsDir, err)
	}

	if config.Stylesheet != "" && !strings.HasPrefix(config.Stylesheet, "/") {
		if err := validation.ValidateWebhookURL(config.Stylesheet); err != nil {
			return fmt.Errorf("stylesheet must be an absolute path or http(s) URL: %w", err)
		}
	}

	if config.ContactAction != "" {
		if err := validation.ValidateFormAction(config.ContactAction); err != nil {
			return fmt.Errorf("invalid contact_action: %w", err)
		}
	}

	return nil
}

func validateContactConfig(config *ContactConfig) error {
	if config.CookieName == "" {
		return fmt.Errorf("cookie_name cannot be empty")
	}
	for _, r := range config.CookieName {
		if !(r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("cookie_name %q may only contain letters, digits, '-' and '_'", config.CookieName)
		}
	}

	if config.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}

	if config.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive")
	}

	if config.WebhookURL != "" {
		if err := validation.ValidateWebhookURL(config.WebhookURL); err != nil {
			return err
		}
	}

	if config.WebhookTimeout <= 0 {
		return fmt.Errorf("webhook_timeout must be positive")
	}

	return nil
}

func validateDevelopmentConfig(config *DevelopmentConfig) error {
	if config.Debounce < 0 {
		return fmt.Errorf("debounce cannot be negative")
	}

	for _, path := range config.WatchPaths {
		if err := validation.ValidatePath(path); err != nil {
			return fmt.Errorf("invalid watch path '%s': %w", path, err)
		}
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return err
	}

	switch config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", config.Format)
	}

	return nil
}
