package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

const (
	envPrefix = "PRIMECUTS_"

	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultEnvironment     = EnvLocal
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSessionIdleTTL  = 30 * time.Minute
	defaultSessionLifetime = 24 * time.Hour
	defaultSweepInterval   = time.Minute
	defaultLoadingDelay    = 1500 * time.Millisecond
	defaultBaseURL         = "http://localhost:8080"
	defaultLocale          = "en"
	defaultLogLevel        = "info"
	defaultUIDir           = "ui"
)

// Environment names.
const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Env      string
	Dev      bool
	LogLevel string
	Server   ServerConfig
	Session  SessionConfig
	Site     SiteConfig
	Trace    TraceConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SessionConfig controls the visitor cookie and in-memory visitor state.
type SessionConfig struct {
	HashKey       []byte
	BlockKey      []byte
	CookieSecure  bool
	IdleTTL       time.Duration
	Lifetime      time.Duration
	SweepInterval time.Duration
	// Ephemeral is true when keys were generated because none were configured.
	Ephemeral bool
}

// SiteConfig holds page-level settings.
type SiteConfig struct {
	BaseURL          string
	LoadingDelay     time.Duration
	DefaultLocale    string
	SupportedLocales []string
	// UIDir is the on-disk ui directory watched in dev mode.
	UIDir string
}

// TraceConfig configures request tracing.
type TraceConfig struct {
	ProjectID string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile reads defaults from the dotenv file at path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = strings.TrimSpace(path)
	}
}

// WithEnvMap supplies values that take precedence over the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from explicit values, the process
// environment and finally the dotenv file, in that order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{envFile: defaultEnvFile, useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	p := &parser{lookup: func(key string) (string, bool) {
		if value, ok := options.envMap[key]; ok {
			return value, true
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		value, ok := dotEnvValues[key]
		return value, ok
	}}

	addr := p.string("ADDR", "")
	if addr == "" {
		if port, ok := p.lookup("PORT"); ok && strings.TrimSpace(port) != "" {
			addr = ":" + strings.TrimSpace(port)
		} else {
			addr = ":" + defaultPort
		}
	}

	cfg := Config{
		Env:      strings.ToLower(p.string("ENV", defaultEnvironment)),
		Dev:      p.bool("DEV", false),
		LogLevel: p.raw("LOG_LEVEL", defaultLogLevel),
		Server: ServerConfig{
			Addr:            addr,
			ReadTimeout:     p.duration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    p.duration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     p.duration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: p.duration("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Session: SessionConfig{
			HashKey:       []byte(p.string("SESSION_HASH_KEY", "")),
			BlockKey:      []byte(p.string("SESSION_BLOCK_KEY", "")),
			IdleTTL:       p.duration("SESSION_IDLE_TTL", defaultSessionIdleTTL),
			Lifetime:      p.duration("SESSION_LIFETIME", defaultSessionLifetime),
			SweepInterval: p.duration("SESSION_SWEEP_INTERVAL", defaultSweepInterval),
		},
		Site: SiteConfig{
			BaseURL:          strings.TrimRight(p.string("BASE_URL", defaultBaseURL), "/"),
			LoadingDelay:     p.duration("LOADING_DELAY", defaultLoadingDelay),
			DefaultLocale:    strings.ToLower(p.string("DEFAULT_LOCALE", defaultLocale)),
			SupportedLocales: p.csv("SUPPORTED_LOCALES", []string{"en", "es"}),
			UIDir:            p.string("UI_DIR", defaultUIDir),
		},
		Trace: TraceConfig{
			ProjectID: p.string("TRACE_PROJECT_ID", ""),
		},
	}
	cfg.Session.CookieSecure = p.bool("SESSION_COOKIE_SECURE", cfg.Env == EnvProd)

	if len(cfg.Session.HashKey) == 0 && cfg.Env != EnvProd {
		cfg.Session.HashKey = securecookie.GenerateRandomKey(32)
		cfg.Session.BlockKey = securecookie.GenerateRandomKey(32)
		cfg.Session.Ephemeral = true
	}

	if err := validate(cfg, p.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProd reports whether the configuration targets production.
func (c Config) IsProd() bool { return c.Env == EnvProd }

func validate(cfg Config, invalid []string) error {
	fields := append([]string(nil), invalid...)

	if cfg.Env != EnvLocal && cfg.Env != EnvProd {
		fields = append(fields, "Env")
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		fields = append(fields, "Server.Addr")
	}
	if len(cfg.Session.HashKey) < 32 {
		fields = append(fields, "Session.HashKey")
	}
	switch len(cfg.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		fields = append(fields, "Session.BlockKey")
	}
	if cfg.Session.IdleTTL <= 0 {
		fields = append(fields, "Session.IdleTTL")
	}
	if cfg.Session.Lifetime <= 0 {
		fields = append(fields, "Session.Lifetime")
	}
	if cfg.Session.SweepInterval <= 0 {
		fields = append(fields, "Session.SweepInterval")
	}
	if cfg.Site.LoadingDelay < 0 {
		fields = append(fields, "Site.LoadingDelay")
	}
	if u, err := url.Parse(cfg.Site.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fields = append(fields, "Site.BaseURL")
	}
	if !contains(cfg.Site.SupportedLocales, cfg.Site.DefaultLocale) {
		fields = append(fields, "Site.DefaultLocale")
	}

	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

// parser reads prefixed keys and records the ones that fail to parse.
type parser struct {
	lookup  func(string) (string, bool)
	invalid []string
}

func (p *parser) raw(key, fallback string) string {
	if value, ok := p.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (p *parser) string(key, fallback string) string {
	return p.raw(envPrefix+key, fallback)
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value := p.string(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.invalid = append(p.invalid, envPrefix+key)
		return fallback
	}
	return d
}

func (p *parser) bool(key string, fallback bool) bool {
	value := p.string(key, "")
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	p.invalid = append(p.invalid, envPrefix+key)
	return fallback
}

func (p *parser) csv(key string, fallback []string) []string {
	raw := p.string(key, "")
	if raw == "" {
		return fallback
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
