// Package config loads the service configuration from defaults, an optional
// YAML file and INVENTORY_* environment variables, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
)

type InventoryConfig struct {
	Env            string        `koanf:"env"`
	HTTPPort       string        `koanf:"http_port"`
	DatabaseURL    string        `koanf:"database_url"`
	JWTSecret      string        `koanf:"jwt_secret"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	LogDir         string        `koanf:"log_dir"`
	LogLevel       string        `koanf:"log_level"`

	// TrustProxyHeaders makes rate limiting key on X-Real-IP/X-Forwarded-For.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`

	CircuitBreakerThreshold int           `koanf:"circuit_breaker_threshold"`
	CircuitBreakerTimeout   time.Duration `koanf:"circuit_breaker_timeout"`
	CircuitBreakerReset     time.Duration `koanf:"circuit_breaker_reset"`

	// UsingDevelopmentSecret is set by Validate when the built-in secret was
	// substituted for a missing jwt_secret.
	UsingDevelopmentSecret bool `koanf:"-"`
}

func (c InventoryConfig) IsDevelopment() bool {
	return c.Env == constants.EnvDevelopment
}

func (c InventoryConfig) Addr() string {
	return ":" + c.HTTPPort
}

type Option func(*loader)

type loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.filePath = path
	}
}

func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// Load reads the configuration without validating it. The YAML file is taken
// from WithConfigFile or, failing that, from INVENTORY_CONFIG_FILE.
func Load(opts ...Option) (InventoryConfig, error) {
	l := &loader{
		k:         koanf.New("."),
		envPrefix: constants.ConfigEnvPrefix,
		filePath:  os.Getenv(constants.ConfigFileEnv),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.k.Load(mapProvider(defaults()), nil); err != nil {
		return InventoryConfig{}, fmt.Errorf("load defaults: %w", err)
	}

	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return InventoryConfig{}, fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
	}

	prefix := l.envPrefix
	envProvider := env.ProviderWithValue(prefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if key == "allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := l.k.Load(envProvider, nil); err != nil {
		return InventoryConfig{}, fmt.Errorf("load env: %w", err)
	}

	var cfg InventoryConfig
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return InventoryConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Env = strings.TrimSpace(strings.ToLower(cfg.Env))
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	return cfg, nil
}

// Validate enforces the startup requirements of the HTTP server. Outside
// development a jwt_secret of at least JWTSecretMinLength bytes is mandatory.
func (c *InventoryConfig) Validate() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}

	if strings.TrimSpace(c.HTTPPort) == "" {
		return fmt.Errorf("%w: http_port", commonerrors.ErrMissingRequiredConfig)
	}

	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("%w: jwt_secret (required when env=%q)", commonerrors.ErrMissingRequiredConfig, c.Env)
		}
		c.JWTSecret = constants.DevelopmentJWTSecret
		c.UsingDevelopmentSecret = true
	}

	if len(c.JWTSecret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(c.JWTSecret))
	}

	var errs []error
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.CircuitBreakerThreshold <= 0 {
		errs = append(errs, errors.New("circuit_breaker_threshold must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

// RequireDatabase is the subset of Validate needed by the operator CLI.
func (c InventoryConfig) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%w: database_url", commonerrors.ErrMissingRequiredConfig)
	}
	return nil
}

func defaults() map[string]any {
	return map[string]any{
		"env":                       constants.DefaultEnv,
		"http_port":                 constants.DefaultHTTPPort,
		"allowed_origins":           splitList(constants.DefaultAllowedOrigins),
		"token_ttl":                 constants.DefaultTokenTTL,
		"request_timeout":           constants.DefaultRequestTimeout,
		"log_level":                 constants.DefaultLogLevel,
		"trust_proxy_headers":       false,
		"circuit_breaker_threshold": constants.DefaultCircuitBreakerThreshold,
		"circuit_breaker_timeout":   constants.DefaultCircuitBreakerTimeout,
		"circuit_breaker_reset":     constants.DefaultCircuitBreakerReset,
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
