package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting of the API server.
type Config struct {
	Port    string `env:"PORT,default=8000"`
	GinMode string `env:"GIN_MODE,default=debug"`
	DBPath  string `env:"DB_PATH,default=./db/app.db"`

	SessionCookieName   string        `env:"SESSION_COOKIE_NAME,default=storefront.sid"`
	SessionMaxAge       time.Duration `env:"SESSION_MAX_AGE,default=168h"`
	SessionSecure       bool          `env:"SESSION_SECURE,default=false"`
	SessionReapSchedule string        `env:"SESSION_REAP_SCHEDULE,default=@every 15m"`

	// CORSOrigins is a comma separated allow list. Empty reflects any origin.
	CORSOrigins string `env:"CORS_ORIGINS"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AllowAdminSignup bool   `env:"ALLOW_ADMIN_SIGNUP,default=false"`
	AdminUsername    string `env:"ADMIN_USERNAME"`
	AdminPassword    string `env:"ADMIN_PASSWORD"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE,default=20"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client.
	TrustedProxies string `env:"TRUSTED_PROXIES"`
}

// Load reads .env (if present) and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("could not load .env file, relying on system environment variables")
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if c.SessionMaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}
	if c.LoginRatePerMinute <= 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	for _, p := range c.TrustedProxyList() {
		if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p)
		}
	}
	return nil
}

// AllowedOrigins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// TrustedProxyList splits TrustedProxies the same way.
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
