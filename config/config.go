package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// DBConfig holds everything needed to open the connection pool.
type DBConfig struct {
	Driver         string
	User           string
	Password       string
	Host           string
	Port           string
	Name           string
	MinConns       int
	MaxConns       int
	IdleTimeout    time.Duration
	SSL            bool
	ConnectRetries int
}

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	Bootstrap       bool
	ShutdownTimeout time.Duration
	DB              DBConfig
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// DSN renders a postgres URL accepted by both lib/pq and pgx.
// sslmode=require encrypts the connection without verifying the server certificate.
func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	sslMode := "disable"
	if d.SSL {
		sslMode = "require"
	}
	u.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()
	return u.String()
}

// Load reads an optional .env file and then the process environment.
// The returned bool reports whether a .env file was loaded.
func Load() (*Config, bool, error) {
	loaded := godotenv.Load() == nil
	cfg, err := FromLookup(os.LookupEnv)
	return cfg, loaded, err
}

// FromLookup builds a Config from an arbitrary key lookup, applying defaults.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		Port:     r.str("PORT", "3000"),
		Env:      strings.ToLower(r.str("APP_ENV", r.str("NODE_ENV", EnvDevelopment))),
		LogLevel: r.str("LOG_LEVEL", "info"),
		DB: DBConfig{
			Driver:   r.str("DB_DRIVER", DriverPQ),
			User:     r.str("DB_USER", "postgres"),
			Password: r.str("DB_PASSWORD", ""),
			Host:     r.str("DB_HOST", "localhost"),
			Port:     r.str("DB_PORT", "5432"),
			Name:     r.str("DB_NAME", "postgres"),
		},
	}

	cfg.Bootstrap = r.boolean("DB_BOOTSTRAP", true)
	cfg.ShutdownTimeout = r.duration("SHUTDOWN_TIMEOUT", 5*time.Second)
	cfg.DB.MinConns = r.integer("DB_POOL_MIN", 2)
	cfg.DB.MaxConns = r.integer("DB_POOL_MAX", 10)
	cfg.DB.IdleTimeout = r.duration("DB_IDLE_TIMEOUT", 30*time.Second)
	cfg.DB.SSL = r.boolean("DB_SSL", cfg.Env == EnvProduction)
	cfg.DB.ConnectRetries = r.integer("DB_CONNECT_RETRIES", 5)

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPQ, DriverPGX:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DB.Driver)
	}
	if c.DB.MaxConns < 1 {
		return errors.New("DB_POOL_MAX must be at least 1")
	}
	if c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("DB_POOL_MIN must be between 0 and DB_POOL_MAX (%d)", c.DB.MaxConns)
	}
	if c.DB.ConnectRetries < 1 {
		c.DB.ConnectRetries = 1
	}
	return nil
}

// reader keeps the first parse error so Load can report it once.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, def string) string {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return def
	}
	return v
}

func (r *reader) integer(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (r *reader) boolean(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}

// duration accepts Go durations ("30s") and bare milliseconds ("30000").
func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
