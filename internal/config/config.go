package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/yukikurage/taskflow/internal/constants"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret    string
	JWTExpiresIn string
	// TokenTTL is JWTExpiresIn parsed by Validate.
	TokenTTL time.Duration

	CORSOrigin      string
	RateLimit       int
	RateLimitWindow time.Duration

	LogLevel  string
	LogFormat string
}

// Opt is a single command-line option that can also be set from the environment.
type Opt struct {
	DestP   interface{}
	Flag    string
	Default interface{}
	Desc    string
}

// Options lists every setting of c together with its flag name and default.
// The environment variable for a flag is its upper-snake form.
func (c *Config) Options() []Opt {
	return []Opt{
		{&c.Port, "port", "5000", "port the HTTP server listens on"},
		{&c.GinMode, "gin-mode", "debug", "gin mode (debug, release, test)"},
		{&c.DBDriver, "db-driver", DriverPostgres, "database driver (postgres, mysql, sqlite)"},
		{&c.DatabaseURL, "database-url", "", "full database DSN; overrides the individual db-* settings"},
		{&c.DBHost, "db-host", "localhost", "database host"},
		{&c.DBPort, "db-port", "5432", "database port"},
		{&c.DBUser, "db-user", "taskflow", "database user"},
		{&c.DBPassword, "db-password", "taskflow", "database password"},
		{&c.DBName, "db-name", "taskflow", "database name"},
		{&c.JWTSecret, "jwt-secret", "", "secret used to sign access tokens"},
		{&c.JWTExpiresIn, "jwt-expires-in", "7d", "access token lifetime, e.g. 7d or 12h"},
		{&c.CORSOrigin, "cors-origin", "http://localhost:5173", "origin allowed to make cross-origin requests"},
		{&c.RateLimit, "rate-limit", constants.DefaultRateLimit, "requests allowed per client IP and window on /api (0 disables)"},
		{&c.RateLimitWindow, "rate-limit-window", constants.DefaultRateLimitWindow, "rate limit window"},
		{&c.LogLevel, "log-level", "info", "log level (debug, info, warn, error)"},
		{&c.LogFormat, "log-format", "console", "log encoding (console, json)"},
	}
}

// NewViper returns a viper instance that resolves keys from the environment,
// normalizing "-" in flag names to "_".
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// BindOptions registers opts as persistent flags of cmd and seeds each
// destination from v. Flags given on the command line override the seeded value.
func BindOptions(v *viper.Viper, cmd *cobra.Command, opts []Opt) {
	flags := cmd.PersistentFlags()
	for _, o := range opts {
		switch destP := o.DestP.(type) {
		case *string:
			var d string
			if o.Default != nil {
				d = o.Default.(string)
			}
			flags.StringVar(destP, o.Flag, d, o.Desc)
			mustBindPFlag(v, cmd, o.Flag)
			*destP = v.GetString(o.Flag)
		case *int:
			var d int
			if o.Default != nil {
				d = o.Default.(int)
			}
			flags.IntVar(destP, o.Flag, d, o.Desc)
			mustBindPFlag(v, cmd, o.Flag)
			*destP = v.GetInt(o.Flag)
		case *time.Duration:
			var d time.Duration
			if o.Default != nil {
				d = o.Default.(time.Duration)
			}
			flags.DurationVar(destP, o.Flag, d, o.Desc)
			mustBindPFlag(v, cmd, o.Flag)
			*destP = v.GetDuration(o.Flag)
		default:
			panic(fmt.Errorf("unknown destination type %T", o.DestP))
		}
	}
}

func mustBindPFlag(v *viper.Viper, cmd *cobra.Command, key string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(key)); err != nil {
		panic(err)
	}
}

// Validate checks the loaded settings and fills in derived values.
// Every problem found is reported, not just the first one.
func (c *Config) Validate() error {
	var errs error

	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = multierr.Append(errs, errors.New("jwt-secret is required"))
	}

	ttl, err := ParseTokenTTL(c.JWTExpiresIn)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("jwt-expires-in: %w", err))
	}
	c.TokenTTL = ttl

	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		errs = multierr.Append(errs, fmt.Errorf("db-driver %q is not supported", c.DBDriver))
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("port %q is not a number", c.Port))
	}

	if c.RateLimit < 0 {
		errs = multierr.Append(errs, errors.New("rate-limit must not be negative"))
	}
	if c.RateLimit > 0 && c.RateLimitWindow <= 0 {
		errs = multierr.Append(errs, errors.New("rate-limit-window must be positive"))
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		errs = multierr.Append(errs, fmt.Errorf("log-format %q is not supported", c.LogFormat))
	}

	return errs
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case DriverSQLite:
		return fmt.Sprintf("file:%s.db?_foreign_keys=on", c.DBName)
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// ParseTokenTTL parses a token lifetime. It accepts Go durations ("12h"),
// whole days ("7d") and bare seconds ("3600").
func ParseTokenTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return constants.DefaultTokenTTL, nil
	}

	var ttl time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		ttl = time.Duration(n) * 24 * time.Hour
	} else if secs, err := strconv.Atoi(s); err == nil {
		ttl = time.Duration(secs) * time.Second
	} else {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		ttl = d
	}

	if ttl <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return ttl, nil
}
