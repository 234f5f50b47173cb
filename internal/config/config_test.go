package config

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseTokenTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 7 * 24 * time.Hour},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "1d", want: 24 * time.Hour},
		{in: "12h", want: 12 * time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: "3600", want: time.Hour},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-1h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTokenTTL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Port:            "5000",
		DBDriver:        DriverSQLite,
		DBName:          "taskflow",
		JWTSecret:       "secret",
		JWTExpiresIn:    "1d",
		RateLimit:       100,
		RateLimitWindow: 15 * time.Minute,
		LogFormat:       "json",
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{
		Port:         "http",
		DBDriver:     "oracle",
		JWTExpiresIn: "whenever",
		RateLimit:    -1,
		LogFormat:    "xml",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
	assert.ErrorContains(t, err, "jwt-secret is required")
	assert.ErrorContains(t, err, `db-driver "oracle"`)
}

func TestDSN(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "file:taskflow.db?_foreign_keys=on", cfg.DSN())

	cfg.DBDriver = DriverPostgres
	cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword = "db", "5432", "u", "p"
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=taskflow sslmode=disable TimeZone=UTC", cfg.DSN())

	cfg.DBDriver = DriverMySQL
	cfg.DBPort = "3306"
	assert.Equal(t, "u:p@tcp(db:3306)/taskflow?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())

	cfg.DatabaseURL = "postgres://elsewhere"
	assert.Equal(t, "postgres://elsewhere", cfg.DSN())
}

func TestBindOptions(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RATE_LIMIT", "7")
	t.Setenv("PORT", "6000")

	var cfg Config
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	BindOptions(NewViper(), cmd, cfg.Options())

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 7, cfg.RateLimit)
	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)

	cmd.SetArgs([]string{"--port", "7000"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "7000", cfg.Port)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{GinMode: "release"}).IsProduction())
	assert.False(t, (&Config{GinMode: "debug"}).IsProduction())
}
