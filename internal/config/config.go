// Package config resolves runtime settings from an optional .env file and
// the environment. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/cleanstreak/internal/constants"
)

const (
	EnvDB           = "CLEANSTREAK_DB"
	EnvDBConnection = "CLEANSTREAK_DB_CONNECTION"
	EnvDebug        = "CLEANSTREAK_DEBUG"
	EnvTimezone     = "CLEANSTREAK_TIMEZONE"
	EnvAPIPort      = "CLEANSTREAK_API_PORT"
	EnvJWTSecret    = "CLEANSTREAK_JWT_SECRET"
	EnvCORSOrigins  = "CLEANSTREAK_CORS_ORIGINS"
	EnvQuotesURL    = "CLEANSTREAK_QUOTES_URL"
	EnvFactsURL     = "CLEANSTREAK_FACTS_URL"
	EnvHTTPTimeout  = "CLEANSTREAK_HTTP_TIMEOUT"
)

type Config struct {
	// DB is a SQLite path or a PostgreSQL connection string
	DB       string
	Debug    bool
	Timezone string

	APIPort     string
	JWTSecret   string
	CORSOrigins []string
	TokenTTL    time.Duration

	QuotesURL   string
	FactsURL    string
	HTTPTimeout time.Duration
}

// Load reads the given .env files (missing files are skipped; none means
// ./.env) and then the environment. Variables already set in the
// environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		DB:          getenv(EnvDB, constants.DefaultConfigPath),
		Timezone:    getenv(EnvTimezone, ""),
		APIPort:     getenv(EnvAPIPort, constants.DefaultAPIPort),
		JWTSecret:   os.Getenv(EnvJWTSecret),
		CORSOrigins: splitList(os.Getenv(EnvCORSOrigins)),
		TokenTTL:    constants.TokenTTL,
		QuotesURL:   getenv(EnvQuotesURL, constants.DefaultQuotesBaseURL),
		FactsURL:    getenv(EnvFactsURL, constants.DefaultFactsBaseURL),
		HTTPTimeout: constants.DefaultHTTPTimeout,
	}

	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		cfg.Debug = debug
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvHTTPTimeout, v)
		}
		cfg.HTTPTimeout = d
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Location resolves an IANA name; "" and "Local" mean the system zone
func Location(name string) (*time.Location, error) {
	if name == "" || name == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
