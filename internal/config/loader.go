package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the timetable
// service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	Environment    string
	OrgTimezone    string
	HorizonMonths  int
}

// Load parses configuration from a .env file when present and from the
// process environment otherwise. Defaults apply to optional fields; invalid
// values are reported together.
func Load() (Config, error) {
	// Missing .env is fine; the process environment wins either way.
	_ = godotenv.Load(".env")

	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:classtime.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		Environment:   "development",
		OrgTimezone:   "UTC",
		HorizonMonths: 2,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CLASSTIME_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CLASSTIME_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CLASSTIME_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if env := strings.TrimSpace(os.Getenv("CLASSTIME_ENV")); env != "" {
		cfg.Environment = env
	}

	if tz := strings.TrimSpace(os.Getenv("CLASSTIME_ORG_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "CLASSTIME_ORG_TIMEZONE")
		} else {
			cfg.OrgTimezone = tz
		}
	}

	if months := strings.TrimSpace(os.Getenv("CLASSTIME_HORIZON_MONTHS")); months != "" {
		parsed, err := strconv.Atoi(months)
		if err != nil || parsed <= 0 {
			invalid = append(invalid, "CLASSTIME_HORIZON_MONTHS")
		} else {
			cfg.HorizonMonths = parsed
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured organization timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.OrgTimezone)
}
