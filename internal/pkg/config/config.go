package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal containers
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// WhatsApp gateway vendors.
const (
	VendorUltraMsg = "ultramsg"
	VendorWhapi    = "whapi"
	VendorTwilio   = "twilio"
	VendorNone     = "none"
)

// Session backends.
const (
	SessionBackendDB     = "db"
	SessionBackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	Port int

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	Vendor             string
	UltraMsgBaseURL    string
	UltraMsgInstanceID string
	UltraMsgToken      string
	WhapiBaseURL       string
	WhapiToken         string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	HTTPClientTimeout  time.Duration

	Timezone       *time.Location
	SessionBackend string
	SessionTTL     time.Duration

	DispatchCron     string
	SessionPurgeCron string
	RetryAttempts    int
	RetryBackoff     time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:         envOr("SQLITE_PATH", "reminders.db"),
		UltraMsgBaseURL:    strings.TrimRight(envOr("ULTRAMSG_BASE_URL", "https://api.ultramsg.com"), "/"),
		UltraMsgInstanceID: os.Getenv("ULTRAMSG_INSTANCE_ID"),
		UltraMsgToken:      os.Getenv("ULTRAMSG_TOKEN"),
		WhapiBaseURL:       strings.TrimRight(envOr("WHAPI_BASE_URL", "https://gate.whapi.cloud"), "/"),
		WhapiToken:         os.Getenv("WHAPI_TOKEN"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		SessionBackend:     strings.ToLower(envOr("SESSION_BACKEND", SessionBackendDB)),
		DispatchCron:       strings.TrimSpace(os.Getenv("DISPATCH_CRON")),
		SessionPurgeCron:   envOr("SESSION_PURGE_CRON", "@every 10m"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.Port, err = intEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts, err = intEnv("SEND_RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts < 1 {
		return nil, fmt.Errorf("SEND_RETRY_ATTEMPTS must be at least 1, got %d", cfg.RetryAttempts)
	}
	if cfg.RetryBackoff, err = durationEnv("SEND_RETRY_BACKOFF", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.HTTPClientTimeout, err = durationEnv("HTTP_CLIENT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	tz := envOr("BOT_TIMEZONE", "Asia/Riyadh")
	if cfg.Timezone, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid BOT_TIMEZONE %q: %w", tz, err)
	}

	// DATABASE_URL implies Postgres unless a driver was chosen explicitly.
	cfg.DBDriver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverSQLite
		if cfg.DatabaseURL != "" {
			cfg.DBDriver = DriverPostgres
		}
	}
	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.SessionBackend {
	case SessionBackendDB, SessionBackendMemory:
	default:
		return nil, fmt.Errorf("unsupported SESSION_BACKEND %q", cfg.SessionBackend)
	}

	cfg.Vendor = strings.ToLower(os.Getenv("WHATSAPP_VENDOR"))
	if cfg.Vendor == "" {
		cfg.Vendor = VendorUltraMsg
	}
	switch cfg.Vendor {
	case VendorUltraMsg:
		if cfg.UltraMsgInstanceID == "" || cfg.UltraMsgToken == "" {
			return nil, fmt.Errorf("ULTRAMSG_INSTANCE_ID and ULTRAMSG_TOKEN environment variables must be set")
		}
	case VendorWhapi:
		if cfg.WhapiToken == "" {
			return nil, fmt.Errorf("WHAPI_TOKEN environment variable must be set")
		}
	case VendorTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
			return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER environment variables must be set")
		}
	case VendorNone:
	default:
		return nil, fmt.Errorf("unsupported WHATSAPP_VENDOR %q", cfg.Vendor)
	}

	return cfg, nil
}

// RedactedDSN returns the database location with any password masked, for logging.
func (c *Config) RedactedDSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	u, err := url.Parse(c.DatabaseURL)
	if err != nil || u.Scheme == "" {
		return "(unparsable DATABASE_URL)"
	}
	return u.Redacted()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable %q: %w", key, v, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable %q: %w", key, v, err)
	}
	return d, nil
}
