package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration parameters of the application.
type Config struct {
	DatabaseURL       string
	ServerPort        int
	CodeforcesAPIBase string
	SyncHour          int
	CORSOrigins       []string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

// EmailEnabled reports whether the SMTP reminder channel is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// SMSEnabled reports whether the Twilio reminder channel is configured.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	syncHour, err := intEnv("SYNC_HOUR", 2)
	if err != nil {
		return nil, err
	}
	if syncHour < 0 || syncHour > 23 {
		return nil, fmt.Errorf("SYNC_HOUR must be between 0 and 23, got %d", syncHour)
	}

	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	apiBase := os.Getenv("CODEFORCES_API_BASE")
	if apiBase == "" {
		apiBase = "https://codeforces.com/api"
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		ServerPort:        port,
		CodeforcesAPIBase: apiBase,
		SyncHour:          syncHour,
		CORSOrigins:       origins,
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          smtpPort,
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		SMTPFrom:          os.Getenv("SMTP_FROM"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
