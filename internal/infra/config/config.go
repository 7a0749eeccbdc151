package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL           string
	ListenAddr            string
	CronSecret            string // optional shared secret for the dispatch endpoint
	SchedulerEnabled      bool
	CronSpecDispatch      string // evaluated in the civil timezone (KST)
	WebhookTimeoutSeconds int
	TMSBaseURL            string
	LogLevel              string
	Environment           string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	// Empty means the dispatch endpoint is open; trusted schedulers bypass
	// the check either way via the x-vercel-cron header.
	cfg.CronSecret = os.Getenv("CRON_SECRET")

	schedulerEnabled := strings.ToLower(os.Getenv("SCHEDULER_ENABLED"))
	cfg.SchedulerEnabled = schedulerEnabled != "false" && schedulerEnabled != "0"

	cfg.CronSpecDispatch = os.Getenv("CRON_SPEC_DISPATCH")
	if cfg.CronSpecDispatch == "" {
		cfg.CronSpecDispatch = "0 * * * *" // Default: hourly, on the hour
	}

	timeoutStr := os.Getenv("WEBHOOK_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		cfg.WebhookTimeoutSeconds = 5
	} else {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT_SECONDS: %q", timeoutStr)
		}
		cfg.WebhookTimeoutSeconds = timeout
	}

	cfg.TMSBaseURL = os.Getenv("TMS_BASE_URL")
	if cfg.TMSBaseURL == "" {
		cfg.TMSBaseURL = "https://tms.watercharging.com/"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
