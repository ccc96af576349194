package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DefaultInventoryBaseURL is the clinic management API root.
const DefaultInventoryBaseURL = "https://rahatmaqsoodclinic.com/management/api"

// Config represents the full application configuration surface.
type Config struct {
	Server       ServerConfig
	Inventory    InventoryAPIConfig
	Notification NotificationConfig
	Scheduler    SchedulerConfig
	Log          LogConfig
	WhatsApp     WhatsAppConfig
	Sheets       SheetsConfig
	MongoDB      MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// InventoryAPIConfig points at the remote inventory endpoints.
type InventoryAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NotificationConfig controls how long notifications stay visible.
type NotificationConfig struct {
	TTL time.Duration
}

// SchedulerConfig holds cron expressions. An empty expression disables the job.
type SchedulerConfig struct {
	RefreshSchedule  string
	LowStockSchedule string
	Timezone         string
}

// LogConfig selects the zap level. File is used by the terminal UI, which
// cannot log to the screen it draws on.
type LogConfig struct {
	Level string
	File  string
}

// WhatsAppConfig contains credentials for low-stock alerts through the Meta
// WhatsApp Cloud API. Alerts are disabled unless AccessToken is set.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	AlertTo       string
}

// Enabled reports whether alerts can be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// SheetsConfig contains configuration required to export low-stock rows.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LowStockRange   string
}

// Enabled reports whether the export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for the stock update audit trail.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the audit trail is configured.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	timeout, err := durationWithDefault("INVENTORY_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := durationWithDefault("NOTIFICATION_TTL", 4500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Inventory: InventoryAPIConfig{
			BaseURL: getenvWithDefault("INVENTORY_API_BASE_URL", DefaultInventoryBaseURL),
			Timeout: timeout,
		},
		Notification: NotificationConfig{
			TTL: ttl,
		},
		Scheduler: SchedulerConfig{
			RefreshSchedule:  os.Getenv("REFRESH_CRON"),
			LowStockSchedule: os.Getenv("LOW_STOCK_REPORT_CRON"),
			Timezone:         getenvWithDefault("TIMEZONE", "Asia/Karachi"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
			File:  getenvWithDefault("LOG_FILE", "clinicstock-tui.log"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AlertTo:       os.Getenv("WHATSAPP_ALERT_TO"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			LowStockRange:   getenvWithDefault("LOW_STOCK_SHEET_RANGE", "LowStock!A:G"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "clinic_inventory"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Inventory.BaseURL == "" {
		return errors.New("INVENTORY_API_BASE_URL must not be empty")
	}
	if c.Inventory.Timeout <= 0 {
		return errors.New("INVENTORY_API_TIMEOUT must be positive")
	}

	if c.Notification.TTL <= 0 {
		return errors.New("NOTIFICATION_TTL must be positive")
	}

	if c.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			return fmt.Errorf("TIMEZONE is invalid: %w", err)
		}
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when WHATSAPP_TOKEN is set")
		case c.WhatsApp.AlertTo == "":
			return errors.New("WHATSAPP_ALERT_TO must be provided when WHATSAPP_TOKEN is set")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.LowStockRange == "" {
		return errors.New("LOW_STOCK_SHEET_RANGE must not be empty")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a duration: %w", key, err)
	}
	return d, nil
}
