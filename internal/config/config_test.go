package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "INVENTORY_API_BASE_URL", "INVENTORY_API_TIMEOUT", "NOTIFICATION_TTL",
	"REFRESH_CRON", "LOW_STOCK_REPORT_CRON", "TIMEZONE", "LOG_LEVEL", "LOG_FILE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_ALERT_TO",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "LOW_STOCK_SHEET_RANGE",
	"MONGODB_URI", "MONGODB_DB_NAME",
}

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
	}
}

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultInventoryBaseURL, cfg.Inventory.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, 4500*time.Millisecond, cfg.Notification.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "clinicstock-tui.log", cfg.Log.File)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.Empty(t, cfg.Scheduler.RefreshSchedule)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range managedKeys {
		// godotenv.Load does not override variables that are already set.
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nINVENTORY_API_BASE_URL=http://localhost:8000/api\nINVENTORY_API_TIMEOUT=3s\nREFRESH_CRON=*/5 * * * *\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range managedKeys {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/api", cfg.Inventory.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, "*/5 * * * *", cfg.Scheduler.RefreshSchedule)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVENTORY_API_TIMEOUT", "soon")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVENTORY_API_TIMEOUT")
}

func TestValidate_WhatsAppRequiresRecipient(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHATSAPP_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHATSAPP_ALERT_TO")
}

func TestValidate_NilConfig(t *testing.T) {
	var c *Config
	require.Error(t, c.Validate())
}
