package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LEDGER_TEST_DIR", "/data")

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"~", home},
		{"~/ledger.db", filepath.Join(home, "ledger.db")},
		{"$LEDGER_TEST_DIR/ledger.db", "/data/ledger.db"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	SetDefaults()
	assert.Equal(t, filepath.Join(home, ".local/share/ledger/ledger.db"), DatabasePath())

	viper.Set("database.path", "/tmp/custom.db")
	assert.Equal(t, "/tmp/custom.db", DatabasePath())
}

func TestLoadUpdateConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("database.path", "/var/lib/ledger/ledger.db")

	cfg, err := LoadUpdateConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultUpdateOwner, cfg.Owner)
	assert.Equal(t, "/var/lib/ledger/updates", cfg.DownloadDir)

	viper.Set("update.repo", "")
	_, err = LoadUpdateConfig()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadSheetsConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}

	_, err := LoadSheetsConfig()
	assert.Error(t, err, "no credentials configured")

	viper.Set("sheets.service_account_path", "/keys/sa.json")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Household")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "Household", cfg.SpreadsheetName)

	viper.Set("sheets.spreadsheet_name", "From Config")
	cfg, err = LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "From Config", cfg.SpreadsheetName)
	assert.NotEqual(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
}
