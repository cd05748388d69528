package config

import (
	"fmt"
	"path/filepath"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/update"
	"github.com/spf13/viper"
)

// Defaults for values not present in the config file or environment.
const (
	DefaultDatabasePath = "$HOME/.local/share/ledger/ledger.db"
	DefaultUpdateOwner  = "Veraticus"
	DefaultUpdateRepo   = "pocket-ledger"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// SetDefaults registers the default values with viper.
func SetDefaults() {
	viper.SetDefault("database.path", DefaultDatabasePath)
	viper.SetDefault("logging.level", DefaultLogLevel)
	viper.SetDefault("logging.format", DefaultLogFormat)
	viper.SetDefault("update.owner", DefaultUpdateOwner)
	viper.SetDefault("update.repo", DefaultUpdateRepo)
	viper.SetDefault("update.api_url", update.DefaultAPIURL)
}

// DatabasePath returns the expanded SQLite database path.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// LoadUpdateConfig returns the release feed configuration. Downloads go to
// an "updates" directory beside the database unless configured.
func LoadUpdateConfig() (update.GitHubConfig, error) {
	cfg := update.GitHubConfig{
		APIURL:      viper.GetString("update.api_url"),
		Owner:       viper.GetString("update.owner"),
		Repo:        viper.GetString("update.repo"),
		DownloadDir: ExpandPath(viper.GetString("update.download_dir")),
		Target:      ExpandPath(viper.GetString("update.target")),
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(filepath.Dir(DatabasePath()), "updates")
	}
	if err := cfg.Validate(); err != nil {
		return update.GitHubConfig{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}
