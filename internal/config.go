package internal

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config keys shared by viper, flags and environment variables
const (
	KeyDB        = "db"
	KeyKeyFile   = "key-file"
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeyBaseURL   = "base-url"
	KeyTitleBase = "title-base"
	KeyVerbose   = "verbose"
)

// Config holds resolved runtime settings
type Config struct {
	DBPath    string
	KeyFile   string
	Provider  string
	Model     string
	BaseURL   string
	TitleBase string
	Verbose   bool
}

// DataDir returns the default directory for the database and credential
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".chat-mirror"), nil
}

// SetConfigDefaults registers default values on v
func SetConfigDefaults(v *viper.Viper) error {
	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	v.SetDefault(KeyDB, filepath.Join(dataDir, "db.sqlite"))
	v.SetDefault(KeyKeyFile, filepath.Join(dataDir, "credential"))
	v.SetDefault(KeyProvider, DefaultProvider)
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyTitleBase, DefaultTitleBase)
	v.SetDefault(KeyVerbose, false)
	return nil
}

// LoadConfig resolves a Config from v
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:    v.GetString(KeyDB),
		KeyFile:   v.GetString(KeyKeyFile),
		Provider:  v.GetString(KeyProvider),
		Model:     v.GetString(KeyModel),
		BaseURL:   v.GetString(KeyBaseURL),
		TitleBase: v.GetString(KeyTitleBase),
		Verbose:   v.GetBool(KeyVerbose),
	}

	if cfg.DBPath == "" {
		return nil, errors.New("database path is not configured")
	}
	if cfg.KeyFile == "" {
		return nil, errors.New("credential file path is not configured")
	}
	if cfg.TitleBase == "" {
		cfg.TitleBase = DefaultTitleBase
	}
	return cfg, nil
}
