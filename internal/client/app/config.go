package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. Command line flags override it.
type Config struct {
	APIURL          string        `env:"RENTAL_API_URL"          envDefault:"http://localhost:8080"`
	CredentialsFile string        `env:"RENTAL_CREDENTIALS_FILE"`
	HTTPTimeout     time.Duration `env:"RENTAL_HTTP_TIMEOUT"     envDefault:"10s"`

	Env       string `env:"ENV"        envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig parses the environment. CredentialsFile defaults to
// carhire/credentials.db under the user's config directory.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CredentialsFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("locate config dir: %w", err)
		}
		cfg.CredentialsFile = filepath.Join(dir, "carhire", "credentials.db")
	}
	return cfg, nil
}
