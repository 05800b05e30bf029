package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// envFiles are loaded in order from the configuration directory when present.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads environment variables from .env files next to the configuration.
// Existing process environment variables are never overwritten.
func loadEnvFile(dir string) error {
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
				Fatal().WithPath(p).Build()
		}
	}
	return nil
}
