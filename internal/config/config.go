// Package config loads settings from config files, the environment and .env.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	envOnce sync.Once
	// Logger reports configuration loading problems before the application
	// logger exists.
	Logger = logrus.New()
)

// envFiles lists the .env candidates, working directory first.
func envFiles() []string {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".statement-import", ".env"))
	}
	return files
}

// LoadEnv loads the first .env file found, once per process. Variables
// already set in the environment win, so API keys exported in the shell
// override the file.
func LoadEnv() {
	envOnce.Do(func() {
		for _, f := range envFiles() {
			if _, err := os.Stat(f); err != nil {
				continue
			}
			if err := godotenv.Load(f); err != nil {
				Logger.WithError(err).WithField("file", f).Warn("Failed to load .env file")
				return
			}
			Logger.WithField("file", f).Debug("Loaded environment file")
			return
		}
		Logger.Debug("No .env file found, using process environment")
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
