package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file so corpus
// paths and defaults can live outside the command line. ENV_PATH
// overrides the default location. A missing file is not an error:
// benchmark runs must work on bare machines.
func LoadDotEnv(defaultPath string) {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		slog.Debug("No .env file loaded", "path", envPath)
		return
	}
	slog.Info("Loaded environment", "path", envPath)
}
