package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// EnvFileEnv names the dotenv file to load instead of .env
	EnvFileEnv     = "IMGBB_ENV_FILE"
	defaultEnvFile = ".env"
)

// LoadEnvFile loads variables from the dotenv file into the process
// environment. Variables already set are kept. A missing file is not an
// error.
func LoadEnvFile() error {
	path := os.Getenv(EnvFileEnv)
	if path == "" {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return nil
}

// envTemplate lists every variable the CLI reads, with defaults where one exists
func envTemplate() map[string]string {
	return map[string]string{
		"IMGBB_API_KEY":               "",
		"IMGBB_ENDPOINT":              "https://api.imgbb.com/1/upload",
		"IMGBB_TIMEOUT":               "30s",
		"IMGBB_LOG_LEVEL":             "info",
		"IMGBB_LOG_FORMAT":            "console",
		"IMGBB_LOG_OUTPUT":            "stderr",
		"IMGBB_ADDR":                  "127.0.0.1:8080",
		"IMGBB_FILE_STORAGE_PATH":     "",
		"IMGBB_CLOUD_STORAGE_BUCKET":  "",
		"IMGBB_CLOUD_STORAGE_PREFIX":  "",
		"IMGBB_S3_BUCKET":             "",
		"IMGBB_S3_ENDPOINT":           "",
		"IMGBB_S3_REGION":             "us-east-1",
		"IMGBB_S3_ACCESS_KEY":         "",
		"IMGBB_S3_SECRET_KEY":         "",
		"IMGBB_S3_PREFIX":             "",
		"IMGBB_FIRESTORE_PROJECT_ID":  "",
		"IMGBB_FIRESTORE_DATABASE_ID": "(default)",
	}
}

// GenerateEnvFile writes a dotenv template to path
func GenerateEnvFile(path string) error {
	if err := godotenv.Write(envTemplate(), path); err != nil {
		return goerr.Wrap(err, "failed to write env file", goerr.V("path", path))
	}
	return nil
}
