package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFileIfExists loads KEY=value pairs from path into the process
// environment. Variables already set in the environment win over the file.
// A missing file is not an error.
func LoadEnvFileIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
