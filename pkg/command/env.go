package command

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from the given dotenv file, a blank path is
// skipped.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}
