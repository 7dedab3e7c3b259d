package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Validate ensures all configuration sections have the required environment
// variables set and that optional values are well-formed.
func Validate() error {
	LoadEnv()

	if err := ValidateDatabaseConfig(); err != nil {
		return fmt.Errorf("database configuration: %w", err)
	}

	if err := ValidateJWTConfig(); err != nil {
		return fmt.Errorf("jwt configuration: %w", err)
	}

	if err := ValidateStorageConfig(); err != nil {
		return fmt.Errorf("storage configuration: %w", err)
	}

	if err := ValidateEmailConfig(); err != nil {
		return fmt.Errorf("email configuration: %w", err)
	}

	return nil
}

// ValidateDatabaseConfig ensures the variables required by the selected
// driver are present.
func ValidateDatabaseConfig() error {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	if driver == "" {
		driver = DriverMySQL
	}

	var required []string
	switch driver {
	case DriverMySQL, DriverPostgres:
		required = []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME"}
	case DriverSQLite:
		required = []string{"DB_NAME"}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	if missing := missingVars(required); len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateJWTConfig ensures JWT environment variables are set and valid.
func ValidateJWTConfig() error {
	if strings.TrimSpace(os.Getenv("JWT_SECRET")) == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	for _, key := range []string{"JWT_ACCESS_TTL", "JWT_REFRESH_TTL"} {
		if ttl := strings.TrimSpace(os.Getenv(key)); ttl != "" {
			if _, err := time.ParseDuration(ttl); err != nil {
				return fmt.Errorf("invalid %s value %q: %w", key, ttl, err)
			}
		}
	}

	return nil
}

// ValidateStorageConfig checks the variables of the selected storage driver.
func ValidateStorageConfig() error {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_DRIVER")))
	switch driver {
	case "", StorageS3:
		if missing := missingVars([]string{"AWS_REGION", "AWS_S3_BUCKET"}); len(missing) > 0 {
			return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	case StorageLocal:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
	}
	return nil
}

// ValidateEmailConfig validates SMTP settings. Email notification is
// optional, so an empty SMTP_HOST disables the check.
func ValidateEmailConfig() error {
	if strings.TrimSpace(os.Getenv("SMTP_HOST")) == "" {
		return nil
	}

	if missing := missingVars([]string{"SMTP_PORT", "SMTP_FROM"}); len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		return fmt.Errorf("SMTP_PORT must be a positive integer")
	}

	return nil
}

func missingVars(keys []string) []string {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
