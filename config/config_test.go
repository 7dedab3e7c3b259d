package config

import "testing"

func setDatabaseEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASS", "pass")
	t.Setenv("DB_NAME", "earsip")
}

func TestValidateDatabaseConfigMissing(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_NAME", "")

	if err := ValidateDatabaseConfig(); err == nil {
		t.Fatal("expected validation error for missing database environment variables")
	}
}

func TestValidateDatabaseConfigSuccess(t *testing.T) {
	setDatabaseEnv(t)

	if err := ValidateDatabaseConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDatabaseConfigSQLiteOnlyNeedsName(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "earsip.db")

	if err := ValidateDatabaseConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDatabaseConfigUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	if err := ValidateDatabaseConfig(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestValidateJWTConfigMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if err := ValidateJWTConfig(); err == nil {
		t.Fatal("expected validation error for missing JWT secret")
	}
}

func TestValidateJWTConfigInvalidTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")

	if err := ValidateJWTConfig(); err == nil {
		t.Fatal("expected validation error for invalid JWT access TTL")
	}
}

func TestValidateStorageConfigLocal(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "local")

	if err := ValidateStorageConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStorageConfigS3MissingBucket(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("AWS_REGION", "ap-southeast-3")
	t.Setenv("AWS_S3_BUCKET", "")

	if err := ValidateStorageConfig(); err == nil {
		t.Fatal("expected validation error for missing bucket")
	}
}

func TestValidateEmailConfigDisabledWhenHostEmpty(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "invalid")

	if err := ValidateEmailConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateEmailConfigInvalidPort(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "invalid")
	t.Setenv("SMTP_FROM", "from@example.com")

	if err := ValidateEmailConfig(); err == nil {
		t.Fatal("expected validation error for invalid SMTP_PORT")
	}
}

func TestValidateAggregatesSections(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("JWT_REFRESH_TTL", "")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_FROM", "from@example.com")

	if err := Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := (DatabaseConfig{Driver: "oracle"}).Dialector(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
