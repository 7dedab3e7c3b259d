package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

type StorageConfig struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"s3"`
	Region   string `env:"AWS_REGION"`
	Bucket   string `env:"AWS_S3_BUCKET"`
	Endpoint string `env:"S3_ENDPOINT_URL"`
	LocalDir string `env:"STORAGE_LOCAL_DIR" envDefault:"uploads"`
}

func LoadStorageConfig() StorageConfig {
	var cfg StorageConfig
	_ = env.Parse(&cfg)
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if cfg.Driver == "" {
		cfg.Driver = StorageS3
	}
	return cfg
}
