package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type AppConfig struct {
	Address     string `env:"APP_ADDRESS" envDefault:":8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	// Kode bidang whose members see every letter.
	SekretariatKode string `env:"SEKRETARIAT_KODE" envDefault:"SEKRETARIAT"`
	UploadMaxBytes  int    `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	LoginRateLimit  int    `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
}

type FCMConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
}

func (c FCMConfig) Enabled() bool { return c.ProjectID != "" }

func LoadAppConfig() AppConfig {
	var cfg AppConfig
	_ = env.Parse(&cfg)
	cfg.SekretariatKode = strings.TrimSpace(cfg.SekretariatKode)
	return cfg
}

func LoadFCMConfig() FCMConfig {
	var cfg FCMConfig
	_ = env.Parse(&cfg)
	return cfg
}
