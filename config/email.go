package config

import (
	"github.com/caarlos0/env/v6"
)

type EmailConfig struct {
	Host        string `env:"SMTP_HOST"`
	Port        int    `env:"SMTP_PORT" envDefault:"587"`
	Username    string `env:"SMTP_USERNAME"`
	Password    string `env:"SMTP_PASSWORD"`
	FromAddress string `env:"SMTP_FROM"`
	FromName    string `env:"SMTP_FROM_NAME" envDefault:"E-Arsip"`
}

func (c EmailConfig) Enabled() bool { return c.Host != "" }

func LoadEmailConfig() EmailConfig {
	var cfg EmailConfig
	if err := env.Parse(&cfg); err != nil || cfg.Port <= 0 {
		cfg.Port = 587
	}
	return cfg
}
