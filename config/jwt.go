package config

import (
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
)

type JWTConfig struct {
	SecretKey       []byte
	Secret          string        `env:"JWT_SECRET"`
	Issuer          string        `env:"JWT_ISSUER" envDefault:"e-arsip"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

var (
	jwtConfig JWTConfig
	jwtOnce   sync.Once
)

func LoadJWTConfig() JWTConfig {
	jwtOnce.Do(func() {
		LoadEnv()

		var cfg JWTConfig
		if err := env.Parse(&cfg); err != nil {
			logger.App().Fatalf("invalid JWT configuration: %v", err)
		}
		if cfg.Secret == "" {
			logger.App().Fatal("JWT_SECRET environment variable is not set")
		}
		cfg.SecretKey = []byte(cfg.Secret)

		jwtConfig = cfg
	})

	return jwtConfig
}
