package logger

import (
	"github.com/caarlos0/env/v6"
)

// LogConfig controls how the named loggers are created.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`  // text | json
	Output     string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout | file | both
	LogPath    string `env:"LOG_PATH" envDefault:"logs"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"50"` // MB
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30"` // days
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:      "info",
		Format:     "text",
		Output:     "stdout",
		LogPath:    "logs",
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

// ConfigFromEnv reads LOG_* variables, falling back to DefaultConfig on parse errors.
func ConfigFromEnv() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}
