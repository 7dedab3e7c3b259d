package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var DB *gorm.DB

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"mysql"`
	Host   string `env:"DB_HOST"`
	Port   string `env:"DB_PORT"`
	User   string `env:"DB_USER"`
	Pass   string `env:"DB_PASS"`
	Name   string `env:"DB_NAME"`
	Params string `env:"DB_PARAMS"`

	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLife  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

func LoadEnv() {
	_ = godotenv.Load()
}

func LoadDatabaseConfig() (DatabaseConfig, error) {
	LoadEnv()
	var cfg DatabaseConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	return cfg, nil
}

// Dialector builds the gorm dialector for the configured driver.
func (c DatabaseConfig) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL, "":
		params := c.Params
		if params == "" {
			params = "charset=utf8mb4&parseTime=true&loc=Local"
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", c.User, c.Pass, c.Host, c.Port, c.Name, params)
		return mysql.Open(dsn), nil
	case DriverPostgres:
		params := c.Params
		if params == "" {
			params = "sslmode=disable TimeZone=Asia/Jakarta"
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s %s", c.Host, c.Port, c.User, c.Pass, c.Name, params)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.Name), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

// Open connects using cfg and applies pool settings.
func Open(cfg DatabaseConfig) (*gorm.DB, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.App(), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)

	return db, nil
}

func ConnectDB() *gorm.DB {
	cfg, err := LoadDatabaseConfig()
	if err != nil {
		logger.App().Fatalf("failed to read database config: %v", err)
	}

	db, err := Open(cfg)
	if err != nil {
		logger.App().Fatalf("failed to connect database: %v", err)
	}

	DB = db
	logger.App().WithField("driver", cfg.Driver).Info("Connected to database: ", cfg.Name)
	return DB
}
