package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/config"
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database tooling for E-Arsip",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		return logger.Init(logger.ConfigFromEnv())
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		fmt.Println("Migration completed")
		return nil
	},
}

var (
	seedUsername string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first super admin and the default settings",
	Long: "Creates a super admin carrying a placeholder email, which must be replaced\n" +
		"at first login, and inserts any missing application setting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedPassword == "" {
			seedPassword = os.Getenv("SEED_ADMIN_PASSWORD")
		}
		if len(seedPassword) < 8 {
			return errors.New("admin password must be at least 8 characters (--password or SEED_ADMIN_PASSWORD)")
		}

		db, err := connect()
		if err != nil {
			return err
		}
		if err := services.NewSettingService(db).SeedDefaults(); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}

		admin, created, err := services.NewUserService(db).SeedAdmin(seedUsername, seedPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Super admin %q created with placeholder email %s\n", admin.Username, models.PlaceholderEmail)
		} else {
			fmt.Printf("Super admin already exists (%s), skipped\n", admin.Username)
		}
		return nil
	},
}

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete expired refresh tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		users := services.NewUserService(db)
		n, err := services.NewAuthService(db, users).PurgeExpired(time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("%d expired refresh tokens removed\n", n)
		return nil
	},
}

func connect() (*gorm.DB, error) {
	if err := config.ValidateDatabaseConfig(); err != nil {
		return nil, fmt.Errorf("database configuration: %w", err)
	}
	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	return config.Open(cfg)
}

func init() {
	seedCmd.Flags().StringVarP(&seedUsername, "username", "u", "admin", "username of the super admin")
	seedCmd.Flags().StringVarP(&seedPassword, "password", "p", "", "password of the super admin")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(purgeTokensCmd)
}
