package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penoFahmi/e-arsip-sub000/config"
	"github.com/penoFahmi/e-arsip-sub000/routes"
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils/events"
	"github.com/penoFahmi/e-arsip-sub000/utils/fcm"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/mailer"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

func main() {
	config.LoadEnv()
	if err := logger.Init(logger.ConfigFromEnv()); err != nil {
		logger.App().Fatalf("failed to init logger: %v", err)
	}
	log := logger.App()

	if err := config.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.ConnectDB()
	appCfg := config.LoadAppConfig()

	store, err := storage.New(ctx, config.LoadStorageConfig())
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	container := routes.NewContainer(db, store, appCfg.SekretariatKode)

	// Notifikasi bersifat opsional: FCM dan SMTP hanya aktif bila dikonfigurasi
	var pusher services.Pusher
	if fcmCfg := config.LoadFCMConfig(); fcmCfg.Enabled() {
		client, err := fcm.NewClient(ctx, fcmCfg)
		if err != nil {
			log.WithError(err).Warn("push notification disabled")
		} else {
			pusher = client
		}
	}
	var mail services.Mailer
	if emailCfg := config.LoadEmailConfig(); emailCfg.Enabled() {
		mail = mailer.NewClient(emailCfg)
	}
	notifier := services.NewNotificationService(pusher, mail, container.Settings)
	go notifier.Run(ctx, events.DispositionEventBus)

	go purgeRefreshTokens(ctx, container.Auth)

	app := routes.NewApp(container, appCfg)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.Infof("API running on %s", appCfg.Address)
	if err := app.Listen(appCfg.Address); err != nil {
		log.Fatal(err)
	}
}

func purgeRefreshTokens(ctx context.Context, auth *services.AuthService) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := auth.PurgeExpired(now)
			if err != nil {
				logger.App().WithError(err).Warn("purge refresh tokens")
				continue
			}
			if n > 0 {
				logger.App().WithField("count", n).Info("expired refresh tokens removed")
			}
		}
	}
}
