package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/penoFahmi/e-arsip-sub000/config"
	"github.com/penoFahmi/e-arsip-sub000/handlers"
	"github.com/penoFahmi/e-arsip-sub000/middleware"
	"github.com/penoFahmi/e-arsip-sub000/utils"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
)

// NewApp builds the fiber app with the common middleware and every route.
func NewApp(c *Container, cfg config.AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "E-Arsip API",
		BodyLimit:    cfg.UploadMaxBytes,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())

	Register(app, c, cfg)
	return app
}

func Register(app *fiber.App, c *Container, cfg config.AppConfig) {
	authH := handlers.NewAuthHandler(c.Auth, c.Users, c.Settings)
	userH := handlers.NewUserHandler(c.Users, c.Settings)
	bidangH := handlers.NewBidangHandler(c.Units)
	settingsH := handlers.NewSettingsHandler(c.Settings)
	masukH := handlers.NewLetterMasukHandler(c.Incoming, c.Dispositions, c.Store)
	disposisiH := handlers.NewDispositionHandler(c.Dispositions, c.Store)
	keluarH := handlers.NewLetterKeluarHandler(c.Outgoing, c.Store)
	reportH := handlers.NewReportHandler(c.Reports)

	authenticated := []fiber.Handler{middleware.RequireAuth(), middleware.LoadCurrentUser(c.Users)}

	// File lokal hanya untuk pengguna yang login
	if local, ok := c.Store.(*storage.LocalStore); ok {
		fileH := handlers.NewFileHandler(local)
		app.Get("/files/*", append(authenticated, fileH.ServeFile)...)
	}

	api := app.Group("/api")
	api.Get("/health", func(ctx *fiber.Ctx) error {
		return utils.OK(ctx, "ok", nil)
	})

	// Auth (publik)
	api.Post("/auth/login", loginLimiter(cfg.LoginRateLimit), authH.Login)
	api.Post("/auth/refresh", authH.Refresh)

	// Tetap bisa diakses selama email admin masih placeholder
	authed := api.Group("", authenticated...)
	authed.Get("/auth/me", authH.Me)
	authed.Post("/auth/logout", authH.Logout)
	authed.Put("/auth/email", authH.ReplaceEmail)

	guarded := authed.Group("", middleware.RequireRealEmail())
	guarded.Put("/auth/password", authH.ChangePassword)

	// Bidang
	guarded.Get("/bidang", bidangH.ListBidang)
	guarded.Get("/bidang/:id", bidangH.GetBidang)
	guarded.Post("/bidang", middleware.RequireSuperAdmin(), bidangH.CreateBidang)
	guarded.Put("/bidang/:id", middleware.RequireSuperAdmin(), bidangH.UpdateBidang)
	guarded.Delete("/bidang/:id", middleware.RequireSuperAdmin(), bidangH.DeleteBidang)

	// Pengguna
	guarded.Get("/users/recipients", middleware.RequireLeadership(), userH.Recipients)
	admin := guarded.Group("/admin", middleware.RequireSuperAdmin())
	admin.Post("/users", userH.CreateUser)
	admin.Get("/users", userH.ListUsers) // ?page=&limit=&role=&bidang_id=&q=
	admin.Get("/users/:id", userH.GetUser)
	admin.Put("/users/:id", userH.UpdateUser)
	admin.Delete("/users/:id", userH.DeleteUser)

	// Pengaturan
	guarded.Get("/settings", settingsH.GetSettings)
	guarded.Get("/settings/role-labels", settingsH.RoleLabels)
	guarded.Put("/settings", middleware.RequireSuperAdmin(), settingsH.UpdateSettings)

	// Surat masuk
	masuk := guarded.Group("/surat-masuk")
	masuk.Post("/", masukH.CreateSuratMasuk)
	masuk.Get("/", masukH.ListSuratMasuk)
	masuk.Get("/:id", masukH.GetSuratMasuk)
	masuk.Put("/:id", masukH.UpdateSuratMasuk)
	masuk.Delete("/:id", masukH.DeleteSuratMasuk)
	masuk.Post("/:id/arsip", masukH.ArchiveSuratMasuk)
	masuk.Post("/:id/scans", masukH.AddScan)
	masuk.Delete("/:id/scans/:scanId", masukH.RemoveScan)
	masuk.Get("/:id/logs", masukH.GetLogs)
	masuk.Get("/:id/disposisi", masukH.GetDispositions)
	masuk.Get("/:id/lembar-disposisi", reportH.LembarDisposisi)

	// Disposisi
	guarded.Post("/disposisi", middleware.RequireLeadership(), disposisiH.CreateDisposisi)
	guarded.Get("/disposisi/inbox", disposisiH.Inbox)
	guarded.Get("/disposisi/sent", disposisiH.Sent)
	guarded.Get("/disposisi/:id", disposisiH.GetDisposisi)
	guarded.Put("/disposisi/:id/status", disposisiH.UpdateStatus)
	guarded.Get("/agenda", disposisiH.ListAgenda) // ?from=&to=

	// Surat keluar
	keluar := guarded.Group("/surat-keluar")
	keluar.Post("/", keluarH.CreateSuratKeluar)
	keluar.Get("/", keluarH.ListSuratKeluar)
	keluar.Get("/:id", keluarH.GetSuratKeluar)
	keluar.Put("/:id", keluarH.UpdateSuratKeluar)
	keluar.Delete("/:id", keluarH.DeleteSuratKeluar)
	keluar.Post("/:id/kirim", keluarH.MarkSent)
	keluar.Post("/:id/terima", keluarH.MarkReceived)

	// Laporan
	guarded.Get("/laporan/surat-masuk", reportH.ExportSuratMasuk)
	guarded.Get("/laporan/surat-keluar", reportH.ExportSuratKeluar)
}

func loginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.JSONError(c, fiber.StatusTooManyRequests, "Terlalu banyak percobaan login, coba lagi nanti", nil)
		},
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Terjadi kesalahan pada server"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logger.App().WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}
	return utils.JSONError(c, code, message, nil)
}
