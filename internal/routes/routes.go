package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kolo-pay/kolo_pay/internal/config"
	"github.com/kolo-pay/kolo_pay/internal/directory"
	"github.com/kolo-pay/kolo_pay/internal/geoip"
	"github.com/kolo-pay/kolo_pay/internal/middleware"
	"github.com/kolo-pay/kolo_pay/internal/notification"
	"github.com/kolo-pay/kolo_pay/internal/provider"
	"github.com/kolo-pay/kolo_pay/internal/transfer"
	"github.com/kolo-pay/kolo_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var dirRepo directory.Repository
	if d.DB != nil {
		dirRepo = directory.NewPostgresRepository(d.DB)
	} else {
		dirRepo = directory.NewMemoryRepository()
	}
	dirSvc := directory.NewService(dirRepo, d.Logger)

	providerClient := provider.New(provider.Config{
		BaseURL:   d.Cfg.Provider.EffectiveBaseURL(),
		PublicKey: d.Cfg.Provider.PublicKey,
		SecretKey: d.Cfg.Provider.SecretKey,
		Timeout:   d.Cfg.Provider.Timeout,
	}, d.Logger)

	notifier := notification.NewLoggerNotifier(d.Logger)

	var geo wallet.Geolocator
	if d.Cfg.GeoIPEnabled {
		geo = geoip.New()
	}

	walletSvc := wallet.NewService(dirSvc, providerClient, notifier, d.Logger,
		d.Cfg.Currency, wallet.ParseTotalsMode(d.Cfg.SpendingTotalsMode))
	walletHandler := wallet.NewHandler(walletSvc, geo, d.Logger)

	transferSvc := transfer.NewService(dirSvc, providerClient, d.Cache, notifier, d.Logger, d.Cfg.Currency)
	transferHandler := transfer.NewHandler(transferSvc)

	rootOnly := middleware.RequireRootSecret(d.Cfg.RootSecret)
	createLimit := middleware.CreateRateLimit(d.Cache, d.Cfg.CreateRateLimit)

	api := app.Group("/api/v1")
	RegisterWalletRoutes(api, walletHandler, rootOnly, createLimit)
	RegisterAdminRoutes(api, walletHandler, rootOnly)
	RegisterTransferRoutes(api, transferHandler)

	return nil
}
