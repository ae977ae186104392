package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
	"github.com/kolo-pay/kolo_pay/internal/config"
	"github.com/kolo-pay/kolo_pay/internal/errcatalog"
	"github.com/kolo-pay/kolo_pay/internal/respond"
	"github.com/kolo-pay/kolo_pay/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	db    *pgxpool.Pool
	cache *redis.Client
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	var catalog errcatalog.Catalog
	if db != nil {
		catalog = errcatalog.NewPostgresCatalog(db)
	} else {
		catalog = errcatalog.NewMemoryCatalog()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler(catalog, logger),
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, db: db, cache: cache}, nil
}

// errorHandler renders every handler error as the {errorCode, message}
// failure envelope. Application errors carry their own status and code;
// Fiber errors (404 on unknown routes, 405 on wrong methods) keep their
// status with the generic code. Catalog writes are best effort.
func errorHandler(catalog errcatalog.Catalog, logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			recordCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if recordErr := catalog.Record(recordCtx, int(appErr.Code), appErr.Message); recordErr != nil {
				logger.Warn("error catalog write failed", "code", int(appErr.Code), "error", recordErr)
			}
			return respond.Failure(c, appErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return respond.Generic(c, fiberErr.Code, fiberErr.Message)
		}

		logger.Error("unhandled error", "path", c.Path(), "error", err)
		return respond.Generic(c, http.StatusInternalServerError, "internal server error")
	}
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
