package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/brixxspace/brixxspace-api/internal/config"
	"github.com/brixxspace/brixxspace-api/internal/database"
	"github.com/brixxspace/brixxspace-api/internal/handler"
	"github.com/brixxspace/brixxspace-api/internal/logging"
	"github.com/brixxspace/brixxspace-api/internal/mailer"
	"github.com/brixxspace/brixxspace-api/internal/middleware"
	"github.com/brixxspace/brixxspace-api/internal/queue"
	"github.com/brixxspace/brixxspace-api/internal/repository"
	"github.com/brixxspace/brixxspace-api/internal/router"
	"github.com/brixxspace/brixxspace-api/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Env)
	slog.SetDefault(logger.Slog())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn(ctx, "redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	mail := mailer.New(cfg.SMTP, logger)

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL)
		consumer := &queue.WelcomeConsumer{URL: cfg.AMQPURL, Mailer: mail, Log: logger.With("component", "welcome-consumer"), LogDir: "logs"}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error(ctx, "welcome consumer stopped", "err", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	otps := repository.NewOtpRepo(db)
	authSvc := service.NewAuthService(service.OptionsFromConfig(cfg), users, otps, mail, publisher, logger)

	content := &handler.ContentHandler{
		Projects:     repository.NewProjectRepo(db),
		Services:     repository.NewServiceRepo(db),
		Blogs:        repository.NewBlogRepo(db),
		Testimonials: repository.NewTestimonialRepo(db),
		Enquiries:    repository.NewEnquiryRepo(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = middleware.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger, cfg.IsProduction())

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, cfg.CookieSecure), cfg.JWTSecret, limiter)
	router.RegisterPublic(e, content, cfg.JWTSecret, cache)
	router.RegisterAdmin(e, content, cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		logger.Info(ctx, "listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown", "err", err)
	}
	logger.Info(shutdownCtx, "server stopped")
}
