package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/config"
	"github.com/iliyamo/venue-booking/internal/database"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/logger"
	"github.com/iliyamo/venue-booking/internal/metrics"
	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/router"
	"github.com/iliyamo/venue-booking/internal/service"
	"github.com/iliyamo/venue-booking/internal/storage"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		zl.Warn("redis unreachable, rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer rdb.Close()
	}

	// the interface stays nil unless a broker is configured
	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, zl)
		defer pub.Close()
		events = pub
		go func() {
			if err := queue.NewConsumer(cfg.AMQPURL, cfg.EventsLog, zl).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("event consumer stopped", zap.Error(err))
			}
		}()
	} else {
		zl.Info("AMQP_URL not set, domain events disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	images, err := storage.NewImages(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	venueRepo := repository.NewVenueRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	users := service.NewUserService(userRepo, cfg.BcryptCost, zl)
	auth := service.NewAuthService(users, tokenRepo, cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	venues := service.NewVenueService(venueRepo, images, zl)
	payments := service.NewPaymentService(paymentRepo, bookingRepo, venueRepo, events, m, zl)
	bookings := service.NewBookingService(bookingRepo, venueRepo, userRepo, payments, events, m, zl)
	tickets := service.NewTicketService(ticketRepo, zl)
	dashboard := service.NewDashboardService(venueRepo, ticketRepo, userRepo, paymentRepo, bookings)

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	_, err = users.EnsureAdmin(seedCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	cancel()
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(zl.Named("http"), m))
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dK", cfg.MaxUploadBytes/1024+1)))
	e.Use(middleware.IdentifyBearer(cfg.JWTSecret))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb, zl))

	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(users, auth),
		Venues:   handler.NewVenueHandler(venues),
		Bookings: handler.NewBookingHandler(bookings, payments),
		Tickets:  handler.NewTicketHandler(tickets),
		Admin:    handler.NewAdminHandler(users, dashboard),
		Health:   handler.Health(db),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		UploadDir: cfg.UploadDir,
		Gatherer:  reg,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
