package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"freelance-booking-api/internal/booking"
	"freelance-booking-api/internal/catalog"
	"freelance-booking-api/internal/config"
	"freelance-booking-api/internal/handler"
	"freelance-booking-api/internal/logger"
	"freelance-booking-api/internal/middleware"
	"freelance-booking-api/internal/oauth"
	"freelance-booking-api/internal/payments"
	"freelance-booking-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	slog := logger.New(cfg.LogLevel, cfg.LogFormat)

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	slog.Info("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		slog.Warn("migration file not found, skipping", "error", err)
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		slog.Warn("migration warning", "error", err)
	} else {
		slog.Info("migration applied")
	}

	st := store.New(pool)
	h := handler.New(handler.Deps{
		Users:          st,
		Catalog:        catalog.New(st),
		Bookings:       booking.New(st, slog),
		Payments:       payments.NewStripe(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL),
		Google:         oauth.NewGoogleVerifier(cfg.GoogleClientID),
		GitHub:         oauth.NewGitHubClient(cfg.GitHubClientID, cfg.GitHubClientSecret),
		Secret:         cfg.JWTSecret,
		PublishableKey: cfg.StripePublishableKey,
		Log:            slog,
	})

	rl := middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(rl),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("http listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "error", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
