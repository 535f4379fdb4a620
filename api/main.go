package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/shop-inventory/internal/app"
	"github.com/rogerio-castellano/shop-inventory/internal/config"
	"github.com/rogerio-castellano/shop-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/shop-inventory/internal/http/middleware"
	"github.com/rogerio-castellano/shop-inventory/internal/http/router"
	"github.com/rogerio-castellano/shop-inventory/internal/logger"
)

// @title Shop Inventory API
// @version 1.0
// @description Inventory, pricing, reorder and spreadsheet import/export API for a small shop.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		l := logger.New("info", "console")
		l.Fatal().Err(err).Msg("could not load config")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open store")
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.Login.Rate, cfg.Login.Burst)
	go limiter.Cleanup(ctx)

	s := handlers.NewServer(handlers.Deps{
		Products:     a.Products,
		Auth:         a.Auth,
		Orders:       a.Orders,
		Log:          log,
		StorePath:    a.StorePath,
		BackupDir:    cfg.Backup.Dir,
		CookieSecure: cfg.Auth.CookieSecure,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.NewRouter(s, limiter, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("addr", cfg.Server.Addr).Str("db", cfg.DB.Driver).Msg("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	<-shutdownDone
}
