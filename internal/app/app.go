// Package app wires the configured store, auth and domain services.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/shop-inventory/internal/auth"
	"github.com/rogerio-castellano/shop-inventory/internal/config"
	"github.com/rogerio-castellano/shop-inventory/internal/db"
	"github.com/rogerio-castellano/shop-inventory/internal/redissvc"
	"github.com/rogerio-castellano/shop-inventory/internal/reorder"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
	"github.com/rs/zerolog"
)

type App struct {
	Config   config.Config
	Log      zerolog.Logger
	Products repo.ProductRepository
	Users    repo.UserRepository
	Auth     *auth.Service
	Orders   *reorder.Generator

	// StorePath is the database file for sqlite stores, empty otherwise.
	StorePath string

	db  *sqlx.DB
	rdb *redis.Client
}

// Open migrates and connects the store, seeds the default account and the
// legacy product file, and connects to Redis when configured.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	if err := db.Migrate(cfg.DB.Driver, cfg.DB.DSN); err != nil {
		return nil, err
	}

	conn, err := db.Connect(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Products: repo.NewSQLProductRepository(conn),
		Users:    repo.NewSQLUserRepository(conn),
		Orders:   reorder.NewGenerator(cfg.Reorder.MessagingHost),
		db:       conn,
	}
	if cfg.DB.Driver == db.DriverSQLite {
		a.StorePath = db.SQLitePath(cfg.DB.DSN)
	}

	if err := a.initAuth(ctx); err != nil {
		a.Close()
		return nil, err
	}

	n, err := repo.LoadLegacyProducts(ctx, a.Products, cfg.Legacy.ProductsFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	if n > 0 {
		log.Info().Int("products", n).Str("file", cfg.Legacy.ProductsFile).Msg("loaded legacy products")
	}
	return a, nil
}

func (a *App) initAuth(ctx context.Context) error {
	rdb, err := redissvc.Connect(ctx, a.Config.Redis)
	if err != nil {
		return err
	}

	var revocations auth.Revocations = auth.NewMemoryRevocations()
	if rdb != nil {
		a.rdb = rdb
		revocations = auth.NewRedisRevocations(rdb)
	}

	secret := a.Config.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		a.Log.Warn().Msg("auth.jwt_secret not set, sessions will not survive a restart")
	}

	a.Auth = auth.NewService(a.Users, auth.NewTokens(secret, a.Config.Auth.TokenTTL), revocations, a.Log)
	if _, err := a.Auth.EnsureDefaultUser(ctx, a.Config.Auth.DefaultUsername, a.Config.Auth.DefaultPassword); err != nil {
		return fmt.Errorf("failed to create default user: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
