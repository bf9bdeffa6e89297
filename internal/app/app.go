// Package app wires configuration into the database, cache, and services
// shared by the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"store-rating/internal/core/auth"
	"store-rating/internal/core/cache"
	"store-rating/internal/core/config"
	"store-rating/internal/core/database"
	"store-rating/internal/repo"
	"store-rating/internal/service"
)

const cachePrefix = "store-rating:"

type App struct {
	DB    *gorm.DB
	Cache *cache.Cache
	JWT   *auth.JWTer

	Users   *service.UserService
	Stores  *service.StoreService
	Ratings *service.RatingService
	Admin   *service.AdminService

	log *zap.Logger
}

func OpenDB(cfg config.DB, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.Driver,
		DSN:                cfg.DSN,
		Username:           cfg.Username,
		Password:           cfg.Password,
		MaxOpenConns:       cfg.MaxOpenConns,
		MaxIdleConns:       cfg.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.ConnMaxLifetimeMin,
		ConnMaxIdleTimeMin: cfg.ConnMaxIdleTimeMin,
		LogLevel:           cfg.LogLevel,
		SlowThresholdMs:    cfg.SlowThresholdMs,
		Logger:             l,
	})
}

// New opens the database, migrates when configured, and connects the
// cache. An unreachable Redis disables caching instead of failing.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := OpenDB(cfg.DB, l)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Ping(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cachePrefix)
		if err := c.Ping(ctx); err != nil {
			l.Warn("redis unreachable, caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
			c = nil
		}
	}

	jwter := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}
	return Wire(db, c, jwter, time.Duration(cfg.Cache.StatsTTLSec)*time.Second, l), nil
}

// Wire builds the services over an already opened handle.
func Wire(db *gorm.DB, c *cache.Cache, jwter *auth.JWTer, statsTTL time.Duration, l *zap.Logger) *App {
	users := repo.NewUserRepo(db)
	stores := repo.NewStoreRepo(db)
	ratings := repo.NewRatingRepo(db)
	return &App{
		DB:      db,
		Cache:   c,
		JWT:     jwter,
		Users:   service.NewUserService(users, jwter, c, l.Named("users")),
		Stores:  service.NewStoreService(stores, users, ratings, c, l.Named("stores")),
		Ratings: service.NewRatingService(ratings, c, l.Named("ratings")),
		Admin:   service.NewAdminService(users, stores, ratings, c, statsTTL),
		log:     l,
	}
}

// EnsureAdmin creates the configured bootstrap admin when no admin exists.
func (a *App) EnsureAdmin(ctx context.Context, b config.Bootstrap) error {
	if b.AdminEmail == "" {
		return nil
	}
	created, err := a.Users.EnsureAdmin(ctx, service.NewUser{
		Name:     b.AdminName,
		Email:    b.AdminEmail,
		Password: b.AdminPassword,
		Address:  b.AdminAddress,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		a.log.Info("bootstrap admin created", zap.String("email", b.AdminEmail))
	}
	return nil
}

func (a *App) Ready(ctx context.Context) error { return database.Ping(ctx, a.DB) }

func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.log.Warn("close cache", zap.Error(err))
	}
	if err := database.Close(a.DB); err != nil {
		a.log.Warn("close database", zap.Error(err))
	}
}
