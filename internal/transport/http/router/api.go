package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/core/auth"
	"store-rating/internal/core/server"
	"store-rating/internal/transport/http/ez"
	mdw "store-rating/internal/transport/http/middleware"
	resp "store-rating/internal/transport/http/response"
)

type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	MaxInFlight    int64
	MaxQueueWait   time.Duration
}

type Deps struct {
	Users   UserService
	Stores  StoreService
	Ratings RatingService
	Admin   AdminService
	JWT     *auth.JWTer
	// Ready backs /health; nil always reports healthy.
	Ready func(ctx context.Context) error
}

func NewAPIEngine(l *zap.Logger, opt Options, d Deps) (*gin.Engine, error) {
	if err := ez.RegisterValidators(); err != nil {
		return nil, err
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 10 * time.Second
	}
	if opt.MaxBodyBytes <= 0 {
		opt.MaxBodyBytes = 1 << 20
	}
	if opt.MaxInFlight <= 0 {
		opt.MaxInFlight = 256
	}
	if opt.MaxQueueWait <= 0 || opt.MaxQueueWait > opt.RequestTimeout {
		opt.MaxQueueWait = opt.RequestTimeout
	}

	r := server.NewEngine(opt.CORSOrigins)
	r.Use(
		mdw.RequestID(),
		mdw.Timeout(opt.RequestTimeout),
		mdw.ConcurrencyLimit(opt.MaxInFlight, opt.MaxQueueWait),
		mdw.MaxBodyBytes(opt.MaxBodyBytes),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "route not found"))
	})

	r.GET("/health", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, l))

	mountAll([]Module{
		authModule{users: d.Users},
		adminModule{admin: d.Admin, users: d.Users, stores: d.Stores},
		ownerModule{stores: d.Stores, users: d.Users},
		userModule{ratings: d.Ratings, users: d.Users},
	}, ez.New(api, l), ez.New(authed, l))

	return r, nil
}
