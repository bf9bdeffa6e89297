// Package service holds the business operations behind the HTTP routes.
// Services own validation that must hold regardless of transport and leave
// uniqueness and referential checks to the database constraints.
package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
)

// StatsKey is the cache key of the admin dashboard counters.
const StatsKey = "stats:dashboard"

var ratingSubmissions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_rating_ratings_submitted_total",
		Help: "Rating submissions by outcome",
	},
	[]string{"result"},
)

func init() { prometheus.MustRegister(ratingSubmissions) }

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(uid uint64, role domain.Role) (string, error)
}

func invalidateStats(ctx context.Context, c *cache.Cache) {
	c.Invalidate(context.WithoutCancel(ctx), StatsKey)
}
