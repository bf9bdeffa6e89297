package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
)

type DashboardStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

type AdminService struct {
	users   domain.UserRepository
	stores  domain.StoreRepository
	ratings domain.RatingRepository
	cache   *cache.Cache
	ttl     time.Duration
}

func NewAdminService(users domain.UserRepository, stores domain.StoreRepository, ratings domain.RatingRepository, c *cache.Cache, ttl time.Duration) *AdminService {
	return &AdminService{users: users, stores: stores, ratings: ratings, cache: c, ttl: ttl}
}

// Dashboard counts are cached for ttl; every write path invalidates them.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, StatsKey, s.ttl, s.count)
}

func (s *AdminService) count(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.TotalUsers, err = s.users.Count(gctx); return })
	g.Go(func() (err error) { out.TotalStores, err = s.stores.Count(gctx); return })
	g.Go(func() (err error) { out.TotalRatings, err = s.ratings.Count(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
