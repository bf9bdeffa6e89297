package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
)

type RatingService struct {
	ratings domain.RatingRepository
	cache   *cache.Cache
	log     *zap.Logger
}

func NewRatingService(ratings domain.RatingRepository, c *cache.Cache, l *zap.Logger) *RatingService {
	return &RatingService{ratings: ratings, cache: c, log: l}
}

// Submit creates or overwrites the caller's rating for a store. Whether a
// row already exists is decided by the database in the same statement.
func (s *RatingService) Submit(ctx context.Context, userID, storeID uint64, value int) error {
	if value < domain.MinRating || value > domain.MaxRating {
		ratingSubmissions.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}
	if storeID == 0 {
		ratingSubmissions.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: storeId is required", domain.ErrValidation)
	}
	if err := s.ratings.Upsert(ctx, userID, storeID, value); err != nil {
		if errors.Is(err, domain.ErrReferentialIntegrity) {
			ratingSubmissions.WithLabelValues("unknown_store").Inc()
			return fmt.Errorf("%w: store %d", domain.ErrReferentialIntegrity, storeID)
		}
		ratingSubmissions.WithLabelValues("error").Inc()
		return err
	}
	ratingSubmissions.WithLabelValues("ok").Inc()
	invalidateStats(ctx, s.cache)
	s.log.Debug("rating stored",
		zap.Uint64("user_id", userID),
		zap.Uint64("store_id", storeID),
		zap.Int("rating", value),
	)
	return nil
}

func (s *RatingService) UserRating(ctx context.Context, userID, storeID uint64) (int, error) {
	return s.ratings.UserRating(ctx, userID, storeID)
}

func (s *RatingService) StoresForUser(ctx context.Context, userID uint64, f domain.ListParams) ([]domain.UserStoreRow, error) {
	return s.ratings.StoresForUser(ctx, userID, f)
}
