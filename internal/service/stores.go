package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
	"store-rating/pkg/utils"
)

type NewStore struct {
	Name          string
	Email         string
	Address       string
	OwnerEmail    string
	OwnerPassword string
}

type OwnerDashboard struct {
	Store         *domain.StoreRow     `json:"store"`
	Ratings       []domain.StoreReview `json:"ratings"`
	AverageRating float64              `json:"averageRating"`
}

type StoreService struct {
	stores  domain.StoreRepository
	users   domain.UserRepository
	ratings domain.RatingRepository
	cache   *cache.Cache
	log     *zap.Logger
}

func NewStoreService(stores domain.StoreRepository, users domain.UserRepository, ratings domain.RatingRepository, c *cache.Cache, l *zap.Logger) *StoreService {
	return &StoreService{stores: stores, users: users, ratings: ratings, cache: c, log: l}
}

// Create registers a store together with a new store_owner account. The
// owner takes the store's name and address. Both rows are written in one
// transaction.
func (s *StoreService) Create(ctx context.Context, in NewStore) (uint64, error) {
	for _, err := range []error{
		checkName("name", in.Name),
		checkEmail("email", in.Email),
		checkAddress("address", in.Address),
		checkEmail("ownerEmail", in.OwnerEmail),
		checkPassword("ownerPassword", in.OwnerPassword),
	} {
		if err != nil {
			return 0, err
		}
	}
	storeEmail := domain.NormalizeEmail(in.Email)
	ownerEmail := domain.NormalizeEmail(in.OwnerEmail)

	taken, err := s.stores.ExistsByEmail(ctx, storeEmail)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("%w: store email %s", domain.ErrDuplicateEmail, storeEmail)
	}
	taken, err = s.users.ExistsByEmail(ctx, ownerEmail)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("%w: owner email %s", domain.ErrDuplicateEmail, ownerEmail)
	}

	hash, err := utils.HashPassword(in.OwnerPassword)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	owner := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        ownerEmail,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Role:         domain.RoleStoreOwner,
	}
	store := &domain.Store{
		Name:    strings.TrimSpace(in.Name),
		Email:   storeEmail,
		Address: strings.TrimSpace(in.Address),
	}
	if err := s.stores.CreateWithOwner(ctx, owner, store); err != nil {
		return 0, err
	}
	invalidateStats(ctx, s.cache)
	s.log.Info("store created",
		zap.Uint64("store_id", store.ID),
		zap.Uint64("owner_id", owner.ID),
	)
	return store.ID, nil
}

func (s *StoreService) List(ctx context.Context, f domain.ListParams) ([]domain.StoreRow, error) {
	return s.stores.List(ctx, f)
}

// Dashboard is scoped to the store owned by ownerID; owning no store is
// ErrNotFound, not a permission problem.
func (s *StoreService) Dashboard(ctx context.Context, ownerID uint64) (*OwnerDashboard, error) {
	st, err := s.stores.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.ratings.StoreReviews(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	return &OwnerDashboard{Store: st, Ratings: reviews, AverageRating: st.Rating}, nil
}

func (s *StoreService) Reviews(ctx context.Context, ownerID uint64) ([]domain.StoreReview, error) {
	st, err := s.stores.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.ratings.StoreReviews(ctx, st.ID)
}
