package router

import (
	"context"

	"store-rating/internal/domain"
	"store-rating/internal/service"
)

type UserService interface {
	Register(ctx context.Context, in service.NewUser) (uint64, error)
	Create(ctx context.Context, in service.NewUser) (uint64, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	UpdatePassword(ctx context.Context, userID uint64, password string) error
	List(ctx context.Context, f domain.ListParams) ([]domain.UserRow, error)
}

type StoreService interface {
	Create(ctx context.Context, in service.NewStore) (uint64, error)
	List(ctx context.Context, f domain.ListParams) ([]domain.StoreRow, error)
	Dashboard(ctx context.Context, ownerID uint64) (*service.OwnerDashboard, error)
	Reviews(ctx context.Context, ownerID uint64) ([]domain.StoreReview, error)
}

type RatingService interface {
	Submit(ctx context.Context, userID, storeID uint64, value int) error
	StoresForUser(ctx context.Context, userID uint64, f domain.ListParams) ([]domain.UserStoreRow, error)
}

type AdminService interface {
	Dashboard(ctx context.Context) (*service.DashboardStats, error)
}
