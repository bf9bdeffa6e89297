package domain

import (
	"context"
	"time"
)

type Store struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:60;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:uq_stores_email" json:"email"`
	Address   string    `gorm:"size:400" json:"address"`
	OwnerID   uint64    `gorm:"not null;index" json:"ownerId"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Store) TableName() string { return "stores" }

// StoreRow is a store joined with its live aggregate rating.
type StoreRow struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	OwnerID      uint64    `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	Rating       float64   `gorm:"column:avg_rating" json:"rating"`
	TotalRatings int64     `json:"total_ratings"`
}

type StoreRepository interface {
	// CreateWithOwner inserts owner and store in one transaction and
	// fills in both ids; on error neither row exists.
	CreateWithOwner(ctx context.Context, owner *User, s *Store) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByOwner(ctx context.Context, ownerID uint64) (*StoreRow, error)
	List(ctx context.Context, f ListParams) ([]StoreRow, error)
	Count(ctx context.Context) (int64, error)
}
