package domain

import (
	"context"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating holds at most one row per (user, store); a second submission
// overwrites Value and leaves CreatedAt alone.
type Rating struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_ratings_user_store,priority:1" json:"userId"`
	StoreID   uint64    `gorm:"not null;uniqueIndex:uq_ratings_user_store,priority:2;index" json:"storeId"`
	Value     int       `gorm:"column:rating;not null;check:chk_ratings_range,rating >= 1 AND rating <= 5" json:"rating"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Store     *Store    `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Rating) TableName() string { return "ratings" }

// StoreReview is one entry of a store's review listing.
type StoreReview struct {
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
}

// UserStoreRow is a store as seen by one rating user. OverallRating and
// UserRating are 0 when there is nothing to report.
type UserStoreRow struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	OverallRating float64 `json:"overall_rating"`
	UserRating    int     `json:"user_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

type RatingRepository interface {
	Upsert(ctx context.Context, userID, storeID uint64, value int) error
	UserRating(ctx context.Context, userID, storeID uint64) (int, error)
	StoreReviews(ctx context.Context, storeID uint64) ([]StoreReview, error)
	StoresForUser(ctx context.Context, userID uint64, f ListParams) ([]UserStoreRow, error)
	Count(ctx context.Context) (int64, error)
}
