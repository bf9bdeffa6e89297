package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-rating/internal/domain"
	"store-rating/internal/query"
)

type RatingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) *RatingRepo { return &RatingRepo{db: db} }

// Upsert is a single INSERT .. ON CONFLICT (user_id, store_id) DO UPDATE
// that only touches the rating column, so concurrent submissions for the
// same pair are serialised by the unique index.
func (r *RatingRepo) Upsert(ctx context.Context, userID, storeID uint64, value int) error {
	row := domain.Rating{UserID: userID, StoreID: storeID, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).
		Create(&row).Error
	return translate(err)
}

// UserRating returns 0 when the user has not rated the store.
func (r *RatingRepo) UserRating(ctx context.Context, userID, storeID uint64) (int, error) {
	var vals []int
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Limit(1).
		Pluck("rating", &vals).Error
	if err != nil {
		return 0, translate(err)
	}
	if len(vals) == 0 {
		return 0, nil
	}
	return vals[0], nil
}

func (r *RatingRepo) StoreReviews(ctx context.Context, storeID uint64) ([]domain.StoreReview, error) {
	out := make([]domain.StoreReview, 0)
	err := r.db.WithContext(ctx).
		Table("ratings AS r").
		Select("r.rating, r.created_at, u.name AS user_name").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.created_at DESC, r.id DESC").
		Scan(&out).Error
	return out, translate(err)
}

// StoresForUser returns every store, rated or not, with its average, its
// rating count and the given user's own rating. The ur join matches at most
// one row per store, so it does not inflate COUNT(r.id).
func (r *RatingRepo) StoresForUser(ctx context.Context, userID uint64, f domain.ListParams) ([]domain.UserStoreRow, error) {
	q := r.db.WithContext(ctx).
		Table("stores AS s").
		Select("s.id, s.name, s.address, "+
			"COALESCE(AVG(r.rating), 0) AS overall_rating, "+
			"COALESCE(MAX(ur.rating), 0) AS user_rating, "+
			"COUNT(r.id) AS total_ratings").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Joins("LEFT JOIN ratings ur ON ur.store_id = s.id AND ur.user_id = ?", userID).
		Group("s.id, s.name, s.address")
	q, err := query.UserStores.Apply(q, f)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.UserStoreRow, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *RatingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).Count(&n).Error
	return n, translate(err)
}
