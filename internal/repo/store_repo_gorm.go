package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"store-rating/internal/domain"
	"store-rating/internal/query"
)

const storeRowColumns = "s.id, s.name, s.email, s.address, s.owner_id, s.created_at, " +
	"COALESCE(AVG(r.rating), 0) AS avg_rating, COUNT(r.id) AS total_ratings"

type StoreRepo struct{ db *gorm.DB }

func NewStoreRepo(db *gorm.DB) *StoreRepo { return &StoreRepo{db: db} }

func (r *StoreRepo) CreateWithOwner(ctx context.Context, owner *domain.User, s *domain.Store) error {
	owner.Email = domain.NormalizeEmail(owner.Email)
	s.Email = domain.NormalizeEmail(s.Email)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		s.OwnerID = owner.ID
		return tx.Create(s).Error
	})
	if err != nil {
		// ids assigned before the rollback no longer exist
		owner.ID, s.ID, s.OwnerID = 0, 0, 0
		return translate(err)
	}
	return nil
}

func (r *StoreRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Store{}).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&n).Error
	return n > 0, translate(err)
}

func (r *StoreRepo) aggregated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("stores AS s").
		Select(storeRowColumns).
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Group("s.id, s.name, s.email, s.address, s.owner_id, s.created_at")
}

func (r *StoreRepo) FindByOwner(ctx context.Context, ownerID uint64) (*domain.StoreRow, error) {
	var rows []domain.StoreRow
	err := r.aggregated(ctx).Where("s.owner_id = ?", ownerID).Order("s.id").Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no store owned by user %d", domain.ErrNotFound, ownerID)
	}
	return &rows[0], nil
}

func (r *StoreRepo) List(ctx context.Context, f domain.ListParams) ([]domain.StoreRow, error) {
	q, err := query.Stores.Apply(r.aggregated(ctx), f)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.StoreRow, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *StoreRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Store{}).Count(&n).Error
	return n, translate(err)
}
