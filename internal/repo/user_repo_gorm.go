package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"store-rating/internal/domain"
	"store-rating/internal/query"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&n).Error
	return n > 0, translate(err)
}

func (r *UserRepo) ExistsWithRole(ctx context.Context, role domain.Role) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&n).Error
	return n > 0, translate(err)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return nil
}

// Delete removes the user; the store it owns and every dependent rating go
// with it through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, f domain.ListParams) ([]domain.UserRow, error) {
	q := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id, u.name, u.email, u.address, u.role, u.created_at, COALESCE(AVG(r.rating), 0) AS avg_rating").
		Joins("LEFT JOIN stores s ON s.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Group("u.id, u.name, u.email, u.address, u.role, u.created_at")
	q, err := query.Users.Apply(q, f)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.UserRow, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, translate(err)
}
