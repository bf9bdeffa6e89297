package domain

import (
	"context"
	"strings"
	"time"
)

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:60;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"`
	Address      string    `gorm:"size:400" json:"address"`
	Role         Role      `gorm:"type:varchar(16);not null;index" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string { return "users" }

// UserRow is a user joined with the average rating of the store it owns.
// Listing rows use snake_case keys.
type UserRow struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Rating    float64   `gorm:"column:avg_rating" json:"rating"`
}

// NormalizeEmail is applied to every email before it is stored or looked up,
// which makes the plain unique index case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsWithRole(ctx context.Context, role Role) (bool, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, f ListParams) ([]UserRow, error)
	Count(ctx context.Context) (int64, error)
}
