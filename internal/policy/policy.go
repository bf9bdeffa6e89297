// Package policy decides which authenticated identities may run which
// operations. Every operation is listed once with its permitted roles;
// anything not listed is denied.
package policy

import (
	"fmt"

	"store-rating/internal/domain"
)

type Operation string

const (
	AdminDashboard   Operation = "admin.dashboard"
	AdminListUsers   Operation = "admin.users.list"
	AdminCreateUser  Operation = "admin.users.create"
	AdminListStores  Operation = "admin.stores.list"
	AdminCreateStore Operation = "admin.stores.create"
	OwnerDashboard   Operation = "owner.dashboard"
	OwnerRatings     Operation = "owner.ratings"
	OwnerPassword    Operation = "owner.password"
	UserListStores   Operation = "user.stores"
	UserSubmitRating Operation = "user.rating.submit"
	UserPassword     Operation = "user.password"
)

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID uint64
	Role   domain.Role
}

var rules = map[Operation][]domain.Role{
	AdminDashboard:   {domain.RoleAdmin},
	AdminListUsers:   {domain.RoleAdmin},
	AdminCreateUser:  {domain.RoleAdmin},
	AdminListStores:  {domain.RoleAdmin},
	AdminCreateStore: {domain.RoleAdmin},
	OwnerDashboard:   {domain.RoleStoreOwner},
	OwnerRatings:     {domain.RoleStoreOwner},
	OwnerPassword:    {domain.RoleStoreOwner},
	UserListStores:   {domain.RoleUser},
	UserSubmitRating: {domain.RoleUser},
	UserPassword:     {domain.RoleUser},
}

// Authorize returns nil when id may perform op, an error matching
// domain.ErrUnauthenticated when there is no identity, and one matching
// domain.ErrForbidden otherwise.
func Authorize(id *Identity, op Operation) error {
	if id == nil || id.UserID == 0 || !id.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	for _, r := range rules[op] {
		if r == id.Role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s may not %s", domain.ErrForbidden, id.Role, op)
}

// Roles reports the roles allowed to perform op.
func Roles(op Operation) []domain.Role {
	return append([]domain.Role(nil), rules[op]...)
}

// Surface returns the URL segment that serves a role's own operations.
func Surface(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "admin"
	case domain.RoleStoreOwner:
		return "store"
	case domain.RoleUser:
		return "user"
	case domain.RoleInvalid:
		return ""
	}
	return ""
}
