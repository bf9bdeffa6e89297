package router

import (
	"strings"

	"store-rating/internal/domain"
)

type registerIn struct {
	Name     string `json:"name" binding:"required,min=20,max=60"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Address  string `json:"address" binding:"max=400"`
}

type loginIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createUserIn struct {
	registerIn
	Role string `json:"role" binding:"required,oneof=admin user store_owner"`
}

type createStoreIn struct {
	Name          string `json:"name" binding:"required,min=20,max=60"`
	Email         string `json:"email" binding:"required,email"`
	Address       string `json:"address" binding:"max=400"`
	OwnerEmail    string `json:"ownerEmail" binding:"required,email"`
	OwnerPassword string `json:"ownerPassword" binding:"required,password"`
}

type passwordIn struct {
	Password string `json:"password" binding:"required,password"`
}

type ratingIn struct {
	StoreID uint64 `json:"storeId" binding:"required,min=1"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

type sortQuery struct {
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

type userListQuery struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Address string `form:"address"`
	Role    string `form:"role"`
	sortQuery
}

// params normalizes the role filter to its canonical spelling so the
// equality match does not depend on the caller's case.
func (q userListQuery) params() (domain.ListParams, error) {
	role := strings.TrimSpace(q.Role)
	if role != "" {
		r, err := domain.ParseRole(role)
		if err != nil {
			return domain.ListParams{}, err
		}
		role = r.String()
	}
	return q.sortQuery.params(map[string]string{
		"name": q.Name, "email": q.Email, "address": q.Address, "role": role,
	}), nil
}

type storeListQuery struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Address string `form:"address"`
	sortQuery
}

func (q storeListQuery) params() domain.ListParams {
	return q.sortQuery.params(map[string]string{
		"name": q.Name, "email": q.Email, "address": q.Address,
	})
}

type userStoreQuery struct {
	Name    string `form:"name"`
	Address string `form:"address"`
	sortQuery
}

func (q userStoreQuery) params() domain.ListParams {
	return q.sortQuery.params(map[string]string{"name": q.Name, "address": q.Address})
}

func (s sortQuery) params(filters map[string]string) domain.ListParams {
	for k, v := range filters {
		if v = strings.TrimSpace(v); v == "" {
			delete(filters, k)
		} else {
			filters[k] = v
		}
	}
	return domain.ListParams{
		Filters:   filters,
		SortBy:    strings.TrimSpace(s.SortBy),
		SortOrder: strings.TrimSpace(s.SortOrder),
	}
}
