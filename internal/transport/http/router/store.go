package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/ez"
	resp "store-rating/internal/transport/http/response"
)

type ownerModule struct {
	stores StoreService
	users  UserService
}

func noStore(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ez.NotFound("no store is owned by this account")
	}
	return err
}

func (m ownerModule) Mount(_, authed ez.EZ) {
	g := authed.Group("/" + policy.Surface(domain.RoleStoreOwner))

	ez.RegisterAction(g, ez.Action[struct{}, *service.OwnerDashboard]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: ez.BindNone,
		Op:     policy.OwnerDashboard,
		Handler: func(c *gin.Context, id *policy.Identity, _ *struct{}) (*service.OwnerDashboard, error) {
			d, err := m.stores.Dashboard(c.Request.Context(), id.UserID)
			return d, noStore(err)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, []domain.StoreReview]{
		Method: http.MethodGet,
		Path:   "/ratings",
		Binder: ez.BindNone,
		Op:     policy.OwnerRatings,
		Handler: func(c *gin.Context, id *policy.Identity, _ *struct{}) ([]domain.StoreReview, error) {
			r, err := m.stores.Reviews(c.Request.Context(), id.UserID)
			return r, noStore(err)
		},
	})

	ez.RegisterAction(g, passwordAction(m.users, policy.OwnerPassword))
}

// passwordAction is shared by every role surface that can change its own password.
func passwordAction(users UserService, op policy.Operation) ez.Action[passwordIn, resp.Msg] {
	return ez.Action[passwordIn, resp.Msg]{
		Method: http.MethodPut,
		Path:   "/password",
		Binder: ez.BindJSON,
		Op:     op,
		Handler: func(c *gin.Context, id *policy.Identity, in *passwordIn) (resp.Msg, error) {
			if err := users.UpdatePassword(c.Request.Context(), id.UserID, in.Password); err != nil {
				return resp.Msg{}, err
			}
			return resp.Msg{Message: "Password updated successfully"}, nil
		},
	}
}
