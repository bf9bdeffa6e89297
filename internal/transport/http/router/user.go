package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/internal/transport/http/ez"
	resp "store-rating/internal/transport/http/response"
)

type userModule struct {
	ratings RatingService
	users   UserService
}

func (m userModule) Mount(_, authed ez.EZ) {
	g := authed.Group("/" + policy.Surface(domain.RoleUser))

	ez.RegisterAction(g, ez.Action[userStoreQuery, []domain.UserStoreRow]{
		Method: http.MethodGet,
		Path:   "/stores",
		Binder: ez.BindQuery,
		Op:     policy.UserListStores,
		Handler: func(c *gin.Context, id *policy.Identity, in *userStoreQuery) ([]domain.UserStoreRow, error) {
			return m.ratings.StoresForUser(c.Request.Context(), id.UserID, in.params())
		},
	})

	// POST and PUT are the same upsert; the client picks by whether it has rated before.
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		ez.RegisterAction(g, ez.Action[ratingIn, resp.Msg]{
			Method: method,
			Path:   "/rating",
			Binder: ez.BindJSON,
			Op:     policy.UserSubmitRating,
			Handler: func(c *gin.Context, id *policy.Identity, in *ratingIn) (resp.Msg, error) {
				if err := m.ratings.Submit(c.Request.Context(), id.UserID, in.StoreID, in.Rating); err != nil {
					return resp.Msg{}, err
				}
				return resp.Msg{Message: "Rating submitted successfully"}, nil
			},
		})
	}

	ez.RegisterAction(g, passwordAction(m.users, policy.UserPassword))
}
