package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/policy"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/ez"
)

type registered struct {
	Message string `json:"message"`
	UserID  uint64 `json:"userId"`
}

type authModule struct{ users UserService }

func (authModule) Priority() int { return 10 }

func (m authModule) Mount(pub, _ ez.EZ) {
	ez.RegisterAction(pub, ez.Action[registerIn, registered]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *policy.Identity, in *registerIn) (registered, error) {
			id, err := m.users.Register(c.Request.Context(), service.NewUser{
				Name: in.Name, Email: in.Email, Password: in.Password, Address: in.Address,
			})
			if err != nil {
				return registered{}, err
			}
			return registered{Message: "User registered successfully", UserID: id}, nil
		},
	})

	ez.RegisterAction(pub, ez.Action[loginIn, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *policy.Identity, in *loginIn) (*service.LoginResult, error) {
			return m.users.Login(c.Request.Context(), in.Email, in.Password)
		},
	})
}
