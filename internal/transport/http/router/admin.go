package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/ez"
)

type storeCreated struct {
	Message string `json:"message"`
	StoreID uint64 `json:"storeId"`
}

type adminModule struct {
	admin  AdminService
	users  UserService
	stores StoreService
}

func (m adminModule) Mount(_, authed ez.EZ) {
	g := authed.Group("/" + policy.Surface(domain.RoleAdmin))

	ez.RegisterAction(g, ez.Action[struct{}, *service.DashboardStats]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: ez.BindNone,
		Op:     policy.AdminDashboard,
		Handler: func(c *gin.Context, _ *policy.Identity, _ *struct{}) (*service.DashboardStats, error) {
			return m.admin.Dashboard(c.Request.Context())
		},
	})

	ez.RegisterAction(g, ez.Action[userListQuery, []domain.UserRow]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Op:     policy.AdminListUsers,
		Handler: func(c *gin.Context, _ *policy.Identity, in *userListQuery) ([]domain.UserRow, error) {
			p, err := in.params()
			if err != nil {
				return nil, err
			}
			return m.users.List(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(g, ez.Action[createUserIn, registered]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Op:     policy.AdminCreateUser,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *policy.Identity, in *createUserIn) (registered, error) {
			role, err := domain.ParseRole(in.Role)
			if err != nil {
				return registered{}, err
			}
			id, err := m.users.Create(c.Request.Context(), service.NewUser{
				Name: in.Name, Email: in.Email, Password: in.Password, Address: in.Address, Role: role,
			})
			if err != nil {
				return registered{}, err
			}
			return registered{Message: "User created successfully", UserID: id}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[storeListQuery, []domain.StoreRow]{
		Method: http.MethodGet,
		Path:   "/stores",
		Binder: ez.BindQuery,
		Op:     policy.AdminListStores,
		Handler: func(c *gin.Context, _ *policy.Identity, in *storeListQuery) ([]domain.StoreRow, error) {
			return m.stores.List(c.Request.Context(), in.params())
		},
	})

	ez.RegisterAction(g, ez.Action[createStoreIn, storeCreated]{
		Method: http.MethodPost,
		Path:   "/stores",
		Binder: ez.BindJSON,
		Op:     policy.AdminCreateStore,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *policy.Identity, in *createStoreIn) (storeCreated, error) {
			id, err := m.stores.Create(c.Request.Context(), service.NewStore{
				Name:          in.Name,
				Email:         in.Email,
				Address:       in.Address,
				OwnerEmail:    in.OwnerEmail,
				OwnerPassword: in.OwnerPassword,
			})
			if err != nil {
				return storeCreated{}, err
			}
			return storeCreated{Message: "Store created successfully", StoreID: id}, nil
		},
	})
}
