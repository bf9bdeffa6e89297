package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store-rating/internal/core/auth"
	"store-rating/internal/domain"
	"store-rating/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

type stubUsers struct {
	registered  []service.NewUser
	created     []service.NewUser
	passwordFor []uint64
	listParams  domain.ListParams
	err         error
}

func (s *stubUsers) Register(_ context.Context, in service.NewUser) (uint64, error) {
	s.registered = append(s.registered, in)
	return 11, s.err
}

func (s *stubUsers) Create(_ context.Context, in service.NewUser) (uint64, error) {
	s.created = append(s.created, in)
	return 12, s.err
}

func (s *stubUsers) Login(_ context.Context, email, password string) (*service.LoginResult, error) {
	if email != "ok@example.com" || password != "Passw0rd!" {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	return &service.LoginResult{Token: "tok", User: &domain.User{ID: 1, Email: email, PasswordHash: "hash", Role: domain.RoleUser}}, nil
}

func (s *stubUsers) UpdatePassword(_ context.Context, userID uint64, _ string) error {
	s.passwordFor = append(s.passwordFor, userID)
	return s.err
}

func (s *stubUsers) List(_ context.Context, f domain.ListParams) ([]domain.UserRow, error) {
	s.listParams = f
	return []domain.UserRow{{ID: 1, Name: "Admin", Role: domain.RoleAdmin}}, s.err
}

type stubStores struct {
	created []service.NewStore
	owned   map[uint64]uint64
}

func (s *stubStores) Create(_ context.Context, in service.NewStore) (uint64, error) {
	s.created = append(s.created, in)
	return 5, nil
}

func (s *stubStores) List(context.Context, domain.ListParams) ([]domain.StoreRow, error) {
	return []domain.StoreRow{}, nil
}

func (s *stubStores) Dashboard(_ context.Context, ownerID uint64) (*service.OwnerDashboard, error) {
	sid, ok := s.owned[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &service.OwnerDashboard{Store: &domain.StoreRow{ID: sid}, Ratings: []domain.StoreReview{}, AverageRating: 4.5}, nil
}

func (s *stubStores) Reviews(_ context.Context, ownerID uint64) ([]domain.StoreReview, error) {
	if _, ok := s.owned[ownerID]; !ok {
		return nil, domain.ErrNotFound
	}
	return []domain.StoreReview{{Rating: 5, CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), UserName: "Rater"}}, nil
}

type submission struct {
	user, store uint64
	value       int
}

type stubRatings struct {
	submitted  []submission
	listParams domain.ListParams
}

func (s *stubRatings) Submit(_ context.Context, userID, storeID uint64, value int) error {
	s.submitted = append(s.submitted, submission{userID, storeID, value})
	return nil
}

func (s *stubRatings) StoresForUser(_ context.Context, _ uint64, f domain.ListParams) ([]domain.UserStoreRow, error) {
	s.listParams = f
	return []domain.UserStoreRow{{ID: 5, Name: "Corner", Address: "1 Main St", OverallRating: 3.5, UserRating: 4, TotalRatings: 2}}, nil
}

type stubAdmin struct{}

func (stubAdmin) Dashboard(context.Context) (*service.DashboardStats, error) {
	return &service.DashboardStats{TotalUsers: 3, TotalStores: 1, TotalRatings: 2}, nil
}

type env struct {
	r       *gin.Engine
	jwt     *auth.JWTer
	users   *stubUsers
	stores  *stubStores
	ratings *stubRatings
	ready   error
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		jwt:     &auth.JWTer{Secret: []byte("router-test-secret-0123"), Issuer: "test", TTL: time.Hour},
		users:   &stubUsers{},
		stores:  &stubStores{owned: map[uint64]uint64{20: 5}},
		ratings: &stubRatings{},
	}
	r, err := NewAPIEngine(zap.NewNop(), Options{}, Deps{
		Users:   e.users,
		Stores:  e.stores,
		Ratings: e.ratings,
		Admin:   stubAdmin{},
		JWT:     e.jwt,
		Ready:   func(context.Context) error { return e.ready },
	})
	require.NoError(t, err)
	e.r = r
	return e
}

func (e *env) token(t *testing.T, uid uint64, role domain.Role) string {
	t.Helper()
	tok, err := e.jwt.Issue(uid, role)
	require.NoError(t, err)
	return tok
}

func (e *env) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Alexandra Fitzgerald Jr","email":"a@example.com","password":"Passw0rd!","address":"1 Main St"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered successfully","userId":11}`, w.Body.String())
	require.Len(t, e.users.registered, 1)
	assert.Equal(t, "a@example.com", e.users.registered[0].Email)
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Too Short","email":"a@example.com","password":"Passw0rd!","address":"`+strings.Repeat("x", 401)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":"validation_error","message":"validation failed","errors":[
		{"field":"name","message":"must be at least 20 characters"},
		{"field":"address","message":"must be at most 400 characters"}]}`, w.Body.String())
	assert.Empty(t, e.users.registered)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.users.err = fmt.Errorf("%w: a@example.com", domain.ErrDuplicateEmail)
	w := e.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Alexandra Fitzgerald Jr","email":"A@example.com","password":"Passw0rd!"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":"duplicate_email","message":"email already in use"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/api/auth/login", "", `{"email":"ok@example.com","password":"Passw0rd!"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"tok"`)
	assert.NotContains(t, w.Body.String(), "hash")

	w = e.do(http.MethodPost, "/api/auth/login", "", `{"email":"ok@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"unauthenticated","message":"invalid credentials"}`, w.Body.String())
}

func TestAccessControl(t *testing.T) {
	e := newEnv(t)
	expired, err := (&auth.JWTer{Secret: e.jwt.Secret, Issuer: e.jwt.Issuer, TTL: -time.Hour}).Issue(1, domain.RoleAdmin)
	require.NoError(t, err)

	routes := []struct {
		method, path, body string
		allowed            domain.Role
	}{
		{http.MethodGet, "/api/admin/dashboard", "", domain.RoleAdmin},
		{http.MethodGet, "/api/admin/users", "", domain.RoleAdmin},
		{http.MethodGet, "/api/admin/stores", "", domain.RoleAdmin},
		{http.MethodGet, "/api/store/ratings", "", domain.RoleStoreOwner},
		{http.MethodGet, "/api/user/stores", "", domain.RoleUser},
		{http.MethodPost, "/api/user/rating", `{"storeId":5,"rating":4}`, domain.RoleUser},
		{http.MethodPut, "/api/user/password", `{"password":"N3w*Secret"}`, domain.RoleUser},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, e.do(rt.method, rt.path, "", rt.body).Code, "no token")
			assert.Equal(t, http.StatusUnauthorized, e.do(rt.method, rt.path, expired, rt.body).Code, "expired")
			assert.Equal(t, http.StatusUnauthorized, e.do(rt.method, rt.path, "garbage", rt.body).Code, "garbage")
			for _, role := range domain.AllRoles {
				w := e.do(rt.method, rt.path, e.token(t, 20, role), rt.body)
				if role == rt.allowed {
					assert.Equal(t, http.StatusOK, w.Code, role.String())
				} else {
					assert.Equal(t, http.StatusForbidden, w.Code, role.String())
				}
			}
		})
	}
}

func TestAdminCreateUserAndStore(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, 1, domain.RoleAdmin)

	w := e.do(http.MethodPost, "/api/admin/users", tok,
		`{"name":"Store Owner Full Name Here","email":"o@example.com","password":"Passw0rd!","role":"store_owner"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User created successfully","userId":12}`, w.Body.String())
	require.Len(t, e.users.created, 1)
	assert.Equal(t, domain.RoleStoreOwner, e.users.created[0].Role)

	w = e.do(http.MethodPost, "/api/admin/users", tok,
		`{"name":"Store Owner Full Name Here","email":"o@example.com","password":"Passw0rd!","role":"root"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"role"`)

	w = e.do(http.MethodPost, "/api/admin/stores", tok,
		`{"name":"Corner Grocery And Deli","email":"s@example.com","address":"42 Market Rd","ownerEmail":"so@example.com","ownerPassword":"Own3r!pass"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Store created successfully","storeId":5}`, w.Body.String())
	require.Len(t, e.stores.created, 1)
	assert.Equal(t, "so@example.com", e.stores.created[0].OwnerEmail)
}

func TestAdminListUsers_Query(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, 1, domain.RoleAdmin)

	w := e.do(http.MethodGet, "/api/admin/users?name=%20ali%20&role=store_owner&email=&sortBy=email&sortOrder=desc", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ListParams{
		Filters:   map[string]string{"name": "ali", "role": "store_owner"},
		SortBy:    "email",
		SortOrder: "desc",
	}, e.users.listParams)

	w = e.do(http.MethodGet, "/api/admin/users?role=STORE_OWNER", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"role": "store_owner"}, e.users.listParams.Filters)

	w = e.do(http.MethodGet, "/api/admin/users?role=%20Admin%20", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"role": "admin"}, e.users.listParams.Filters)

	e.users.listParams = domain.ListParams{}
	w = e.do(http.MethodGet, "/api/admin/users?role=root", tok, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown role")
	assert.Empty(t, e.users.listParams.Filters)

	e.users.err = fmt.Errorf("%w: unknown sort key \"password\"", domain.ErrValidation)
	w = e.do(http.MethodGet, "/api/admin/users?sortBy=password", tok, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown sort key")
}

func TestAdminDashboard(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/api/admin/dashboard", e.token(t, 1, domain.RoleAdmin), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalUsers":3,"totalStores":1,"totalRatings":2}`, w.Body.String())
}

func TestOwnerRoutes(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/store/dashboard", e.token(t, 20, domain.RoleStoreOwner), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"averageRating":4.5`)

	w = e.do(http.MethodGet, "/api/store/dashboard", e.token(t, 21, domain.RoleStoreOwner), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":"not_found","message":"no store is owned by this account"}`, w.Body.String())

	w = e.do(http.MethodGet, "/api/store/ratings", e.token(t, 21, domain.RoleStoreOwner), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPut, "/api/store/password", e.token(t, 20, domain.RoleStoreOwner), `{"password":"weak"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(http.MethodPut, "/api/store/password", e.token(t, 20, domain.RoleStoreOwner), `{"password":"N3w*Secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{20}, e.users.passwordFor)
}

func TestUserRatingRoutes(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, 30, domain.RoleUser)

	assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/user/rating", tok, `{"storeId":5,"rating":3}`).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodPut, "/api/user/rating", tok, `{"storeId":5,"rating":1}`).Code)
	assert.Equal(t, []submission{{30, 5, 3}, {30, 5, 1}}, e.ratings.submitted)

	for _, body := range []string{`{"storeId":5,"rating":6}`, `{"storeId":5,"rating":0}`, `{"rating":3}`, `{"storeId":5,"rating":"4"}`} {
		w := e.do(http.MethodPost, "/api/user/rating", tok, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Len(t, e.ratings.submitted, 2)

	w := e.do(http.MethodGet, "/api/user/stores?address=main&sortBy=overall_rating", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ListParams{Filters: map[string]string{"address": "main"}, SortBy: "overall_rating"}, e.ratings.listParams)
}

func TestReadModelJSONKeys(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/user/stores", e.token(t, 30, domain.RoleUser), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":5,"name":"Corner","address":"1 Main St",
		"overall_rating":3.5,"user_rating":4,"total_ratings":2}]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/store/ratings", e.token(t, 20, domain.RoleStoreOwner), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"rating":5,"created_at":"2024-03-01T12:00:00Z","user_name":"Rater"}]`, w.Body.String())
}

func TestHealthAndMisc(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/health", "", "").Code)
	e.ready = errors.New("db down")
	assert.Equal(t, http.StatusServiceUnavailable, e.do(http.MethodGet, "/health", "", "").Code)

	w := e.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = e.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
