package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
	"store-rating/internal/domain"
	"store-rating/pkg/utils"
)

type NewUser struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     domain.Role
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type UserService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	cache  *cache.Cache
	log    *zap.Logger

	// compared against when the email is unknown so both failure paths cost a bcrypt round
	dummyHash string
}

func NewUserService(users domain.UserRepository, tokens TokenIssuer, c *cache.Cache, l *zap.Logger) *UserService {
	dummy, _ := utils.HashPassword("dummy-password-for-timing")
	return &UserService{users: users, tokens: tokens, cache: c, log: l, dummyHash: dummy}
}

// Register creates a rating user.
func (s *UserService) Register(ctx context.Context, in NewUser) (uint64, error) {
	in.Role = domain.RoleUser
	return s.Create(ctx, in)
}

// Create is the admin path; any valid role may be given. The existence
// check is only a fast path, the unique index decides.
func (s *UserService) Create(ctx context.Context, in NewUser) (uint64, error) {
	if err := validateNewUser(in); err != nil {
		return 0, err
	}
	email := domain.NormalizeEmail(in.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, email)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return 0, err
	}
	invalidateStats(ctx, s.cache)
	s.log.Info("user created", zap.Uint64("user_id", u.ID), zap.Stringer("role", u.Role))
	return u.ID, nil
}

// Login answers every credential failure with the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.CheckPassword(password, s.dummyHash)
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	case err != nil:
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: tok, User: u}, nil
}

// UpdatePassword re-hashes and overwrites; the old password is not required.
func (s *UserService) UpdatePassword(ctx context.Context, userID uint64, password string) error {
	if err := checkPassword("password", password); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.log.Info("password updated", zap.Uint64("user_id", userID))
	return nil
}

// EnsureAdmin creates the bootstrap admin unless some admin already exists.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, in NewUser) (bool, error) {
	exists, err := s.users.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil || exists {
		return false, err
	}
	in.Role = domain.RoleAdmin
	if _, err := s.Create(ctx, in); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return false, fmt.Errorf("bootstrap admin email is taken by a non-admin account: %w", err)
		}
		return false, err
	}
	return true, nil
}

// Delete removes a user together with its store and every dependent rating.
func (s *UserService) Delete(ctx context.Context, userID uint64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache)
	s.log.Info("user deleted", zap.Uint64("user_id", userID))
	return nil
}

func (s *UserService) List(ctx context.Context, f domain.ListParams) ([]domain.UserRow, error) {
	return s.users.List(ctx, f)
}

func validateNewUser(in NewUser) error {
	for _, err := range []error{
		checkName("name", in.Name),
		checkEmail("email", in.Email),
		checkPassword("password", in.Password),
		checkAddress("address", in.Address),
	} {
		if err != nil {
			return err
		}
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: invalid role", domain.ErrValidation)
	}
	return nil
}
