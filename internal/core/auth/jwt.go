package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"store-rating/internal/domain"
)

// Reasons a token is refused. All of them also match domain.ErrUnauthenticated.
var (
	ErrMissingToken   = errors.New("missing token")
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token expired")
	ErrInvalidToken   = errors.New("invalid token")
)

const leeway = 60 * time.Second

type Claims struct {
	UID  uint64      `json:"uid"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(uid uint64, role domain.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("issue token: invalid role %d", role)
	}
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   fmt.Sprint(uid),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse verifies signature, issuer and expiry.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, unauthenticated(ErrMissingToken)
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(leeway), jwt.WithExpirationRequired())

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, unauthenticated(ErrExpiredToken)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, unauthenticated(ErrMalformedToken)
	default:
		return nil, unauthenticated(fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}

	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == 0 || !c.Role.Valid() {
		return nil, unauthenticated(ErrInvalidToken)
	}
	return c, nil
}

func unauthenticated(reason error) error {
	return fmt.Errorf("%w: %w", domain.ErrUnauthenticated, reason)
}
