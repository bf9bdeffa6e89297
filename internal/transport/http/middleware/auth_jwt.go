package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/core/auth"
	"store-rating/internal/policy"
	resp "store-rating/internal/transport/http/response"
)

const KeyIdentity = "identity"

// AuthJWT only authenticates. Whether the caller may run an operation is
// decided per route against the policy table.
func AuthJWT(j *auth.JWTer, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := j.Parse(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			l.Debug("token rejected",
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthenticated, tokenMessage(err)))
			return
		}
		c.Set(KeyIdentity, &policy.Identity{UserID: claims.UID, Role: claims.Role})
		c.Next()
	}
}

// IdentityFrom returns nil on routes without AuthJWT.
func IdentityFrom(c *gin.Context) *policy.Identity {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*policy.Identity)
	return id
}

func bearerToken(h string) string {
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func tokenMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "token expired"
	default:
		return "invalid token"
	}
}
