// Package ez registers typed route handlers: bind input, check the caller
// against the policy table, run, and map errors to the response envelope.
package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	mdw "store-rating/internal/transport/http/middleware"
	resp "store-rating/internal/transport/http/response"
)

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, l: l} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// AErr lets a handler pick the status and message itself.
type AErr struct {
	Status int
	Code   string
	Msg    string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error {
	return &AErr{Status: http.StatusBadRequest, Code: resp.CodeValidation, Msg: msg}
}
func NotFound(msg string) error {
	return &AErr{Status: http.StatusNotFound, Code: resp.CodeNotFound, Msg: msg}
}
func Internal(msg string, err error) error {
	return &AErr{Status: http.StatusInternalServerError, Code: resp.CodeInternal, Msg: msg, Err: err}
}

// Action is one route. An empty Op makes the route public; otherwise the
// caller's identity must be allowed Op. Status defaults to 200.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Op      policy.Operation
	Status  int
	Handler func(c *gin.Context, id *policy.Identity, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		id := mdw.IdentityFrom(c)
		if a.Op != "" {
			if err := policy.Authorize(id, a.Op); err != nil {
				e.fail(c, err)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			e.failBind(c, bindErr)
			return
		}

		out, err := a.Handler(c, id, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

var kinds = []struct {
	err    error
	status int
	code   string
	// detail after the sentinel is ours, not driver text
	expose bool
}{
	{domain.ErrValidation, http.StatusBadRequest, resp.CodeValidation, true},
	{domain.ErrDuplicateEmail, http.StatusBadRequest, resp.CodeDuplicateEmail, false},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, resp.CodeUnauthenticated, true},
	{domain.ErrForbidden, http.StatusForbidden, resp.CodeForbidden, false},
	{domain.ErrNotFound, http.StatusNotFound, resp.CodeNotFound, false},
	{domain.ErrReferentialIntegrity, http.StatusBadRequest, resp.CodeReferential, false},
	{domain.ErrConstraintViolation, http.StatusBadRequest, resp.CodeConstraint, false},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, resp.CodeTimeout, false},
}

// Classify maps an error to its status and envelope. Messages of server
// errors are never exposed.
func Classify(err error) (int, resp.Resp) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError {
			return ae.Status, resp.Error(ae.Code, "")
		}
		return ae.Status, resp.Error(ae.Code, ae.Msg)
	}
	for _, k := range kinds {
		if !errors.Is(err, k.err) {
			continue
		}
		if k.expose {
			return k.status, resp.Error(k.code, clientMessage(err, k.err))
		}
		return k.status, resp.Error(k.code, "")
	}
	return http.StatusInternalServerError, resp.Error(resp.CodeInternal, "")
}

// clientMessage keeps the detail of "sentinel: detail" errors.
func clientMessage(err, kind error) string {
	msg := err.Error()
	if _, detail, ok := strings.Cut(msg, kind.Error()+": "); ok {
		return detail
	}
	return ""
}

func (e EZ) fail(c *gin.Context, err error) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError {
		e.l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

func (e EZ) failBind(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeBodyTooLarge, ""))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, bindErrorBody(err))
}

// Group returns an EZ on a child router group.
func (e EZ) Group(path string) EZ { return EZ{g: e.g.Group(path), l: e.l} }
