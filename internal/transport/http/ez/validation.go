package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	resp "store-rating/internal/transport/http/response"
	"store-rating/pkg/utils"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator and makes
// field errors report json/form names. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(fieldName)
		err = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return utils.StrongPassword(fl.Field().String())
		})
	})
	return err
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func bindErrorBody(err error) resp.Resp {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make([]resp.FieldError, 0, len(ves))
		for _, fe := range ves {
			out = append(out, resp.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return resp.Validation(out)
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return resp.Validation([]resp.FieldError{{Field: ute.Field, Message: "must be a " + ute.Type.String()}})
	}
	return resp.Error(resp.CodeValidation, "malformed request")
}

func fieldMessage(fe validator.FieldError) string {
	str := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if str {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if str {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "password":
		return "must be 8-16 characters with at least one uppercase letter and one special character"
	}
	return "is invalid"
}
