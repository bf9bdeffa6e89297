package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"store-rating/internal/domain"
	"store-rating/pkg/utils"
)

const (
	nameMin    = 20
	nameMax    = 60
	addressMax = 400
)

var validate = validator.New()

// These rules hold for every caller, including the admin CLI and the
// bootstrap account, not only for bodies bound by the HTTP layer.

func checkName(field, v string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(v)); n < nameMin || n > nameMax {
		return fmt.Errorf("%w: %s must be %d to %d characters", domain.ErrValidation, field, nameMin, nameMax)
	}
	return nil
}

func checkAddress(field, v string) error {
	if utf8.RuneCountInString(strings.TrimSpace(v)) > addressMax {
		return fmt.Errorf("%w: %s must be at most %d characters", domain.ErrValidation, field, addressMax)
	}
	return nil
}

func checkEmail(field, v string) error {
	if err := validate.Var(strings.TrimSpace(v), "required,email"); err != nil {
		return fmt.Errorf("%w: %s must be a valid email address", domain.ErrValidation, field)
	}
	return nil
}

func checkPassword(field, v string) error {
	if !utils.StrongPassword(v) {
		return fmt.Errorf("%w: %s must be 8-16 characters with an uppercase letter and a special character", domain.ErrValidation, field)
	}
	return nil
}
