package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"store-rating/internal/domain"
)

// translate maps driver errors onto the domain taxonomy. The driver's own
// text stays in the wrapped chain for logging only.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return uniqueViolation(pgErr.ConstraintName, err)
		case "23503":
			return fmt.Errorf("%w: %v", domain.ErrReferentialIntegrity, err)
		case "23514", "23502":
			return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return uniqueViolation(myErr.Message, err)
		case 1451, 1452:
			return fmt.Errorf("%w: %v", domain.ErrReferentialIntegrity, err)
		case 3819, 1048:
			return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
		}
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err):
		return uniqueViolation(err.Error(), err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", domain.ErrReferentialIntegrity, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
	}
	return err
}

// Only the email indexes are expected to be hit by callers; any other
// unique violation is reported as a plain constraint violation.
func uniqueViolation(constraint string, err error) error {
	if strings.Contains(strings.ToLower(constraint), "email") {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateEmail, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
}

// isDupKey catches drivers that surface unique violations only as text.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
