package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role is the closed set of account roles. The zero value is invalid.
type Role uint8

const (
	RoleInvalid Role = iota
	RoleAdmin
	RoleUser
	RoleStoreOwner
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleUser, RoleStoreOwner}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleStoreOwner:
		return "store_owner"
	case RoleInvalid:
		return ""
	}
	return ""
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	case RoleInvalid:
		return false
	}
	return false
}

// ParseRole accepts the wire names, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	case "store_owner":
		return RoleStoreOwner, nil
	}
	return RoleInvalid, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Value stores the role as its wire name.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		*r = RoleInvalid
		return nil
	}
	return fmt.Errorf("cannot scan %T into Role", src)
}
