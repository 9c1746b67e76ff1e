package user

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

var ErrInvalidRole = errors.New("invalid role")

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff:
		return true
	default:
		return false
	}
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
