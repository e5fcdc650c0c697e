package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Roles are stored upper-case, the
// way the account table records them.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
	RoleOwner   Role = "OWNER"
)

// ParseRole matches a raw string against the known roles, ignoring case.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleParent:
		return RoleParent, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleOwner:
		return RoleOwner, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// HasRole reports whether role is in the allowed set. An empty allowed set
// denies everything.
func HasRole(role Role, allowed ...Role) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}
