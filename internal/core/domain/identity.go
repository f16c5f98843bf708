package domain

import (
	"errors"
	"time"
)

// Role is the closed set of operator roles.
const (
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
	RoleStaff     = "staff"
)

// BranchAll is the sentinel branch assignment meaning access to every branch.
const BranchAll = "ALL"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileInactive    = errors.New("profile is inactive")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateRecord    = errors.New("record already exists")
)

// Identity models the authenticated operator behind a session.
type Identity struct {
	ID                string    `json:"id"`
	Handle            string    `json:"handle"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	Branch            string    `json:"branch"`
	Active            bool      `json:"active"`
	Initials          string    `json:"initials,omitempty"`
	LastLoginAt       time.Time `json:"last_login_at,omitzero"`
	MustResetPassword bool      `json:"must_reset_password,omitempty"`
}

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r string) bool {
	return r == RoleDeveloper || r == RoleAdmin || r == RoleStaff
}

// CanAccessBranch reports whether the identity may operate on the given
// branch code. Developers and admins, and anyone assigned BranchAll, see all.
func (i *Identity) CanAccessBranch(code string) bool {
	if i.Role == RoleDeveloper || i.Role == RoleAdmin {
		return true
	}
	return i.Branch == BranchAll || i.Branch == code
}
