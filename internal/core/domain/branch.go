package domain

import "errors"

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrInvalidBranch  = errors.New("branch code and display name are required")
)

// Branch is a physical business location. Code is the short identifier used
// on bookings; DisplayName is what appears as a destination on receipts.
type Branch struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
}
