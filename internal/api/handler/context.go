package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

// ctxActor rebuilds the acting identity from the claims injected by the Auth
// middleware, with a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - staff operators need a branch claim; without one the token is
//     structurally valid but operationally unusable — reject with 401.
func ctxActor(c echo.Context) (*domain.Identity, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	branch, _ := c.Get("branch").(string)
	if role == domain.RoleStaff && branch == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing branch assignment")
	}

	id, _ := c.Get("identity_id").(string)
	handle, _ := c.Get("handle").(string)

	return &domain.Identity{
		ID:     id,
		Handle: handle,
		Role:   role,
		Branch: branch,
		Active: true,
	}, nil
}
