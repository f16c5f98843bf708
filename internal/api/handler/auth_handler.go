package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kpmroadlines/lr-console/internal/api/metrics"
	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
	"github.com/kpmroadlines/lr-console/internal/core/session"
)

// idleControl is the slice of the idle monitor the auth endpoints drive:
// armed on login, torn down on logout.
type idleControl interface {
	Start(ctx context.Context)
	Stop()
}

type AuthHandler struct {
	sessions ports.SessionLifecycle
	snapshot session.Snapshot
	monitor  idleControl
}

func NewAuthHandler(sessions ports.SessionLifecycle, snapshot session.Snapshot, monitor idleControl) *AuthHandler {
	return &AuthHandler{sessions: sessions, snapshot: snapshot, monitor: monitor}
}

type loginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token    string           `json:"token,omitempty"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

// Login authenticates an operator and returns the session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ident, token, err := h.sessions.Login(c.Request().Context(), req.Handle, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	h.monitor.Start(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Identity: ident})
}

// Logout ends the session. Safe to call when already logged out.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	h.monitor.Stop()
	return c.NoContent(http.StatusNoContent)
}

// Refresh re-derives the identity from the current remote session, used
// after a forced password change.
//
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	ident, token, err := h.sessions.RefreshSession(c.Request().Context())
	if err != nil {
		h.monitor.Stop()
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Identity: ident})
}

// Session reports who is logged in right now.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	ident := h.snapshot.Identity()
	if ident == nil {
		return domain.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, sessionResponse{Identity: ident})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrProfileInactive):
		return "inactive_profile"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "profile_missing"
	}
	return "error"
}
