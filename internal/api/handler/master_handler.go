package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

// MasterHandler exposes transporter and branch master data management.
type MasterHandler struct {
	masters ports.MasterDataService
}

func NewMasterHandler(masters ports.MasterDataService) *MasterHandler {
	return &MasterHandler{masters: masters}
}

type transporterRequest struct {
	Name              string `json:"name" validate:"required"`
	CommissionPercent string `json:"commission_percent" validate:"required"`
	Active            *bool  `json:"active,omitempty"`
}

type branchRequest struct {
	Code        string `json:"code" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// CreateTransporter registers a carrier with its commission rate.
//
// @Summary      Create transporter
// @Tags         masters
// @Accept       json
// @Produce      json
// @Param        body  body      transporterRequest  true  "Transporter details"
// @Success      201   {object}  domain.Transporter
// @Router       /transporters [post]
func (h *MasterHandler) CreateTransporter(c echo.Context) error {
	var req transporterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pct, err := decimal.NewFromString(req.CommissionPercent)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "commission_percent must be a decimal number")
	}

	created, err := h.masters.CreateTransporter(c.Request().Context(), domain.Transporter{
		Name:              req.Name,
		CommissionPercent: pct,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListTransporters lists carriers; pass active=true to hide retired ones.
//
// @Summary      List transporters
// @Tags         masters
// @Produce      json
// @Param        active  query  bool  false  "Only active transporters"
// @Success      200  {array}  domain.Transporter
// @Router       /transporters [get]
func (h *MasterHandler) ListTransporters(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"
	transporters, err := h.masters.ListTransporters(c.Request().Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transporters)
}

// UpdateTransporter changes a carrier's name, rate, or active flag.
//
// @Summary      Update transporter
// @Tags         masters
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Transporter id"
// @Param        body  body      transporterRequest  true  "New values"
// @Success      200   {object}  domain.Transporter
// @Failure      404   {object}  map[string]string
// @Router       /transporters/{id} [put]
func (h *MasterHandler) UpdateTransporter(c echo.Context) error {
	var req transporterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pct, err := decimal.NewFromString(req.CommissionPercent)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "commission_percent must be a decimal number")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	updated, err := h.masters.UpdateTransporter(c.Request().Context(), domain.Transporter{
		ID:                c.Param("id"),
		Name:              req.Name,
		CommissionPercent: pct,
		Active:            active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// CreateBranch registers a business location.
//
// @Summary      Create branch
// @Tags         masters
// @Accept       json
// @Produce      json
// @Param        body  body      branchRequest  true  "Branch details"
// @Success      201   {object}  domain.Branch
// @Failure      409   {object}  map[string]string
// @Router       /branches [post]
func (h *MasterHandler) CreateBranch(c echo.Context) error {
	var req branchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.masters.CreateBranch(c.Request().Context(), domain.Branch{
		Code:        req.Code,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListBranches lists all branches.
//
// @Summary      List branches
// @Tags         masters
// @Produce      json
// @Success      200  {array}  domain.Branch
// @Router       /branches [get]
func (h *MasterHandler) ListBranches(c echo.Context) error {
	branches, err := h.masters.ListBranches(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branches)
}
