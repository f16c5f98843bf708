package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kpmroadlines/lr-console/internal/api/metrics"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

type SettlementHandler struct {
	settlement ports.SettlementService
}

func NewSettlementHandler(settlement ports.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlement: settlement}
}

type assignRequest struct {
	TransporterID string   `json:"transporter_id" validate:"required"`
	LRNumbers     []string `json:"lr_numbers" validate:"required,min=1,dive,required"`
}

// Assign assigns a transporter to a batch of bookings, computing commission
// and net payable for each.
//
// @Summary      Assign transporter to bookings
// @Tags         settlement
// @Accept       json
// @Produce      json
// @Param        body  body      assignRequest  true  "Assignment batch"
// @Success      200   {object}  ports.AssignResult
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /settlement/assign [post]
func (h *SettlementHandler) Assign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.settlement.AssignTransporter(c.Request().Context(), ports.AssignInput{
		TransporterID: req.TransporterID,
		LRNumbers:     req.LRNumbers,
		Actor:         actor,
	})
	if err != nil {
		return err
	}

	metrics.AssignmentsTotal.WithLabelValues("ok").Add(float64(result.Assigned))
	metrics.AssignmentsTotal.WithLabelValues("failed").Add(float64(len(result.Failed)))
	return c.JSON(http.StatusOK, result)
}

// Report builds the settlement report for a date range, optionally scoped to
// the branch financially responsible for each booking.
//
// @Summary      Settlement report
// @Tags         settlement
// @Produce      json
// @Param        from    query  string  true   "Range start (date or RFC3339)"
// @Param        to      query  string  true   "Range end (date or RFC3339)"
// @Param        branch  query  string  false  "Branch code scope"
// @Success      200  {object}  ports.SettlementReport
// @Router       /settlement/report [get]
func (h *SettlementHandler) Report(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	from, to, err := rangeParams(c)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := h.settlement.Report(c.Request().Context(), ports.ReportInput{
		From:       from,
		To:         to,
		BranchCode: c.QueryParam("branch"),
		Actor:      actor,
	})
	if err != nil {
		return err
	}
	metrics.ReportDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, report)
}
