package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/kpmroadlines/lr-console/internal/api/metrics"
	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const defaultListLimit = 50

type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create records a new lorry receipt.
//
// @Summary      Record a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      201   {object}  domain.Booking
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	charge, err := decimal.NewFromString(req.Charge)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "charge must be a decimal number")
	}

	var bookedAt time.Time
	if req.BookedAt != "" {
		if bookedAt, err = parseTimeParam(req.BookedAt, "booked_at"); err != nil {
			return err
		}
	}

	booking, err := h.bookings.Create(c.Request().Context(), ports.CreateBookingInput{
		LRNumber:         req.LRNumber,
		BookedAt:         bookedAt,
		Charge:           charge,
		PaymentDirection: domain.PaymentDirection(req.PaymentDirection),
		OriginBranch:     req.OriginBranch,
		DestinationName:  req.DestinationName,
		Actor:            actor,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(booking.PaymentDirection)).Inc()
	return c.JSON(http.StatusCreated, booking)
}

// List returns bookings in a date range, paginated.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Param        from   query  string  true   "Range start (date or RFC3339)"
// @Param        to     query  string  true   "Range end (date or RFC3339)"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  listResponse[domain.Booking]
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	from, to, err := rangeParams(c)
	if err != nil {
		return err
	}

	page := ports.Page{Page: intParam(c, "page", 1), Limit: intParam(c, "limit", defaultListLimit)}
	items, total, err := h.bookings.ListRange(c.Request().Context(), from, to, page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse[domain.Booking]{
		Items: items,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

func rangeParams(c echo.Context) (time.Time, time.Time, error) {
	fromRaw, toRaw := c.QueryParam("from"), c.QueryParam("to")
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "from and to are required")
	}
	from, err := parseTimeParam(fromRaw, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTimeParam(toRaw, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// a bare end date means "through the end of that day"
	if len(toRaw) == len("2006-01-02") {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func intParam(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
