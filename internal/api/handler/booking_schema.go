package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type createBookingRequest struct {
	LRNumber         string `json:"lr_number" validate:"required"`
	BookedAt         string `json:"booked_at,omitempty"`
	Charge           string `json:"charge" validate:"required"`
	PaymentDirection string `json:"payment_direction" validate:"required,oneof=paid to_pay"`
	OriginBranch     string `json:"origin_branch" validate:"required"`
	DestinationName  string `json:"destination_name" validate:"required"`
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// parseTimeParam accepts either a bare date or a full RFC3339 timestamp.
func parseTimeParam(value, name string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be a date (2006-01-02) or RFC3339 timestamp")
	}
	return t.UTC(), nil
}
