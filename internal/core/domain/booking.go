package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection says who pays the freight charge.
type PaymentDirection string

const (
	// DirectionPaid: sender paid at the booking (origin) branch.
	DirectionPaid PaymentDirection = "paid"
	// DirectionToPay: receiver pays on delivery at the destination.
	DirectionToPay PaymentDirection = "to_pay"
)

var ErrBookingNotFound = errors.New("booking not found")
var ErrInvalidPaymentDirection = errors.New("invalid payment direction")
var ErrInvalidCharge = errors.New("charge must not be negative")

// Valid reports whether d is one of the two known directions.
func (d PaymentDirection) Valid() bool {
	return d == DirectionPaid || d == DirectionToPay
}

// Commission holds the derived settlement fields written when a transporter
// is assigned to a booking. All fields are set together or not at all.
type Commission struct {
	TransporterID   string          `json:"transporter_id"`
	TransporterName string          `json:"transporter_name"`
	Percent         decimal.Decimal `json:"percent"`
	Amount          decimal.Decimal `json:"amount"`
	NetPayable      decimal.Decimal `json:"net_payable"`
	AssignedAt      time.Time       `json:"assigned_at"`
}

// Booking is the settlement projection of a lorry receipt.
type Booking struct {
	LRNumber         string           `json:"lr_number"`
	BookedAt         time.Time        `json:"booked_at"`
	Charge           decimal.Decimal  `json:"charge"`
	PaymentDirection PaymentDirection `json:"payment_direction"`
	OriginBranch     string           `json:"origin_branch"`
	DestinationName  string           `json:"destination_name"`
	Commission       *Commission      `json:"commission,omitempty"`
}

// OwnedBy decides which branch carries the settlement liability for the
// booking: the origin branch when the sender already paid, the branch whose
// display name matches the destination when the receiver pays on delivery.
func (b *Booking) OwnedBy(branch Branch) bool {
	switch b.PaymentDirection {
	case DirectionPaid:
		return b.OriginBranch == branch.Code
	case DirectionToPay:
		return b.DestinationName == branch.DisplayName
	}
	return false
}

// SplitCommission derives the commission amount and net payable for a charge
// at the given percent. The amount is rounded to two decimal places, half
// away from zero; the net is the exact remainder so the two always sum back
// to the charge.
func SplitCommission(charge, percent decimal.Decimal) (amount, net decimal.Decimal) {
	amount = charge.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
	net = charge.Sub(amount)
	return amount, net
}
