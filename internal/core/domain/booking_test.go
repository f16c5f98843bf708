package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestSplitCommission(t *testing.T) {
	cases := []struct {
		name            string
		charge, percent string
		amount, net     string
	}{
		{"exact", "1000.00", "12.5", "125", "875"},
		{"rounds half away from zero", "10.05", "50", "5.03", "5.02"},
		{"repeating fraction", "333.33", "10", "33.33", "300"},
		{"zero percent", "500", "0", "0", "500"},
		{"full percent", "500", "100", "500", "0"},
		{"tiny charge", "0.01", "12.5", "0", "0.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, net := SplitCommission(d(tc.charge), d(tc.percent))
			if !amount.Equal(d(tc.amount)) {
				t.Fatalf("amount = %s, want %s", amount, tc.amount)
			}
			if !net.Equal(d(tc.net)) {
				t.Fatalf("net = %s, want %s", net, tc.net)
			}
			if sum := amount.Add(net); !sum.Equal(d(tc.charge)) {
				t.Fatalf("amount+net = %s, must equal charge %s", sum, tc.charge)
			}
		})
	}
}

func TestBookingOwnedBy(t *testing.T) {
	kpm := Branch{Code: "KPM", DisplayName: "KPM Road Lines"}
	ttk := Branch{Code: "TTK", DisplayName: "Thoothukudi"}

	prepaid := Booking{PaymentDirection: DirectionPaid, OriginBranch: "KPM", DestinationName: "Thoothukudi"}
	toPay := Booking{PaymentDirection: DirectionToPay, OriginBranch: "KPM", DestinationName: "Thoothukudi"}
	unknown := Booking{PaymentDirection: "collect", OriginBranch: "KPM", DestinationName: "Thoothukudi"}

	if !prepaid.OwnedBy(kpm) {
		t.Fatalf("prepaid booking must belong to its origin branch")
	}
	if prepaid.OwnedBy(ttk) {
		t.Fatalf("prepaid booking must not belong to the destination branch")
	}
	if toPay.OwnedBy(kpm) {
		t.Fatalf("to-pay booking must not belong to the origin branch")
	}
	if !toPay.OwnedBy(ttk) {
		t.Fatalf("to-pay booking must belong to the branch named as destination")
	}
	if unknown.OwnedBy(kpm) || unknown.OwnedBy(ttk) {
		t.Fatalf("unknown direction belongs to nobody")
	}
}

func TestPaymentDirectionValid(t *testing.T) {
	if !DirectionPaid.Valid() || !DirectionToPay.Valid() {
		t.Fatalf("known directions must be valid")
	}
	if PaymentDirection("collect").Valid() {
		t.Fatalf("unknown direction must be invalid")
	}
}
