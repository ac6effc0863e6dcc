package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a customer paid for a service.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentMobile PaymentMethod = "Mobile Payment"
)

// ParsePaymentMethod maps a loosely written payment method onto the enum.
// The second result is false when the value is not recognized.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "cash":
		return PaymentCash, true
	case "mobile payment", "mobile", "mobilepayment":
		return PaymentMobile, true
	}
	return "", false
}

// ImportRecord is one normalized transaction row ready for deduplication.
type ImportRecord struct {
	Line            int // 1-based line in the source file, 0 if unknown
	CustomerName    string
	Email           string
	VehicleDetails  string
	ServiceName     string
	SpecialsName    string
	OriginalPrice   decimal.Decimal
	FinalPrice      decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	PaymentMethod   PaymentMethod
	ServiceDate     string // RFC 3339 in UTC with seconds precision, or empty
	Notes           string
}

// CustomerKey identifies the customer a record belongs to.
type CustomerKey struct {
	Name    string
	Vehicle string
	Email   string // lower-cased
}

// Customer returns the grouping key for the record.
func (r ImportRecord) Customer() CustomerKey {
	return CustomerKey{
		Name:    r.CustomerName,
		Vehicle: r.VehicleDetails,
		Email:   strings.ToLower(r.Email),
	}
}
