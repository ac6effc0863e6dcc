package model

import "github.com/shopspring/decimal"

// RemoteTransaction is a transaction as returned by the backend's list
// endpoint. Name and vehicle are often blank when the backend only stores
// the customer reference.
type RemoteTransaction struct {
	ID              string
	CustomerID      string
	CustomerName    string
	VehicleDetails  string
	ServiceName     string
	OriginalPrice   decimal.Decimal
	FinalPrice      decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	PaymentMethod   string
	ServiceDate     string
}
