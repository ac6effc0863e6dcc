package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autoshop/internal/model"
)

// flexString accepts a JSON string, number or null. Objects and arrays
// decode as empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), b[0] == '{', b[0] == '[':
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(b)
	}
	return nil
}

// flexID is a flexString that also accepts a populated reference such as
// {"_id":"c1","name":"Jane"} or an extended-JSON {"$oid":"..."} and keeps
// its id. A reference without an id is empty.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var ref struct {
			ID      flexID `json:"id"`
			MongoID flexID `json:"_id"`
			OID     flexID `json:"$oid"`
		}
		if err := json.Unmarshal(b, &ref); err != nil {
			return err
		}
		*f = flexID(first(flexString(ref.ID), flexString(ref.MongoID), flexString(ref.OID)))
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexID(s)
	return nil
}

// flexAmount accepts a JSON number, a money-like string or null.
type flexAmount struct {
	decimal.Decimal
}

func (f *flexAmount) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	f.Decimal = model.ParseAmount(string(s))
	return nil
}

func first(values ...flexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

type customerWire struct {
	ID             flexID     `json:"id"`
	MongoID        flexID     `json:"_id"`
	Name           flexString `json:"name"`
	Email          flexString `json:"email"`
	VehicleDetails flexString `json:"vehicleDetails"`
	Vehicle        flexString `json:"vehicle"`
}

func (w customerWire) model() model.Customer {
	return model.Customer{
		ID:             first(flexString(w.ID), flexString(w.MongoID)),
		Name:           first(w.Name),
		Email:          first(w.Email),
		VehicleDetails: first(w.VehicleDetails, w.Vehicle),
	}
}

type transactionWire struct {
	ID              flexID     `json:"id"`
	MongoID         flexID     `json:"_id"`
	CustomerID      flexID     `json:"customerId"`
	CustomerIDSnake flexID     `json:"customer_id"`
	CustomerName    flexString `json:"customerName"`
	VehicleDetails  flexString `json:"vehicleDetails"`
	ServiceName     flexString `json:"serviceName"`
	OriginalPrice   flexAmount `json:"originalPrice"`
	FinalPrice      flexAmount `json:"finalPrice"`
	DiscountPercent flexAmount `json:"discountPercent"`
	DiscountAmount  flexAmount `json:"discountAmount"`
	PaymentMethod   flexString `json:"paymentMethod"`
	ServiceDate     flexString `json:"serviceDate"`
	Date            flexString `json:"date"`
}

func (w transactionWire) model() model.RemoteTransaction {
	return model.RemoteTransaction{
		ID:              first(flexString(w.ID), flexString(w.MongoID)),
		CustomerID:      first(flexString(w.CustomerID), flexString(w.CustomerIDSnake)),
		CustomerName:    first(w.CustomerName),
		VehicleDetails:  first(w.VehicleDetails),
		ServiceName:     first(w.ServiceName),
		OriginalPrice:   w.OriginalPrice.Decimal,
		FinalPrice:      w.FinalPrice.Decimal,
		DiscountPercent: w.DiscountPercent.Decimal,
		DiscountAmount:  w.DiscountAmount.Decimal,
		PaymentMethod:   first(w.PaymentMethod),
		ServiceDate:     first(w.ServiceDate, w.Date),
	}
}

// BatchItem is one transaction in a batch submission.
type BatchItem struct {
	CustomerName    string      `json:"customerName"`
	Email           string      `json:"email,omitempty"`
	VehicleDetails  string      `json:"vehicleDetails"`
	ServiceName     string      `json:"serviceName"`
	SpecialsName    string      `json:"specialsName,omitempty"`
	OriginalPrice   json.Number `json:"originalPrice"`
	FinalPrice      json.Number `json:"finalPrice"`
	DiscountPercent json.Number `json:"discountPercent"`
	DiscountAmount  json.Number `json:"discountAmount"`
	PaymentMethod   string      `json:"paymentMethod"`
	ServiceDate     string      `json:"serviceDate,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// NewBatchItem converts a normalized record into its wire form.
func NewBatchItem(rec model.ImportRecord) BatchItem {
	return BatchItem{
		CustomerName:    rec.CustomerName,
		Email:           rec.Email,
		VehicleDetails:  rec.VehicleDetails,
		ServiceName:     rec.ServiceName,
		SpecialsName:    rec.SpecialsName,
		OriginalPrice:   json.Number(rec.OriginalPrice.StringFixed(2)),
		FinalPrice:      json.Number(rec.FinalPrice.StringFixed(2)),
		DiscountPercent: json.Number(rec.DiscountPercent.StringFixed(2)),
		DiscountAmount:  json.Number(rec.DiscountAmount.StringFixed(2)),
		PaymentMethod:   string(rec.PaymentMethod),
		ServiceDate:     rec.ServiceDate,
		Notes:           rec.Notes,
	}
}

type batchRequest struct {
	CustomerID string      `json:"customerId"`
	Items      []BatchItem `json:"items"`
}

type batchResponse struct {
	Saved      *int `json:"saved"`
	SavedCount *int `json:"savedCount"`
	Count      *int `json:"count"`
	Inserted   *int `json:"inserted"`
}

func (r batchResponse) count() (int, bool) {
	for _, n := range []*int{r.Saved, r.SavedCount, r.Count, r.Inserted} {
		if n != nil {
			return *n, true
		}
	}
	return 0, false
}
