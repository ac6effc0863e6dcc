package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
		ok   bool
	}{
		{"Cash", PaymentCash, true},
		{"  CASH ", PaymentCash, true},
		{"Mobile Payment", PaymentMobile, true},
		{"mobile   payment", PaymentMobile, true},
		{"mobile", PaymentMobile, true},
		{"MobilePayment", PaymentMobile, true},
		{"card", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePaymentMethod(tt.in)
		assert.Equal(t, tt.ok, ok, "ParsePaymentMethod(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParsePaymentMethod(%q)", tt.in)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", "50.00"},
		{"$1,200.50", "1200.50"},
		{" -4.00 ", "-4.00"},
		{"12%", "12.00"},
		{"", "0.00"},
		{"abc", "0.00"},
		{"1.2.3", "0.00"},
		{"-", "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAmount(tt.in).StringFixed(2), "ParseAmount(%q)", tt.in)
	}
}

func TestCustomerKey(t *testing.T) {
	r := ImportRecord{CustomerName: "Jane Doe", VehicleDetails: "Red Civic", Email: "Jane@Example.com"}
	assert.Equal(t, CustomerKey{Name: "Jane Doe", Vehicle: "Red Civic", Email: "jane@example.com"}, r.Customer())
}

func TestCustomerMatches(t *testing.T) {
	c := Customer{ID: "1", Name: "Jane Doe", VehicleDetails: "Red Honda Civic"}
	assert.True(t, c.Matches(" jane doe", "RED HONDA CIVIC"))
	assert.False(t, c.Matches("Jane Doe", "Blue Civic"))
	assert.False(t, c.Matches("John Doe", "Red Honda Civic"))
}
