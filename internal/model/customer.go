package model

import "strings"

// Customer is a customer record owned by the backend.
type Customer struct {
	ID             string
	Name           string
	Email          string
	VehicleDetails string
}

// Matches reports whether the customer has the given name and vehicle,
// ignoring case and surrounding whitespace.
func (c Customer) Matches(name, vehicle string) bool {
	return SameText(c.Name, name) && SameText(c.VehicleDetails, vehicle)
}

// SameText compares two free-text values case-insensitively after trimming.
func SameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
