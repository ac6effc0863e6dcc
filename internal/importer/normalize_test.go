package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/autoshop/internal/model"
)

func raw(values map[string]string) RawRow {
	return RawRow{Line: 7, Values: values}
}

func TestNormalize_CanonicalHeaders(t *testing.T) {
	rec, err := Normalize(raw(map[string]string{
		"customername":   " Jane Doe ",
		"vehicledetails": "Red Honda Civic",
		"servicename":    "Oil Change",
		"paymentmethod":  "cash",
		"originalprice":  "50.00",
		"servicedate":    "2024-01-15",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7, rec.Line)
	assert.Equal(t, "Jane Doe", rec.CustomerName)
	assert.Equal(t, "Red Honda Civic", rec.VehicleDetails)
	assert.Equal(t, "Oil Change", rec.ServiceName)
	assert.Equal(t, model.PaymentCash, rec.PaymentMethod)
	assert.Equal(t, "50.00", rec.OriginalPrice.StringFixed(2))
	assert.Equal(t, "50.00", rec.FinalPrice.StringFixed(2), "final price defaults to original")
	assert.True(t, rec.DiscountPercent.IsZero())
	assert.True(t, rec.DiscountAmount.IsZero())
	assert.Equal(t, "2024-01-15T00:00:00Z", rec.ServiceDate)
}

func TestNormalize_Synonyms(t *testing.T) {
	rec, err := Normalize(raw(map[string]string{
		"customer":        "John Smith",
		"e-mail":          "",
		"email":           "john@example.com",
		"vehicle":         "Blue F-150",
		"service":         "Brakes",
		"specials":        "Winter",
		"price":           "$1,200.00",
		"final price":     "",
		"discount %":      "",
		"discount amount": "200",
		"payment method":  "Mobile Payment",
		"date":            "01/20/2024",
		"notes":           "asap",
	}))
	require.NoError(t, err)

	assert.Equal(t, "John Smith", rec.CustomerName)
	assert.Equal(t, "john@example.com", rec.Email)
	assert.Equal(t, "Winter", rec.SpecialsName)
	assert.Equal(t, "1200.00", rec.OriginalPrice.StringFixed(2))
	assert.Equal(t, "1000.00", rec.FinalPrice.StringFixed(2))
	assert.Equal(t, model.PaymentMobile, rec.PaymentMethod)
	assert.Equal(t, "2024-01-20T00:00:00Z", rec.ServiceDate)
	assert.Equal(t, "asap", rec.Notes)
}

func TestNormalize_AmountSynonymAndPercent(t *testing.T) {
	rec, err := Normalize(raw(map[string]string{
		"customer_name": "Amy",
		"car":           "Tesla",
		"service_name":  "Rotation",
		"payment":       "cash",
		"amount":        "80",
		"discount%":     "25",
	}))
	require.NoError(t, err)
	assert.Equal(t, "80.00", rec.OriginalPrice.StringFixed(2))
	assert.Equal(t, "25", rec.DiscountPercent.String())
	assert.Equal(t, "60.00", rec.FinalPrice.StringFixed(2))
}

func TestNormalize_UnparseableDateStillValid(t *testing.T) {
	rec, err := Normalize(raw(map[string]string{
		"customername":   "Jane",
		"vehicledetails": "Civic",
		"servicename":    "Wash",
		"paymentmethod":  "Cash",
		"originalprice":  "10",
		"servicedate":    "sometime last week",
	}))
	require.NoError(t, err)
	assert.Empty(t, rec.ServiceDate)
}

func TestNormalize_Rejects(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{
			"customername":   "Jane",
			"vehicledetails": "Civic",
			"servicename":    "Wash",
			"paymentmethod":  "Cash",
			"originalprice":  "10",
		}
	}
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		missing string
	}{
		{"no customer", func(m map[string]string) { delete(m, "customername") }, "customername"},
		{"blank vehicle", func(m map[string]string) { m["vehicledetails"] = "   " }, "vehicledetails"},
		{"no service", func(m map[string]string) { delete(m, "servicename") }, "servicename"},
		{"no payment", func(m map[string]string) { delete(m, "paymentmethod") }, "paymentmethod"},
		{"unknown payment", func(m map[string]string) { m["paymentmethod"] = "card" }, "paymentmethod"},
		{"zero price", func(m map[string]string) { m["originalprice"] = "0" }, "originalprice"},
		{"negative price", func(m map[string]string) { m["originalprice"] = "-5" }, "originalprice"},
		{"garbage price", func(m map[string]string) { m["originalprice"] = "free" }, "originalprice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			_, err := Normalize(raw(m))
			require.Error(t, err)

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, 7, rowErr.Line)
			assert.Equal(t, []string{tt.missing}, rowErr.Missing)
		})
	}
}

func TestRowError_Message(t *testing.T) {
	err := &RowError{Line: 3, Missing: []string{"servicename", "paymentmethod"}}
	assert.Equal(t, "line 3: missing servicename, paymentmethod", err.Error())
}
