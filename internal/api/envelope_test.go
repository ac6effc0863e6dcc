package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"primary key", `{"transactions":[{"id":1}]}`, 1},
		{"items", `{"items":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"data", `{"data":[{"id":1}]}`, 1},
		{"results", `{"results":[]}`, 0},
		{"records", `{"records":[{"id":1}]}`, 1},
		{"primary wins", `{"transactions":[{"id":1}],"items":[{"id":1},{"id":2}]}`, 1},
		{"unknown key", `{"rows":[{"id":1}]}`, 0},
		{"known key not a list", `{"data":{"id":1}}`, 0},
		{"scalar", `42`, 0},
		{"empty", ``, 0},
		{"garbage", `<html>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, normalizeList([]byte(tt.body), "transactions"), tt.want)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage(500, []byte(`{"error":"boom"}`)))
	assert.Equal(t, "bad", errorMessage(400, []byte(`{"message":"bad"}`)))
	assert.Equal(t, "plain text", errorMessage(502, []byte("  plain text \n")))
	assert.Equal(t, "Not Found", errorMessage(404, nil))
}

func TestFlexDecoding(t *testing.T) {
	var w transactionWire
	body := `{"_id":17,"customer_id":"c-1","originalPrice":"$1,200.00","finalPrice":1000,"discountPercent":null,"date":"2024-01-20"}`
	assert.NoError(t, json.Unmarshal([]byte(body), &w))

	tx := w.model()
	assert.Equal(t, "17", tx.ID)
	assert.Equal(t, "c-1", tx.CustomerID)
	assert.Equal(t, "1200.00", tx.OriginalPrice.StringFixed(2))
	assert.Equal(t, "1000.00", tx.FinalPrice.StringFixed(2))
	assert.True(t, tx.DiscountPercent.IsZero())
	assert.Equal(t, "2024-01-20", tx.ServiceDate)
}

func TestFlexDecoding_PopulatedCustomer(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"populated with _id", `{"customerId":{"_id":"c1","name":"Jane Doe","vehicleDetails":"Red Civic"}}`, "c1"},
		{"populated with id", `{"customer_id":{"id":42}}`, "42"},
		{"extended json", `{"customerId":{"$oid":"65a1"}}`, "65a1"},
		{"nested oid", `{"customerId":{"_id":{"$oid":"65a1"},"name":"Jane"}}`, "65a1"},
		{"object without id", `{"customerId":{"name":"Jane"}}`, ""},
		{"array", `{"customerId":["c1"]}`, ""},
		{"plain", `{"customerId":"c1"}`, "c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w transactionWire
			require.NoError(t, json.Unmarshal([]byte(tt.body), &w))
			assert.Equal(t, tt.want, w.model().CustomerID)
		})
	}
}

func TestFlexDecoding_ObjectTextIsEmpty(t *testing.T) {
	var w transactionWire
	require.NoError(t, json.Unmarshal([]byte(`{"_id":{"$oid":"t1"},"customerName":{"first":"Jane"},"serviceName":"Oil Change"}`), &w))

	tx := w.model()
	assert.Equal(t, "t1", tx.ID)
	assert.Empty(t, tx.CustomerName)
	assert.Equal(t, "Oil Change", tx.ServiceName)
}
