package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/model"
)

// SearchCustomers returns customers matching name. How the backend matches
// (exact or substring) is up to the backend.
func (c *Client) SearchCustomers(ctx context.Context, cred *auth.Credential, name string) ([]model.Customer, error) {
	return c.listCustomers(ctx, cred, url.Values{"name": {name}})
}

// ListCustomers returns every customer.
func (c *Client) ListCustomers(ctx context.Context, cred *auth.Credential) ([]model.Customer, error) {
	return c.listCustomers(ctx, cred, nil)
}

func (c *Client) listCustomers(ctx context.Context, cred *auth.Credential, query url.Values) ([]model.Customer, error) {
	body, err := c.do(ctx, cred, http.MethodGet, "/customers", query, nil)
	if err != nil {
		return nil, err
	}

	var out []model.Customer
	for _, raw := range normalizeList(body, "customers") {
		var w customerWire
		if err := json.Unmarshal(raw, &w); err != nil {
			c.log.Debug("skipping undecodable customer", "err", err)
			continue
		}
		out = append(out, w.model())
	}
	return out, nil
}

// CreateCustomer creates a customer and returns the stored record. A
// duplicate is reported as an *Error for which IsConflict is true.
func (c *Client) CreateCustomer(ctx context.Context, cred *auth.Credential, cust model.Customer) (model.Customer, error) {
	req := map[string]string{
		"name":           cust.Name,
		"email":          cust.Email,
		"vehicleDetails": cust.VehicleDetails,
	}
	body, err := c.do(ctx, cred, http.MethodPost, "/customers", nil, req)
	if err != nil {
		return model.Customer{}, err
	}

	// Some backends wrap the created record as {"customer": {...}}.
	var envelope struct {
		Customer *customerWire `json:"customer"`
	}
	var w customerWire
	if json.Unmarshal(body, &envelope) == nil && envelope.Customer != nil {
		w = *envelope.Customer
	} else if err := json.Unmarshal(body, &w); err != nil {
		return model.Customer{}, fmt.Errorf("decoding created customer: %w", err)
	}

	created := w.model()
	if created.ID == "" {
		return model.Customer{}, fmt.Errorf("created customer %q has no id", cust.Name)
	}
	if created.Name == "" {
		created.Name = cust.Name
	}
	if created.Email == "" {
		created.Email = cust.Email
	}
	if created.VehicleDetails == "" {
		created.VehicleDetails = cust.VehicleDetails
	}
	return created, nil
}
