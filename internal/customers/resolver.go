// Package customers maps an import row's customer identity onto a backend
// customer ID, creating the customer when it does not exist yet.
package customers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/autoshop/internal/api"
	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/model"
)

// Directory is the part of the backend the resolver needs. *api.Client
// implements it.
type Directory interface {
	SearchCustomers(ctx context.Context, cred *auth.Credential, name string) ([]model.Customer, error)
	ListCustomers(ctx context.Context, cred *auth.Credential) ([]model.Customer, error)
	CreateCustomer(ctx context.Context, cred *auth.Credential, c model.Customer) (model.Customer, error)
}

// ResolutionError means no customer ID could be found or created. The
// group it was resolving must not be submitted.
type ResolutionError struct {
	Name    string
	Vehicle string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolving customer %q (%s): not found", e.Name, e.Vehicle)
	}
	return fmt.Sprintf("resolving customer %q (%s): %v", e.Name, e.Vehicle, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolver finds or creates customers.
type Resolver struct {
	dir Directory
	log *log.Logger
}

// NewResolver returns a Resolver backed by dir. A nil logger discards.
func NewResolver(dir Directory, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{dir: dir, log: logger}
}

// Resolve returns the ID of the customer with the given name and vehicle.
//
// Search results are matched on name and vehicle, falling back to a same-name
// customer that has no vehicle on file. With no match the customer is
// created. If the create loses a race with another importer (the backend
// reports a conflict), the full customer list is searched for the winner.
func (r *Resolver) Resolve(ctx context.Context, cred *auth.Credential, name, email, vehicle string) (string, error) {
	found, err := r.dir.SearchCustomers(ctx, cred, name)
	if err != nil {
		return "", &ResolutionError{Name: name, Vehicle: vehicle, Err: fmt.Errorf("searching: %w", err)}
	}
	if c, ok := pick(found, name, vehicle); ok {
		return c.ID, nil
	}

	created, err := r.dir.CreateCustomer(ctx, cred, model.Customer{
		Name:           strings.TrimSpace(name),
		Email:          strings.TrimSpace(email),
		VehicleDetails: strings.TrimSpace(vehicle),
	})
	if err == nil {
		r.log.Info("created customer", "name", name, "vehicle", vehicle, "id", created.ID)
		return created.ID, nil
	}
	if !api.IsConflict(err) {
		return "", &ResolutionError{Name: name, Vehicle: vehicle, Err: fmt.Errorf("creating: %w", err)}
	}

	r.log.Warn("customer created concurrently, re-listing", "name", name, "vehicle", vehicle)
	all, listErr := r.dir.ListCustomers(ctx, cred)
	if listErr != nil {
		return "", &ResolutionError{Name: name, Vehicle: vehicle, Err: fmt.Errorf("listing after conflict: %w", listErr)}
	}
	for _, c := range all {
		if c.ID != "" && c.Matches(name, vehicle) {
			return c.ID, nil
		}
	}
	return "", &ResolutionError{Name: name, Vehicle: vehicle, Err: err}
}

func pick(found []model.Customer, name, vehicle string) (model.Customer, bool) {
	for _, c := range found {
		if c.ID != "" && c.Matches(name, vehicle) {
			return c, true
		}
	}
	for _, c := range found {
		if c.ID != "" && model.SameText(c.Name, name) && strings.TrimSpace(c.VehicleDetails) == "" {
			return c, true
		}
	}
	return model.Customer{}, false
}
