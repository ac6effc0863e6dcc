// Package reconcile derives the signatures of transactions the backend
// already holds for a customer.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/dedup"
	"github.com/cleared-dev/autoshop/internal/model"
)

// Ledger lists the backend's transactions. *api.Client implements it.
type Ledger interface {
	ListTransactions(ctx context.Context, cred *auth.Credential) ([]model.RemoteTransaction, error)
}

// Reconciler computes known server-side signatures.
type Reconciler struct {
	ledger Ledger
	log    *log.Logger
}

// New returns a Reconciler reading from ledger. A nil logger discards.
func New(ledger Ledger, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reconciler{ledger: ledger, log: logger}
}

// KnownSignatures returns the signatures of the customer's transactions on
// the server. Transactions are matched by customer ID when they carry one,
// otherwise by name and vehicle.
//
// The returned set is always usable. When the fetch fails it is empty and
// the error says why; callers treat that as "no known duplicates".
func (r *Reconciler) KnownSignatures(ctx context.Context, cred *auth.Credential, customerID, fallbackName, fallbackVehicle string) (dedup.Set, error) {
	txs, err := r.ledger.ListTransactions(ctx, cred)
	if err != nil {
		r.log.Warn("server duplicate check unavailable", "customer", customerID, "err", err)
		return dedup.NewSet(), fmt.Errorf("fetching transactions for %s: %w", customerID, err)
	}

	known := dedup.NewSet()
	for _, tx := range txs {
		if !belongsTo(tx, customerID, fallbackName, fallbackVehicle) {
			continue
		}
		known.Add(dedup.RemoteSignature(tx, fallbackName, fallbackVehicle))
	}
	r.log.Debug("server signatures", "customer", customerID, "fetched", len(txs), "known", len(known))
	return known, nil
}

func belongsTo(tx model.RemoteTransaction, customerID, name, vehicle string) bool {
	if id := strings.TrimSpace(tx.CustomerID); id != "" {
		return id == customerID
	}
	return model.SameText(tx.CustomerName, name) && model.SameText(tx.VehicleDetails, vehicle)
}
