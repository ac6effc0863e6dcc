package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/dedup"
	"github.com/cleared-dev/autoshop/internal/model"
)

// Resolver turns a customer identity into a backend ID.
type Resolver interface {
	Resolve(ctx context.Context, cred *auth.Credential, name, email, vehicle string) (string, error)
}

// Reconciler reports which signatures the backend already holds. The set is
// usable even when an error is returned.
type Reconciler interface {
	KnownSignatures(ctx context.Context, cred *auth.Credential, customerID, fallbackName, fallbackVehicle string) (dedup.Set, error)
}

// BatchPoster submits records for one customer and returns the saved count.
type BatchPoster interface {
	SubmitBatch(ctx context.Context, cred *auth.Credential, customerID string, recs []model.ImportRecord) (int, error)
}

// GroupResult is the outcome of submitting one Group.
type GroupResult struct {
	Customer               model.CustomerKey
	CustomerID             string
	Saved                  int
	SkippedDuplicateLocal  int
	SkippedDuplicateServer int
	Failed                 int   // records not saved because of Err
	Degraded               bool  // server duplicate check failed
	Err                    error // resolution or submission failure
}

// Submitter sends one customer's records to the backend.
type Submitter struct {
	resolver   Resolver
	reconciler Reconciler
	poster     BatchPoster
	log        *log.Logger
}

// NewSubmitter wires a Submitter. A nil logger discards.
func NewSubmitter(resolver Resolver, reconciler Reconciler, poster BatchPoster, logger *log.Logger) *Submitter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Submitter{resolver: resolver, reconciler: reconciler, poster: poster, log: logger}
}

// Submit resolves the group's customer, drops records the server or this run
// already has, and posts the rest as one batch. When the backend confirms
// the whole batch the posted signatures are recorded in cache (in memory
// only); a short count records none and leaves them to the server check on
// the next run. Failures are reported
// in the result, never returned, so one group cannot stop the others.
func (s *Submitter) Submit(ctx context.Context, cred *auth.Credential, g *Group, cache *dedup.Cache) GroupResult {
	res := GroupResult{Customer: g.Customer}
	if len(g.Items) == 0 {
		return res
	}
	logger := s.log.With("customer", g.Customer.Name, "vehicle", g.Customer.Vehicle)

	id, err := s.resolver.Resolve(ctx, cred, g.Customer.Name, firstEmail(g), g.Customer.Vehicle)
	if err != nil {
		res.Err = err
		res.Failed = len(g.Items)
		return res
	}
	res.CustomerID = id

	known, err := s.reconciler.KnownSignatures(ctx, cred, id, g.Customer.Name, g.Customer.Vehicle)
	if err != nil {
		res.Degraded = true
		if errors.Is(err, auth.ErrUnauthenticated) {
			res.Err = err
			res.Failed = len(g.Items)
			return res
		}
	}
	if known == nil {
		known = dedup.NewSet()
	}

	var pending []Item
	for _, it := range g.Items {
		switch {
		case known.Has(it.Signature):
			res.SkippedDuplicateServer++
		case cache.Contains(it.Signature):
			res.SkippedDuplicateLocal++
		default:
			pending = append(pending, it)
		}
	}
	if len(pending) == 0 {
		logger.Debug("nothing new for customer", "server_dupes", res.SkippedDuplicateServer)
		return res
	}

	recs := make([]model.ImportRecord, len(pending))
	for i, it := range pending {
		recs[i] = it.Record
	}
	saved, err := s.poster.SubmitBatch(ctx, cred, id, recs)
	if err != nil {
		res.Err = err
		res.Failed = len(pending)
		return res
	}
	res.Saved = saved
	if saved < len(pending) {
		logger.Warn("backend saved fewer records than sent", "customer_id", id, "sent", len(pending), "saved", saved)
		return res
	}
	for _, it := range pending {
		cache.Record(it.Signature)
	}
	logger.Debug("batch saved", "customer_id", id, "saved", saved)
	return res
}

func firstEmail(g *Group) string {
	return g.Items[0].Record.Email
}
