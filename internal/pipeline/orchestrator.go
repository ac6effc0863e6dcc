// Package pipeline runs an import: parse, normalize, dedup, group by
// customer, submit, and persist the local signature cache.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cleared-dev/autoshop/internal/api"
	"github.com/cleared-dev/autoshop/internal/auth"
	"github.com/cleared-dev/autoshop/internal/dedup"
	"github.com/cleared-dev/autoshop/internal/importer"
	"github.com/cleared-dev/autoshop/internal/metrics"
)

var (
	// ErrNothingToImport means the file was empty or had no data rows.
	ErrNothingToImport = errors.New("nothing to import")
	// ErrBusy means another run on the same Orchestrator is in flight.
	ErrBusy = errors.New("an import is already running")
)

// Options configures an Orchestrator.
type Options struct {
	Registry *importer.Registry // nil = importer.DefaultRegistry()
	Metrics  *metrics.Registry  // nil = no metrics
	Logger   *log.Logger        // nil = discard
	Now      func() time.Time   // nil = time.Now
}

// Orchestrator runs imports one at a time against a shared cache.
type Orchestrator struct {
	submitter *Submitter
	cache     *dedup.Cache
	registry  *importer.Registry
	metrics   *metrics.Registry
	log       *log.Logger
	now       func() time.Time
	busy      atomic.Bool
}

// NewOrchestrator wires an Orchestrator around submitter and cache. Zero
// Options fields take defaults.
func NewOrchestrator(submitter *Submitter, cache *dedup.Cache, opts Options) *Orchestrator {
	o := &Orchestrator{
		submitter: submitter,
		cache:     cache,
		registry:  opts.Registry,
		metrics:   opts.Metrics,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if o.registry == nil {
		o.registry = importer.DefaultRegistry()
	}
	if o.log == nil {
		o.log = log.New(io.Discard)
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Run imports the file called name from r.
//
// It fails fast with ErrBusy if another run is active, with
// auth.ErrUnauthenticated before any network call when cred is unusable,
// and with ErrNothingToImport for an empty or header-only file. Everything
// else (bad rows, duplicates, failed groups) is counted in the Summary.
// If ctx is cancelled, the remaining groups are skipped, the cache is still
// persisted and ctx.Err() is returned with the partial summary. A corrupt
// stored cache is replaced; a cache the store could not read is left as is
// and the summary is marked CacheStale.
func (o *Orchestrator) Run(ctx context.Context, cred *auth.Credential, name string, r io.Reader) (Summary, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return Summary{}, ErrBusy
	}
	defer o.busy.Store(false)

	start := o.now()
	sum := Summary{RunID: uuid.NewString(), File: name}
	logger := o.log.With("run", sum.RunID, "file", name)

	if err := cred.Check(start); err != nil {
		return sum, err
	}

	table, err := o.registry.ParseFile(name, r)
	if err != nil {
		return sum, err
	}
	if table.Empty() {
		return sum, fmt.Errorf("%s: %w", name, ErrNothingToImport)
	}

	persist := true
	if err := o.cache.Load(ctx); err != nil {
		o.cache.Reset()
		if errors.Is(err, dedup.ErrCorrupt) {
			logger.Warn("ignoring corrupt import history", "err", err)
		} else {
			// The stored list is never overwritten when it could not be read.
			persist = false
			sum.CacheStale = true
			logger.Warn("import history unavailable, relying on server duplicate check", "err", err)
		}
	}
	logger.Info("import started", "rows", len(table.Rows), "known", o.cache.Len())
	ctx = api.ContextWithRunID(ctx, sum.RunID)

	groups := o.collect(table, &sum, logger)

	var runErr error
	for _, g := range groups.List() {
		if err := ctx.Err(); err != nil {
			runErr = err
			logger.Warn("import cancelled", "err", err)
			break
		}
		res := o.submitter.Submit(ctx, cred, g, o.cache)
		sum.add(res)
		if res.Err != nil {
			logger.Warn("customer group failed", "customer", g.Customer.Name, "vehicle", g.Customer.Vehicle, "records", res.Failed, "err", res.Err)
		}
		if res.Degraded {
			logger.Warn("server duplicate check failed, assuming none", "customer", g.Customer.Name)
		}
	}

	// Persisted at most once, after all network calls. A lost write only
	// costs a server-side duplicate check on the next run.
	if persist {
		if err := o.cache.Persist(context.WithoutCancel(ctx)); err != nil {
			sum.CacheStale = true
			logger.Warn("could not save import history", "err", err)
		}
	}

	elapsed := o.now().Sub(start)
	o.metrics.ObserveRun(metrics.Run{
		Saved:           sum.Saved,
		Invalid:         sum.SkippedInvalid,
		DuplicateLocal:  sum.SkippedDuplicateLocal,
		DuplicateServer: sum.SkippedDuplicateServer,
		Failed:          sum.FailedRecords,
		FailedGroups:    sum.FailedGroups,
		DegradedGroups:  sum.DegradedGroups,
		Duration:        elapsed,
	})
	logger.Info("import finished",
		"saved", sum.Saved,
		"invalid", sum.SkippedInvalid,
		"dup_local", sum.SkippedDuplicateLocal,
		"dup_server", sum.SkippedDuplicateServer,
		"failed_groups", sum.FailedGroups,
		"elapsed", elapsed)
	return sum, runErr
}

// collect normalizes every row and groups the ones that are neither invalid
// nor already seen, in this file or in the cache.
func (o *Orchestrator) collect(table *importer.Table, sum *Summary, logger *log.Logger) *Groups {
	groups := NewGroups()
	inFile := dedup.NewSet()
	for _, row := range table.Rows {
		sum.Total++
		rec, err := importer.Normalize(table.Raw(row))
		if err != nil {
			sum.SkippedInvalid++
			var rowErr *importer.RowError
			if errors.As(err, &rowErr) {
				sum.Rejections = append(sum.Rejections, rowErr)
			}
			logger.Debug("skipping row", "err", err)
			continue
		}

		sig := dedup.Signature(rec)
		if inFile.Has(sig) || o.cache.Contains(sig) {
			sum.SkippedDuplicateLocal++
			continue
		}
		inFile.Add(sig)
		groups.Add(Item{Record: rec, Signature: sig})
	}
	return groups
}

func (s *Summary) add(res GroupResult) {
	s.Saved += res.Saved
	s.SkippedDuplicateLocal += res.SkippedDuplicateLocal
	s.SkippedDuplicateServer += res.SkippedDuplicateServer
	if res.Degraded {
		s.Degraded = true
		s.DegradedGroups++
	}
	if res.Err != nil {
		s.FailedGroups++
		s.FailedRecords += res.Failed
		s.Failures = append(s.Failures, GroupFailure{Customer: res.Customer, Records: res.Failed, Err: res.Err})
	}
}
