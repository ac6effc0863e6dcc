package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	r := NewRegistry()
	r.ObserveRun(Run{Saved: 3, Invalid: 1, DuplicateLocal: 2, FailedGroups: 1, Failed: 4, DegradedGroups: 1, Duration: time.Second})
	r.ObserveRun(Run{Saved: 1, DuplicateServer: 5})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Runs))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.Records.WithLabelValues(OutcomeSaved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Records.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Records.WithLabelValues(OutcomeDuplicateLocal)))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.Records.WithLabelValues(OutcomeDuplicateServer)))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.Records.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GroupFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Degraded))
	assert.Equal(t, 1, testutil.CollectAndCount(r.RunDuration))
}

func TestNilRegistryIgnoresObservations(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() { r.ObserveRun(Run{Saved: 1}) })
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.ObserveRun(Run{Saved: 2})

	path := filepath.Join(t.TempDir(), "autoshop.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "autoshop_import_runs_total 1")
	assert.Contains(t, string(data), `autoshop_import_records_total{outcome="saved"} 2`)
}
