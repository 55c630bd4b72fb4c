package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObservePass(t *testing.T) {
	success := testutil.ToFloat64(passesTotal.WithLabelValues(OutcomeSuccess))
	empty := testutil.ToFloat64(passesTotal.WithLabelValues(OutcomeEmpty))
	failed := testutil.ToFloat64(passesTotal.WithLabelValues(OutcomeError))
	emptyResults := testutil.ToFloat64(emptyResultsTotal)

	ObservePass(5*time.Millisecond, "weird", 120)
	assert.Equal(t, success+1, testutil.ToFloat64(passesTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 120.0, testutil.ToFloat64(filteredRows))

	ObservePass(time.Millisecond, OutcomeEmpty, 0)
	assert.Equal(t, empty+1, testutil.ToFloat64(passesTotal.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, emptyResults+1, testutil.ToFloat64(emptyResultsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(filteredRows))

	ObservePass(-time.Second, OutcomeError, 99)
	assert.Equal(t, failed+1, testutil.ToFloat64(passesTotal.WithLabelValues(OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(filteredRows), "failed passes leave the gauge alone")

	SetDatasetRows(1470)
	assert.Equal(t, 1470.0, testutil.ToFloat64(datasetRows))
}
