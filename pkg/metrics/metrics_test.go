package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pallets/pkg/metrics"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.Transition("draft", "approved")
	r.Transition("draft", "approved")
	r.Plan(time.Now(), 0.7, true)
	r.InsufficientStock()

	n, err := testutil.GatherAndCount(reg, "pallets_composition_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestRecorder_NilNoEntraEnPanico(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.Transition("a", "b")
		r.Plan(time.Now(), 1, false)
		r.InsufficientStock()
	})
}
