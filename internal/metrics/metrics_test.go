package metrics_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/scapegoat"
	"github.com/INLOpen/scapegoat/internal/metrics"
)

func TestTreeMetrics_ObservesTree(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	tree := scapegoat.New(scapegoat.WithObserver(m))

	for i := range 100 {
		tree.Insert(fmt.Sprintf("user%03d", i), 1, uint32(i))
	}

	tree.Insert("user000", 2, 500)
	tree.Insert("user001", 2, 500)

	assert.InDelta(t, 100, testutil.ToFloat64(m.InsertsTotal.WithLabelValues(metrics.OutcomeCreated)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.InsertsTotal.WithLabelValues(metrics.OutcomeMerged)), 0)
	assert.InDelta(t, 100, testutil.ToFloat64(m.TreeNodes), 0)
	assert.InDelta(t, float64(tree.Stats().Rebuilds), testutil.ToFloat64(m.RebuildsTotal), 0)
	assert.Positive(t, tree.Stats().Rebuilds)
}

func TestTreeMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveQueries(3, 1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `griefer_queries_total{result="hit"} 3`)
	assert.Contains(t, string(body), `griefer_queries_total{result="miss"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	t.Parallel()

	first, second := metrics.New(), metrics.New()
	first.Merged()

	assert.InDelta(t, 1, testutil.ToFloat64(first.InsertsTotal.WithLabelValues(metrics.OutcomeMerged)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(second.InsertsTotal.WithLabelValues(metrics.OutcomeMerged)), 0)
}
