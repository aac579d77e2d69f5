package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	l := NewLedger(reg)

	l.ObserveOperation("transaction", "success", 20*time.Millisecond)
	l.ObserveOperation("transaction", "success", 30*time.Millisecond)
	l.ObserveOperation("transaction", "insufficient_funds", time.Millisecond)
	l.ObserveOperation("registration", "conflict", time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(l.operations.WithLabelValues("transaction", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(l.operations.WithLabelValues("transaction", "insufficient_funds")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(l.operations.WithLabelValues("registration", "conflict")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(l.duration))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	NewLedger(reg).ObserveOperation("contribution", "success", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `chama_ledger_operations_total{operation="contribution",outcome="success"} 1`))
	assert.Contains(t, body, "chama_ledger_operation_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
