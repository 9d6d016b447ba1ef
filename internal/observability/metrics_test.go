package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/projects", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/projects", "GET", 200, 7*time.Millisecond)
	m.RecordRequest("/api/tickets", "POST", 201, 3*time.Millisecond)
	m.RecordError("/api/tickets", "POST", "VALIDATION_FAILED")

	requests, errs := m.Snapshot()
	assert.Equal(t, int64(2), requests["/api/projects|GET|200"])
	assert.Equal(t, int64(1), requests["/api/tickets|POST|201"])
	assert.Equal(t, int64(1), errs["/api/tickets|POST|VALIDATION_FAILED"])

	// The snapshot is a copy; mutating it must not touch live counters.
	requests["/api/projects|GET|200"] = 99
	again, _ := m.Snapshot()
	assert.Equal(t, int64(2), again["/api/projects|GET|200"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, time.Millisecond)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
	requests, errs := m.Snapshot()
	require.Nil(t, requests)
	require.Nil(t, errs)
}
