package sampler_test

import (
	"testing"

	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/sampler"
	"github.com/stretchr/testify/assert"
)

func snapshot(kv ...string) *model.StatusSnapshot {
	values := make(map[string]string)
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i]] = kv[i+1]
	}
	return &model.StatusSnapshot{Values: values}
}

func TestQueriesPerSecond(t *testing.T) {
	prev := snapshot("Uptime", "100", "Questions", "1000")
	cur := snapshot("Uptime", "101", "Questions", "1050")

	assert.InDelta(t, 50.0, sampler.QueriesPerSecond(cur, prev), 1e-9)
}

func TestQueriesPerSecondFirstSample(t *testing.T) {
	cur := snapshot("Uptime", "200", "Questions", "1000")

	assert.InDelta(t, 5.0, sampler.QueriesPerSecond(cur, nil), 1e-9)
}

func TestQueriesPerSecondFailuresYieldZero(t *testing.T) {
	tests := []struct {
		name string
		cur  *model.StatusSnapshot
		prev *model.StatusSnapshot
	}{
		{"nil current", nil, nil},
		{"missing uptime", snapshot("Questions", "10"), nil},
		{"zero uptime", snapshot("Uptime", "0", "Questions", "10"), nil},
		{"no elapsed time", snapshot("Uptime", "5", "Questions", "10"), snapshot("Uptime", "5", "Questions", "4")},
		{"non-numeric", snapshot("Uptime", "x", "Questions", "10"), nil},
		{"previous missing counters", snapshot("Uptime", "5", "Questions", "10"), snapshot()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, sampler.QueriesPerSecond(tt.cur, tt.prev))
		})
	}
}

func TestBufferHitRatio(t *testing.T) {
	cur := snapshot(model.KeyBufferReadRequests, "900", model.KeyBufferReads, "100")
	assert.InDelta(t, 90.0, sampler.BufferHitRatio(cur), 1e-9)

	assert.Zero(t, sampler.BufferHitRatio(snapshot(model.KeyBufferReadRequests, "900")))
	assert.Zero(t, sampler.BufferHitRatio(snapshot(model.KeyBufferReadRequests, "0", model.KeyBufferReads, "0")))
}

func TestDeriveFormatsAndKeepsRawCounters(t *testing.T) {
	prev := snapshot("Uptime", "100", "Questions", "1000")
	cur := snapshot("Uptime", "101", "Questions", "1050",
		model.KeyBufferReadRequests, "900", model.KeyBufferReads, "100")

	qps, hit := sampler.Derive(cur, prev)

	assert.InDelta(t, 50.0, qps, 1e-9)
	assert.InDelta(t, 90.0, hit, 1e-9)
	assert.Equal(t, "50.00", cur.Get(model.KeyQPS))
	assert.Equal(t, "90.00", cur.Get(model.KeyBufferHit))
	assert.Equal(t, "900", cur.Get(model.KeyBufferReadRequests))
	assert.Equal(t, "100", cur.Get(model.KeyBufferReads))
}

func TestDeriveDefaultsToZero(t *testing.T) {
	cur := snapshot()
	sampler.Derive(cur, nil)

	assert.Equal(t, "0.00", cur.Get(model.KeyQPS))
	assert.Equal(t, "0.00", cur.Get(model.KeyBufferHit))
}
