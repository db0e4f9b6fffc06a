package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrementPerLabel(t *testing.T) {
	before := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics-test"))
	CacheHitsTotal.WithLabelValues("metrics-test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics-test")))

	UpstreamRequestsTotal.WithLabelValues("metrics-test", "ok").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("metrics-test", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("metrics-test", "bad_status")))
}
