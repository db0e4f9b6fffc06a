package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level probes (data dir, upstream).
// Probes run on demand; nothing is polled in the background.
type HealthChecker interface {
	Name() string
	Probe(ctx context.Context) error
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Report aggregates probe results.
type Report struct {
	Healthy bool          `json:"healthy"`
	Checks  []CheckResult `json:"checks"`
}

// ServiceHealthChecker aggregates component checkers into a single service health report.
type ServiceHealthChecker struct {
	deps         []HealthChecker
	probeTimeout time.Duration
	log          zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, probeTimeout time.Duration, deps ...HealthChecker) *ServiceHealthChecker {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &ServiceHealthChecker{deps: deps, probeTimeout: probeTimeout, log: log}
}

// Check runs every probe concurrently, each bounded by the probe timeout.
func (h *ServiceHealthChecker) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(h.deps))
	var wg sync.WaitGroup
	for i, c := range h.deps {
		wg.Add(1)
		go func(i int, c HealthChecker) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
			defer cancel()

			res := CheckResult{Name: c.Name(), Healthy: true}
			if err := c.Probe(pctx); err != nil {
				res.Healthy = false
				res.Error = err.Error()
				h.log.Warn().Err(err).Str("check", c.Name()).Msg("health probe failed")
			}
			results[i] = res
		}(i, c)
	}
	wg.Wait()

	rep := Report{Healthy: true, Checks: results}
	for _, r := range results {
		if !r.Healthy {
			rep.Healthy = false
		}
	}
	return rep
}
