// Package health probes HTTP endpoints the explorer depends on.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

// Target is a named endpoint to probe.
type Target struct {
	Name string
	URL  string
}

// Result holds the outcome of a single probe.
type Result struct {
	Name     string
	Endpoint string
	Healthy  bool // true if the endpoint answered with a 2xx or 3xx status
	Status   int  // HTTP status code, 0 if unreachable
	Error    string
	Latency  time.Duration
}

// Checker sends GET probes to targets.
type Checker struct {
	logger *slog.Logger
	client *http.Client
}

// NewChecker creates a Checker. A nil client gets a default with a short
// timeout; a nil logger uses slog.Default().
func NewChecker(client *http.Client, logger *slog.Logger) *Checker {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{logger: logger, client: client}
}

// Check probes a single target.
func (c *Checker) Check(ctx context.Context, target Target) Result {
	result := Result{Name: target.Name, Endpoint: target.URL}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, http.NoBody)
	if err != nil {
		result.Error = fmt.Errorf("create request: %w", err).Error()
		result.Latency = time.Since(start)
		return result
	}

	resp, err := c.client.Do(req) //nolint:gosec // targets come from the user's own configuration
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.Healthy = resp.StatusCode < http.StatusBadRequest
	if !result.Healthy {
		result.Error = fmt.Sprintf("unhealthy status: %d", resp.StatusCode)
	}
	return result
}

// CheckAll probes every target concurrently and returns the results in
// input order. Each probe is logged on completion.
func (c *Checker) CheckAll(ctx context.Context, targets []Target) []Result {
	results := make([]Result, len(targets))

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i, target := range targets {
		go func(idx int, t Target) {
			defer wg.Done()
			results[idx] = c.Check(ctx, t)

			r := results[idx]
			c.logger.Info("health probe",
				slog.String("target", r.Name),
				slog.Bool("healthy", r.Healthy),
				slog.Int("status", r.Status),
				slog.Duration("latency", r.Latency),
				slog.String("error", r.Error),
			)
		}(i, target)
	}

	wg.Wait()
	return results
}
