package uptime

import (
	"context"
	"net/http"
	"time"
)

const DefaultProbeTimeout = 10 * time.Second

// ProbeResult is the outcome of a single endpoint probe. ResponseTime is nil
// when no response was received at all (timeout, DNS failure, refused
// connection); it is set whenever a response arrived, even one with a failing
// status code.
type ProbeResult struct {
	Up           bool
	ResponseTime *int
}

// Prober issues one outbound GET per probe. It never retries; the next
// monitoring cycle is the retry.
type Prober struct {
	client *http.Client
}

func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	return &Prober{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe checks whether the endpoint is up. Up means a response with a status
// code below 400. Any failure maps to a down result; errors never propagate.
func (p *Prober) Probe(ctx context.Context, url string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return ProbeResult{}
	}

	start := time.Now()

	resp, err := p.client.Do(req)

	if err != nil {
		return ProbeResult{}
	}

	defer resp.Body.Close()

	responseTime := int(time.Since(start).Milliseconds())

	return ProbeResult{
		Up:           resp.StatusCode < 400,
		ResponseTime: &responseTime,
	}
}
