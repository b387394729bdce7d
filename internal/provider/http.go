package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single time fetch; the scheduler itself never
	// cancels in-flight attempts.
	DefaultTimeout = 5 * time.Second

	// maxBodySize limits how much of a response body is read.
	maxBodySize = 1 << 20
)

// HTTPProvider fetches the current time from a zone-scoped HTTP time API.
type HTTPProvider struct {
	URL      string // template, ${zone} is replaced with the encoded zone
	Client   *http.Client
	Location *time.Location // resolves zone-less local timestamps
	Debug    *DebugLogger
}

// NewHTTPProvider creates a provider with a timeout-bounded client.
// A zero timeout falls back to DefaultTimeout.
func NewHTTPProvider(urlTemplate string, timeout time.Duration, loc *time.Location, debug *DebugLogger) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProvider{
		URL:      urlTemplate,
		Client:   &http.Client{Timeout: timeout},
		Location: loc,
		Debug:    debug,
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

// Fetch performs one GET against the time API and decodes the payload.
func (p *HTTPProvider) Fetch(ctx context.Context, zone string) (int64, error) {
	u, err := ExpandURL(p.URL, zone)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building time request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	p.Debug.LogRequest(req)

	resp, err := p.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		p.Debug.LogError(p.Name(), err.Error(), duration)
		return 0, fmt.Errorf("time request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_, _ = io.Copy(io.Discard, resp.Body) // drain errors are ignorable
	p.Debug.LogResponse(resp, body, duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	epoch, err := Decode(body, p.Location)
	if err != nil {
		return 0, fmt.Errorf("decoding time response: %w", err)
	}
	return epoch, nil
}
