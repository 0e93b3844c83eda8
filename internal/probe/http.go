package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

const defaultProbeTimeout = 10 * time.Second

// HTTPProbe checks a remote service's availability through its health
// endpoint. This is the only sanctioned way to validate a dependency another
// service owns.
type HTTPProbe struct {
	service types.ServiceType
	url     string
	client  *http.Client
}

// NewHTTPProbe creates an availability probe for the given service's health URL.
func NewHTTPProbe(service types.ServiceType, healthURL string) *HTTPProbe {
	return &HTTPProbe{
		service: service,
		url:     healthURL,
		client:  &http.Client{Timeout: defaultProbeTimeout},
	}
}

// WithClient overrides the HTTP client. Tests only.
func (p *HTTPProbe) WithClient(c *http.Client) *HTTPProbe {
	p.client = c
	return p
}

// Service returns the service type this probe covers.
func (p *HTTPProbe) Service() types.ServiceType { return p.service }

// Check performs a GET against the health endpoint. Any 2xx response counts
// as available; transport errors and non-2xx statuses do not.
func (p *HTTPProbe) Check(ctx context.Context) types.CheckResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("%s health check: building request: %v", p.service, err),
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("%s unreachable at %s: %v", p.service, p.url, err),
			Details: map[string]any{"health_url": p.url},
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("%s health endpoint returned status %d", p.service, resp.StatusCode),
			Details: map[string]any{"health_url": p.url, "status": resp.StatusCode},
		}
	}

	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("%s healthy", p.service),
		Details: map[string]any{"health_url": p.url, "status": resp.StatusCode},
	}
}
