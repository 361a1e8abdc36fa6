package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/muurk/androidlens/internal/device"
)

const (
	// DefaultBaseURL is the placeholder backend the dashboard ships with
	DefaultBaseURL = "http://your-backend-api.com"

	// DefaultEndpoint is the device-info path appended to the base URL
	DefaultEndpoint = "/api/device/info"

	// DefaultRefreshInterval is how often Run reloads device data
	DefaultRefreshInterval = 5 * time.Minute

	// maxBodySize caps how much of a response body is read
	maxBodySize = 1 << 20
)

// DefaultHeaders returns the headers sent with every device-info request
func DefaultHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// Source supplies raw device payloads
type Source interface {
	// Fetch loads one payload. Failures are *FetchError values.
	Fetch(ctx context.Context) (device.Payload, error)

	// Name describes the source for logs and metrics
	Name() string
}

// HTTPSource loads device data with a single GET request. It never retries.
type HTTPSource struct {
	// BaseURL is the API root (e.g., "http://your-backend-api.com")
	BaseURL string

	// Endpoint is appended to BaseURL (e.g., "/api/device/info")
	Endpoint string

	// Headers are sent with every request
	Headers map[string]string

	// HTTPClient is the underlying HTTP client. Its zero Timeout means no timeout.
	HTTPClient *http.Client
}

// NewHTTPSource creates an HTTP source. An empty endpoint selects
// DefaultEndpoint and nil headers select DefaultHeaders.
func NewHTTPSource(baseURL, endpoint string, headers map[string]string, timeout time.Duration) *HTTPSource {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if headers == nil {
		headers = DefaultHeaders()
	}
	return &HTTPSource{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Endpoint:   endpoint,
		Headers:    headers,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the full request URL
func (s *HTTPSource) URL() string {
	return s.BaseURL + s.Endpoint
}

// Name implements Source
func (s *HTTPSource) Name() string {
	return "http"
}

// Fetch implements Source
func (s *HTTPSource) Fetch(ctx context.Context) (device.Payload, error) {
	target := s.URL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, NewNetworkError(target, fmt.Errorf("failed to create request: %w", err))
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, NewNetworkError(target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError(target, fmt.Errorf("failed to read response body: %w", err))
	}

	payload, err := device.ParsePayload(body)
	if err != nil {
		return nil, NewParseError(target, err)
	}
	return payload, nil
}

// StaticSource returns fixed data. It serves the dashboard when no API is
// configured.
type StaticSource struct {
	// Payload is returned by every Fetch; nil selects device.SamplePayload
	Payload device.Payload
}

// Name implements Source
func (s *StaticSource) Name() string {
	return "static"
}

// Fetch implements Source
func (s *StaticSource) Fetch(ctx context.Context) (device.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewNetworkError("static", err)
	}
	if s.Payload == nil {
		return device.SamplePayload(), nil
	}
	out := make(device.Payload, len(s.Payload))
	for k, v := range s.Payload {
		out[k] = v
	}
	return out, nil
}

// FileSource reads a JSON document from disk, such as a previous export
type FileSource struct {
	Path string
}

// Name implements Source
func (s *FileSource) Name() string {
	return "file"
}

// Fetch implements Source
func (s *FileSource) Fetch(ctx context.Context) (device.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewNetworkError(s.Path, err)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, NewNetworkError(s.Path, fmt.Errorf("failed to read %s: %w", s.Path, err))
	}
	payload, err := device.ParsePayload(data)
	if err != nil {
		return nil, NewParseError(s.Path, err)
	}
	return payload, nil
}
