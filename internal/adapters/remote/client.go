// Package remote implements the RemoteTransport port over HTTP.
package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/engine/signer"
	"go.trai.ch/zerr"
)

const (
	defaultTimeout = 30 * time.Second
	// maxResponseBytes bounds the response body. Finished tasks carry base64 images inline.
	maxResponseBytes = 64 << 20
)

// Client implements ports.RemoteTransport against the configured endpoint.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
}

// NewClient creates a Client for endpoint, e.g. https://open.volcengineapi.com.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithHTTP(endpoint, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a Client using an explicit http.Client.
func NewClientWithHTTP(endpoint string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, domain.WithKind(domain.ErrConfiguration, zerr.With(zerr.Wrap(err, "invalid remote endpoint"), "endpoint", endpoint))
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, domain.WithKind(domain.ErrConfiguration, zerr.With(zerr.New("remote endpoint must be an absolute url"), "endpoint", endpoint))
	}
	return &Client{endpoint: u, httpClient: httpClient}, nil
}

// Host returns the host of the endpoint, used as the signed Host header.
func (c *Client) Host() string {
	return c.endpoint.Host
}

// Send performs req. Non-2xx responses are returned as-is; only transport failures are errors.
func (c *Client) Send(ctx context.Context, req *domain.RemoteRequest) (*domain.RemoteResponse, error) {
	target := *c.endpoint
	target.Path = strings.TrimSuffix(c.endpoint.Path, "/") + "/" + strings.TrimPrefix(req.Path, "/")
	// The canonical query is also a valid wire encoding, so the server sees exactly what was signed.
	target.RawQuery = signer.CanonicalQuery(req.Query)

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create remote request")
	}
	for k, v := range req.Headers {
		if strings.EqualFold(k, "host") {
			httpReq.Host = v
			continue
		}
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "remote request failed"), "url", target.Redacted())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read remote response"), "status_code", resp.StatusCode)
	}

	return &domain.RemoteResponse{StatusCode: resp.StatusCode, Body: data}, nil
}
