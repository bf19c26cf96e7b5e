package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/simrl/simenv/wire"
)

// Transport is the request/response boundary with the remote simulation
// service. Implementations own the channel; the session never sees the
// wire format beyond the message types.
type Transport interface {
	Info(ctx context.Context) (*wire.InfoResponse, error)
	Spaces(ctx context.Context, req *wire.SpacesRequest) (*wire.SpacesResponse, error)
	Create(ctx context.Context, req *wire.CreateRequest) (*wire.CreateResponse, error)
	Reset(ctx context.Context, req *wire.ResetRequest) (*wire.ResetResponse, error)
	Step(ctx context.Context, req *wire.StepRequest) (*wire.StepResponse, error)
	CloseEnv(ctx context.Context, req *wire.CloseRequest) (*wire.CloseResponse, error)
	Close() error
}

// HTTPTransport talks JSON over HTTP to the service endpoints.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport builds a transport for host:port. A zero timeout
// defaults to 30 seconds per request.
func NewHTTPTransport(host string, port int, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		baseURL: fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprintf("%d", port))),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *HTTPTransport) Info(ctx context.Context) (*wire.InfoResponse, error) {
	resp := &wire.InfoResponse{}
	if err := t.get(ctx, "/info", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) Spaces(ctx context.Context, req *wire.SpacesRequest) (*wire.SpacesResponse, error) {
	resp := &wire.SpacesResponse{}
	if err := t.post(ctx, "/spaces", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) Create(ctx context.Context, req *wire.CreateRequest) (*wire.CreateResponse, error) {
	resp := &wire.CreateResponse{}
	if err := t.post(ctx, "/create", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) Reset(ctx context.Context, req *wire.ResetRequest) (*wire.ResetResponse, error) {
	resp := &wire.ResetResponse{}
	if err := t.post(ctx, "/reset", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) Step(ctx context.Context, req *wire.StepRequest) (*wire.StepResponse, error) {
	resp := &wire.StepResponse{}
	if err := t.post(ctx, "/step", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) CloseEnv(ctx context.Context, req *wire.CloseRequest) (*wire.CloseResponse, error) {
	resp := &wire.CloseResponse{}
	if err := t.post(ctx, "/close", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func (t *HTTPTransport) post(ctx context.Context, path string, req, resp any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", path, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return t.do(httpReq, path, resp)
}

func (t *HTTPTransport) get(ctx context.Context, path string, resp any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return t.do(httpReq, path, resp)
}

func (t *HTTPTransport) do(req *http.Request, path string, resp any) error {
	httpResp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", path, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: service returned %s: %s", path, httpResp.Status, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, resp); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", path, err)
	}
	return nil
}
