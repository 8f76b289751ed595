package ipcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/ipc"
)

// httpTimeout bounds a single HTTP round trip.
const httpTimeout = 5 * time.Second

// HTTPClient talks the §6 contract over the daemon's HTTP surface
// (internal/api), for callers that reach the daemon over the network
// rather than the local control socket.
type HTTPClient struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewHTTPClient returns a Client reaching the daemon's HTTP API at
// baseURL (e.g. "http://localhost:14564"). token is sent as a bearer
// Authorization header when non-empty.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: httpTimeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (ipc.Response, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return ipc.Response{}, fmt.Errorf("ipcclient: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.hc.Do(req)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var resp ipc.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: decoding response: %w", err)
	}
	return resp, nil
}

// Ping implements Client.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/ping", ipc.Request{Kind: ipc.RequestPing})
	if err != nil {
		return err
	}
	return responseToError(resp)
}

// GetStatus implements Client.
func (c *HTTPClient) GetStatus(ctx context.Context) (ipc.DaemonStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/status", nil)
	if err != nil {
		return ipc.DaemonStatus{}, err
	}
	if err := responseToError(resp); err != nil {
		return ipc.DaemonStatus{}, err
	}
	return resp.Status, nil
}

// SendDeviceCommand implements Client.
func (c *HTTPClient) SendDeviceCommand(ctx context.Context, serial string, cmd ipc.GoXLRCommand) (ipc.GoXLRCommandResponse, error) {
	req := ipc.Request{
		Kind:          ipc.RequestDeviceCommand,
		DeviceCommand: ipc.DeviceCommand{Serial: serial, Command: cmd},
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/command", req)
	if err != nil {
		return ipc.GoXLRCommandResponse{}, err
	}
	if err := responseToError(resp); err != nil {
		return ipc.GoXLRCommandResponse{}, err
	}
	return resp.DeviceCommand, nil
}
