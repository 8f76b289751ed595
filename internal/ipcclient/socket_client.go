package ipcclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/ipc"
)

// dialTimeout bounds how long connecting to the control socket may take.
const dialTimeout = 2 * time.Second

// SocketClient talks the §6 contract over a unix-domain socket, dialling
// a fresh connection per call — request volume from a CLI invocation is
// low enough that connection reuse isn't worth the added state.
type SocketClient struct {
	path string
}

// NewSocketClient returns a Client reaching the daemon at socketPath.
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{path: socketPath}
}

func (c *SocketClient) call(ctx context.Context, req ipc.Request) (ipc.Response, error) {
	var d net.Dialer
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, err := d.DialContext(dialCtx, "unix", c.path)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: dialing %s: %w", c.path, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: encoding request: %w", err)
	}
	if _, err := conn.Write(append(body, '\n')); err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: writing request: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return ipc.Response{}, fmt.Errorf("ipcclient: reading response: %w", err)
		}
		return ipc.Response{}, fmt.Errorf("ipcclient: connection closed without a response")
	}

	var resp ipc.Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return ipc.Response{}, fmt.Errorf("ipcclient: decoding response: %w", err)
	}
	return resp, nil
}

// Ping implements Client.
func (c *SocketClient) Ping(ctx context.Context) error {
	resp, err := c.call(ctx, ipc.Request{Kind: ipc.RequestPing})
	if err != nil {
		return err
	}
	return responseToError(resp)
}

// GetStatus implements Client.
func (c *SocketClient) GetStatus(ctx context.Context) (ipc.DaemonStatus, error) {
	resp, err := c.call(ctx, ipc.Request{Kind: ipc.RequestGetStatus})
	if err != nil {
		return ipc.DaemonStatus{}, err
	}
	if err := responseToError(resp); err != nil {
		return ipc.DaemonStatus{}, err
	}
	return resp.Status, nil
}

// SendDeviceCommand implements Client.
func (c *SocketClient) SendDeviceCommand(ctx context.Context, serial string, cmd ipc.GoXLRCommand) (ipc.GoXLRCommandResponse, error) {
	req := ipc.Request{
		Kind:          ipc.RequestDeviceCommand,
		DeviceCommand: ipc.DeviceCommand{Serial: serial, Command: cmd},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return ipc.GoXLRCommandResponse{}, err
	}
	if err := responseToError(resp); err != nil {
		return ipc.GoXLRCommandResponse{}, err
	}
	return resp.DeviceCommand, nil
}
