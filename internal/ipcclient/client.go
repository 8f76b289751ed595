// Package ipcclient is the daemon-facing half of the two-CLI-binaries
// collaborator (§9's "dynamic dispatch in the IPC client... implement as
// an interface with two concrete types"): a Client interface with a
// unix-socket implementation and an HTTP implementation, so goxlr-cli
// and goxlr-client can share one call surface regardless of how they
// reach the daemon.
package ipcclient

import (
	"context"

	"github.com/goxlr-daemon/goxlrd/internal/ipc"
)

// Client is the method set both transports expose to the CLI binaries.
type Client interface {
	// Ping checks daemon reachability.
	Ping(ctx context.Context) error
	// GetStatus retrieves the full status document.
	GetStatus(ctx context.Context) (ipc.DaemonStatus, error)
	// SendDeviceCommand addresses one GoXLRCommand to serial and returns
	// its per-device outcome.
	SendDeviceCommand(ctx context.Context, serial string, cmd ipc.GoXLRCommand) (ipc.GoXLRCommandResponse, error)
}

// responseToError turns a §6 Err response into a Go error, so both
// transports can share one error-mapping rule.
func responseToError(resp ipc.Response) error {
	if resp.Kind == ipc.ResponseErr {
		return &RemoteError{Message: resp.Err}
	}
	return nil
}

// RemoteError wraps an Err response's message so callers can distinguish
// a daemon-reported failure from a transport failure.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }
