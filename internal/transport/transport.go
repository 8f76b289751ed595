// Package transport implements the frame-level command/response protocol
// to a single device (C1): command framing, command-index resynchronisation
// and the polled bring-up/retry semantics shared by every USB back-end.
// It is deliberately USB-library agnostic — internal/transport/usbhw
// supplies the concrete Backend.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/metrics"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// DeviceClass distinguishes the two hardware form factors, which differ in
// polling cadence and scribble/animation capability.
type DeviceClass int

const (
	ClassFull DeviceClass = iota
	ClassCompact
)

// PollInterval returns the device-class-specific sleep between a write and
// the first read attempt (§4.1).
func (c DeviceClass) PollInterval() time.Duration {
	if c == ClassCompact {
		return 10 * time.Millisecond
	}
	return 3 * time.Millisecond
}

// maxReadRetries bounds the polled back-end's read-after-Pipe retry loop.
const maxReadRetries = 20

// Backend is the capability set a concrete USB implementation (gousb on
// Linux/macOS, the Windows native back-end) must provide. All methods
// operate on interface 0, the vendor-control interface.
type Backend interface {
	// WriteVendorControl issues a USB control OUT transfer with the
	// vendor request type.
	WriteVendorControl(request uint8, value, index uint16, data []byte) error
	// WriteClassControl issues a USB control OUT transfer with the class
	// request type, used only during first-time audio activation.
	WriteClassControl(request uint8, value, index uint16, data []byte) error
	// ReadVendorControl issues a USB control IN transfer and returns up
	// to length bytes. It returns xerrors.ErrPipe when the device has not
	// yet produced a response (a STALL on the control endpoint).
	ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error)
	// ClaimInterface and ReleaseInterface bracket the first-time bring-up
	// sequence; once bring-up has released interface 0 it is not claimed
	// again.
	ClaimInterface(iface int) error
	ReleaseInterface(iface int) error
	// ResetDevice issues a USB bus reset.
	ResetDevice() error
	// DeviceClass reports which polling cadence and scribble capability
	// this physical unit has.
	DeviceClass() DeviceClass
	// Close releases the underlying USB handle.
	Close() error
}

// Transport owns the command-index sequence for one device and serialises
// every send through it: the wire protocol has no way to pipeline requests.
type Transport struct {
	backend Backend

	mu           sync.Mutex
	commandIndex uint16
}

// New wraps backend in a Transport. The caller must still call Initialize
// before the first Send.
func New(backend Backend) *Transport {
	return &Transport{backend: backend}
}

// DeviceClass reports the backend's device class.
func (t *Transport) DeviceClass() DeviceClass {
	return t.backend.DeviceClass()
}

// Close releases the underlying backend.
func (t *Transport) Close() error {
	return t.backend.Close()
}

// Initialize brings the device into a state where it will answer vendor
// control requests, performing first-time bring-up if necessary (§4.1).
func (t *Transport) Initialize(ctx context.Context) error {
	err := t.backend.WriteVendorControl(1, 0, 0, nil)
	if errors.Is(err, xerrors.ErrPipe) {
		if bringUpErr := t.firstTimeBringUp(ctx); bringUpErr != nil {
			return xerrors.NewFatal(fmt.Errorf("transport: first-time bring-up: %w", bringUpErr))
		}
	} else if err != nil {
		return xerrors.NewFatal(fmt.Errorf("transport: reset: %w", err))
	}

	// Prime the command pipe so the first real Send finds it already
	// activated.
	if _, err := t.backend.ReadVendorControl(3, 0, 0, codec.MaxResponseBody); err != nil {
		return xerrors.NewFatal(fmt.Errorf("transport: priming command pipe: %w", err))
	}
	return nil
}

// firstTimeBringUp claims interface 0, activates the vendor and audio
// class interfaces, then bus-resets the device and waits for it to
// re-enumerate before reissuing the original reset request.
func (t *Transport) firstTimeBringUp(ctx context.Context) error {
	if err := t.backend.ClaimInterface(0); err != nil {
		return fmt.Errorf("claiming interface 0: %w", err)
	}

	if _, err := t.backend.ReadVendorControl(0, 0, 0, 24); err != nil {
		return fmt.Errorf("activating vendor interface: %w", err)
	}

	activateAudio := []byte{0x80, 0xbb, 0x00, 0x00}
	if err := t.backend.WriteClassControl(1, 0x0100, 0x2900, activateAudio); err != nil {
		return fmt.Errorf("activating audio interface: %w", err)
	}

	if err := t.backend.ReleaseInterface(0); err != nil {
		return fmt.Errorf("releasing interface 0: %w", err)
	}

	if err := t.backend.ResetDevice(); err != nil {
		return fmt.Errorf("bus-resetting device: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
	}

	if err := t.backend.WriteVendorControl(1, 0, 0, nil); err != nil {
		return fmt.Errorf("re-issuing reset after bring-up: %w", err)
	}
	return nil
}

// Send writes a command frame and waits for its matching response,
// resynchronising the command index once on mismatch before failing with
// ErrSyncLost (§4.1).
func (t *Transport) Send(ctx context.Context, commandID uint32, body []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	resp, err := t.sendOnce(ctx, commandID, body)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, errIndexMismatch) {
		return nil, err
	}

	// Resync: reset the device's notion of our command index and retry
	// exactly once.
	if _, resetErr := t.sendOnce(ctx, codec.CommandID(codec.OpResetCommandIndex, 0), nil); resetErr != nil {
		return nil, xerrors.NewFatal(fmt.Errorf("transport: resync after index mismatch: %w", resetErr))
	}
	t.commandIndex = 0

	resp, err = t.sendOnce(ctx, commandID, body)
	if errors.Is(err, errIndexMismatch) {
		return nil, xerrors.NewFatal(fmt.Errorf("transport: %w", xerrors.ErrSyncLost))
	}
	return resp, err
}

// errIndexMismatch is an internal sentinel distinguishing a response
// command-index mismatch (recoverable via resync) from every other
// transport failure (fatal).
var errIndexMismatch = errors.New("transport: response command index mismatch")

func (t *Transport) sendOnce(ctx context.Context, commandID uint32, body []byte) ([]byte, error) {
	if commandID != codec.CommandID(codec.OpResetCommandIndex, 0) {
		if t.commandIndex == ^uint16(0) {
			t.commandIndex = 0
		}
		t.commandIndex++
	} else {
		t.commandIndex = 0
	}
	index := t.commandIndex

	header := codec.Header{CommandID: commandID, BodyLen: uint16(len(body)), CommandIndex: index}
	frame := header.Encode(body)

	if err := t.backend.WriteVendorControl(2, 0, 0, frame); err != nil {
		return nil, xerrors.NewFatal(fmt.Errorf("transport: write: %w", err))
	}

	interval := t.backend.DeviceClass().PollInterval()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(interval):
	}

	var raw []byte
	for attempt := 0; attempt < maxReadRetries; attempt++ {
		resp, err := t.backend.ReadVendorControl(3, 0, 0, codec.MaxResponseBody)
		if errors.Is(err, xerrors.ErrPipe) {
			if attempt == maxReadRetries-1 {
				return nil, xerrors.NewFatal(fmt.Errorf("transport: %w", xerrors.ErrTimeout))
			}
			metrics.TransportRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
			continue
		}
		if err != nil {
			return nil, xerrors.NewFatal(fmt.Errorf("transport: read: %w", err))
		}
		raw = resp
		break
	}

	respHeader, respBody, err := codec.DecodeHeader(raw)
	if err != nil {
		return nil, xerrors.NewFatal(fmt.Errorf("transport: decoding response header: %w", err))
	}
	if respHeader.CommandIndex != index {
		return nil, errIndexMismatch
	}

	out := make([]byte, len(respBody))
	copy(out, respBody)
	return out, nil
}
