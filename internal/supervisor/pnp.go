package supervisor

import (
	"context"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/transport/usbhw"
)

// pnpEvent is one attach or remove transition the PnP loop detected by
// diffing successive enumeration scans (§4.9).
type pnpEvent struct {
	key     usbhw.DeviceKey
	desc    usbhw.Descriptor
	removed bool
}

// runPnPLoop polls usbhw.Enumerate at interval and emits pnpEvents for
// every key that appears or disappears between scans, until ctx is
// cancelled. It never touches the Supervisor's device map — all state
// mutation happens on the Supervisor's own goroutine that reads events.
func runPnPLoop(ctx context.Context, events chan<- pnpEvent, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := map[usbhw.DeviceKey]usbhw.Descriptor{}

	scan := func() {
		descs, err := usbhw.Enumerate()
		if err != nil {
			// Enumeration failures are transient (bus rescans, permission
			// hiccups); the next tick retries (§5's "Supervisor errors ...
			// logged and retried on the 500ms tick" analogue for PnP).
			return
		}

		current := make(map[usbhw.DeviceKey]usbhw.Descriptor, len(descs))
		for _, d := range descs {
			current[d.Key] = d
		}

		for key, desc := range current {
			if _, ok := seen[key]; !ok {
				send(ctx, events, pnpEvent{key: key, desc: desc})
			}
		}
		for key := range seen {
			if _, ok := current[key]; !ok {
				send(ctx, events, pnpEvent{key: key, removed: true})
			}
		}
		seen = current
	}

	scan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan()
		}
	}
}

func send(ctx context.Context, events chan<- pnpEvent, ev pnpEvent) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
