// Package supervisor implements the Supervisor (C9): PnP discovery,
// Device Actor lifecycle, status aggregation and JSON-Patch broadcast.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/device"
	"github.com/goxlr-daemon/goxlrd/internal/journal"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/transport"
	"github.com/goxlr-daemon/goxlrd/internal/transport/usbhw"
)

// errorRespawnAfter is the minimum time a device must sit in Phase Error
// before the respawn ticker retries it (§4.9).
const errorRespawnAfter = 2 * time.Second

// respawnTickInterval is the period of the ticker that scans for entries
// eligible for respawn.
const respawnTickInterval = 500 * time.Millisecond

// pnpPollInterval is the PnP loop's enumeration resolution; the spec
// requires attach/remove detection at 100ms resolution or better.
const pnpPollInterval = 100 * time.Millisecond

// commandQueueDepth bounds each Device Actor's inbound command channel.
const commandQueueDepth = 16

// Phase is the coarse lifecycle state of one device runner.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseRunning
	PhaseStopping
	PhaseStopped
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	case PhaseStopped:
		return "stopped"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// RunnerState is the state of one Device Actor, carrying the payload the
// active phase implies: Serial when Running, ErrorAt when Error (§4.9).
type RunnerState struct {
	Phase   Phase
	Serial  string
	ErrorAt time.Time
}

// ProfileStore loads the persisted profile and mic profile for a newly
// attached device's serial. Implemented by an external collaborator (the
// config/profile-persistence layer, §1); the Supervisor only consumes it.
type ProfileStore interface {
	Load(serial string) (*profile.Profile, *profile.MicProfile, error)
}

// backendOpener abstracts opening a transport.Backend for a descriptor,
// so tests can substitute an in-memory fake instead of real USB hardware.
type backendOpener func(desc usbhw.Descriptor) (transport.Backend, error)

func defaultOpener(desc usbhw.Descriptor) (transport.Backend, error) {
	return usbhw.OpenByKey(desc.Key)
}

// deviceEntry is one row of the Supervisor's USBLocation → DeviceState
// map.
type deviceEntry struct {
	state    RunnerState
	desc     usbhw.Descriptor
	stop     chan struct{}
	commands chan device.Command
}

// stateUpdate is what a device runner goroutine posts back to the
// Supervisor's own loop as its lifecycle changes.
type stateUpdate struct {
	key   usbhw.DeviceKey
	state RunnerState
}

// Supervisor owns the PnP runner, the device map and the status
// broadcaster. All mutation of the device map happens on the single
// goroutine run by Run, matching the "no shared resource is mutated by
// more than one task" invariant of §5.
type Supervisor struct {
	logger   *slog.Logger
	profiles ProfileStore
	renderer device.ScribbleRenderer
	opener   backendOpener
	journal  *journal.Journal

	broadcaster *Broadcaster

	mu      sync.Mutex // guards devices/serials for read-only external queries only
	devices map[usbhw.DeviceKey]*deviceEntry
	serials map[string]usbhw.DeviceKey

	updates chan stateUpdate
	pnp     chan pnpEvent
}

// New builds a Supervisor. Call Run to start its PnP and respawn loops.
func New(logger *slog.Logger, profiles ProfileStore, renderer device.ScribbleRenderer) *Supervisor {
	return &Supervisor{
		logger:      logger,
		profiles:    profiles,
		renderer:    renderer,
		opener:      defaultOpener,
		broadcaster: NewBroadcaster(),
		devices:     make(map[usbhw.DeviceKey]*deviceEntry),
		serials:     make(map[string]usbhw.DeviceKey),
		updates:     make(chan stateUpdate, commandQueueDepth),
		pnp:         make(chan pnpEvent, commandQueueDepth),
	}
}

// Broadcaster exposes the status-patch pub/sub hub to the IPC/API layer.
func (s *Supervisor) Broadcaster() *Broadcaster {
	return s.broadcaster
}

// SetJournal attaches a device event journal. Recording is best-effort:
// a journal write failure is logged but never affects device lifecycle.
// Left unset, the Supervisor simply doesn't record history — the journal
// is a diagnostic convenience, not a correctness dependency.
func (s *Supervisor) SetJournal(j *journal.Journal) {
	s.journal = j
}

func (s *Supervisor) recordEvent(serial string, eventType journal.EventType, detail string) {
	if s.journal == nil || serial == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.journal.Record(ctx, serial, eventType, detail); err != nil {
			s.logger.Warn("supervisor: failed to record journal event", "serial", serial, "error", err)
		}
	}()
}

// Run drives the Supervisor's event loop — PnP attach/remove, actor state
// updates, and the error-respawn ticker — until ctx is cancelled, then
// performs the shutdown sequence of §4.9.
func (s *Supervisor) Run(ctx context.Context) error {
	pnpCtx, stopPnP := context.WithCancel(ctx)
	pnpDone := make(chan struct{})
	go func() {
		defer close(pnpDone)
		runPnPLoop(pnpCtx, s.pnp, pnpPollInterval)
	}()

	respawnTicker := time.NewTicker(respawnTickInterval)
	defer respawnTicker.Stop()

	var lastStatus []byte

	for {
		select {
		case <-ctx.Done():
			stopPnP()
			<-pnpDone
			s.shutdown()
			return nil

		case ev := <-s.pnp:
			s.handlePnPEvent(ev)
			lastStatus = s.publishStatusDiff(lastStatus)

		case up := <-s.updates:
			s.handleStateUpdate(up)
			lastStatus = s.publishStatusDiff(lastStatus)

		case <-respawnTicker.C:
			s.respawnErrored()
		}
	}
}

// handlePnPEvent processes one Attached/Removed event from the PnP loop.
func (s *Supervisor) handlePnPEvent(ev pnpEvent) {
	if ev.removed {
		s.handleRemoved(ev.key)
		return
	}
	s.handleAttached(ev.key, ev.desc)
}

// handleAttached spawns a Device Actor for a newly seen key, unless one
// is already tracked.
func (s *Supervisor) handleAttached(key usbhw.DeviceKey, desc usbhw.Descriptor) {
	s.mu.Lock()
	_, exists := s.devices[key]
	s.mu.Unlock()
	if exists {
		return
	}
	s.spawn(key, desc)
}

// handleRemoved stops a running actor (if any) and drops the serial
// mapping regardless of runner phase.
func (s *Supervisor) handleRemoved(key usbhw.DeviceKey) {
	s.mu.Lock()
	entry, ok := s.devices[key]
	if ok {
		if entry.state.Phase == PhaseRunning || entry.state.Phase == PhaseStarting {
			entry.state.Phase = PhaseStopping
			close(entry.stop)
		} else {
			delete(s.devices, key)
		}
		if entry.state.Serial != "" {
			delete(s.serials, entry.state.Serial)
		}
	}
	s.mu.Unlock()
}

// handleStateUpdate applies one runner-reported state transition.
func (s *Supervisor) handleStateUpdate(up stateUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.devices[up.key]
	if !ok {
		return
	}

	switch up.state.Phase {
	case PhaseRunning:
		entry.state = up.state
		s.serials[up.state.Serial] = up.key
		s.recordEvent(up.state.Serial, journal.EventAttached, "")

	case PhaseStopped:
		wasStopping := entry.state.Phase == PhaseStopping
		serial := entry.state.Serial
		if serial != "" {
			delete(s.serials, serial)
		}
		if wasStopping {
			delete(s.devices, up.key)
			s.recordEvent(serial, journal.EventRemoved, "")
		} else {
			entry.state = RunnerState{Phase: PhaseError, ErrorAt: time.Now()}
			s.recordEvent(serial, journal.EventErrored, "actor stopped unexpectedly")
		}

	case PhaseError:
		serial := entry.state.Serial
		if serial != "" {
			delete(s.serials, serial)
		}
		entry.state = up.state
		s.recordEvent(serial, journal.EventErrored, "")

	default:
		entry.state = up.state
	}
}

// respawnErrored re-spawns every device whose Error phase has aged past
// errorRespawnAfter, via the same path as a fresh Attached event.
func (s *Supervisor) respawnErrored() {
	now := time.Now()

	s.mu.Lock()
	var due []usbhw.DeviceKey
	for key, entry := range s.devices {
		if entry.state.Phase == PhaseError && now.Sub(entry.state.ErrorAt) >= errorRespawnAfter {
			due = append(due, key)
		}
	}
	s.mu.Unlock()

	for _, key := range due {
		s.mu.Lock()
		entry := s.devices[key]
		desc := entry.desc
		s.mu.Unlock()
		s.spawn(key, desc)
	}
}

// spawn registers a Starting entry and launches the device runner
// goroutine (§4.9's "On Attached(loc): insert {state: Starting}...").
func (s *Supervisor) spawn(key usbhw.DeviceKey, desc usbhw.Descriptor) {
	stop := make(chan struct{})
	commands := make(chan device.Command, commandQueueDepth)

	s.mu.Lock()
	s.devices[key] = &deviceEntry{
		state:    RunnerState{Phase: PhaseStarting},
		desc:     desc,
		stop:     stop,
		commands: commands,
	}
	s.mu.Unlock()

	go s.runDevice(key, desc, stop, commands)
}

// runDevice opens the backend, loads the profile, brings the actor up and
// runs it to completion, reporting every phase transition back through
// s.updates. It never touches the Supervisor's device map directly.
func (s *Supervisor) runDevice(key usbhw.DeviceKey, desc usbhw.Descriptor, stop chan struct{}, commands chan device.Command) {
	backend, err := s.opener(desc)
	if err != nil {
		s.logger.Error("supervisor: opening backend failed", "key", key, "error", err)
		s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseError, ErrorAt: time.Now()}}
		return
	}

	tr := transport.New(backend)
	ctx := context.Background()
	if err := tr.Initialize(ctx); err != nil {
		s.logger.Error("supervisor: transport init failed", "key", key, "error", err)
		_ = backend.Close()
		s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseError, ErrorAt: time.Now()}}
		return
	}

	p, mp, err := s.profiles.Load(desc.Serial)
	if err != nil {
		s.logger.Error("supervisor: loading profile failed", "serial", desc.Serial, "error", err)
		_ = backend.Close()
		s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseError, ErrorAt: time.Now()}}
		return
	}

	a := device.New(desc.Serial, tr, p, mp, s.renderer, s.logger)
	if err := a.LoadProfile(ctx); err != nil {
		s.logger.Error("supervisor: loading profile onto device failed", "serial", desc.Serial, "error", err)
		_ = backend.Close()
		s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseError, ErrorAt: time.Now()}}
		return
	}

	s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseRunning, Serial: desc.Serial}}

	runErr := a.Run(ctx, commands, stop)
	_ = backend.Close()

	if runErr != nil {
		s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseError, ErrorAt: time.Now()}}
		return
	}
	s.updates <- stateUpdate{key: key, state: RunnerState{Phase: PhaseStopped}}
}

// shutdown stops every running actor and drains their Stopped
// acknowledgements, per §4.9's shutdown sequence (PnP already stopped by
// the caller before shutdown runs).
func (s *Supervisor) shutdown() {
	s.mu.Lock()
	for _, entry := range s.devices {
		if entry.state.Phase == PhaseRunning || entry.state.Phase == PhaseStarting {
			entry.state.Phase = PhaseStopping
			close(entry.stop)
		}
	}
	pending := len(s.devices)
	s.mu.Unlock()

	for pending > 0 {
		up := <-s.updates
		s.handleStateUpdate(up)
		s.mu.Lock()
		pending = len(s.devices)
		s.mu.Unlock()
	}
}

// Submit dispatches an IPC command to the running device identified by
// serial, or an error if no such device is currently running.
func (s *Supervisor) Submit(ctx context.Context, serial string, op func(context.Context, *device.Actor) (any, error)) (any, error) {
	s.mu.Lock()
	key, ok := s.serials[serial]
	var commands chan device.Command
	if ok {
		commands = s.devices[key].commands
	}
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("supervisor: no running device with serial %q", serial)
	}
	return device.Submit(ctx, commands, op)
}

// Status rebuilds the aggregated status object on demand, by round
// tripping every running device's status via its command sink (§4.9).
// It is the synchronous counterpart to the publishStatusDiff the Run loop
// performs for the broadcast channel after each PnP event and runner
// state update.
func (s *Supervisor) Status() AggregatedStatus {
	return s.buildStatus()
}

// Serials returns the serial numbers of every currently running device.
func (s *Supervisor) Serials() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.serials))
	for serial := range s.serials {
		out = append(out, serial)
	}
	return out
}
