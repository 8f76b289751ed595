// Package device implements the Device Actor (C8): the single-writer
// event loop that owns one physical unit's profile, mic profile and
// ephemeral caches, and is the only component that issues commands to
// its internal/transport.Transport.
package device

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/faders"
	"github.com/goxlr-daemon/goxlrd/internal/interaction"
	"github.com/goxlr-daemon/goxlrd/internal/mic"
	"github.com/goxlr-daemon/goxlrd/internal/mute"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/routing"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
	"github.com/goxlr-daemon/goxlrd/internal/transport"
)

// holdTickInterval is the local ticker period driving check_held, and
// also the fallback poll period on back-ends with no driver-delivered
// interrupt (§4.8).
const holdTickInterval = 20 * time.Millisecond

// buttonDownState tracks one currently-pressed button for hold detection.
type buttonDownState struct {
	pressedAt time.Time
	handled   bool
	skipHold  bool
}

// Command is one IPC-originated unit of work submitted to the actor. Ops
// run on the actor's own goroutine, so they may read and mutate the
// profile and caches freely. Reply always receives exactly one Result,
// even on error, per the bounded-FIFO-with-one-shot-reply contract of
// §4.8.
type Command struct {
	Op    func(context.Context, *Actor) (any, error)
	Reply chan Result
}

// Result is the outcome of one Command.
type Result struct {
	Value any
	Err   error
}

// Submit enqueues op on the actor's command channel and blocks for its
// result, or returns ctx's error if it is cancelled first.
func Submit(ctx context.Context, commands chan<- Command, op func(context.Context, *Actor) (any, error)) (any, error) {
	reply := make(chan Result, 1)
	select {
	case commands <- Command{Op: op, Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.Value, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status is a point-in-time, serialisable snapshot of the device the
// Supervisor round-trips into its aggregated status object (§4.9).
type Status struct {
	Serial      string
	DeviceClass transport.DeviceClass
	FaderVolume map[shared.FaderChannel]uint8
	MuteState   map[shared.FaderChannel]profile.MuteState
	ActivePage  int
	Profile     *profile.Profile
	MicProfile  *profile.MicProfile
}

// ScribbleRenderer is re-exported so callers constructing an Actor don't
// need to import internal/faders directly.
type ScribbleRenderer = faders.ScribbleRenderer

// Actor is the single-writer owner of one device's state. Every exported
// method except Run and Submit is intended to be called only from the
// actor's own goroutine (via Command.Op) or before Run starts.
type Actor struct {
	Serial string

	transport *transport.Transport
	logger    *slog.Logger

	profile   *profile.Profile
	micCtl    *mic.Controller
	routing   *routing.Matrix
	faders    *faders.Manager
	tracker   *interaction.Tracker
	mutes     map[shared.FaderChannel]*mute.Machine
	animation bool
	fullSized bool

	buttonDown map[shared.Button]*buttonDownState
	colour     codec.ColourScheme
	cough      *mute.CoughController
}

// New builds an Actor around an already-initialised Transport and a
// loaded profile. Call LoadProfile before Run.
func New(serial string, t *transport.Transport, p *profile.Profile, mp *profile.MicProfile, renderer ScribbleRenderer, logger *slog.Logger) *Actor {
	fullSized := t.DeviceClass() == transport.ClassFull
	a := &Actor{
		Serial:     serial,
		transport:  t,
		logger:     logger,
		profile:    p,
		micCtl:     &mic.Controller{Profile: mp},
		routing:    routing.New(),
		faders:     faders.NewManager(fullSized, renderer),
		tracker:    interaction.New(),
		mutes:      make(map[shared.FaderChannel]*mute.Machine, len(shared.FaderChannels)),
		animation:  fullSized,
		fullSized:  fullSized,
		buttonDown: make(map[shared.Button]*buttonDownState),
	}
	for _, c := range shared.FaderChannels {
		a.mutes[c] = mute.NewMachine(c)
	}
	for in, row := range p.Routing {
		for out, v := range row {
			a.routing.Set(in, out, v)
		}
	}
	return a
}

// LoadProfile performs the idempotent bring-up sequence of §4.8: reset
// routing, reset button LEDs, reset colour scheme, load the active page,
// load initial mute states, load volumes, apply button states, apply the
// colour map, apply routing for every input channel. An error at any
// step aborts the sequence without entering Run's loop, per the actor's
// "proceed to shutdown cleanly" invariant.
func (a *Actor) LoadProfile(ctx context.Context) error {
	if err := a.resetRoutingFromProfile(ctx); err != nil {
		return fmt.Errorf("device: resetting routing table: %w", err)
	}
	if err := a.resetButtonLEDs(); err != nil {
		return fmt.Errorf("device: resetting button LEDs: %w", err)
	}
	a.colour = defaultColourScheme()

	if err := a.loadCurrentPage(ctx); err != nil {
		return fmt.Errorf("device: loading current page: %w", err)
	}
	if err := a.loadInitialMuteStates(ctx); err != nil {
		return fmt.Errorf("device: loading initial mute states: %w", err)
	}
	if err := a.loadVolumes(ctx); err != nil {
		return fmt.Errorf("device: loading volumes: %w", err)
	}
	if err := a.applyButtonStates(ctx); err != nil {
		return fmt.Errorf("device: applying button states: %w", err)
	}
	if err := a.applyColourMap(ctx); err != nil {
		return fmt.Errorf("device: applying colour map: %w", err)
	}
	for _, in := range shared.InputChannels {
		if err := a.uploadRoutingRow(ctx, in); err != nil {
			return fmt.Errorf("device: applying routing for %v: %w", in, err)
		}
	}
	return nil
}

// Run drives the actor's event loop until shutdown or stop is signalled,
// or a fatal error occurs talking to the device. It returns the error
// that ended the loop, or nil on a clean stop (§4.8's ordering and
// shutdown invariants).
func (a *Actor) Run(ctx context.Context, commands <-chan Command, stop <-chan struct{}) error {
	holdTicker := time.NewTicker(holdTickInterval)
	defer holdTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stop:
			return nil
		case cmd := <-commands:
			value, err := cmd.Op(ctx, a)
			cmd.Reply <- Result{Value: value, Err: err}
			if err != nil && fatalLoopError(err) {
				a.logger.Error("device actor: fatal command error", "serial", a.Serial, "error", err)
				return err
			}
		case <-holdTicker.C:
			if err := a.pollOnce(ctx); err != nil {
				a.logger.Error("device actor: poll failed", "serial", a.Serial, "error", err)
				return err
			}
			a.checkHeld()
		}
	}
}

// fatalLoopError decides whether a command handler's error should end the
// actor's loop. Validation errors (OutOfRange, InvalidPage, ...) are
// reported to the caller but never kill the actor; only transport-layer
// Fatal errors do.
func fatalLoopError(err error) bool {
	return transportFatal(err)
}

// pollOnce reads the button/fader/encoder snapshot and feeds it through
// the interaction tracker, dispatching the resulting events.
func (a *Actor) pollOnce(ctx context.Context) error {
	resp, err := a.transport.Send(ctx, codec.CommandID(codec.OpGetButtonStates, 0), nil)
	if err != nil {
		return err
	}
	snapshot, err := codec.DecodeButtonSnapshot(resp)
	if err != nil {
		return nil // malformed snapshot this tick; try again next tick
	}

	for _, ev := range a.tracker.Diff(snapshot) {
		if err := a.handleInteraction(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// handleInteraction dispatches one diffed interaction event. Button-down
// events arm hold-tracking; button-up events either fire the paired
// release handler or are absorbed as a skipped paired-button gesture.
func (a *Actor) handleInteraction(ctx context.Context, ev interaction.Event) error {
	switch ev.Kind {
	case interaction.EventButtonDown:
		return a.onButtonDown(ctx, ev.Button)
	case interaction.EventButtonUp:
		return a.onButtonUp(ctx, ev.Button)
	default:
		return nil
	}
}

// checkHeld scans button_down_states for entries whose press exceeds the
// profile's hold threshold, synthesising a Hold event exactly once per
// press (§4.8 item 3).
func (a *Actor) checkHeld() {
	holdAfter := time.Duration(a.profile.Configuration.ButtonHoldTimeMs) * time.Millisecond
	now := time.Now()
	for btn, st := range a.buttonDown {
		if st.handled || st.skipHold {
			continue
		}
		if now.Sub(st.pressedAt) <= holdAfter {
			continue
		}
		st.handled = true
		a.onButtonHold(btn)
	}
}
