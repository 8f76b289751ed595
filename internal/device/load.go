package device

import (
	"context"
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// resetRoutingFromProfile copies every cell of the loaded profile's
// routing table into the working Matrix. It performs no USB I/O; the
// rows themselves are pushed later by the "apply routing" step.
func (a *Actor) resetRoutingFromProfile(_ context.Context) error {
	for _, in := range shared.InputChannels {
		for out, v := range a.profile.Routing.Row(in) {
			a.routing.Set(in, out, v)
		}
	}
	return nil
}

// resetButtonLEDs clears the button-down tracking map. LED states are
// not cached here; applyButtonStates derives them from the mute state
// machines when it pushes them to hardware.
func (a *Actor) resetButtonLEDs() error {
	a.buttonDown = make(map[shared.Button]*buttonDownState)
	return nil
}

// loadCurrentPage assigns all four faders from the profile's active
// page, pushing each channel's colours/scribble/display style (§4.6).
func (a *Actor) loadCurrentPage(ctx context.Context) error {
	if !a.profile.Pages.Valid() {
		return fmt.Errorf("device: profile has no valid fader page")
	}
	page := a.profile.Pages.Active()
	for _, f := range shared.Faders {
		if err := a.assignFader(ctx, f, page.Channel(f)); err != nil {
			return err
		}
	}
	return nil
}

// loadInitialMuteStates pushes each channel's persisted mute state into
// its Machine, so the hardware and cache agree before the main loop
// starts processing button events.
func (a *Actor) loadInitialMuteStates(ctx context.Context) error {
	for _, c := range shared.FaderChannels {
		cfg := a.profile.Channel(c)
		if cfg.MuteState == profile.Unmuted {
			continue
		}
		if err := a.applyMuteEffect(ctx, c, a.mutes[c].ExplicitSet(cfg.MuteState, cfg.MuteActions)); err != nil {
			return err
		}
	}
	return nil
}

// loadVolumes uploads every channel's persisted fader volume.
func (a *Actor) loadVolumes(ctx context.Context) error {
	for _, c := range shared.FaderChannels {
		vol := a.profile.Channel(c).Volume
		if _, err := a.sendChannelVolume(ctx, c, vol); err != nil {
			return err
		}
	}
	return nil
}

// applyButtonStates pushes the current LED display state for every mute
// button and the cough button in a single combined apply.
func (a *Actor) applyButtonStates(ctx context.Context) error {
	states := make(map[shared.Button]shared.DisplayState, len(shared.Faders)+1)
	for _, f := range shared.Faders {
		ch := a.profile.Pages.Active().Channel(f)
		inactive := a.profile.Channel(ch).Display.MuteColours.InactiveBehaviour
		states[shared.FaderMuteButton(f)] = a.mutes[ch].LEDState(inactive)
	}
	states[shared.ButtonCough] = a.coughLEDState()
	return a.sendButtonStates(ctx, states)
}

// applyColourMap pushes the full colour scheme in one write.
func (a *Actor) applyColourMap(ctx context.Context) error {
	body := codec.EncodeColourMap(a.colour, a.animation)
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpColourMap, 0), body)
	return err
}

// uploadRoutingRow projects input's boolean row plus its channel's
// active mute overlay into the device-facing wire row and uploads it.
// The profile's routing cells carry no independent left/right value, so
// the same projected row is sent for both wire sides (§4.2, §8).
func (a *Actor) uploadRoutingRow(ctx context.Context, in shared.InputChannel) error {
	ch := fromInput(in)
	row := a.routing.ToRoutingRow(in, a.mutes[ch].Overlay())
	body := codec.EncodeRoutingRow(row, row)
	index := codec.ChannelIndex[ch]
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpRoutingWrite, index), body)
	return err
}

// fromInput recovers the FaderChannel an InputChannel was derived from.
// Every InputChannel has exactly one FaderChannel counterpart (the
// reverse of shared.AsInput).
func fromInput(in shared.InputChannel) shared.FaderChannel {
	for _, c := range shared.FaderChannels {
		if shared.CanBeInput(c) && shared.AsInput(c) == in {
			return c
		}
	}
	panic("device: input channel with no fader-channel counterpart")
}

// defaultColourScheme returns the zero-value colour scheme. A richer
// per-profile accent palette is out of scope for the actor itself; the
// profile loader (an external collaborator, §1) is responsible for
// populating a.profile's display colours before LoadProfile runs.
func defaultColourScheme() codec.ColourScheme {
	return codec.ColourScheme{}
}
