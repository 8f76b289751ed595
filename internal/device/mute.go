package device

import (
	"context"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/mute"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// applyMuteEffect re-uploads any routing rows a mute transition dirtied,
// issues a mute-to-all command if the transition produced one, and
// refreshes the mute button LEDs — the three actions every Machine
// transition's Effect asks the actor to perform before returning to the
// event loop (§4.5).
func (a *Actor) applyMuteEffect(ctx context.Context, ch shared.FaderChannel, eff mute.Effect) error {
	for _, in := range eff.RoutingDirty {
		if err := a.uploadRoutingRow(ctx, in); err != nil {
			return err
		}
	}
	if eff.MuteToAll != nil {
		if err := a.sendMuteState(ctx, ch, *eff.MuteToAll); err != nil {
			return err
		}
	}
	if eff.AlreadyHeld {
		return nil
	}
	return a.applyButtonStates(ctx)
}

// sendMuteState issues the device-level mute/unmute command for a
// channel (used only for the hardware "mute to all" fallback — overlay
// mutes are expressed purely through the routing row).
func (a *Actor) sendMuteState(ctx context.Context, ch shared.FaderChannel, muted bool) error {
	state := byte(0)
	if muted {
		state = 1
	}
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpChannelState, codec.ChannelIndex[ch]), []byte{state})
	return err
}

// sendChannelVolume uploads a single channel's fader volume.
func (a *Actor) sendChannelVolume(ctx context.Context, ch shared.FaderChannel, volume uint8) (any, error) {
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpChannelVolume, codec.ChannelIndex[ch]), []byte{volume})
	return nil, err
}

// sendButtonStates pushes a full 24-slot button display-state array,
// defaulting every unspecified button to DimmedColour1.
func (a *Actor) sendButtonStates(ctx context.Context, states map[shared.Button]shared.DisplayState) error {
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpButtonStates, 0), codec.EncodeButtonStates(states))
	return err
}

// coughController returns the actor's cough-button state machine,
// constructed lazily from the profile's cough configuration on first use
// and cached thereafter in a.cough.
func (a *Actor) coughController() *mute.CoughController {
	if a.cough == nil {
		a.cough = &mute.CoughController{
			Behaviour: a.profile.Cough.CoughBehaviour,
			State:     a.profile.Cough.MuteState,
		}
	}
	return a.cough
}

func (a *Actor) coughPressDown(ctx context.Context) error {
	a.coughController().PressDown()
	return a.refreshCoughOverlay(ctx)
}

func (a *Actor) coughRelease(ctx context.Context) error {
	a.coughController().Release()
	return a.refreshCoughOverlay(ctx)
}

func (a *Actor) coughLEDState() shared.DisplayState {
	switch a.coughController().State {
	case profile.Pressed:
		return shared.DisplayColour1
	case profile.Held:
		return shared.DisplayBlinking
	default:
		return shared.DisplayDimmedColour1
	}
}

// refreshCoughOverlay pushes the cough button's current target list into
// the assigned channel's Machine and re-runs that channel's current
// state through ExplicitSet so the composition rules of §4.5 recompute
// its routing overlay / mute-to-all.
func (a *Actor) refreshCoughOverlay(ctx context.Context) error {
	c := a.coughController()
	ch := a.profile.Cough.ChannelAssignment
	m := a.mutes[ch]

	var targets []shared.OutputChannel
	if c.State != profile.Unmuted {
		targets = a.profile.Cough.MuteActions.Targets(actionForCoughState(c.State))
		if targets == nil {
			// Non-nil (even if empty) signals "cough is active" to
			// Machine.ExplicitSet, distinct from nil meaning "no cough
			// overlay at all" — an unconfigured Cough.MuteActions (the
			// default profile's zero value) must still compose to
			// mute-to-all rather than being mistaken for cough being off.
			targets = []shared.OutputChannel{}
		}
	}
	m.SetCoughOverlay(targets)

	return a.applyMuteEffect(ctx, ch, m.ExplicitSet(m.State, a.profile.Channel(ch).MuteActions))
}

func actionForCoughState(state profile.MuteState) shared.MuteAction {
	if state == profile.Held {
		return shared.ActionHold
	}
	return shared.ActionPress
}
