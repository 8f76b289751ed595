// Package mute implements the per-channel mute state machine (C5):
// Unmuted/Pressed/Held transitions, press/hold/cough composition, and the
// LED state each transition implies.
package mute

import (
	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// Event is an external stimulus the state machine reacts to (§4.5).
type Event int

const (
	EventUserPress Event = iota
	EventUserHold
	EventCoughPress
	EventCoughHold
)

// Effect is everything a transition asks the Device Actor to do before
// returning to its event loop.
type Effect struct {
	// RoutingDirty lists input channels whose routing row needs
	// re-upload because a transient mute overlay changed.
	RoutingDirty []shared.InputChannel
	// MuteToAll, when non-nil, is the new hardware mute flag to send for
	// the channel (true = muted, false = unmuted).
	MuteToAll *bool
	// AlreadyHeld is true when a hold event arrived for a channel already
	// in Held state — the caller should skip the paired release.
	AlreadyHeld bool
}

// Overlay returns the transient routing overlay that represents "these
// outputs are forced off for this channel's mute", keyed by
// RoutingOutput, for a list of profile output targets. An empty overlay
// (targets == nil/len 0) signals "no per-output overlay — use hardware
// mute-to-all instead" and is represented as a nil map by the caller.
func overlay(targets []shared.OutputChannel) map[shared.RoutingOutput]codec.RouteValue {
	if len(targets) == 0 {
		return nil
	}
	ov := make(map[shared.RoutingOutput]codec.RouteValue, len(targets))
	for _, t := range targets {
		ov[shared.FromOutputChannel(t)] = codec.Off
	}
	return ov
}

// Machine holds the mute state and cached overlay for a single channel.
// One Machine exists per profile.FaderChannel in the Device Actor.
type Machine struct {
	Channel    shared.FaderChannel
	State      profile.MuteState
	InputLane  shared.InputChannel
	heldTarget []shared.OutputChannel

	// coughTargets is the cough button's currently-active target list,
	// non-nil only while the cough channel matches Channel and cough is
	// Pressed or Held. Composition rules in ExplicitSet reference it.
	coughTargets []shared.OutputChannel
}

// NewMachine builds a Machine for channel, initially Unmuted.
func NewMachine(channel shared.FaderChannel) *Machine {
	return &Machine{
		Channel:   channel,
		State:     profile.Unmuted,
		InputLane: shared.AsInput(channel),
	}
}

// UserPress handles a fader mute button press (§4.5).
func (m *Machine) UserPress(actions profile.MuteActions) Effect {
	switch m.State {
	case profile.Unmuted:
		targets := actions.Targets(shared.ActionPress)
		m.heldTarget = targets
		m.State = profile.Pressed
		if len(targets) == 0 {
			muted := true
			return Effect{MuteToAll: &muted}
		}
		return Effect{RoutingDirty: []shared.InputChannel{m.InputLane}}
	case profile.Pressed, profile.Held:
		wasHardMute := len(m.heldTarget) == 0
		m.heldTarget = nil
		m.State = profile.Unmuted
		eff := Effect{RoutingDirty: []shared.InputChannel{m.InputLane}}
		if wasHardMute {
			unmuted := false
			eff.MuteToAll = &unmuted
		}
		return eff
	default:
		return Effect{}
	}
}

// UserHold handles a fader mute button hold (§4.5).
func (m *Machine) UserHold(actions profile.MuteActions) Effect {
	if m.State == profile.Held {
		return Effect{AlreadyHeld: true}
	}
	targets := actions.Targets(shared.ActionHold)
	m.heldTarget = targets
	m.State = profile.Held
	if len(targets) == 0 {
		muted := true
		return Effect{MuteToAll: &muted}
	}
	return Effect{RoutingDirty: []shared.InputChannel{m.InputLane}}
}

// ExplicitSet applies a caller-driven state change, composing with any
// active cough overlay on this channel (§4.5).
func (m *Machine) ExplicitSet(state profile.MuteState, actions profile.MuteActions) Effect {
	switch state {
	case profile.Unmuted:
		if m.coughTargets != nil {
			m.heldTarget = m.coughTargets
			m.State = profile.Pressed
			if len(m.coughTargets) == 0 {
				muted := true
				return Effect{MuteToAll: &muted}
			}
			return Effect{RoutingDirty: []shared.InputChannel{m.InputLane}}
		}
		m.heldTarget = nil
		m.State = profile.Unmuted
		return Effect{RoutingDirty: []shared.InputChannel{m.InputLane}}
	default:
		targets := actions.Targets(toAction(state))
		composed := union(targets, m.coughTargets)
		m.heldTarget = composed
		m.State = state
		if len(composed) == 0 {
			muted := true
			return Effect{MuteToAll: &muted}
		}
		return Effect{RoutingDirty: []shared.InputChannel{m.InputLane}}
	}
}

// SetCoughOverlay records the cough button's current target list for
// composition by ExplicitSet. Pass nil to clear it.
func (m *Machine) SetCoughOverlay(targets []shared.OutputChannel) {
	m.coughTargets = targets
}

// Overlay returns the transient routing overlay implied by the current
// state, or nil if the channel should fall back to hardware mute-to-all
// or is Unmuted.
func (m *Machine) Overlay() map[shared.RoutingOutput]codec.RouteValue {
	if m.State == profile.Unmuted {
		return nil
	}
	return overlay(m.heldTarget)
}

// MutedToAll reports whether the effective target list is empty while
// Pressed/Held, or empty-via-cough-composition while Unmuted (§4.5).
func (m *Machine) MutedToAll() bool {
	switch m.State {
	case profile.Pressed, profile.Held:
		return len(m.heldTarget) == 0
	default:
		return m.coughTargets != nil && len(m.coughTargets) == 0
	}
}

// LEDState derives the display state for a channel's mute button from its
// current mute state and the profile's inactive-button behaviour (§4.5).
func (m *Machine) LEDState(inactive shared.InactiveBehaviour) shared.DisplayState {
	switch m.State {
	case profile.Pressed:
		return shared.DisplayColour1
	case profile.Held:
		return shared.DisplayBlinking
	default:
		return inactive.Project()
	}
}

func toAction(state profile.MuteState) shared.MuteAction {
	if state == profile.Held {
		return shared.ActionHold
	}
	return shared.ActionPress
}

func union(a, b []shared.OutputChannel) []shared.OutputChannel {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	seen := make(map[shared.OutputChannel]bool, len(a)+len(b))
	out := make([]shared.OutputChannel, 0, len(a)+len(b))
	for _, c := range a {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
