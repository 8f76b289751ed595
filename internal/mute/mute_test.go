package mute

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// Scenario 2: press with configured per-output targets overlays routing,
// no hardware mute.
func TestUserPressWithTargetsOverlaysRouting(t *testing.T) {
	m := NewMachine(shared.Microphone)
	actions := profile.MuteActions{Press: []shared.OutputChannel{shared.OutStreamMix, shared.OutChatMic}}

	eff := m.UserPress(actions)
	if eff.MuteToAll != nil {
		t.Fatal("expected no device-level mute when press targets are configured")
	}
	if len(eff.RoutingDirty) != 1 || eff.RoutingDirty[0] != shared.InMicrophone {
		t.Fatalf("expected routing dirty for Microphone lane, got %v", eff.RoutingDirty)
	}
	if m.State != profile.Pressed {
		t.Fatalf("state = %v, want Pressed", m.State)
	}
	ov := m.Overlay()
	if ov[shared.RouteStreamMix].Kind != 0 {
		t.Errorf("expected StreamMix forced Off in overlay")
	}
}

// Scenario 3: press with empty target list issues hardware mute-to-all.
func TestUserPressWithNoTargetsMutesToAll(t *testing.T) {
	m := NewMachine(shared.Microphone)
	eff := m.UserPress(profile.MuteActions{})
	if eff.MuteToAll == nil || !*eff.MuteToAll {
		t.Fatal("expected device-level mute-to-all")
	}
	if !m.MutedToAll() {
		t.Fatal("MutedToAll() should report true")
	}
}

// Scenario 4: second press while Pressed restores Unmuted and clears the
// hardware mute.
func TestSecondPressRestoresUnmuted(t *testing.T) {
	m := NewMachine(shared.Microphone)
	m.UserPress(profile.MuteActions{})
	eff := m.UserPress(profile.MuteActions{})
	if eff.MuteToAll == nil || *eff.MuteToAll {
		t.Fatal("expected device-level unmute on second press")
	}
	if m.State != profile.Unmuted {
		t.Fatalf("state = %v, want Unmuted", m.State)
	}
}

func TestUserHoldAlreadyHeldSkipsRelease(t *testing.T) {
	m := NewMachine(shared.Microphone)
	m.UserHold(profile.MuteActions{Hold: []shared.OutputChannel{shared.OutHeadphones}})
	eff := m.UserHold(profile.MuteActions{Hold: []shared.OutputChannel{shared.OutHeadphones}})
	if !eff.AlreadyHeld {
		t.Fatal("expected AlreadyHeld on repeated hold")
	}
}

func TestExplicitSetUnmutedComposesWithCough(t *testing.T) {
	m := NewMachine(shared.Microphone)
	m.SetCoughOverlay([]shared.OutputChannel{shared.OutChatMic})
	eff := m.ExplicitSet(profile.Unmuted, profile.MuteActions{})
	if m.State != profile.Pressed {
		t.Fatalf("state = %v, want Pressed (cough overlay still active)", m.State)
	}
	if len(eff.RoutingDirty) != 1 {
		t.Fatal("expected routing dirty when cough composition keeps the channel overlaid")
	}
}

// An empty (but cough-active) target list composed onto Unmuted must
// hardware-mute everything, matching the default profile's zero-value
// Cough.MuteActions — not silently no-op.
func TestExplicitSetUnmutedWithEmptyCoughMutesToAll(t *testing.T) {
	m := NewMachine(shared.Microphone)
	m.SetCoughOverlay([]shared.OutputChannel{})
	eff := m.ExplicitSet(profile.Unmuted, profile.MuteActions{})
	if eff.MuteToAll == nil || !*eff.MuteToAll {
		t.Fatal("expected device-level mute-to-all when cough composes to an empty target list")
	}
	if m.State != profile.Pressed {
		t.Fatalf("state = %v, want Pressed (cough overlay active)", m.State)
	}
}

func TestExplicitSetUnmutedClearsWhenNoCough(t *testing.T) {
	m := NewMachine(shared.Microphone)
	m.ExplicitSet(profile.Unmuted, profile.MuteActions{})
	if m.State != profile.Unmuted {
		t.Fatalf("state = %v, want Unmuted", m.State)
	}
}

func TestLEDStateDerivation(t *testing.T) {
	m := NewMachine(shared.Microphone)
	if got := m.LEDState(shared.DimActive); got != shared.DisplayDimmedColour1 {
		t.Errorf("Unmuted LED = %v, want DisplayDimmedColour1", got)
	}
	m.State = profile.Pressed
	if got := m.LEDState(shared.DimActive); got != shared.DisplayColour1 {
		t.Errorf("Pressed LED = %v, want DisplayColour1", got)
	}
	m.State = profile.Held
	if got := m.LEDState(shared.DimActive); got != shared.DisplayBlinking {
		t.Errorf("Held LED = %v, want DisplayBlinking", got)
	}
}

func TestCoughControllerHoldBehaviour(t *testing.T) {
	c := &CoughController{Behaviour: shared.CoughHold}
	c.PressDown()
	if c.State != profile.Pressed {
		t.Fatalf("state = %v, want Pressed", c.State)
	}
	c.Release()
	if c.State != profile.Unmuted {
		t.Fatalf("state = %v, want Unmuted after release", c.State)
	}
}

func TestCoughControllerToggleBehaviour(t *testing.T) {
	c := &CoughController{Behaviour: shared.CoughToggle}
	c.PressDown()
	if c.State != profile.Pressed {
		t.Fatalf("state = %v, want Pressed", c.State)
	}
	c.Release() // toggle mode ignores release
	if c.State != profile.Pressed {
		t.Fatalf("state = %v, want unchanged Pressed", c.State)
	}
	c.PressDown()
	if c.State != profile.Unmuted {
		t.Fatalf("state = %v, want Unmuted after second toggle press", c.State)
	}
}
