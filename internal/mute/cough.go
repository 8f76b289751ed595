package mute

import (
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// CoughController drives the dedicated cough button, which behaves either
// as a momentary hold or a toggle depending on the profile's configured
// CoughBehaviour (§4.5).
type CoughController struct {
	Behaviour shared.CoughBehaviour
	State     profile.MuteState
}

// PressDown handles the cough button going down. Under CoughHold it only
// arms the Pressed state; the hold timer is skipped entirely. Under
// CoughToggle it flips between Pressed and Unmuted.
func (c *CoughController) PressDown() {
	if c.Behaviour == shared.CoughHold {
		c.State = profile.Pressed
		return
	}
	if c.State == profile.Unmuted {
		c.State = profile.Pressed
	} else {
		c.State = profile.Unmuted
	}
}

// Release handles the cough button coming back up; it only has an effect
// under CoughHold behaviour (press-up unmutes).
func (c *CoughController) Release() {
	if c.Behaviour == shared.CoughHold {
		c.State = profile.Unmuted
	}
}

// Hold handles the button being held past the hold threshold, producing
// Held under either behaviour.
func (c *CoughController) Hold() {
	c.State = profile.Held
}
