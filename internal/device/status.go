package device

import (
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// snapshot builds the point-in-time Status the Supervisor round-trips
// into its aggregated status object (§4.9). It reads only the in-memory
// profile and mute machines — no USB I/O.
func (a *Actor) snapshot() Status {
	s := Status{
		Serial:      a.Serial,
		DeviceClass: a.transport.DeviceClass(),
		FaderVolume: make(map[shared.FaderChannel]uint8, len(shared.FaderChannels)),
		MuteState:   make(map[shared.FaderChannel]profile.MuteState, len(shared.FaderChannels)),
		ActivePage:  a.profile.Pages.Current,
		Profile:     a.profile,
		MicProfile:  a.micCtl.Profile,
	}
	for _, c := range shared.FaderChannels {
		s.FaderVolume[c] = a.profile.Channel(c).Volume
		s.MuteState[c] = a.mutes[c].State
	}
	return s
}
