package codec

import "github.com/goxlr-daemon/goxlrd/internal/shared"

// ButtonDisplaySlots is the fixed length of the button-states wire array
// (§4.2's "button states" command).
const ButtonDisplaySlots = 24

// buttonDeviceIndex maps a Button onto its slot in the 24-entry
// button-states array, matching the pressed-bitmap order used by
// internal/interaction for the buttons both commands share.
var buttonDeviceIndex = map[shared.Button]int{
	shared.ButtonFaderAMute:         0,
	shared.ButtonFaderBMute:         1,
	shared.ButtonFaderCMute:         2,
	shared.ButtonFaderDMute:         3,
	shared.ButtonCough:              4,
	shared.ButtonEffectMegaphone:    5,
	shared.ButtonEffectRobot:        6,
	shared.ButtonEffectHardTune:     7,
	shared.ButtonEffectFx:           8,
	shared.ButtonSamplerSelectA:     9,
	shared.ButtonSamplerSelectB:     10,
	shared.ButtonSamplerSelectC:     11,
	shared.ButtonSamplerTopLeft:     12,
	shared.ButtonSamplerTopRight:    13,
	shared.ButtonSamplerBottomLeft:  14,
	shared.ButtonSamplerBottomRight: 15,
	shared.ButtonSamplerClear:       16,
}

// EncodeButtonStates packs a sparse button->DisplayState map into the
// fixed 24-byte wire array, defaulting every unspecified button to
// DisplayDimmedColour1.
func EncodeButtonStates(states map[shared.Button]shared.DisplayState) []byte {
	buf := make([]byte, ButtonDisplaySlots)
	for i := range buf {
		buf[i] = byte(shared.DisplayDimmedColour1)
	}
	for btn, state := range states {
		if idx, ok := buttonDeviceIndex[btn]; ok {
			buf[idx] = byte(state)
		}
	}
	return buf
}
