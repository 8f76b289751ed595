// Package interaction diffs raw device snapshots into Down/Up/Change
// events (C3): the Device Actor feeds it every poll tick's button/fader/
// encoder snapshot and receives a deterministic event sequence.
package interaction

import (
	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// EventKind distinguishes the four event shapes emitted per snapshot.
type EventKind int

const (
	EventFaderVolume EventKind = iota
	EventEncoder
	EventButtonDown
	EventButtonUp
)

// Event is a single diffed interaction, tagged by kind with only the
// relevant fields populated.
type Event struct {
	Kind     EventKind
	Fader    shared.Fader
	Encoder  shared.Encoder
	Button   shared.Button
	Volume   uint8
	EncoderΔ int8
}

// buttonBit maps each tracked Button onto its bit position in the
// pressed-button bitmap, matching device firmware order. Only the nine
// mute/cough/effect buttons plus sampler buttons participate; unlisted
// buttons are never reported by the device and are ignored on decode.
var buttonBit = map[shared.Button]uint{
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

// trackedButtons lists every Button tested on each snapshot, in a stable
// order so button-down/button-up events are emitted deterministically.
var trackedButtons = []shared.Button{
	shared.ButtonFaderAMute, shared.ButtonFaderBMute, shared.ButtonFaderCMute, shared.ButtonFaderDMute,
	shared.ButtonCough,
	shared.ButtonEffectMegaphone, shared.ButtonEffectRobot, shared.ButtonEffectHardTune, shared.ButtonEffectFx,
	shared.ButtonSamplerSelectA, shared.ButtonSamplerSelectB, shared.ButtonSamplerSelectC,
	shared.ButtonSamplerTopLeft, shared.ButtonSamplerTopRight, shared.ButtonSamplerBottomLeft, shared.ButtonSamplerBottomRight,
	shared.ButtonSamplerClear,
}

// Tracker owns the previous snapshot and diffs each new one against it.
type Tracker struct {
	havePrevious bool
	pressed      map[shared.Button]bool
	faders       [4]uint8
	encoders     [4]int8
}

// New builds an empty Tracker. The first snapshot fed to it is treated as
// a cold start and reports every channel's initial value (§4.3).
func New() *Tracker {
	return &Tracker{pressed: make(map[shared.Button]bool, len(trackedButtons))}
}

// Diff feeds one raw snapshot through the tracker, returning events in
// the fixed order: volume changes, encoder changes, button-down,
// button-up.
func (t *Tracker) Diff(snapshot codec.ButtonSnapshot) []Event {
	var events []Event
	coldStart := !t.havePrevious

	for i := 0; i < 4; i++ {
		if coldStart || snapshot.Faders[i] != t.faders[i] {
			events = append(events, Event{Kind: EventFaderVolume, Fader: shared.Fader(i), Volume: snapshot.Faders[i]})
		}
	}
	for i := 0; i < 4; i++ {
		if coldStart || snapshot.Encoders[i] != t.encoders[i] {
			events = append(events, Event{Kind: EventEncoder, Encoder: shared.Encoder(i), EncoderΔ: snapshot.Encoders[i]})
		}
	}

	var downs, ups []Event
	for _, b := range trackedButtons {
		bit := buttonBit[b]
		isPressed := snapshot.PressedBitmap&(1<<bit) != 0
		wasPressed := t.pressed[b]
		if coldStart {
			if isPressed {
				downs = append(downs, Event{Kind: EventButtonDown, Button: b})
			}
			continue
		}
		if isPressed && !wasPressed {
			downs = append(downs, Event{Kind: EventButtonDown, Button: b})
		} else if !isPressed && wasPressed {
			ups = append(ups, Event{Kind: EventButtonUp, Button: b})
		}
		t.pressed[b] = isPressed
	}
	if coldStart {
		for _, b := range trackedButtons {
			t.pressed[b] = snapshot.PressedBitmap&(1<<buttonBit[b]) != 0
		}
	}

	events = append(events, downs...)
	events = append(events, ups...)

	t.faders = snapshot.Faders
	t.encoders = snapshot.Encoders
	t.havePrevious = true
	return events
}
