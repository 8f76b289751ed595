package interaction

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

func TestColdStartEmitsBaselineForEveryChannel(t *testing.T) {
	tr := New()
	snap := codec.ButtonSnapshot{Faders: [4]uint8{10, 20, 30, 40}}
	events := tr.Diff(snap)

	var volumeCount int
	for _, e := range events {
		if e.Kind == EventFaderVolume {
			volumeCount++
		}
	}
	if volumeCount != 4 {
		t.Fatalf("cold start volume events = %d, want 4", volumeCount)
	}
}

func TestButtonDownThenUpSequenced(t *testing.T) {
	tr := New()
	tr.Diff(codec.ButtonSnapshot{}) // cold start baseline, nothing pressed

	pressed := codec.ButtonSnapshot{PressedBitmap: 1 << buttonBit[shared.ButtonCough]}
	events := tr.Diff(pressed)
	if len(events) != 1 || events[0].Kind != EventButtonDown || events[0].Button != shared.ButtonCough {
		t.Fatalf("expected single button-down event for Cough, got %+v", events)
	}

	events = tr.Diff(codec.ButtonSnapshot{})
	if len(events) != 1 || events[0].Kind != EventButtonUp || events[0].Button != shared.ButtonCough {
		t.Fatalf("expected single button-up event for Cough, got %+v", events)
	}
}

func TestEventOrderingVolumeThenEncoderThenDownThenUp(t *testing.T) {
	tr := New()
	tr.Diff(codec.ButtonSnapshot{})

	snap := codec.ButtonSnapshot{
		Faders:        [4]uint8{1, 0, 0, 0},
		Encoders:      [4]int8{1, 0, 0, 0},
		PressedBitmap: 1 << buttonBit[shared.ButtonFaderAMute],
	}
	events := tr.Diff(snap)
	if len(events) < 3 {
		t.Fatalf("expected at least 3 events, got %d", len(events))
	}
	if events[0].Kind != EventFaderVolume {
		t.Errorf("first event kind = %v, want EventFaderVolume", events[0].Kind)
	}
	if events[1].Kind != EventEncoder {
		t.Errorf("second event kind = %v, want EventEncoder", events[1].Kind)
	}
	if events[2].Kind != EventButtonDown {
		t.Errorf("third event kind = %v, want EventButtonDown", events[2].Kind)
	}
}
