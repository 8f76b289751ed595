package mic

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
)

func newController() *Controller {
	return &Controller{Profile: profile.DefaultMicProfile()}
}

// Scenario 6: SetGateThreshold(-42) uploads Effect then Param.
func TestSetGateThresholdUploadsBothPipes(t *testing.T) {
	c := newController()
	uploads, err := c.SetGateThreshold(-42)
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 2 || uploads[0].Pipe != PipeEffect || uploads[1].Pipe != PipeParam {
		t.Fatalf("uploads = %+v, want [Effect, Param]", uploads)
	}
	if uploads[0].Int != -42 || uploads[1].Float != -42 {
		t.Errorf("uploads = %+v, want -42 on both pipes", uploads)
	}
	if c.Profile.Gate.Threshold != -42 {
		t.Errorf("profile threshold = %d, want -42", c.Profile.Gate.Threshold)
	}
}

func TestSetGateThresholdRejectsOutOfRange(t *testing.T) {
	c := newController()
	before := c.Profile.Gate.Threshold
	if _, err := c.SetGateThreshold(1); err == nil {
		t.Fatal("expected OutOfRange for threshold above 0")
	}
	if c.Profile.Gate.Threshold != before {
		t.Fatal("profile must be unchanged after a rejected setter")
	}
}

// Scenario 7, first case: adjacent 2k at 1800 rejects 1k=10000.
func TestSetFullEqFrequencyRejectsCrossingNeighbour(t *testing.T) {
	c := newController()
	c.Profile.FullEq.Bands[profile.Eq2kHz].Frequency = 1800

	before := c.Profile.FullEq.Bands[profile.Eq1kHz].Frequency
	_, err := c.SetFullEqFrequency(profile.Eq1kHz, 10000)
	if err == nil {
		t.Fatal("expected OutOfRange when new frequency would exceed the neighbour's")
	}
	if c.Profile.FullEq.Bands[profile.Eq1kHz].Frequency != before {
		t.Fatal("profile must be unchanged after a rejected frequency setter")
	}
}

// Scenario 7, second case: 2k at 12000 accepts 1k=10000, encodes to 215
// (round(24*log2(10000/20))).
func TestSetFullEqFrequencyAcceptsWithinWindow(t *testing.T) {
	c := newController()
	c.Profile.FullEq.Bands[profile.Eq2kHz].Frequency = 12000

	uploads, err := c.SetFullEqFrequency(profile.Eq1kHz, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if uploads[0].Int != 215 {
		t.Errorf("encoded frequency = %d, want 215", uploads[0].Int)
	}
	if c.Profile.FullEq.Bands[profile.Eq1kHz].Frequency != 10000 {
		t.Error("profile should reflect the accepted frequency")
	}
}

func TestSetMicrophoneTypeTogglesPhantomFlag(t *testing.T) {
	c := newController()
	c.Profile.Gains.PhantomGain = 200

	uploads := c.SetMicrophoneType(profile.MicPhantom)
	if uploads[0].Int != 1 {
		t.Errorf("phantom flag = %d, want 1", uploads[0].Int)
	}
	if uploads[1].Int != 200 {
		t.Errorf("gain upload = %d, want 200", uploads[1].Int)
	}
}

func TestGateAttenuationSaturationAnomaly(t *testing.T) {
	// §9 open question: preserve the table mapping even past the nominal
	// 0-100% input range; percent > 99 saturates at table index 25.
	c := newController()
	uploads, err := c.SetGateAttenuation(100)
	if err != nil {
		t.Fatal(err)
	}
	if uploads[0].Int != -50 {
		t.Errorf("saturated attenuation dB = %d, want -50 (table[25])", uploads[0].Int)
	}
}
