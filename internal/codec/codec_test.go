package codec

import (
	"math"
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

func fullRow(v RouteValue) Row {
	row := make(Row, len(shared.RoutingOutputs))
	for _, out := range shared.RoutingOutputs {
		row[out] = v
	}
	return row
}

func TestRoutingRowRoundTrip(t *testing.T) {
	val20, err := Value(20)
	if err != nil {
		t.Fatal(err)
	}
	left := fullRow(On)
	right := fullRow(Off)
	left[shared.RouteChatMic] = val20

	buf := EncodeRoutingRow(left, right)
	if len(buf) != RoutingRowSize {
		t.Fatalf("encoded row length = %d, want %d", len(buf), RoutingRowSize)
	}

	gotLeft, gotRight, err := DecodeRoutingRow(buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, out := range shared.RoutingOutputs {
		if gotLeft[out] != left[out] {
			t.Errorf("left[%v] = %+v, want %+v", out, gotLeft[out], left[out])
		}
		if out != shared.RouteHardTune && gotRight[out] != right[out] {
			t.Errorf("right[%v] = %+v, want %+v", out, gotRight[out], right[out])
		}
	}
}

func TestValueRejectsAboveThirtyTwo(t *testing.T) {
	if _, err := Value(33); err == nil {
		t.Fatal("expected error for routing value > 32")
	}
}

func TestColourMapLengthConstantPerFirmwareClass(t *testing.T) {
	var scheme ColourScheme
	legacy := EncodeColourMap(scheme, false)
	animated := EncodeColourMap(scheme, true)

	if len(legacy) != ColourMapLength(false) {
		t.Errorf("legacy length = %d, want %d", len(legacy), ColourMapLength(false))
	}
	if len(animated) != ColourMapLength(true) {
		t.Errorf("animated length = %d, want %d", len(animated), ColourMapLength(true))
	}
	if len(animated) <= len(legacy) {
		t.Error("animation-capable colour map must be longer than legacy")
	}
}

func TestFullEqFrequencyEncodeMatchesScenario(t *testing.T) {
	// End-to-end scenario 7: round(24*log2(10000/20)) = round(24*log2(500)) = 215.
	got := EncodeFullEqFrequency(10000)
	if got != 215 {
		t.Fatalf("EncodeFullEqFrequency(10000) = %d, want 215", got)
	}
}

func TestFullEqFrequencyRoundTripApprox(t *testing.T) {
	for _, hz := range []float64{31, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000} {
		enc := EncodeFullEqFrequency(hz)
		dec := DecodeFullEqFrequency(enc)
		if math.Abs(dec-hz) > hz*(math.Pow(2, 1.0/48)-1) {
			t.Errorf("round trip for %v Hz = %v Hz, too far off", hz, dec)
		}
	}
}

func TestDecodeMicLevelClampsRange(t *testing.T) {
	if got := DecodeMicLevel(0); got != -72.2 {
		t.Errorf("DecodeMicLevel(0) = %v, want -72.2", got)
	}
	if got := DecodeMicLevel(65535); got > 0 {
		t.Errorf("DecodeMicLevel(65535) = %v, want <= 0", got)
	}
}

func TestDecodeButtonSnapshotRejectsWrongLength(t *testing.T) {
	if _, err := DecodeButtonSnapshot(make([]byte, 11)); err == nil {
		t.Fatal("expected error for short button snapshot")
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{CommandID: CommandID(OpRoutingWrite, 3), BodyLen: 4, CommandIndex: 7}
	body := []byte{1, 2, 3, 4}
	frame := h.Encode(body)

	gotHeader, gotBody, err := DecodeHeader(frame)
	if err != nil {
		t.Fatal(err)
	}
	if gotHeader != h {
		t.Errorf("decoded header = %+v, want %+v", gotHeader, h)
	}
	if string(gotBody) != string(body) {
		t.Errorf("decoded body = %v, want %v", gotBody, body)
	}
}
