package profilestore

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
)

func TestLoadUnseenSerialReturnsDefaults(t *testing.T) {
	s := New(t.TempDir())

	p, mp, err := s.Load("SERIAL1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := profile.DefaultProfile()
	if len(p.Channels) != len(want.Channels) {
		t.Fatalf("expected default profile channel count %d, got %d", len(want.Channels), len(p.Channels))
	}
	if mp == nil {
		t.Fatal("expected a non-nil default mic profile")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := New(t.TempDir())

	p := profile.DefaultProfile()
	p.Configuration.ButtonHoldTimeMs = 777
	mp := profile.DefaultMicProfile()

	if err := s.Save("SERIAL2", p, mp); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gotP, _, err := s.Load("SERIAL2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if gotP.Configuration.ButtonHoldTimeMs != 777 {
		t.Fatalf("expected persisted ButtonHoldTimeMs 777, got %d", gotP.Configuration.ButtonHoldTimeMs)
	}
}

func TestLoadIsIndependentPerSerial(t *testing.T) {
	s := New(t.TempDir())

	p := profile.DefaultProfile()
	p.Configuration.ButtonHoldTimeMs = 111
	if err := s.Save("SERIAL-A", p, profile.DefaultMicProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other, _, err := s.Load("SERIAL-B")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if other.Configuration.ButtonHoldTimeMs == 111 {
		t.Fatal("expected SERIAL-B to be unaffected by SERIAL-A's saved profile")
	}
}
