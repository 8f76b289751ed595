package faders

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) Render(imagePath, text *string, label *rune, inverted bool) ([1024]byte, error) {
	f.calls++
	return [1024]byte{}, nil
}

func TestAssignIsIdempotent(t *testing.T) {
	r := &fakeRenderer{}
	m := NewManager(true, r)
	cfg := &profile.ChannelConfig{}

	a1, err := m.Assign(shared.FaderA, shared.Microphone, cfg)
	if err != nil || a1 == nil {
		t.Fatalf("first assign should produce an assignment, got %v, %v", a1, err)
	}
	a2, err := m.Assign(shared.FaderA, shared.Microphone, cfg)
	if err != nil || a2 != nil {
		t.Fatalf("second identical assign should no-op, got %v, %v", a2, err)
	}
	if r.calls != 1 {
		t.Fatalf("renderer called %d times, want 1", r.calls)
	}
}

func TestAssignSkipsScribbleOnMiniDevices(t *testing.T) {
	r := &fakeRenderer{}
	m := NewManager(false, r)
	a, err := m.Assign(shared.FaderA, shared.Microphone, &profile.ChannelConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Scribble != nil {
		t.Fatal("mini devices must not render a scribble")
	}
	if r.calls != 0 {
		t.Fatalf("renderer should not be called for mini devices, got %d calls", r.calls)
	}
}

func TestPageWrapAndInvalidIndex(t *testing.T) {
	pages := profile.Pages{Current: 2, List: make([]profile.FaderPage, 3)}
	if got := NextPage(pages); got != 0 {
		t.Fatalf("NextPage = %d, want 0", got)
	}
	if _, err := SetPage(pages, 5); err == nil {
		t.Fatal("expected error for out-of-range page")
	}
}

func TestDetectPairedPress(t *testing.T) {
	cases := []struct {
		newly   shared.Fader
		already map[shared.Fader]bool
		want    PairedButtonGesture
	}{
		{shared.FaderB, map[shared.Fader]bool{shared.FaderA: true}, GesturePrevPage},
		{shared.FaderD, map[shared.Fader]bool{shared.FaderC: true}, GestureNextPage},
		{shared.FaderA, map[shared.Fader]bool{shared.FaderC: true}, GestureNone},
	}
	for _, c := range cases {
		if got := DetectPairedPress(c.newly, c.already); got != c.want {
			t.Errorf("DetectPairedPress(%v, %v) = %v, want %v", c.newly, c.already, got, c.want)
		}
	}
}
