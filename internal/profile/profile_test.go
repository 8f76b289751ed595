package profile

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

func TestRoutingTableForbidsChatToChatMic(t *testing.T) {
	tbl := NewRoutingTable()
	tbl.Set(shared.InChat, shared.OutChatMic, true)
	if tbl.Row(shared.InChat)[shared.OutChatMic] {
		t.Fatal("expected Chat->ChatMic to remain false")
	}
}

func TestRoutingTableSetGet(t *testing.T) {
	tbl := NewRoutingTable()
	tbl.Set(shared.InMusic, shared.OutHeadphones, true)
	row := tbl.Row(shared.InMusic)
	if !row[shared.OutHeadphones] {
		t.Fatal("expected Music->Headphones to be true")
	}
	if row[shared.OutLineOut] {
		t.Fatal("expected Music->LineOut to remain false")
	}
}

func TestPagesNextPrevWrap(t *testing.T) {
	p := Pages{Current: 2, List: make([]FaderPage, 3)}
	if got := p.NextPageIndex(); got != 0 {
		t.Fatalf("NextPageIndex() = %d, want 0", got)
	}
	if got := p.PrevPageIndex(); got != 1 {
		t.Fatalf("PrevPageIndex() = %d, want 1", got)
	}
}

func TestPagesSinglePageIsFixedPoint(t *testing.T) {
	p := Pages{Current: 0, List: make([]FaderPage, 1)}
	if p.NextPageIndex() != 0 || p.PrevPageIndex() != 0 {
		t.Fatal("single-page profile must map next/prev to itself")
	}
}

func TestMuteActionsTargets(t *testing.T) {
	m := MuteActions{
		Press: []shared.OutputChannel{shared.OutHeadphones},
		Hold:  []shared.OutputChannel{shared.OutStreamMix, shared.OutLineOut},
	}
	if got := m.Targets(shared.ActionPress); len(got) != 1 || got[0] != shared.OutHeadphones {
		t.Fatalf("Targets(Press) = %v", got)
	}
	if got := m.Targets(shared.ActionHold); len(got) != 2 {
		t.Fatalf("Targets(Hold) = %v", got)
	}
}

func TestDefaultProfileInvariants(t *testing.T) {
	p := DefaultProfile()
	if !p.Pages.Valid() {
		t.Fatal("default profile pages must satisfy invariant")
	}
	if p.Channel(shared.Headphones).Volume != 255 {
		t.Fatal("default profile should set Headphones volume to full")
	}
	if p.Routing.Row(shared.InChat)[shared.OutChatMic] {
		t.Fatal("default profile must not route Chat to ChatMic")
	}
	if !p.Routing.Row(shared.InMicrophone)[shared.OutChatMic] {
		t.Fatal("default profile should route Microphone to ChatMic")
	}
}

func TestGateAttenuationDBTable(t *testing.T) {
	cases := []struct {
		percent uint8
		want    int8
	}{
		{0, 0},
		{100, -50},
	}
	for _, c := range cases {
		if got := GateAttenuationDB(c.percent); got != c.want {
			t.Errorf("GateAttenuationDB(%d) = %d, want %d", c.percent, got, c.want)
		}
	}
}

func TestGateAttenuationDBSaturatesAbove99(t *testing.T) {
	if got := GateAttenuationDB(100); got != gateAttenuationTable[25] {
		t.Fatalf("GateAttenuationDB(100) = %d, want saturated table[25] = %d", got, gateAttenuationTable[25])
	}
}

func TestDefaultMicProfileEqFrequenciesWithinWindows(t *testing.T) {
	mp := DefaultMicProfile()
	for i, b := range FullEqBands {
		f := mp.FullEq.Bands[b].Frequency
		win := FullEqFloorCeiling[i]
		if f < win[0] || f > win[1] {
			t.Errorf("default full-EQ band %d frequency %v outside floor/ceiling %v", b, f, win)
		}
	}
	for i, b := range MiniEqBands {
		f := mp.MiniEq.Bands[b].Frequency
		win := MiniEqFixedWindow[i]
		if f < win[0] || f > win[1] {
			t.Errorf("default mini-EQ band %d frequency %v outside fixed window %v", b, f, win)
		}
	}
}
