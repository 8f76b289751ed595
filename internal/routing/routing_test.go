package routing

import (
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

func TestSetForbidsChatToChatMic(t *testing.T) {
	m := New()
	changed := m.Set(shared.InChat, shared.OutChatMic, true)
	if changed {
		t.Fatal("Set should report no change for the forbidden pair")
	}
	if m.Get(shared.InChat, shared.OutChatMic) {
		t.Fatal("Chat->ChatMic must remain false")
	}
}

func TestSetReturnsChangedOnlyOnActualChange(t *testing.T) {
	m := New()
	if !m.Set(shared.InMusic, shared.OutHeadphones, true) {
		t.Fatal("first Set to a new value should report changed")
	}
	if m.Set(shared.InMusic, shared.OutHeadphones, true) {
		t.Fatal("repeated Set with the same value should report unchanged")
	}
}

func TestToRoutingRowReflectsProfile(t *testing.T) {
	m := New()
	m.Set(shared.InMicrophone, shared.OutChatMic, true)
	row := m.ToRoutingRow(shared.InMicrophone, nil)
	if row[shared.RouteChatMic] != codec.On {
		t.Errorf("routing row ChatMic = %+v, want On", row[shared.RouteChatMic])
	}
	if row[shared.RouteStreamMix] != codec.Off {
		t.Errorf("routing row StreamMix = %+v, want Off", row[shared.RouteStreamMix])
	}
	if row[shared.RouteHardTune] != codec.Off {
		t.Errorf("routing row HardTune = %+v, want Off with no overlay", row[shared.RouteHardTune])
	}
}

func TestToRoutingRowOverlayOverridesProfile(t *testing.T) {
	m := New()
	m.Set(shared.InMicrophone, shared.OutStreamMix, true)
	overlay := map[shared.RoutingOutput]codec.RouteValue{shared.RouteStreamMix: codec.Off}
	row := m.ToRoutingRow(shared.InMicrophone, overlay)
	if row[shared.RouteStreamMix] != codec.Off {
		t.Errorf("overlay should force StreamMix Off, got %+v", row[shared.RouteStreamMix])
	}
}
