package device

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
	"github.com/goxlr-daemon/goxlrd/internal/transport"
)

// fakeBackend is an in-memory transport.Backend that always echoes the
// command index it was sent, mirroring internal/transport's own test
// fake closely enough to drive a real Transport end to end.
type fakeBackend struct {
	class  transport.DeviceClass
	writes [][]byte
	last   []byte
}

func (f *fakeBackend) WriteVendorControl(request uint8, value, index uint16, data []byte) error {
	f.writes = append(f.writes, append([]byte(nil), data...))
	f.last = append([]byte(nil), data...)
	return nil
}

func (f *fakeBackend) WriteClassControl(request uint8, value, index uint16, data []byte) error {
	return nil
}

func (f *fakeBackend) ReadVendorControl(request uint8, value, index uint16, length int) ([]byte, error) {
	hdr, body, err := codec.DecodeHeader(f.last)
	if err != nil {
		return make([]byte, length), nil
	}
	respHeader := codec.Header{CommandID: hdr.CommandID, BodyLen: uint16(len(body)), CommandIndex: hdr.CommandIndex}
	return respHeader.Encode(body), nil
}

func (f *fakeBackend) ClaimInterface(int) error          { return nil }
func (f *fakeBackend) ReleaseInterface(int) error        { return nil }
func (f *fakeBackend) ResetDevice() error                { return nil }
func (f *fakeBackend) DeviceClass() transport.DeviceClass { return f.class }
func (f *fakeBackend) Close() error                      { return nil }

type fakeRenderer struct{}

func (fakeRenderer) Render(imagePath, text *string, label *rune, inverted bool) ([1024]byte, error) {
	return [1024]byte{}, nil
}

func testProfile() *profile.Profile {
	p := &profile.Profile{
		Routing: profile.NewRoutingTable(),
		Pages: profile.Pages{
			Current: 0,
			List: []profile.FaderPage{
				{Assignments: [4]shared.FaderChannel{shared.Microphone, shared.Music, shared.Game, shared.Chat}},
				{Assignments: [4]shared.FaderChannel{shared.System, shared.Console, shared.LineIn, shared.Sample}},
			},
		},
		Configuration: profile.Configuration{ButtonHoldTimeMs: 500, ChangePageWithButtons: true},
		Cough: profile.Cough{
			ChannelAssignment: shared.Microphone,
			CoughBehaviour:    shared.CoughHold,
			MuteActions:       profile.MuteActions{Press: []shared.OutputChannel{shared.OutStreamMix}},
		},
	}
	for _, c := range shared.FaderChannels {
		p.Channel(c).Volume = 255
		p.Channel(c).MuteActions = profile.MuteActions{Press: []shared.OutputChannel{shared.OutStreamMix}}
	}
	return p
}

func testActor() (*Actor, *fakeBackend) {
	backend := &fakeBackend{class: transport.ClassFull}
	tr := transport.New(backend)
	p := testProfile()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := New("TESTSERIAL", tr, p, &profile.MicProfile{}, fakeRenderer{}, logger)
	return a, backend
}

func TestLoadProfileSucceeds(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatalf("LoadProfile() = %v, want nil", err)
	}
	if ch, ok := a.faders.Current(shared.FaderA); !ok || ch != shared.Microphone {
		t.Fatalf("fader A not assigned to Microphone after load, got %v, %v", ch, ok)
	}
}

func TestSetVolumeUpdatesProfileAndSendsWire(t *testing.T) {
	a, backend := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := len(backend.writes)

	if _, err := SetVolume(shared.Music, 128)(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.profile.Channel(shared.Music).Volume != 128 {
		t.Fatalf("profile volume = %d, want 128", a.profile.Channel(shared.Music).Volume)
	}
	if len(backend.writes) != n+1 {
		t.Fatalf("expected exactly one new wire write, got %d new", len(backend.writes)-n)
	}
}

func TestSetMuteStatePressedThenUnmuted(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := SetMuteState(shared.Music, profile.Pressed)(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.mutes[shared.Music].State != profile.Pressed {
		t.Fatalf("mute state = %v, want Pressed", a.mutes[shared.Music].State)
	}

	if _, err := SetMuteState(shared.Music, profile.Unmuted)(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.mutes[shared.Music].State != profile.Unmuted {
		t.Fatalf("mute state = %v, want Unmuted", a.mutes[shared.Music].State)
	}
}

func TestSetRoutingNoOpWhenUnchanged(t *testing.T) {
	a, backend := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := len(backend.writes)
	if _, err := SetRouting(shared.InMicrophone, shared.OutHeadphones, false)(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if len(backend.writes) != n {
		t.Fatalf("expected no new writes for a no-op routing set, got %d new", len(backend.writes)-n)
	}
}

func TestSetRoutingUploadsRowOnChange(t *testing.T) {
	a, backend := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := len(backend.writes)
	if _, err := SetRouting(shared.InMicrophone, shared.OutHeadphones, true)(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if len(backend.writes) != n+1 {
		t.Fatalf("expected exactly one new wire write, got %d new", len(backend.writes)-n)
	}
	if !a.routing.Get(shared.InMicrophone, shared.OutHeadphones) {
		t.Fatal("routing matrix not updated")
	}
}

func TestNextPrevPageWraps(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := NextPage()(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.profile.Pages.Current != 1 {
		t.Fatalf("Pages.Current = %d, want 1", a.profile.Pages.Current)
	}

	if _, err := NextPage()(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.profile.Pages.Current != 0 {
		t.Fatalf("Pages.Current = %d, want 0 after wrap", a.profile.Pages.Current)
	}

	if _, err := PrevPage()(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.profile.Pages.Current != 1 {
		t.Fatalf("Pages.Current = %d, want 1 after wrap-back", a.profile.Pages.Current)
	}
}

func TestPairedButtonGestureChangesPageWithoutFiringMute(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := a.onButtonDown(ctx, shared.ButtonFaderAMute); err != nil {
		t.Fatal(err)
	}
	if err := a.onButtonDown(ctx, shared.ButtonFaderBMute); err != nil {
		t.Fatal(err)
	}
	if a.profile.Pages.Current != 1 {
		t.Fatalf("Pages.Current = %d, want 1 after A+B paired press", a.profile.Pages.Current)
	}

	micBefore := a.mutes[shared.Music].State
	if err := a.onButtonUp(ctx, shared.ButtonFaderAMute); err != nil {
		t.Fatal(err)
	}
	if err := a.onButtonUp(ctx, shared.ButtonFaderBMute); err != nil {
		t.Fatal(err)
	}
	if a.mutes[shared.Music].State != micBefore {
		t.Fatal("paired-page release must not trigger a mute toggle")
	}
}

func TestOrdinaryButtonPressTogglesMute(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	ch := a.profile.Pages.Active().Channel(shared.FaderA)
	if err := a.onButtonDown(ctx, shared.ButtonFaderAMute); err != nil {
		t.Fatal(err)
	}
	if err := a.onButtonUp(ctx, shared.ButtonFaderAMute); err != nil {
		t.Fatal(err)
	}
	if a.mutes[ch].State != profile.Pressed {
		t.Fatalf("mute state = %v, want Pressed after a single press/release", a.mutes[ch].State)
	}
}

func TestCoughHoldThenReleaseSkipsOrdinaryRelease(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := a.onButtonDown(ctx, shared.ButtonCough); err != nil {
		t.Fatal(err)
	}
	if !a.buttonDown[shared.ButtonCough].skipHold {
		t.Fatal("cough button-down with Hold behaviour must set skipHold")
	}
	a.onButtonHold(shared.ButtonCough)
	if a.coughController().State != profile.Held {
		t.Fatalf("cough state = %v, want Held", a.coughController().State)
	}
	if err := a.onButtonUp(ctx, shared.ButtonCough); err != nil {
		t.Fatal(err)
	}
	if a.coughController().State != profile.Unmuted {
		t.Fatalf("cough state = %v, want Unmuted after release", a.coughController().State)
	}
}

func TestGetStatusReflectsLoadedProfile(t *testing.T) {
	a, _ := testActor()
	if err := a.LoadProfile(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, err := GetStatus()(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	status := v.(Status)
	if status.Serial != "TESTSERIAL" {
		t.Fatalf("Serial = %q, want TESTSERIAL", status.Serial)
	}
	if status.FaderVolume[shared.Microphone] != 255 {
		t.Fatalf("FaderVolume[Microphone] = %d, want 255", status.FaderVolume[shared.Microphone])
	}
}

func TestSubmitDeliversResultAndRespectsCancellation(t *testing.T) {
	commands := make(chan Command)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Submit(ctx, commands, func(context.Context, *Actor) (any, error) { return nil, nil }); err == nil {
		t.Fatal("Submit on a cancelled context with no receiver should return an error")
	}
}
