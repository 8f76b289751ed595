package device

import (
	"context"
	"time"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/faders"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// onButtonDown arms hold-tracking for btn and, for the two paired-button
// pages gesture, may synthesise a page change instead (§4.6).
func (a *Actor) onButtonDown(ctx context.Context, btn shared.Button) error {
	if fader, ok := faderForMuteButton(btn); ok && a.profile.Configuration.ChangePageWithButtons {
		alreadyDown := map[shared.Fader]bool{}
		for _, fd := range shared.Faders {
			if _, down := a.buttonDown[shared.FaderMuteButton(fd)]; down {
				alreadyDown[fd] = true
			}
		}
		switch faders.DetectPairedPress(fader, alreadyDown) {
		case faders.GesturePrevPage:
			a.markPairSkipped(fader, alreadyDown)
			return a.changePage(ctx, faders.PrevPage(a.profile.Pages))
		case faders.GestureNextPage:
			a.markPairSkipped(fader, alreadyDown)
			return a.changePage(ctx, faders.NextPage(a.profile.Pages))
		}
	}

	a.buttonDown[btn] = &buttonDownState{pressedAt: time.Now()}
	if btn == shared.ButtonCough {
		// Under Hold behaviour the hold timer is skipped; release unmutes.
		a.buttonDown[btn].skipHold = a.coughController().Behaviour == shared.CoughHold
		return a.coughPressDown(ctx)
	}
	return nil
}

// markPairSkipped marks both halves of a paired-button page gesture so
// neither one's later release triggers its ordinary mute behaviour.
func (a *Actor) markPairSkipped(newlyDown shared.Fader, alreadyDown map[shared.Fader]bool) {
	for f, down := range alreadyDown {
		if down {
			a.buttonDown[shared.FaderMuteButton(f)].skipHold = true
		}
	}
	a.buttonDown[shared.FaderMuteButton(newlyDown)] = &buttonDownState{pressedAt: time.Now(), skipHold: true}
}

// onButtonUp fires the press handler for a fader mute button or the
// cough button, unless the press was absorbed by a paired-page gesture.
func (a *Actor) onButtonUp(ctx context.Context, btn shared.Button) error {
	st, tracked := a.buttonDown[btn]
	delete(a.buttonDown, btn)
	if tracked && st.skipHold && btn != shared.ButtonCough {
		return nil
	}
	if tracked && st.handled {
		// Hold already fired; release is absorbed (§4.5's "already-held,
		// skip release").
		return nil
	}

	if btn == shared.ButtonCough {
		return a.coughRelease(ctx)
	}
	if fader, ok := faderForMuteButton(btn); ok {
		ch := a.profile.Pages.Active().Channel(fader)
		return a.applyMuteEffect(ctx, ch, a.mutes[ch].UserPress(a.profile.Channel(ch).MuteActions))
	}
	return nil
}

// onButtonHold handles check_held synthesising a Hold event.
func (a *Actor) onButtonHold(btn shared.Button) {
	if fader, ok := faderForMuteButton(btn); ok {
		ch := a.profile.Pages.Active().Channel(fader)
		// Hold effects can require USB I/O (routing re-upload); run them
		// with a background context since check_held has no caller to
		// propagate cancellation from.
		_ = a.applyMuteEffect(context.Background(), ch, a.mutes[ch].UserHold(a.profile.Channel(ch).MuteActions))
		return
	}
	if btn == shared.ButtonCough {
		a.coughController().Hold()
		_ = a.refreshCoughOverlay(context.Background())
	}
}

func faderForMuteButton(btn shared.Button) (shared.Fader, bool) {
	switch btn {
	case shared.ButtonFaderAMute:
		return shared.FaderA, true
	case shared.ButtonFaderBMute:
		return shared.FaderB, true
	case shared.ButtonFaderCMute:
		return shared.FaderC, true
	case shared.ButtonFaderDMute:
		return shared.FaderD, true
	default:
		return 0, false
	}
}

// changePage re-assigns all four faders to the target page's channels,
// then pushes a combined colour map and button-state apply (§4.6).
func (a *Actor) changePage(ctx context.Context, index int) error {
	a.profile.Pages.Current = index
	page := a.profile.Pages.Active()
	for _, f := range shared.Faders {
		if err := a.assignFader(ctx, f, page.Channel(f)); err != nil {
			return err
		}
	}
	if err := a.applyColourMap(ctx); err != nil {
		return err
	}
	return a.applyButtonStates(ctx)
}

// assignFader performs the idempotent fader-assignment sequence (§4.6).
func (a *Actor) assignFader(ctx context.Context, fader shared.Fader, source shared.FaderChannel) error {
	cfg := a.profile.Channel(source)
	assignment, err := a.faders.Assign(fader, source, cfg)
	if err != nil {
		return err
	}
	if assignment == nil {
		return nil
	}

	data := codec.Int32Value(int32(codec.ChannelIndex[source]))
	if _, err := a.transport.Send(ctx, codec.CommandID(codec.OpFaderAssignment, uint8(fader)), data[:]); err != nil {
		return err
	}

	style := []byte{0, 0}
	if assignment.DisplayStyle.Contains(profile.DisplayGradient) {
		style[0] = 1
	}
	if assignment.DisplayStyle.Contains(profile.DisplayMeter) {
		style[1] = 1
	}
	if _, err := a.transport.Send(ctx, codec.CommandID(codec.OpFaderDisplayStyle, uint8(fader)), style); err != nil {
		return err
	}

	a.updateFaderColours(fader, assignment)
	if assignment.Scribble != nil {
		if _, err := a.transport.Send(ctx, codec.CommandID(codec.OpScribbleImage, uint8(fader)), assignment.Scribble[:]); err != nil {
			return err
		}
	}
	return nil
}

// updateFaderColours mirrors a freshly assigned channel's display colours
// into the cached colour scheme, ready for the next applyColourMap.
func (a *Actor) updateFaderColours(fader shared.Fader, assignment *faders.Assignment) {
	a.colour.Faders[fader] = codec.FaderColour{
		Colour1: assignment.DisplayStyle.FaderColours.TopColour,
		Colour2: assignment.DisplayStyle.FaderColours.BottomColour,
	}
	a.colour.Mutes[fader] = codec.TwoColour{
		Colour1: assignment.DisplayStyle.MuteColours.ActiveColour,
		Colour2: assignment.DisplayStyle.MuteColours.InactiveColour,
	}
	a.colour.Scribbles[fader] = codec.TwoColour{
		Colour1: assignment.DisplayStyle.Screen.Colour,
		Colour2: assignment.DisplayStyle.Screen.Colour,
	}
}
