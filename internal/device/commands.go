package device

import (
	"context"
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/faders"
	"github.com/goxlr-daemon/goxlrd/internal/mic"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// The functions in this file build Command.Op closures for the IPC layer
// (§6): each one captures its request parameters and, run on the
// actor's own goroutine via Submit, mutates the profile/caches and
// issues whatever USB commands the change requires.

// SetVolume sets a channel's fader volume.
func SetVolume(ch shared.FaderChannel, volume uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		a.profile.Channel(ch).Volume = volume
		return a.sendChannelVolume(ctx, ch, volume)
	}
}

// SetMuteState explicitly sets a channel's mute state (§4.5's
// ExplicitSet).
func SetMuteState(ch shared.FaderChannel, state profile.MuteState) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		eff := a.mutes[ch].ExplicitSet(state, a.profile.Channel(ch).MuteActions)
		return nil, a.applyMuteEffect(ctx, ch, eff)
	}
}

// SetRouting sets one routing cell and, if it actually changed,
// re-uploads that input's row.
func SetRouting(input shared.InputChannel, output shared.OutputChannel, value bool) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		a.profile.Routing.Set(input, output, value)
		if !a.routing.Set(input, output, value) {
			return nil, nil
		}
		return nil, a.uploadRoutingRow(ctx, input)
	}
}

// SetPage selects a fader page by index, validating it first.
func SetPage(index int) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		validated, err := faders.SetPage(a.profile.Pages, index)
		if err != nil {
			return nil, err
		}
		return nil, a.changePage(ctx, validated)
	}
}

// NextPage advances to the next fader page, wrapping.
func NextPage() func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.changePage(ctx, faders.NextPage(a.profile.Pages))
	}
}

// PrevPage moves to the previous fader page, wrapping.
func PrevPage() func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.changePage(ctx, faders.PrevPage(a.profile.Pages))
	}
}

// SetGateThreshold validates and uploads a new mic gate threshold.
func SetGateThreshold(db int8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetGateThreshold(db)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetGateAttenuation validates and uploads a new mic gate attenuation.
func SetGateAttenuation(percent uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetGateAttenuation(percent)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetCompressorThreshold validates and uploads a new compressor threshold.
func SetCompressorThreshold(db int8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetCompressorThreshold(db)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetCompressorMakeupGain validates and uploads new compressor makeup gain.
func SetCompressorMakeupGain(db int8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetCompressorMakeupGain(db)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetMicrophoneType switches the active microphone input and re-uploads
// gain/phantom-power for the new type.
func SetMicrophoneType(t profile.MicrophoneType) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetMicrophoneType(t))
	}
}

// GetMicLevel reads the instantaneous microphone level in dB.
func GetMicLevel() func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return a.readMicLevel(ctx)
	}
}

// SetMicGain applies a new gain value for whichever microphone type is
// currently selected.
func SetMicGain(gain uint16) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		a.micCtl.Profile.Gains = a.micCtl.Profile.Gains.WithGain(a.micCtl.Profile.Type, gain)
		return nil, a.uploadMicParams(ctx, a.micCtl.SetMicrophoneType(a.micCtl.Profile.Type))
	}
}

// SetGateEnabled toggles the noise gate.
func SetGateEnabled(enabled bool) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetGateEnabled(enabled))
	}
}

// SetGateAttack applies a gate attack preset index.
func SetGateAttack(preset uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetGateAttack(preset))
	}
}

// SetGateRelease applies a gate release preset index.
func SetGateRelease(preset uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetGateRelease(preset))
	}
}

// SetCompressorRatio applies a compressor ratio preset index.
func SetCompressorRatio(preset uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetCompressorRatio(preset))
	}
}

// SetCompressorAttack applies a compressor attack preset index.
func SetCompressorAttack(preset uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetCompressorAttack(preset))
	}
}

// SetCompressorRelease applies a compressor release preset index.
func SetCompressorRelease(preset uint8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		return nil, a.uploadMicParams(ctx, a.micCtl.SetCompressorRelease(preset))
	}
}

// SetFullEqFrequency validates and applies a full-EQ band frequency.
func SetFullEqFrequency(band profile.FullEqBand, freqHz float64) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetFullEqFrequency(band, freqHz)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetFullEqGain validates and applies a full-EQ band gain.
func SetFullEqGain(band profile.FullEqBand, db int8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetFullEqGain(band, db)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetMiniEqFrequency validates and applies a mini-EQ band frequency.
func SetMiniEqFrequency(band profile.MiniEqBand, freqHz float64) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetMiniEqFrequency(band, freqHz)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetMiniEqGain validates and applies a mini-EQ band gain.
func SetMiniEqGain(band profile.MiniEqBand, db int8) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		uploads, err := a.micCtl.SetMiniEqGain(band, db)
		if err != nil {
			return nil, err
		}
		return nil, a.uploadMicParams(ctx, uploads)
	}
}

// SetSubMixEnabled toggles the host-emulated sub-mix feature gate.
func SetSubMixEnabled(enabled bool) func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		a.profile.Configuration.SubMixEnabled = enabled
		return nil, nil
	}
}

// SetButtonHoldTime sets the button hold duration in milliseconds.
func SetButtonHoldTime(ms uint16) func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		a.profile.Configuration.ButtonHoldTimeMs = ms
		return nil, nil
	}
}

// SetChangePageWithButtons toggles the paired fader-button paging gesture.
func SetChangePageWithButtons(enabled bool) func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		a.profile.Configuration.ChangePageWithButtons = enabled
		return nil, nil
	}
}

// SetSubMixVolume sets a channel's sub-mix bus volume. The sub-mix is
// host-side emulated and gated on Configuration.SubMixEnabled (§9 Open
// Questions).
func SetSubMixVolume(ch shared.FaderChannel, volume uint8) func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		if !a.profile.Configuration.SubMixEnabled {
			return nil, fmt.Errorf("device: sub-mix is disabled: %w", xerrors.ErrInvalidArgument)
		}
		a.profile.Output(ch).SubMix.Volume = volume
		return nil, nil
	}
}

// SetSubMixLinked links or unlinks a channel's sub-mix volume to its main
// volume at the given ratio (nil unlinks).
func SetSubMixLinked(ch shared.FaderChannel, ratio *float64) func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		if !a.profile.Configuration.SubMixEnabled {
			return nil, fmt.Errorf("device: sub-mix is disabled: %w", xerrors.ErrInvalidArgument)
		}
		a.profile.Output(ch).SubMix.Linked = ratio
		return nil, nil
	}
}

// AddPage appends a new fader page seeded from the current page.
func AddPage() func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		a.profile.Pages = faders.AddPage(a.profile.Pages)
		return nil, nil
	}
}

// RemovePage deletes a fader page, re-pushing hardware state if the
// active page shifted as a result.
func RemovePage(index int) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		before := a.profile.Pages.Current
		pages, err := faders.RemovePage(a.profile.Pages, index)
		if err != nil {
			return nil, err
		}
		a.profile.Pages = pages
		if a.profile.Pages.Current != before || index == before {
			return nil, a.changePage(ctx, a.profile.Pages.Current)
		}
		return nil, nil
	}
}

// SetFaderOnPage assigns a channel to a fader on a specific page,
// re-pushing hardware state only if that page is currently active.
func SetFaderOnPage(page int, fader shared.Fader, channel shared.FaderChannel) func(context.Context, *Actor) (any, error) {
	return func(ctx context.Context, a *Actor) (any, error) {
		pages, err := faders.SetFaderOnPage(a.profile.Pages, page, fader, channel)
		if err != nil {
			return nil, err
		}
		a.profile.Pages = pages
		if page != a.profile.Pages.Current {
			return nil, nil
		}
		return nil, a.changePage(ctx, page)
	}
}

// GetStatus returns a point-in-time snapshot of the device, the shape
// the Supervisor round-trips into its aggregated status object (§4.9).
func GetStatus() func(context.Context, *Actor) (any, error) {
	return func(_ context.Context, a *Actor) (any, error) {
		return a.snapshot(), nil
	}
}

// uploadMicParams splits a mixed Effect/Param upload batch into the two
// wire commands each pipe uses.
func (a *Actor) uploadMicParams(ctx context.Context, uploads []mic.Upload) error {
	var effect, param []mic.Upload
	for _, u := range uploads {
		if u.Pipe == mic.PipeEffect {
			effect = append(effect, u)
		} else {
			param = append(param, u)
		}
	}
	if len(effect) > 0 {
		if err := a.sendEffectParams(ctx, effect); err != nil {
			return err
		}
	}
	if len(param) > 0 {
		if err := a.sendParamParams(ctx, param); err != nil {
			return err
		}
	}
	return nil
}
