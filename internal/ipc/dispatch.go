package ipc

import (
	"context"
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/device"
	"github.com/goxlr-daemon/goxlrd/internal/metrics"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// Supervisor is the subset of *supervisor.Supervisor the dispatcher
// needs. Declaring it here (rather than importing the concrete type)
// keeps internal/ipc free of a dependency the tests can't easily fake.
type Supervisor interface {
	Submit(ctx context.Context, serial string, op func(context.Context, *device.Actor) (any, error)) (any, error)
	Status() AggregatedStatus
}

// AggregatedStatus mirrors supervisor.AggregatedStatus's shape, avoiding
// an import cycle back through device.Status.
type AggregatedStatus struct {
	Devices map[string]device.Status
}

// Dispatcher turns decoded Requests into Responses by translating each
// GoXLRCommand into one of internal/device/commands.go's op closures and
// submitting it through the Supervisor (§6, §9's "dynamic dispatch"
// note — here realised as a lookup by discriminator rather than an
// interface, since every op yields the same op signature).
type Dispatcher struct {
	supervisor Supervisor
}

// NewDispatcher builds a Dispatcher over a running Supervisor.
func NewDispatcher(s Supervisor) *Dispatcher {
	return &Dispatcher{supervisor: s}
}

// Handle decodes and executes one Request, always returning exactly one
// Response (§7's "every IPC command receives exactly one response").
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	switch req.Kind {
	case RequestPing:
		return OkResponse()

	case RequestGetStatus:
		return StatusResponse(d.status())

	case RequestDaemon:
		// DaemonCommand is an empty enum (EXPANSION item 6); no value of
		// it can ever have reached here through a successful decode.
		return ErrResponse(xerrors.ErrInvalidArgument.Error())

	case RequestDeviceCommand:
		return d.handleDeviceCommand(ctx, req.DeviceCommand)

	default:
		return ErrResponse(fmt.Sprintf("unrecognised request %q", req.Kind))
	}
}

// status projects the Supervisor's aggregated status into the wire
// DaemonStatus shape.
func (d *Dispatcher) status() DaemonStatus {
	agg := d.supervisor.Status()
	out := DaemonStatus{Devices: make(map[string]DeviceStatus, len(agg.Devices))}
	for serial, s := range agg.Devices {
		out.Devices[serial] = FromDeviceStatus(s)
	}
	return out
}

func (d *Dispatcher) handleDeviceCommand(ctx context.Context, dc DeviceCommand) Response {
	op, err := buildOp(dc.Command)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("error").Inc()
		return DeviceCommandResponse(GoXLRCommandResponse{Kind: DeviceRespError, Error: err.Error()})
	}

	v, err := d.supervisor.Submit(ctx, dc.Serial, op)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("error").Inc()
		return DeviceCommandResponse(GoXLRCommandResponse{Kind: DeviceRespError, Error: err.Error()})
	}
	metrics.CommandsTotal.WithLabelValues("ok").Inc()
	if level, ok := v.(float64); ok {
		return DeviceCommandResponse(GoXLRCommandResponse{Kind: DeviceRespMicLevel, MicLevel: level})
	}
	return DeviceCommandResponse(GoXLRCommandResponse{Kind: DeviceRespOk})
}

// buildOp translates one decoded GoXLRCommand into the op closure the
// Device Actor executes, or a validation error if the command's payload
// doesn't resolve to a known value.
func buildOp(cmd GoXLRCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch cmd.Kind {
	case CommandConfiguration:
		return buildConfigurationOp(cmd.Configuration)
	case CommandMicrophone:
		return buildMicrophoneOp(cmd.Microphone)
	case CommandChannels:
		return buildChannelsOp(cmd.Channels)
	case CommandPages:
		return buildPagesOp(cmd.Pages)
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised command %q", xerrors.ErrInvalidArgument, cmd.Kind)
	}
}

func buildConfigurationOp(c ConfigurationCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case ConfigSubMixEnabled:
		return device.SetSubMixEnabled(c.SubMixEnabled), nil
	case ConfigButtonHoldTime:
		return device.SetButtonHoldTime(c.ButtonHoldTime), nil
	case ConfigChangePageWithButtons:
		return device.SetChangePageWithButtons(c.ChangePageWithButtons), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised configuration command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildMicrophoneOp(c MicrophoneCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case MicGetMicLevel:
		return device.GetMicLevel(), nil
	case MicSetup:
		return buildSetupOp(c.Setup)
	case MicEqualiser:
		return buildEqualiserOp(c.Equaliser)
	case MicCompressor:
		return buildCompressorOp(c.Compressor)
	case MicGate:
		return buildGateOp(c.Gate)
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised microphone command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildSetupOp(c SetupCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case SetupSetMicType:
		t, ok := parseMicrophoneType(c.SetMicType)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised microphone type %q", xerrors.ErrInvalidArgument, c.SetMicType)
		}
		return device.SetMicrophoneType(t), nil
	case SetupSetMicGain:
		return device.SetMicGain(c.SetMicGain), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised setup command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildEqualiserOp(c EqualiserCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case EqFull:
		return buildFullEqOp(c.Full)
	case EqMini:
		return buildMiniEqOp(c.Mini)
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised equaliser command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildFullEqOp(c FullEqualiserCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case FullEqSetFrequency:
		band, ok := parseFullEqBand(c.SetFrequency.Base)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised full-EQ band %q", xerrors.ErrInvalidArgument, c.SetFrequency.Base)
		}
		return device.SetFullEqFrequency(band, c.SetFrequency.Frequency), nil
	case FullEqSetGain:
		band, ok := parseFullEqBand(c.SetGain.Base)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised full-EQ band %q", xerrors.ErrInvalidArgument, c.SetGain.Base)
		}
		return device.SetFullEqGain(band, c.SetGain.Gain), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised full equaliser command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildMiniEqOp(c MiniEqualiserCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case MiniEqSetFrequency:
		band, ok := parseMiniEqBand(c.SetFrequency.Base)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised mini-EQ band %q", xerrors.ErrInvalidArgument, c.SetFrequency.Base)
		}
		return device.SetMiniEqFrequency(band, c.SetFrequency.Frequency), nil
	case MiniEqSetGain:
		band, ok := parseMiniEqBand(c.SetGain.Base)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised mini-EQ band %q", xerrors.ErrInvalidArgument, c.SetGain.Base)
		}
		return device.SetMiniEqGain(band, c.SetGain.Gain), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised mini equaliser command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildCompressorOp(c CompressorCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case CompSetThreshold:
		return device.SetCompressorThreshold(c.SetThreshold), nil
	case CompSetMakeupGain:
		return device.SetCompressorMakeupGain(c.SetMakeupGain), nil
	case CompSetRatio:
		return device.SetCompressorRatio(c.SetRatio), nil
	case CompSetAttack:
		return device.SetCompressorAttack(c.SetAttack), nil
	case CompSetRelease:
		return device.SetCompressorRelease(c.SetRelease), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised compressor command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildGateOp(c GateCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case GateSetEnabled:
		return device.SetGateEnabled(c.SetEnabled), nil
	case GateSetThreshold:
		return device.SetGateThreshold(c.SetThreshold), nil
	case GateSetAttenuation:
		return device.SetGateAttenuation(c.SetAttenuation), nil
	case GateSetAttack:
		return device.SetGateAttack(c.SetAttack), nil
	case GateSetRelease:
		return device.SetGateRelease(c.SetRelease), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised gate command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func buildChannelsOp(c Channels) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Command.Kind {
	case ChannelSetVolume:
		return device.SetVolume(c.Channel, c.Command.SetVolume), nil
	case ChannelSetMute:
		state, ok := parseMuteState(c.Command.SetMute)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised mute state %q", xerrors.ErrInvalidArgument, c.Command.SetMute)
		}
		return device.SetMuteState(c.Channel, state), nil
	case ChannelSetSubMixVolume:
		return device.SetSubMixVolume(c.Channel, c.Command.SetSubMixVolume), nil
	case ChannelSetSubMixLinked:
		return device.SetSubMixLinked(c.Channel, c.Command.SetSubMixLinked), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised channel command %q", xerrors.ErrInvalidArgument, c.Command.Kind)
	}
}

func buildPagesOp(c PageCommand) (func(context.Context, *device.Actor) (any, error), error) {
	switch c.Kind {
	case PageAddPage:
		return device.AddPage(), nil
	case PageLoadPage:
		return device.SetPage(int(c.LoadPage)), nil
	case PageRemovePage:
		return device.RemovePage(int(c.RemovePage)), nil
	case PageSetFader:
		fader, ok := parseFader(c.SetFader.Fader)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised fader %q", xerrors.ErrInvalidArgument, c.SetFader.Fader)
		}
		channel, ok := parseFaderChannel(c.SetFader.Channel)
		if !ok {
			return nil, fmt.Errorf("ipc: %w: unrecognised channel %q", xerrors.ErrInvalidArgument, c.SetFader.Channel)
		}
		return device.SetFaderOnPage(int(c.SetFader.PageNumber), fader, channel), nil
	default:
		return nil, fmt.Errorf("ipc: %w: unrecognised page command %q", xerrors.ErrInvalidArgument, c.Kind)
	}
}

func parseMicrophoneType(w MicrophoneTypeWire) (profile.MicrophoneType, bool) {
	switch w {
	case MicTypeXLR:
		return profile.MicXLR, true
	case MicTypePhantom:
		return profile.MicPhantom, true
	case MicTypeJack:
		return profile.MicJack, true
	default:
		return 0, false
	}
}

func parseMuteState(w MuteStateWire) (profile.MuteState, bool) {
	switch w {
	case MuteStateUnmuted:
		return profile.Unmuted, true
	case MuteStatePressed:
		return profile.Pressed, true
	case MuteStateHeld:
		return profile.Held, true
	default:
		return 0, false
	}
}

func parseFullEqBand(w FullEqBandWire) (profile.FullEqBand, bool) {
	names := map[FullEqBandWire]profile.FullEqBand{
		"Eq31Hz": profile.Eq31Hz, "Eq63Hz": profile.Eq63Hz, "Eq125Hz": profile.Eq125Hz,
		"Eq250Hz": profile.Eq250Hz, "Eq500Hz": profile.Eq500Hz, "Eq1kHz": profile.Eq1kHz,
		"Eq2kHz": profile.Eq2kHz, "Eq4kHz": profile.Eq4kHz, "Eq8kHz": profile.Eq8kHz, "Eq16kHz": profile.Eq16kHz,
	}
	band, ok := names[w]
	return band, ok
}

func parseMiniEqBand(w MiniEqBandWire) (profile.MiniEqBand, bool) {
	names := map[MiniEqBandWire]profile.MiniEqBand{
		"MiniEq90Hz": profile.MiniEq90Hz, "MiniEq250Hz": profile.MiniEq250Hz, "MiniEq500Hz": profile.MiniEq500Hz,
		"MiniEq1kHz": profile.MiniEq1kHz, "MiniEq3kHz": profile.MiniEq3kHz, "MiniEq8kHz": profile.MiniEq8kHz,
	}
	band, ok := names[w]
	return band, ok
}

func parseFader(w FaderWire) (shared.Fader, bool) {
	switch w {
	case "A":
		return shared.FaderA, true
	case "B":
		return shared.FaderB, true
	case "C":
		return shared.FaderC, true
	case "D":
		return shared.FaderD, true
	default:
		return 0, false
	}
}
