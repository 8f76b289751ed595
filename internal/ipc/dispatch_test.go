package ipc

import (
	"context"
	"errors"
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/device"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// fakeSupervisor is a Supervisor that records the last submitted op's
// result without running a real device.Actor, mirroring
// internal/device's own fakeBackend collaborator pattern.
type fakeSupervisor struct {
	submitResult any
	submitErr    error
	gotSerial    string

	status AggregatedStatus
}

func (f *fakeSupervisor) Submit(_ context.Context, serial string, op func(context.Context, *device.Actor) (any, error)) (any, error) {
	f.gotSerial = serial
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitResult, nil
}

func (f *fakeSupervisor) Status() AggregatedStatus {
	return f.status
}

func TestDispatchPing(t *testing.T) {
	d := NewDispatcher(&fakeSupervisor{})
	resp := d.Handle(context.Background(), Request{Kind: RequestPing})
	if resp.Kind != ResponseOk {
		t.Fatalf("Kind = %q, want %q", resp.Kind, ResponseOk)
	}
}

func TestDispatchGetStatus(t *testing.T) {
	sup := &fakeSupervisor{status: AggregatedStatus{Devices: map[string]device.Status{
		"SERIAL1": {Serial: "SERIAL1"},
	}}}
	d := NewDispatcher(sup)

	resp := d.Handle(context.Background(), Request{Kind: RequestGetStatus})
	if resp.Kind != ResponseStatus {
		t.Fatalf("Kind = %q, want %q", resp.Kind, ResponseStatus)
	}
	if _, ok := resp.Status.Devices["SERIAL1"]; !ok {
		t.Fatalf("missing device in status: %+v", resp.Status)
	}
}

func TestDispatchDaemonCommandIsAlwaysAnError(t *testing.T) {
	d := NewDispatcher(&fakeSupervisor{})
	resp := d.Handle(context.Background(), Request{Kind: RequestDaemon})
	if resp.Kind != ResponseErr {
		t.Fatalf("Kind = %q, want %q", resp.Kind, ResponseErr)
	}
}

func TestDispatchDeviceCommandSetVolume(t *testing.T) {
	sup := &fakeSupervisor{}
	d := NewDispatcher(sup)

	req := Request{
		Kind: RequestDeviceCommand,
		DeviceCommand: DeviceCommand{
			Serial: "ABC123",
			Command: GoXLRCommand{
				Kind: CommandChannels,
				Channels: Channels{
					Channel: shared.Microphone,
					Command: ChannelCommand{Kind: ChannelSetVolume, SetVolume: 128},
				},
			},
		},
	}

	resp := d.Handle(context.Background(), req)
	if resp.Kind != ResponseDeviceCommand || resp.DeviceCommand.Kind != DeviceRespOk {
		t.Fatalf("got %+v", resp)
	}
	if sup.gotSerial != "ABC123" {
		t.Fatalf("Submit called with serial %q, want ABC123", sup.gotSerial)
	}
}

func TestDispatchDeviceCommandGetMicLevelReturnsLevel(t *testing.T) {
	sup := &fakeSupervisor{submitResult: 0.75}
	d := NewDispatcher(sup)

	req := Request{
		Kind: RequestDeviceCommand,
		DeviceCommand: DeviceCommand{
			Serial:  "ABC123",
			Command: GoXLRCommand{Kind: CommandMicrophone, Microphone: MicrophoneCommand{Kind: MicGetMicLevel}},
		},
	}

	resp := d.Handle(context.Background(), req)
	if resp.Kind != ResponseDeviceCommand || resp.DeviceCommand.Kind != DeviceRespMicLevel {
		t.Fatalf("got %+v", resp)
	}
	if resp.DeviceCommand.MicLevel != 0.75 {
		t.Fatalf("MicLevel = %v, want 0.75", resp.DeviceCommand.MicLevel)
	}
}

func TestDispatchDeviceCommandSubmitErrorBecomesErrorResponse(t *testing.T) {
	sup := &fakeSupervisor{submitErr: errors.New("device offline")}
	d := NewDispatcher(sup)

	req := Request{
		Kind: RequestDeviceCommand,
		DeviceCommand: DeviceCommand{
			Serial: "ABC123",
			Command: GoXLRCommand{
				Kind:          CommandConfiguration,
				Configuration: ConfigurationCommand{Kind: ConfigSubMixEnabled, SubMixEnabled: true},
			},
		},
	}

	resp := d.Handle(context.Background(), req)
	if resp.Kind != ResponseDeviceCommand || resp.DeviceCommand.Kind != DeviceRespError {
		t.Fatalf("got %+v", resp)
	}
	if resp.DeviceCommand.Error != "device offline" {
		t.Fatalf("Error = %q, want %q", resp.DeviceCommand.Error, "device offline")
	}
}

func TestDispatchUnrecognisedBandErrors(t *testing.T) {
	d := NewDispatcher(&fakeSupervisor{})
	req := Request{
		Kind: RequestDeviceCommand,
		DeviceCommand: DeviceCommand{
			Serial: "ABC123",
			Command: GoXLRCommand{
				Kind: CommandMicrophone,
				Microphone: MicrophoneCommand{
					Kind: MicEqualiser,
					Equaliser: EqualiserCommand{
						Kind: EqFull,
						Full: FullEqualiserCommand{
							Kind:    FullEqSetGain,
							SetGain: SetFullGain{Base: "NotABand", Gain: 3},
						},
					},
				},
			},
		},
	}
	resp := d.Handle(context.Background(), req)
	if resp.Kind != ResponseDeviceCommand || resp.DeviceCommand.Kind != DeviceRespError {
		t.Fatalf("got %+v", resp)
	}
}
