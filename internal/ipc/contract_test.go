package ipc

import (
	"encoding/json"
	"testing"

	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

func TestRequestRoundTripUnit(t *testing.T) {
	req := Request{Kind: RequestPing}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Ping"` {
		t.Fatalf("Marshal(Ping) = %s, want %q", data, `"Ping"`)
	}

	var got Request
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != RequestPing {
		t.Fatalf("Kind = %q, want %q", got.Kind, RequestPing)
	}
}

func TestRequestRoundTripDeviceCommand(t *testing.T) {
	req := Request{
		Kind: RequestDeviceCommand,
		DeviceCommand: DeviceCommand{
			Serial: "ABC123",
			Command: GoXLRCommand{
				Kind: CommandChannels,
				Channels: Channels{
					Channel: shared.Microphone,
					Command: ChannelCommand{Kind: ChannelSetVolume, SetVolume: 200},
				},
			},
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	var got Request
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if got.Kind != RequestDeviceCommand {
		t.Fatalf("Kind = %q, want %q", got.Kind, RequestDeviceCommand)
	}
	if got.DeviceCommand.Serial != "ABC123" {
		t.Fatalf("Serial = %q, want ABC123", got.DeviceCommand.Serial)
	}
	if got.DeviceCommand.Command.Channels.Command.SetVolume != 200 {
		t.Fatalf("SetVolume = %d, want 200", got.DeviceCommand.Command.Channels.Command.SetVolume)
	}
}

func TestDaemonCommandAlwaysErrors(t *testing.T) {
	var c DaemonCommand
	if _, err := json.Marshal(c); err == nil {
		t.Fatal("expected error marshalling the empty DaemonCommand enum")
	}
	if err := json.Unmarshal([]byte(`{"Anything":null}`), &c); err == nil {
		t.Fatal("expected error unmarshalling into the empty DaemonCommand enum")
	}
}

func TestResponseRoundTripErr(t *testing.T) {
	r := ErrResponse("device not found")
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"Err":"device not found"}` {
		t.Fatalf("Marshal = %s", data)
	}

	var got Response
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != ResponseErr || got.Err != "device not found" {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundTripStatus(t *testing.T) {
	r := StatusResponse(DaemonStatus{Devices: map[string]DeviceStatus{
		"SERIAL1": {Serial: "SERIAL1"},
	}})
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var got Response
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != ResponseStatus {
		t.Fatalf("Kind = %q, want %q", got.Kind, ResponseStatus)
	}
	if _, ok := got.Status.Devices["SERIAL1"]; !ok {
		t.Fatalf("missing device in decoded status: %+v", got.Status)
	}
}

func TestUnrecognisedVariantErrors(t *testing.T) {
	var req Request
	if err := json.Unmarshal([]byte(`"Bogus"`), &req); err == nil {
		t.Fatal("expected error for unrecognised unit variant")
	}
	if err := json.Unmarshal([]byte(`{"Bogus":1}`), &req); err == nil {
		t.Fatal("expected error for unrecognised data variant")
	}
}
