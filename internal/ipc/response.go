package ipc

import (
	"encoding/json"

	"github.com/wI2L/jsondiff"

	"github.com/goxlr-daemon/goxlrd/internal/device"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
)

// Response is the discriminated reply every Request produces, plus the
// unsolicited Patch frames a WebSocket connection also delivers (§6).
type Response struct {
	Kind string // "Ok" | "Err" | "Patch" | "Status" | "DeviceCommand"

	Err           string
	Patch         jsondiff.Patch
	Status        DaemonStatus
	DeviceCommand GoXLRCommandResponse
}

const (
	ResponseOk            = "Ok"
	ResponseErr           = "Err"
	ResponsePatch         = "Patch"
	ResponseStatus        = "Status"
	ResponseDeviceCommand = "DeviceCommand"
)

// OkResponse builds the plain success reply.
func OkResponse() Response { return Response{Kind: ResponseOk} }

// ErrResponse builds an error reply carrying a human-readable message.
func ErrResponse(msg string) Response { return Response{Kind: ResponseErr, Err: msg} }

// StatusResponse builds a GetStatus reply.
func StatusResponse(s DaemonStatus) Response { return Response{Kind: ResponseStatus, Status: s} }

// PatchResponse builds an unsolicited status-patch frame.
func PatchResponse(p jsondiff.Patch) Response { return Response{Kind: ResponsePatch, Patch: p} }

// DeviceCommandResponse builds a per-device command reply.
func DeviceCommandResponse(r GoXLRCommandResponse) Response {
	return Response{Kind: ResponseDeviceCommand, DeviceCommand: r}
}

func (r Response) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResponseOk:
		return taggedUnit(r.Kind)
	case ResponseErr:
		return taggedValue(r.Kind, r.Err)
	case ResponsePatch:
		return taggedValue(r.Kind, r.Patch)
	case ResponseStatus:
		return taggedValue(r.Kind, r.Status)
	case ResponseDeviceCommand:
		return taggedValue(r.Kind, r.DeviceCommand)
	default:
		return nil, unknownVariant("Response", r.Kind)
	}
}

func (r *Response) UnmarshalJSON(data []byte) error {
	key, payload, unit, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		if unit != ResponseOk {
			return unknownVariant("Response", unit)
		}
		r.Kind = unit
		return nil
	}
	r.Kind = key
	switch key {
	case ResponseErr:
		return json.Unmarshal(payload, &r.Err)
	case ResponsePatch:
		return json.Unmarshal(payload, &r.Patch)
	case ResponseStatus:
		return json.Unmarshal(payload, &r.Status)
	case ResponseDeviceCommand:
		return json.Unmarshal(payload, &r.DeviceCommand)
	default:
		return unknownVariant("Response", key)
	}
}

// GoXLRCommandResponse is a per-device command's outcome (§6).
type GoXLRCommandResponse struct {
	Kind string // "Ok" | "MicLevel" | "Error"

	MicLevel float64
	Error    string
}

const (
	DeviceRespOk       = "Ok"
	DeviceRespMicLevel = "MicLevel"
	DeviceRespError    = "Error"
)

func (r GoXLRCommandResponse) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case DeviceRespOk:
		return taggedUnit(r.Kind)
	case DeviceRespMicLevel:
		return taggedValue(r.Kind, r.MicLevel)
	case DeviceRespError:
		return taggedValue(r.Kind, r.Error)
	default:
		return nil, unknownVariant("GoXLRCommandResponse", r.Kind)
	}
}

func (r *GoXLRCommandResponse) UnmarshalJSON(data []byte) error {
	key, payload, unit, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		if unit != DeviceRespOk {
			return unknownVariant("GoXLRCommandResponse", unit)
		}
		r.Kind = unit
		return nil
	}
	r.Kind = key
	switch key {
	case DeviceRespMicLevel:
		return json.Unmarshal(payload, &r.MicLevel)
	case DeviceRespError:
		return json.Unmarshal(payload, &r.Error)
	default:
		return unknownVariant("GoXLRCommandResponse", key)
	}
}

// DaemonStatus is the whole-daemon status document, keyed by serial and
// serialised in map-key (stable lexicographic) order by encoding/json
// (§6).
type DaemonStatus struct {
	Devices map[string]DeviceStatus `json:"devices"`
}

// DeviceStatus is one device's identity and persisted configuration.
type DeviceStatus struct {
	Serial string   `json:"serial"`
	Config Profiles `json:"config"`
}

// Profiles bundles the two persisted profile documents a device holds.
type Profiles struct {
	Profile    *profile.Profile    `json:"profile"`
	MicProfile *profile.MicProfile `json:"mic_profile"`
}

// FromDeviceStatus narrows a device.Status snapshot into the wire
// DeviceStatus shape.
func FromDeviceStatus(s device.Status) DeviceStatus {
	return DeviceStatus{
		Serial: s.Serial,
		Config: Profiles{Profile: s.Profile, MicProfile: s.MicProfile},
	}
}
