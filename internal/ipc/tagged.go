// Package ipc defines the wire contract the control-socket and HTTP/
// WebSocket surfaces speak to callers (§6): a discriminated request/
// response envelope, the daemon-wide status document, and the GoXLR
// command variants a caller may address to one device.
//
// The envelope shapes mirror the collaborator's own externally-tagged
// enum encoding: a variant with no data serialises as its bare name
// ("Ping"), a variant with data serialises as a single-key object
// ({"Daemon": {...}}). The helpers in this file implement that
// convention once for every enum-shaped type in the package.
package ipc

import (
	"encoding/json"
	"fmt"
)

// taggedUnit marshals a no-payload variant as its bare name.
func taggedUnit(name string) ([]byte, error) {
	return json.Marshal(name)
}

// taggedValue marshals a variant carrying payload as a single-key object.
func taggedValue(name string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{name: payload})
}

// taggedVariant inspects a tagged enum's encoded form, returning either
// the bare unit-variant name (isUnit true) or the single (key, payload)
// pair of a data-carrying variant.
func taggedVariant(data []byte) (key string, payload json.RawMessage, unit string, isUnit bool, err error) {
	var asString string
	if json.Unmarshal(data, &asString) == nil {
		return "", nil, asString, true, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, "", false, fmt.Errorf("ipc: malformed tagged enum: %w", err)
	}
	if len(m) != 1 {
		return "", nil, "", false, fmt.Errorf("ipc: tagged enum must carry exactly one variant, got %d", len(m))
	}
	for k, v := range m {
		return k, v, "", false, nil
	}
	panic("unreachable")
}

// unknownVariant builds the standard "unrecognised variant" error used
// by every enum's UnmarshalJSON.
func unknownVariant(typeName, got string) error {
	return fmt.Errorf("ipc: unrecognised %s variant %q", typeName, got)
}
