package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// FirmwareVersion is one packed little-endian version quadruple as
// returned by the system/hardware info command (§4.2).
type FirmwareVersion struct {
	Major, Minor, Patch, Build uint8
}

// FirmwareInfo is the decoded response to a system/hardware info request:
// two packed version quadruples (firmware, and a secondary — e.g. DFU —
// version).
type FirmwareInfo struct {
	Firmware  FirmwareVersion
	Secondary FirmwareVersion
}

// DecodeFirmwareInfo parses the two packed little-endian version
// quadruples of a system/hardware info response.
func DecodeFirmwareInfo(body []byte) (FirmwareInfo, error) {
	if len(body) < 8 {
		return FirmwareInfo{}, fmt.Errorf("codec: firmware info body too short: %w", xerrors.ErrInvalidArgument)
	}
	return FirmwareInfo{
		Firmware:  FirmwareVersion{body[0], body[1], body[2], body[3]},
		Secondary: FirmwareVersion{body[4], body[5], body[6], body[7]},
	}, nil
}

// ButtonSnapshot is the 12-byte raw device state read back by
// get-button-states: a pressed-button bitmap, four signed encoder deltas,
// and four unsigned fader volumes (§4.2).
type ButtonSnapshot struct {
	PressedBitmap uint32
	Encoders      [4]int8
	Faders        [4]uint8
}

// DecodeButtonSnapshot parses the 12-byte button-state payload.
func DecodeButtonSnapshot(body []byte) (ButtonSnapshot, error) {
	if len(body) != 12 {
		return ButtonSnapshot{}, fmt.Errorf("codec: button snapshot must be 12 bytes, got %d: %w", len(body), xerrors.ErrInvalidArgument)
	}
	var s ButtonSnapshot
	s.PressedBitmap = binary.LittleEndian.Uint32(body[0:4])
	for i := 0; i < 4; i++ {
		s.Encoders[i] = int8(body[4+i])
	}
	copy(s.Faders[:], body[8:12])
	return s, nil
}

// DecodeMicLevel converts the raw 16-bit mic level reading into dB:
// 20*log10(v) - 72.2, clamped to [-72.2, 0] (§4.2).
func DecodeMicLevel(raw uint16) float64 {
	if raw == 0 {
		return -72.2
	}
	db := 20*math.Log10(float64(raw)) - 72.2
	if db < -72.2 {
		return -72.2
	}
	if db > 0 {
		return 0
	}
	return db
}
