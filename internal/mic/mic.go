// Package mic implements the Mic DSP Controller (C7): range-checked
// setters for the gate, compressor, equalizer and microphone-type blocks
// of a MicProfile, each uploading through the device's Effect and Param
// parameter pipes (§4.7, EXPANSION item 5).
package mic

import (
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// PipeKey names one parameter slot on either the Effect or Param pipe.
type PipeKey string

const (
	KeyGateEnabled     PipeKey = "GateEnabled"
	KeyGateThreshold   PipeKey = "GateThreshold"
	KeyGateAttack      PipeKey = "GateAttack"
	KeyGateRelease     PipeKey = "GateRelease"
	KeyGateAttenuation PipeKey = "GateAttenuation"

	KeyCompThreshold  PipeKey = "CompressorThreshold"
	KeyCompRatio      PipeKey = "CompressorRatio"
	KeyCompAttack     PipeKey = "CompressorAttack"
	KeyCompRelease    PipeKey = "CompressorRelease"
	KeyCompMakeupGain PipeKey = "CompressorMakeUpGain"

	KeyMicType  PipeKey = "MicType"
	KeyMicGain  PipeKey = "MicGain"
	KeyMicMute  PipeKey = "MicInputMute"

	KeyEqGainPrefix PipeKey = "EQGain"
	KeyEqFreqPrefix PipeKey = "EQFreq"
)

// Upload is a single value destined for one of the two parameter pipes.
// Effect carries integer, device-native encodings; Param carries
// floating-point, host-convenient ones. A setter issues both, in that
// order, as distinct Uploads (§4.7 EXPANSION note 5).
type Upload struct {
	Pipe  Pipe
	Key   PipeKey
	Int   int32
	Float float32
}

// Pipe distinguishes the Effect and Param parameter pipes.
type Pipe int

const (
	PipeEffect Pipe = iota
	PipeParam
)

// Controller applies range-checked setters to a MicProfile, producing the
// Effect+Param uploads the Device Actor must send.
type Controller struct {
	Profile *profile.MicProfile
}

// SetGateThreshold validates and applies a gate threshold in dB,
// returning the two uploads end-to-end scenario 6 expects.
func (c *Controller) SetGateThreshold(db int8) ([]Upload, error) {
	if db < -59 || db > 0 {
		return nil, fmt.Errorf("mic: gate threshold %d out of range [-59,0]: %w", db, xerrors.ErrOutOfRange)
	}
	c.Profile.Gate.Threshold = db
	return []Upload{
		{Pipe: PipeEffect, Key: KeyGateThreshold, Int: int32(db)},
		{Pipe: PipeParam, Key: KeyGateThreshold, Float: float32(db)},
	}, nil
}

// SetGateAttenuation validates a 0..=100% attenuation and applies it,
// converting to the device's dB encoding via the lookup table for the
// Effect pipe while the Param pipe keeps the raw percentage.
func (c *Controller) SetGateAttenuation(percent uint8) ([]Upload, error) {
	if percent > 100 {
		return nil, fmt.Errorf("mic: gate attenuation %d%% out of range [0,100]: %w", percent, xerrors.ErrOutOfRange)
	}
	c.Profile.Gate.Attenuation = percent
	db := profile.GateAttenuationDB(percent)
	return []Upload{
		{Pipe: PipeEffect, Key: KeyGateAttenuation, Int: int32(db)},
		{Pipe: PipeParam, Key: KeyGateAttenuation, Float: float32(percent)},
	}, nil
}

// SetGateEnabled toggles the gate on or off.
func (c *Controller) SetGateEnabled(enabled bool) []Upload {
	c.Profile.Gate.Enabled = enabled
	v := int32(0)
	if enabled {
		v = 1
	}
	return []Upload{{Pipe: PipeEffect, Key: KeyGateEnabled, Int: v}}
}

// SetGateAttack applies a device attack preset index to the gate. The
// index space is a firmware-defined preset table, not a range the host
// validates (§4.7).
func (c *Controller) SetGateAttack(preset uint8) []Upload {
	c.Profile.Gate.Attack = preset
	return []Upload{{Pipe: PipeEffect, Key: KeyGateAttack, Int: int32(preset)}}
}

// SetGateRelease applies a device release preset index to the gate.
func (c *Controller) SetGateRelease(preset uint8) []Upload {
	c.Profile.Gate.Release = preset
	return []Upload{{Pipe: PipeEffect, Key: KeyGateRelease, Int: int32(preset)}}
}

// SetCompressorRatio applies a device ratio preset index.
func (c *Controller) SetCompressorRatio(preset uint8) []Upload {
	c.Profile.Compressor.Ratio = preset
	return []Upload{{Pipe: PipeEffect, Key: KeyCompRatio, Int: int32(preset)}}
}

// SetCompressorAttack applies a device attack preset index.
func (c *Controller) SetCompressorAttack(preset uint8) []Upload {
	c.Profile.Compressor.Attack = preset
	return []Upload{{Pipe: PipeEffect, Key: KeyCompAttack, Int: int32(preset)}}
}

// SetCompressorRelease applies a device release preset index.
func (c *Controller) SetCompressorRelease(preset uint8) []Upload {
	c.Profile.Compressor.Release = preset
	return []Upload{{Pipe: PipeEffect, Key: KeyCompRelease, Int: int32(preset)}}
}

// SetCompressorThreshold validates and applies a compressor threshold.
func (c *Controller) SetCompressorThreshold(db int8) ([]Upload, error) {
	if db < -40 || db > 0 {
		return nil, fmt.Errorf("mic: compressor threshold %d out of range [-40,0]: %w", db, xerrors.ErrOutOfRange)
	}
	c.Profile.Compressor.Threshold = db
	return []Upload{
		{Pipe: PipeEffect, Key: KeyCompThreshold, Int: int32(db)},
		{Pipe: PipeParam, Key: KeyCompThreshold, Float: float32(db)},
	}, nil
}

// SetCompressorMakeupGain validates and applies makeup gain.
func (c *Controller) SetCompressorMakeupGain(db int8) ([]Upload, error) {
	if db < -6 || db > 24 {
		return nil, fmt.Errorf("mic: compressor makeup gain %d out of range [-6,24]: %w", db, xerrors.ErrOutOfRange)
	}
	c.Profile.Compressor.MakeupGain = db
	return []Upload{
		{Pipe: PipeEffect, Key: KeyCompMakeupGain, Int: int32(db)},
		{Pipe: PipeParam, Key: KeyCompMakeupGain, Float: float32(db)},
	}, nil
}

// SetMicrophoneType applies a microphone type change, re-uploading gain
// for the new type and toggling the phantom-power flag (§4.7).
func (c *Controller) SetMicrophoneType(t profile.MicrophoneType) []Upload {
	c.Profile.Type = t
	phantom := int32(0)
	if t == profile.MicPhantom {
		phantom = 1
	}
	gain := c.Profile.Gains.Gain(t)
	return []Upload{
		{Pipe: PipeEffect, Key: KeyMicType, Int: phantom},
		{Pipe: PipeEffect, Key: KeyMicGain, Int: int32(gain)},
		{Pipe: PipeParam, Key: KeyMicGain, Float: float32(gain)},
	}
}
