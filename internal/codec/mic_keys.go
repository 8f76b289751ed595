package codec

// EffectKeyID and ParamKeyID assign a stable wire identifier to each
// named microphone DSP parameter. The retrieved original source declares
// these as Rust enums whose discriminants live in a crate this pack does
// not include; rather than guess at undocumented numeric values, this
// table fixes its own internal, stable ordering for the two pipes. Any
// real-device capture that disagrees should update these two maps, not
// the callers.
var EffectKeyID = map[string]uint32{
	"GateEnabled":          0,
	"GateThreshold":        1,
	"GateAttack":           2,
	"GateRelease":          3,
	"GateAttenuation":      4,
	"CompressorThreshold":  5,
	"CompressorRatio":      6,
	"CompressorAttack":     7,
	"CompressorRelease":    8,
	"CompressorMakeUpGain": 9,
	"MicType":              10,
	"MicGain":              11,
	"MicInputMute":         12,
	"EQGain":               13,
	"EQFreq":               14,
}

// ParamKeyID mirrors EffectKeyID for the microphone-parameters pipe,
// which carries the same logical keys as host-convenient floats.
var ParamKeyID = EffectKeyID
