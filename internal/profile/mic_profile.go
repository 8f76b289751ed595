package profile

// MicrophoneType selects which physical input the preamp reads from.
// Selecting Phantom toggles 48V phantom power on the device (§4.7).
type MicrophoneType int

const (
	MicXLR MicrophoneType = iota
	MicPhantom
	MicJack
)

// Gate is the noise-gate block of a MicProfile (§3).
type Gate struct {
	Enabled     bool
	Threshold   int8  // dB, -59..=0
	Attack      uint8 // device attack preset index
	Release     uint8 // device release preset index
	Attenuation uint8 // %, 0..=100
}

// Compressor is the compressor block of a MicProfile (§3).
type Compressor struct {
	Threshold  int8  // dB, -40..=0
	Ratio      uint8 // device ratio preset index
	Attack     uint8 // device attack preset index
	Release    uint8 // device release preset index
	MakeupGain int8  // dB, -6..=24
}

// EqBand is one band of the full ten-band equalizer.
type EqBand struct {
	Frequency float64 // Hz
	Gain      int8    // dB, -9..=9
}

// FullEqBand names a band of the full equalizer, in device order. Their
// index into FullEqualizer.Bands is stable and matches §4.2's channel
// indexing and §4.7's floor/ceiling table order.
type FullEqBand int

const (
	Eq31Hz FullEqBand = iota
	Eq63Hz
	Eq125Hz
	Eq250Hz
	Eq500Hz
	Eq1kHz
	Eq2kHz
	Eq4kHz
	Eq8kHz
	Eq16kHz
)

// FullEqBands lists every FullEqBand in device order.
var FullEqBands = []FullEqBand{Eq31Hz, Eq63Hz, Eq125Hz, Eq250Hz, Eq500Hz, Eq1kHz, Eq2kHz, Eq4kHz, Eq8kHz, Eq16kHz}

// FullEqFloorCeiling is band i's [floor, ceiling] window, indexed by
// FullEqBand, per §4.7's monotonicity table.
var FullEqFloorCeiling = [10][2]float64{
	{30, 300},     // Eq31Hz
	{30, 300},     // Eq63Hz
	{30, 300},     // Eq125Hz
	{30, 300},     // Eq250Hz
	{300, 2000},   // Eq500Hz
	{300, 2000},   // Eq1kHz
	{300, 2000},   // Eq2kHz
	{2000, 18000}, // Eq4kHz
	{2000, 18000}, // Eq8kHz
	{2000, 18000}, // Eq16kHz
}

// FullEqualizer is the ten-band equalizer, each band's frequency window
// constrained by its neighbours (§4.7).
type FullEqualizer struct {
	Bands [10]EqBand
}

// MiniEqBand names a band of the reduced six-band equalizer used by
// mini-class devices.
type MiniEqBand int

const (
	MiniEq90Hz MiniEqBand = iota
	MiniEq250Hz
	MiniEq500Hz
	MiniEq1kHz
	MiniEq3kHz
	MiniEq8kHz
)

// MiniEqBands lists every MiniEqBand in device order.
var MiniEqBands = []MiniEqBand{MiniEq90Hz, MiniEq250Hz, MiniEq500Hz, MiniEq1kHz, MiniEq3kHz, MiniEq8kHz}

// MiniEqFixedWindow is band i's fixed [min, max] frequency window — unlike
// the full equalizer, mini bands never move relative to each other.
var MiniEqFixedWindow = [6][2]float64{
	{40, 400},     // MiniEq90Hz
	{100, 1000},   // MiniEq250Hz
	{200, 2000},   // MiniEq500Hz
	{400, 4000},   // MiniEq1kHz
	{1000, 10000}, // MiniEq3kHz
	{2000, 20000}, // MiniEq8kHz
}

// MiniEqualizer is the six-band equalizer used by mini-class devices.
type MiniEqualizer struct {
	Bands [6]EqBand
}

// MicGains holds the per-type gain level the preamp uses, selected by the
// profile's current MicrophoneType.
type MicGains struct {
	XLRGain     uint16
	PhantomGain uint16
	JackGain    uint16
}

// Gain returns the gain configured for the given microphone type.
func (g MicGains) Gain(t MicrophoneType) uint16 {
	switch t {
	case MicPhantom:
		return g.PhantomGain
	case MicJack:
		return g.JackGain
	default:
		return g.XLRGain
	}
}

// WithGain returns a copy of g with the gain for the given microphone
// type replaced.
func (g MicGains) WithGain(t MicrophoneType, gain uint16) MicGains {
	switch t {
	case MicPhantom:
		g.PhantomGain = gain
	case MicJack:
		g.JackGain = gain
	default:
		g.XLRGain = gain
	}
	return g
}

// MicProfile is the complete mic DSP configuration block of §3, owned by
// the Device Actor alongside Profile.
type MicProfile struct {
	Type       MicrophoneType
	Gains      MicGains
	Gate       Gate
	Compressor Compressor
	FullEq     FullEqualizer
	MiniEq     MiniEqualizer
}

// gateAttenuationTable maps a 0..=25 index to dB attenuation, per §4.7's
// 26-entry table.
var gateAttenuationTable = [26]int8{
	0, -2, -4, -6, -8, -10, -12, -14, -16, -18,
	-20, -22, -24, -26, -28, -30, -32, -34, -36, -38,
	-40, -42, -44, -46, -48, -50,
}

// GateAttenuationDB converts a gate attenuation percentage (0..=100) into
// the device's dB encoding via the fixed lookup table, saturating the
// index at 25 for percent > 99 (§4.7).
func GateAttenuationDB(percent uint8) int8 {
	idx := int(roundHalfAwayFromZero(float64(percent) * 0.24))
	if percent > 99 {
		idx = 25
	}
	if idx > 25 {
		idx = 25
	}
	if idx < 0 {
		idx = 0
	}
	return gateAttenuationTable[idx]
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	i := float64(int64(v))
	if v-i >= 0.5 {
		return i + 1
	}
	return i
}
