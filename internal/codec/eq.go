package codec

import "math"

// EncodeFullEqFrequency converts a full-EQ band frequency in Hz into the
// device's packed integer encoding: round(24*log2(freq/20)) (§4.7).
func EncodeFullEqFrequency(freqHz float64) int32 {
	return int32(math.Round(24 * math.Log2(freqHz/20)))
}

// DecodeFullEqFrequency inverts EncodeFullEqFrequency.
func DecodeFullEqFrequency(encoded int32) float64 {
	return 20 * math.Pow(2, float64(encoded)/24)
}

// EncodeMiniEqFrequency returns the raw float32 Hz value the Param pipe
// expects for a mini-EQ band (§4.7: mini-EQ uploads raw Hz as f32).
func EncodeMiniEqFrequency(freqHz float64) float32 {
	return float32(freqHz)
}
