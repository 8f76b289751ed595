package codec

import (
	"encoding/binary"
	"math"
)

// ParamPair is one (key, raw 4-byte value) entry in an Effect or Param
// pipe upload (§4.7 EXPANSION note 5).
type ParamPair struct {
	Key   uint32
	Value [4]byte
}

// EncodeParamList concatenates a set of key/value pairs into the body
// format both the Effect-parameters and microphone-parameters commands
// expect: a u32 key id followed by its 4-byte value, repeated.
func EncodeParamList(pairs []ParamPair) []byte {
	buf := make([]byte, 0, len(pairs)*8)
	for _, p := range pairs {
		var key [4]byte
		binary.LittleEndian.PutUint32(key[:], p.Key)
		buf = append(buf, key[:]...)
		buf = append(buf, p.Value[:]...)
	}
	return buf
}

// Int32Value packs a signed 32-bit integer into a ParamPair's raw value.
func Int32Value(v int32) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return b
}

// Float32Value packs an IEEE-754 float32 into a ParamPair's raw value.
func Float32Value(v float32) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return b
}
