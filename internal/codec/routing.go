package codec

import (
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/shared"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// RouteValueKind distinguishes the three wire states of a routing cell.
type RouteValueKind int

const (
	RouteOff RouteValueKind = iota
	RouteOn
	RouteValueSet
)

// RouteValue is the device-facing value of one routing cell (§3's
// "RouteValue ∈ {On, Off, Value(0..32)}").
type RouteValue struct {
	Kind  RouteValueKind
	Value uint8 // meaningful only when Kind == RouteValueSet, 0..=32
}

// On, Off and Value construct the three RouteValue variants.
var Off = RouteValue{Kind: RouteOff}
var On = RouteValue{Kind: RouteOn, Value: 0x20}

// Value constructs a RouteValue carrying an explicit attenuation level. v
// must be ≤ 32.
func Value(v uint8) (RouteValue, error) {
	if v > 32 {
		return RouteValue{}, fmt.Errorf("codec: routing value %d exceeds 32: %w", v, xerrors.ErrOutOfRange)
	}
	return RouteValue{Kind: RouteValueSet, Value: v}, nil
}

func (r RouteValue) wireByte() byte {
	switch r.Kind {
	case RouteOn:
		return 0x20
	case RouteValueSet:
		return r.Value
	default:
		return 0x00
	}
}

func routeValueFromByte(b byte) RouteValue {
	switch b {
	case 0x00:
		return Off
	case 0x20:
		return On
	default:
		return RouteValue{Kind: RouteValueSet, Value: b}
	}
}

// Row is a single input channel's routing row, keyed by RoutingOutput.
type Row map[shared.RoutingOutput]RouteValue

// EncodeRoutingRow serializes one L/R pair of rows into the 22-byte wire
// block described in §4.2. HardTune is mono and is taken from left.
func EncodeRoutingRow(left, right Row) []byte {
	buf := make([]byte, RoutingRowSize)
	for _, out := range shared.RoutingOutputs {
		offset := RoutingByteOffset[out]
		if out == shared.RouteHardTune {
			buf[offset] = left[out].wireByte()
			continue
		}
		buf[offset] = left[out].wireByte()
		buf[offset+2] = right[out].wireByte()
	}
	return buf
}

// DecodeRoutingRow parses a 22-byte wire block back into left/right rows.
// decode(encode(row)) == row for every row with values in
// {On, Off, Value(1..=31)}. Value(0) and Value(32) encode to the same
// bytes as Off (0x00) and On (0x20) and decode back as Off and On.
func DecodeRoutingRow(buf []byte) (left, right Row, err error) {
	if len(buf) != RoutingRowSize {
		return nil, nil, fmt.Errorf("codec: routing row must be %d bytes, got %d: %w", RoutingRowSize, len(buf), xerrors.ErrInvalidArgument)
	}
	left = make(Row, len(shared.RoutingOutputs))
	right = make(Row, len(shared.RoutingOutputs))
	for _, out := range shared.RoutingOutputs {
		offset := RoutingByteOffset[out]
		left[out] = routeValueFromByte(buf[offset])
		if out == shared.RouteHardTune {
			right[out] = left[out]
			continue
		}
		right[out] = routeValueFromByte(buf[offset+2])
	}
	return left, right, nil
}
