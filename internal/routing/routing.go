// Package routing implements the in-memory input×output routing matrix
// (C4): set/get with the forbidden-pair invariant and per-row projection
// into the device-facing RouteValue representation.
package routing

import (
	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// Matrix is the boolean input×output routing table plus its projection
// into device-facing routing rows. It is not safe for concurrent use —
// the owning Device Actor is its only writer.
type Matrix struct {
	cells map[shared.InputChannel]map[shared.OutputChannel]bool
}

// New builds a Matrix with every cell false.
func New() *Matrix {
	m := &Matrix{cells: make(map[shared.InputChannel]map[shared.OutputChannel]bool, len(shared.InputChannels))}
	for _, in := range shared.InputChannels {
		row := make(map[shared.OutputChannel]bool, len(shared.OutputChannels))
		for _, out := range shared.OutputChannels {
			row[out] = false
		}
		m.cells[in] = row
	}
	return m
}

// Set writes a cell unless it is the forbidden (Chat, ChatMic) pair, which
// is silently ignored. It returns true iff the stored value changed.
func (m *Matrix) Set(input shared.InputChannel, output shared.OutputChannel, value bool) bool {
	if input == shared.InChat && output == shared.OutChatMic {
		return false
	}
	row := m.cells[input]
	if row == nil {
		row = make(map[shared.OutputChannel]bool, len(shared.OutputChannels))
		m.cells[input] = row
	}
	if row[output] == value {
		return false
	}
	row[output] = value
	return true
}

// Get reads a single cell.
func (m *Matrix) Get(input shared.InputChannel, output shared.OutputChannel) bool {
	return m.cells[input][output]
}

// GetRow returns the enum-indexed output row for an input channel.
func (m *Matrix) GetRow(input shared.InputChannel) map[shared.OutputChannel]bool {
	row := make(map[shared.OutputChannel]bool, len(shared.OutputChannels))
	for _, out := range shared.OutputChannels {
		row[out] = m.cells[input][out]
	}
	return row
}

// ToRoutingRow projects the boolean output row for input onto the
// device-facing codec.Row, applying overlay on top of the profile values
// where overlay is non-nil (used by the mute state machine's transient
// mute overlays, §4.5). HardTune has no boolean profile cell; it is
// always left Off unless overridden by overlay.
func (m *Matrix) ToRoutingRow(input shared.InputChannel, overlay map[shared.RoutingOutput]codec.RouteValue) codec.Row {
	row := make(codec.Row, len(shared.RoutingOutputs))
	for _, out := range shared.RoutingOutputs {
		if overlay != nil {
			if v, ok := overlay[out]; ok {
				row[out] = v
				continue
			}
		}
		if out == shared.RouteHardTune {
			row[out] = codec.Off
			continue
		}
		if m.cells[input][outputChannelFor(out)] {
			row[out] = codec.On
		} else {
			row[out] = codec.Off
		}
	}
	return row
}

func outputChannelFor(r shared.RoutingOutput) shared.OutputChannel {
	switch r {
	case shared.RouteHeadphones:
		return shared.OutHeadphones
	case shared.RouteStreamMix:
		return shared.OutStreamMix
	case shared.RouteChatMic:
		return shared.OutChatMic
	case shared.RouteSampler:
		return shared.OutSampler
	case shared.RouteLineOut:
		return shared.OutLineOut
	default:
		return shared.OutHeadphones
	}
}
