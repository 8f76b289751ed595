package codec

import "github.com/goxlr-daemon/goxlrd/internal/shared"

// ChannelIndex is the device-ordered channel index used as the subtarget
// nibble for channel-addressed commands (§4.2). Reordering this table
// desynchronises the device.
var ChannelIndex = map[shared.FaderChannel]uint8{
	shared.Microphone: 0,
	shared.LineIn:     1,
	shared.Console:    2,
	shared.System:     3,
	shared.Game:       4,
	shared.Chat:       5,
	shared.Sample:     6,
	shared.Music:      7,
	shared.Headphones: 8,
	shared.LineOut:    10,
}

// MicrophoneMonitorIndex is the device channel index reserved for the
// microphone-monitor lane, which has no FaderChannel counterpart (§4.2).
const MicrophoneMonitorIndex uint8 = 9

// RoutingByteOffset is the fixed byte offset of a RoutingOutput's L
// channel within a 22-byte routing row block (§4.2). The R channel is at
// offset+2, except HardTune which is mono and occupies only this offset.
var RoutingByteOffset = map[shared.RoutingOutput]int{
	shared.RouteHeadphones: 1,
	shared.RouteStreamMix:  5,
	shared.RouteChatMic:    9,
	shared.RouteSampler:    13,
	shared.RouteLineOut:    17,
	shared.RouteHardTune:   21,
}

// RoutingRowSize is the length in bytes of one encoded routing row.
const RoutingRowSize = 22
