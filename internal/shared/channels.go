// Package shared holds the fixed enumerations that describe a GoXLR-class
// device: channels, faders, buttons, encoders and routing targets. Nothing
// in here changes at runtime — reordering any of it desynchronises the
// wire protocol in internal/codec, so these are declared once and treated
// as immutable across the whole module.
package shared

// FaderChannel is an audio lane that can be placed on a physical fader.
type FaderChannel int

const (
	Microphone FaderChannel = iota
	Chat
	Music
	Game
	Console
	LineIn
	System
	Sample
	Headphones
	LineOut
)

// FaderChannels lists every FaderChannel in a stable order, for iteration.
var FaderChannels = []FaderChannel{
	Microphone, Chat, Music, Game, Console, LineIn, System, Sample, Headphones, LineOut,
}

func (c FaderChannel) String() string {
	switch c {
	case Microphone:
		return "Microphone"
	case Chat:
		return "Chat"
	case Music:
		return "Music"
	case Game:
		return "Game"
	case Console:
		return "Console"
	case LineIn:
		return "LineIn"
	case System:
		return "System"
	case Sample:
		return "Sample"
	case Headphones:
		return "Headphones"
	case LineOut:
		return "LineOut"
	default:
		return "Unknown"
	}
}

// InputChannel is the subset of FaderChannels that can be a routing source.
type InputChannel int

const (
	InMicrophone InputChannel = iota
	InChat
	InMusic
	InGame
	InConsole
	InLineIn
	InSystem
	InSample
)

// InputChannels lists every InputChannel in a stable order.
var InputChannels = []InputChannel{
	InMicrophone, InChat, InMusic, InGame, InConsole, InLineIn, InSystem, InSample,
}

func (c InputChannel) String() string {
	switch c {
	case InMicrophone:
		return "Microphone"
	case InChat:
		return "Chat"
	case InMusic:
		return "Music"
	case InGame:
		return "Game"
	case InConsole:
		return "Console"
	case InLineIn:
		return "LineIn"
	case InSystem:
		return "System"
	case InSample:
		return "Sample"
	default:
		return "Unknown"
	}
}

// CanBeInput reports whether a FaderChannel is also a valid InputChannel.
func CanBeInput(c FaderChannel) bool {
	switch c {
	case Microphone, Chat, Music, Game, Console, LineIn, System, Sample:
		return true
	default:
		return false
	}
}

// AsInput converts a FaderChannel into its InputChannel counterpart. It
// panics if CanBeInput(c) is false — callers must check first, matching
// the original implementation's "Attempted to map a non-input channel"
// invariant.
func AsInput(c FaderChannel) InputChannel {
	switch c {
	case Microphone:
		return InMicrophone
	case Chat:
		return InChat
	case Music:
		return InMusic
	case Game:
		return InGame
	case Console:
		return InConsole
	case LineIn:
		return InLineIn
	case System:
		return InSystem
	case Sample:
		return InSample
	default:
		panic("shared: attempted to map a non-input channel: " + c.String())
	}
}

// OutputChannel is a routing destination as exposed in the user-facing
// profile model (boolean routing table, §3).
type OutputChannel int

const (
	OutHeadphones OutputChannel = iota
	OutStreamMix
	OutLineOut
	OutChatMic
	OutSampler
)

// OutputChannels lists every OutputChannel in a stable order.
var OutputChannels = []OutputChannel{OutHeadphones, OutStreamMix, OutLineOut, OutChatMic, OutSampler}

func (c OutputChannel) String() string {
	switch c {
	case OutHeadphones:
		return "Headphones"
	case OutStreamMix:
		return "StreamMix"
	case OutLineOut:
		return "LineOut"
	case OutChatMic:
		return "ChatMic"
	case OutSampler:
		return "Sampler"
	default:
		return "Unknown"
	}
}

// RoutingOutput is the device-side routing target. It is a superset of
// OutputChannel: HardTune has no user-visible on/off toggle of its own but
// still occupies a routing row cell the device expects a value for.
type RoutingOutput int

const (
	RouteHeadphones RoutingOutput = iota
	RouteStreamMix
	RouteChatMic
	RouteSampler
	RouteLineOut
	RouteHardTune
)

// RoutingOutputs lists every RoutingOutput in a stable order.
var RoutingOutputs = []RoutingOutput{
	RouteHeadphones, RouteStreamMix, RouteChatMic, RouteSampler, RouteLineOut, RouteHardTune,
}

func (c RoutingOutput) String() string {
	switch c {
	case RouteHeadphones:
		return "Headphones"
	case RouteStreamMix:
		return "StreamMix"
	case RouteChatMic:
		return "ChatMic"
	case RouteSampler:
		return "Sampler"
	case RouteLineOut:
		return "LineOut"
	case RouteHardTune:
		return "HardTune"
	default:
		return "Unknown"
	}
}

// FromOutputChannel maps the user-facing OutputChannel onto its
// RoutingOutput counterpart.
func FromOutputChannel(o OutputChannel) RoutingOutput {
	switch o {
	case OutHeadphones:
		return RouteHeadphones
	case OutStreamMix:
		return RouteStreamMix
	case OutLineOut:
		return RouteLineOut
	case OutChatMic:
		return RouteChatMic
	case OutSampler:
		return RouteSampler
	default:
		panic("shared: unknown output channel")
	}
}

// IsValidRoutingTarget reports whether a FaderChannel may appear as the
// destination of a route. Headphones and LineOut are valid mute targets
// but are not legal routing sinks (there's no "route into headphones"
// concept on the device).
func IsValidRoutingTarget(c FaderChannel) bool {
	return c != Headphones && c != LineOut
}

// Fader identifies one of the four physical fader slots, A being leftmost.
type Fader int

const (
	FaderA Fader = iota
	FaderB
	FaderC
	FaderD
)

// Faders lists every Fader in a stable order.
var Faders = []Fader{FaderA, FaderB, FaderC, FaderD}

func (f Fader) String() string {
	switch f {
	case FaderA:
		return "A"
	case FaderB:
		return "B"
	case FaderC:
		return "C"
	case FaderD:
		return "D"
	default:
		return "Unknown"
	}
}

// MuteActionChannel is the subset of FaderChannels that carry a
// press/hold mute-action target list in the profile. It excludes
// Headphones and LineOut, which can be muted but have no Press/Hold
// action lists of their own.
type MuteActionChannel int

const (
	MuteMicrophone MuteActionChannel = iota
	MuteChat
	MuteMusic
	MuteGame
	MuteConsole
	MuteLineIn
	MuteSystem
	MuteSample
)

// CanBeMuteAction reports whether a FaderChannel has an associated
// MuteActionChannel.
func CanBeMuteAction(c FaderChannel) bool {
	switch c {
	case Microphone, Chat, Music, Game, Console, LineIn, System, Sample:
		return true
	default:
		return false
	}
}

// AsMuteAction converts a FaderChannel into its MuteActionChannel. Callers
// must check CanBeMuteAction first.
func AsMuteAction(c FaderChannel) MuteActionChannel {
	switch c {
	case Microphone:
		return MuteMicrophone
	case Chat:
		return MuteChat
	case Music:
		return MuteMusic
	case Game:
		return MuteGame
	case Console:
		return MuteConsole
	case LineIn:
		return MuteLineIn
	case System:
		return MuteSystem
	case Sample:
		return MuteSample
	default:
		panic("shared: attempted to map a non-mute-action channel: " + c.String())
	}
}

// MuteAction distinguishes a button Press from a button Hold when looking
// up a channel's configured mute target list.
type MuteAction int

const (
	ActionPress MuteAction = iota
	ActionHold
)

// Button identifies a physical illuminated button on the device.
type Button int

const (
	ButtonFaderAMute Button = iota
	ButtonFaderBMute
	ButtonFaderCMute
	ButtonFaderDMute
	ButtonCough
	ButtonEffectMegaphone
	ButtonEffectRobot
	ButtonEffectHardTune
	ButtonEffectFx
	ButtonSamplerSelectA
	ButtonSamplerSelectB
	ButtonSamplerSelectC
	ButtonSamplerTopLeft
	ButtonSamplerTopRight
	ButtonSamplerBottomLeft
	ButtonSamplerBottomRight
	ButtonSamplerClear
)

// FaderMuteButton returns the mute button paired with a physical fader.
func FaderMuteButton(f Fader) Button {
	switch f {
	case FaderA:
		return ButtonFaderAMute
	case FaderB:
		return ButtonFaderBMute
	case FaderC:
		return ButtonFaderCMute
	case FaderD:
		return ButtonFaderDMute
	default:
		panic("shared: unknown fader")
	}
}

// Encoder identifies one of the four rotary encoders.
type Encoder int

const (
	EncoderGame Encoder = iota
	EncoderMusic
	EncoderChat
	EncoderMic
)

// DisplayState is the LED state a button is driven to.
type DisplayState int

const (
	DisplayColour1 DisplayState = iota
	DisplayColour2
	DisplayDimmedColour1
	DisplayDimmedColour2
	DisplayBlinking
)

// InactiveBehaviour selects how an Unmuted channel's mute button is lit.
type InactiveBehaviour int

const (
	DimActive InactiveBehaviour = iota
	DimInactive
	InactiveColour
)

// Project maps an InactiveBehaviour onto the DisplayState shown when the
// channel is Unmuted.
func (b InactiveBehaviour) Project() DisplayState {
	switch b {
	case DimActive:
		return DisplayDimmedColour1
	case DimInactive:
		return DisplayDimmedColour2
	case InactiveColour:
		return DisplayColour2
	default:
		return DisplayDimmedColour1
	}
}

// CoughBehaviour selects whether the cough button is momentary or toggled.
type CoughBehaviour int

const (
	CoughHold CoughBehaviour = iota
	CoughToggle
)

// MixAssignment selects which of the two sub-mix buses a channel's main
// output is assigned to.
type MixAssignment int

const (
	MixA MixAssignment = iota
	MixB
)
