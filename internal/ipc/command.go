package ipc

import (
	"encoding/json"

	"github.com/goxlr-daemon/goxlrd/internal/shared"
)

// GoXLRCommand is one device-addressed operation (§6).
type GoXLRCommand struct {
	Kind string // "Configuration" | "Microphone" | "Channels" | "Pages"

	Configuration ConfigurationCommand
	Microphone    MicrophoneCommand
	Channels      Channels
	Pages         PageCommand
}

const (
	CommandConfiguration = "Configuration"
	CommandMicrophone    = "Microphone"
	CommandChannels      = "Channels"
	CommandPages         = "Pages"
)

func (c GoXLRCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CommandConfiguration:
		return taggedValue(c.Kind, c.Configuration)
	case CommandMicrophone:
		return taggedValue(c.Kind, c.Microphone)
	case CommandChannels:
		return taggedValue(c.Kind, c.Channels)
	case CommandPages:
		return taggedValue(c.Kind, c.Pages)
	default:
		return nil, unknownVariant("GoXLRCommand", c.Kind)
	}
}

func (c *GoXLRCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("GoXLRCommand", string(data))
	}
	c.Kind = key
	switch key {
	case CommandConfiguration:
		return json.Unmarshal(payload, &c.Configuration)
	case CommandMicrophone:
		return json.Unmarshal(payload, &c.Microphone)
	case CommandChannels:
		return json.Unmarshal(payload, &c.Channels)
	case CommandPages:
		return json.Unmarshal(payload, &c.Pages)
	default:
		return unknownVariant("GoXLRCommand", key)
	}
}

// ConfigurationCommand toggles a device-wide behaviour flag.
type ConfigurationCommand struct {
	Kind string // "SubMixEnabled" | "ButtonHoldTime" | "ChangePageWithButtons"

	SubMixEnabled         bool
	ButtonHoldTime        uint16
	ChangePageWithButtons bool
}

const (
	ConfigSubMixEnabled         = "SubMixEnabled"
	ConfigButtonHoldTime        = "ButtonHoldTime"
	ConfigChangePageWithButtons = "ChangePageWithButtons"
)

func (c ConfigurationCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ConfigSubMixEnabled:
		return taggedValue(c.Kind, c.SubMixEnabled)
	case ConfigButtonHoldTime:
		return taggedValue(c.Kind, c.ButtonHoldTime)
	case ConfigChangePageWithButtons:
		return taggedValue(c.Kind, c.ChangePageWithButtons)
	default:
		return nil, unknownVariant("ConfigurationCommand", c.Kind)
	}
}

func (c *ConfigurationCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("ConfigurationCommand", string(data))
	}
	c.Kind = key
	switch key {
	case ConfigSubMixEnabled:
		return json.Unmarshal(payload, &c.SubMixEnabled)
	case ConfigButtonHoldTime:
		return json.Unmarshal(payload, &c.ButtonHoldTime)
	case ConfigChangePageWithButtons:
		return json.Unmarshal(payload, &c.ChangePageWithButtons)
	default:
		return unknownVariant("ConfigurationCommand", key)
	}
}

// MicrophoneCommand selects one of the mic DSP sub-blocks.
type MicrophoneCommand struct {
	Kind string // "Setup" | "Equaliser" | "Compressor" | "Gate" | "GetMicLevel"

	Setup      SetupCommand
	Equaliser  EqualiserCommand
	Compressor CompressorCommand
	Gate       GateCommand
}

const (
	MicSetup       = "Setup"
	MicEqualiser   = "Equaliser"
	MicCompressor  = "Compressor"
	MicGate        = "Gate"
	MicGetMicLevel = "GetMicLevel"
)

func (c MicrophoneCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case MicGetMicLevel:
		return taggedUnit(c.Kind)
	case MicSetup:
		return taggedValue(c.Kind, c.Setup)
	case MicEqualiser:
		return taggedValue(c.Kind, c.Equaliser)
	case MicCompressor:
		return taggedValue(c.Kind, c.Compressor)
	case MicGate:
		return taggedValue(c.Kind, c.Gate)
	default:
		return nil, unknownVariant("MicrophoneCommand", c.Kind)
	}
}

func (c *MicrophoneCommand) UnmarshalJSON(data []byte) error {
	key, payload, unit, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		if unit != MicGetMicLevel {
			return unknownVariant("MicrophoneCommand", unit)
		}
		c.Kind = unit
		return nil
	}
	c.Kind = key
	switch key {
	case MicSetup:
		return json.Unmarshal(payload, &c.Setup)
	case MicEqualiser:
		return json.Unmarshal(payload, &c.Equaliser)
	case MicCompressor:
		return json.Unmarshal(payload, &c.Compressor)
	case MicGate:
		return json.Unmarshal(payload, &c.Gate)
	default:
		return unknownVariant("MicrophoneCommand", key)
	}
}

// SetupCommand selects the physical mic input or its gain.
type SetupCommand struct {
	Kind string // "SetMicType" | "SetMicGain"

	SetMicType MicrophoneTypeWire
	SetMicGain uint16
}

const (
	SetupSetMicType = "SetMicType"
	SetupSetMicGain = "SetMicGain"
)

func (c SetupCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case SetupSetMicType:
		return taggedValue(c.Kind, c.SetMicType)
	case SetupSetMicGain:
		return taggedValue(c.Kind, c.SetMicGain)
	default:
		return nil, unknownVariant("SetupCommand", c.Kind)
	}
}

func (c *SetupCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("SetupCommand", string(data))
	}
	c.Kind = key
	switch key {
	case SetupSetMicType:
		return json.Unmarshal(payload, &c.SetMicType)
	case SetupSetMicGain:
		return json.Unmarshal(payload, &c.SetMicGain)
	default:
		return unknownVariant("SetupCommand", key)
	}
}

// MicrophoneTypeWire is the wire name of a profile.MicrophoneType.
type MicrophoneTypeWire string

const (
	MicTypeXLR     MicrophoneTypeWire = "XLR"
	MicTypePhantom MicrophoneTypeWire = "Phantom"
	MicTypeJack    MicrophoneTypeWire = "Jack"
)

// EqualiserCommand selects the full or mini equalizer block.
type EqualiserCommand struct {
	Kind string // "Mini" | "Full"

	Mini MiniEqualiserCommand
	Full FullEqualiserCommand
}

const (
	EqMini = "Mini"
	EqFull = "Full"
)

func (c EqualiserCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case EqMini:
		return taggedValue(c.Kind, c.Mini)
	case EqFull:
		return taggedValue(c.Kind, c.Full)
	default:
		return nil, unknownVariant("EqualiserCommand", c.Kind)
	}
}

func (c *EqualiserCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("EqualiserCommand", string(data))
	}
	c.Kind = key
	switch key {
	case EqMini:
		return json.Unmarshal(payload, &c.Mini)
	case EqFull:
		return json.Unmarshal(payload, &c.Full)
	default:
		return unknownVariant("EqualiserCommand", key)
	}
}

// MiniEqualiserCommand adjusts one band of the six-band equalizer.
type MiniEqualiserCommand struct {
	Kind string // "SetFrequency" | "SetGain"

	SetFrequency SetMiniFrequency
	SetGain      SetMiniGain
}

const (
	MiniEqSetFrequency = "SetFrequency"
	MiniEqSetGain      = "SetGain"
)

func (c MiniEqualiserCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case MiniEqSetFrequency:
		return taggedValue(c.Kind, c.SetFrequency)
	case MiniEqSetGain:
		return taggedValue(c.Kind, c.SetGain)
	default:
		return nil, unknownVariant("MiniEqualiserCommand", c.Kind)
	}
}

func (c *MiniEqualiserCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("MiniEqualiserCommand", string(data))
	}
	c.Kind = key
	switch key {
	case MiniEqSetFrequency:
		return json.Unmarshal(payload, &c.SetFrequency)
	case MiniEqSetGain:
		return json.Unmarshal(payload, &c.SetGain)
	default:
		return unknownVariant("MiniEqualiserCommand", key)
	}
}

// SetMiniFrequency names the mini-EQ band and its new frequency in Hz.
type SetMiniFrequency struct {
	Base      MiniEqBandWire `json:"base"`
	Frequency float64        `json:"frequency"`
}

// SetMiniGain names the mini-EQ band and its new gain in dB.
type SetMiniGain struct {
	Base MiniEqBandWire `json:"base"`
	Gain int8           `json:"gain"`
}

// FullEqualiserCommand adjusts one band of the ten-band equalizer.
type FullEqualiserCommand struct {
	Kind string // "SetFrequency" | "SetGain"

	SetFrequency SetFullFrequency
	SetGain      SetFullGain
}

const (
	FullEqSetFrequency = "SetFrequency"
	FullEqSetGain      = "SetGain"
)

func (c FullEqualiserCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case FullEqSetFrequency:
		return taggedValue(c.Kind, c.SetFrequency)
	case FullEqSetGain:
		return taggedValue(c.Kind, c.SetGain)
	default:
		return nil, unknownVariant("FullEqualiserCommand", c.Kind)
	}
}

func (c *FullEqualiserCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("FullEqualiserCommand", string(data))
	}
	c.Kind = key
	switch key {
	case FullEqSetFrequency:
		return json.Unmarshal(payload, &c.SetFrequency)
	case FullEqSetGain:
		return json.Unmarshal(payload, &c.SetGain)
	default:
		return unknownVariant("FullEqualiserCommand", key)
	}
}

// SetFullFrequency names the full-EQ band and its new frequency in Hz.
type SetFullFrequency struct {
	Base      FullEqBandWire `json:"base"`
	Frequency float64        `json:"frequency"`
}

// SetFullGain names the full-EQ band and its new gain in dB.
type SetFullGain struct {
	Base FullEqBandWire `json:"base"`
	Gain int8           `json:"gain"`
}

// FullEqBandWire and MiniEqBandWire are the wire names of the equalizer
// band enums, spelled out rather than numeric so a CLI payload is
// self-describing.
type FullEqBandWire string
type MiniEqBandWire string

// CompressorCommand adjusts the compressor block.
type CompressorCommand struct {
	Kind string // "SetThreshold" | "SetRatio" | "SetAttack" | "SetRelease" | "SetMakeupGain"

	SetThreshold  int8
	SetRatio      uint8
	SetAttack     uint8
	SetRelease    uint8
	SetMakeupGain int8
}

const (
	CompSetThreshold  = "SetThreshold"
	CompSetRatio      = "SetRatio"
	CompSetAttack     = "SetAttack"
	CompSetRelease    = "SetRelease"
	CompSetMakeupGain = "SetMakeupGain"
)

func (c CompressorCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CompSetThreshold:
		return taggedValue(c.Kind, c.SetThreshold)
	case CompSetRatio:
		return taggedValue(c.Kind, c.SetRatio)
	case CompSetAttack:
		return taggedValue(c.Kind, c.SetAttack)
	case CompSetRelease:
		return taggedValue(c.Kind, c.SetRelease)
	case CompSetMakeupGain:
		return taggedValue(c.Kind, c.SetMakeupGain)
	default:
		return nil, unknownVariant("CompressorCommand", c.Kind)
	}
}

func (c *CompressorCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("CompressorCommand", string(data))
	}
	c.Kind = key
	switch key {
	case CompSetThreshold:
		return json.Unmarshal(payload, &c.SetThreshold)
	case CompSetRatio:
		return json.Unmarshal(payload, &c.SetRatio)
	case CompSetAttack:
		return json.Unmarshal(payload, &c.SetAttack)
	case CompSetRelease:
		return json.Unmarshal(payload, &c.SetRelease)
	case CompSetMakeupGain:
		return json.Unmarshal(payload, &c.SetMakeupGain)
	default:
		return unknownVariant("CompressorCommand", key)
	}
}

// GateCommand adjusts the noise gate block.
type GateCommand struct {
	Kind string // "SetEnabled" | "SetThreshold" | "SetAttack" | "SetRelease" | "SetAttenuation"

	SetEnabled     bool
	SetThreshold   int8
	SetAttack      uint8
	SetRelease     uint8
	SetAttenuation uint8
}

const (
	GateSetEnabled     = "SetEnabled"
	GateSetThreshold   = "SetThreshold"
	GateSetAttack      = "SetAttack"
	GateSetRelease     = "SetRelease"
	GateSetAttenuation = "SetAttenuation"
)

func (c GateCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case GateSetEnabled:
		return taggedValue(c.Kind, c.SetEnabled)
	case GateSetThreshold:
		return taggedValue(c.Kind, c.SetThreshold)
	case GateSetAttack:
		return taggedValue(c.Kind, c.SetAttack)
	case GateSetRelease:
		return taggedValue(c.Kind, c.SetRelease)
	case GateSetAttenuation:
		return taggedValue(c.Kind, c.SetAttenuation)
	default:
		return nil, unknownVariant("GateCommand", c.Kind)
	}
}

func (c *GateCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("GateCommand", string(data))
	}
	c.Kind = key
	switch key {
	case GateSetEnabled:
		return json.Unmarshal(payload, &c.SetEnabled)
	case GateSetThreshold:
		return json.Unmarshal(payload, &c.SetThreshold)
	case GateSetAttack:
		return json.Unmarshal(payload, &c.SetAttack)
	case GateSetRelease:
		return json.Unmarshal(payload, &c.SetRelease)
	case GateSetAttenuation:
		return json.Unmarshal(payload, &c.SetAttenuation)
	default:
		return unknownVariant("GateCommand", key)
	}
}

// Channels addresses a per-channel volume/mute/sub-mix command.
type Channels struct {
	Channel shared.FaderChannel `json:"-"`
	Command ChannelCommand      `json:"command"`
}

// channelsWire is Channels' JSON shape, with Channel spelled out by name
// rather than its internal integer value.
type channelsWire struct {
	Channel string         `json:"channel"`
	Command ChannelCommand `json:"command"`
}

func (c Channels) MarshalJSON() ([]byte, error) {
	return json.Marshal(channelsWire{Channel: c.Channel.String(), Command: c.Command})
}

func (c *Channels) UnmarshalJSON(data []byte) error {
	var w channelsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ch, ok := parseFaderChannel(w.Channel)
	if !ok {
		return unknownVariant("FaderChannel", w.Channel)
	}
	c.Channel = ch
	c.Command = w.Command
	return nil
}

func parseFaderChannel(name string) (shared.FaderChannel, bool) {
	for _, c := range shared.FaderChannels {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// ChannelCommand sets a channel's volume or mute state.
type ChannelCommand struct {
	Kind string // "SetVolume" | "SetMute" | "SetSubMixVolume" | "SetSubMixLinked"

	SetVolume       uint8
	SetMute         MuteStateWire
	SetSubMixVolume uint8
	SetSubMixLinked *float64
}

const (
	ChannelSetVolume       = "SetVolume"
	ChannelSetMute         = "SetMute"
	ChannelSetSubMixVolume = "SetSubMixVolume"
	ChannelSetSubMixLinked = "SetSubMixLinked"
)

func (c ChannelCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ChannelSetVolume:
		return taggedValue(c.Kind, c.SetVolume)
	case ChannelSetMute:
		return taggedValue(c.Kind, c.SetMute)
	case ChannelSetSubMixVolume:
		return taggedValue(c.Kind, c.SetSubMixVolume)
	case ChannelSetSubMixLinked:
		return taggedValue(c.Kind, c.SetSubMixLinked)
	default:
		return nil, unknownVariant("ChannelCommand", c.Kind)
	}
}

func (c *ChannelCommand) UnmarshalJSON(data []byte) error {
	key, payload, _, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		return unknownVariant("ChannelCommand", string(data))
	}
	c.Kind = key
	switch key {
	case ChannelSetVolume:
		return json.Unmarshal(payload, &c.SetVolume)
	case ChannelSetMute:
		return json.Unmarshal(payload, &c.SetMute)
	case ChannelSetSubMixVolume:
		return json.Unmarshal(payload, &c.SetSubMixVolume)
	case ChannelSetSubMixLinked:
		return json.Unmarshal(payload, &c.SetSubMixLinked)
	default:
		return unknownVariant("ChannelCommand", key)
	}
}

// MuteStateWire is the wire name of a profile.MuteState.
type MuteStateWire string

const (
	MuteStateUnmuted MuteStateWire = "Unmuted"
	MuteStatePressed MuteStateWire = "Pressed"
	MuteStateHeld    MuteStateWire = "Held"
)

// PageCommand manages the fader-page list.
type PageCommand struct {
	Kind string // "AddPage" | "LoadPage" | "RemovePage" | "SetFader"

	LoadPage   uint8
	RemovePage uint8
	SetFader   SetFader
}

const (
	PageAddPage    = "AddPage"
	PageLoadPage   = "LoadPage"
	PageRemovePage = "RemovePage"
	PageSetFader   = "SetFader"
)

func (c PageCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case PageAddPage:
		return taggedUnit(c.Kind)
	case PageLoadPage:
		return taggedValue(c.Kind, c.LoadPage)
	case PageRemovePage:
		return taggedValue(c.Kind, c.RemovePage)
	case PageSetFader:
		return taggedValue(c.Kind, c.SetFader)
	default:
		return nil, unknownVariant("PageCommand", c.Kind)
	}
}

func (c *PageCommand) UnmarshalJSON(data []byte) error {
	key, payload, unit, isUnit, err := taggedVariant(data)
	if err != nil {
		return err
	}
	if isUnit {
		if unit != PageAddPage {
			return unknownVariant("PageCommand", unit)
		}
		c.Kind = unit
		return nil
	}
	c.Kind = key
	switch key {
	case PageLoadPage:
		return json.Unmarshal(payload, &c.LoadPage)
	case PageRemovePage:
		return json.Unmarshal(payload, &c.RemovePage)
	case PageSetFader:
		return json.Unmarshal(payload, &c.SetFader)
	default:
		return unknownVariant("PageCommand", key)
	}
}

// SetFader assigns a channel to a fader on a specific page.
type SetFader struct {
	PageNumber uint8     `json:"page_number"`
	Fader      FaderWire `json:"fader"`
	Channel    string    `json:"channel"`
}

// FaderWire is the wire name of a shared.Fader ("A".."D").
type FaderWire string
