package profile

import "github.com/goxlr-daemon/goxlrd/internal/shared"

// baseColour is the per-channel accent colour used by the default profile,
// grounded in the original implementation's default profile builder.
var baseColour = map[shared.FaderChannel]Colour{
	shared.Microphone: {Red: 255, Green: 246, Blue: 84},
	shared.Chat:       {Red: 36, Green: 255, Blue: 43},
	shared.Music:      {Red: 42, Green: 255, Blue: 112},
	shared.Game:       {Red: 255, Green: 19, Blue: 142},
	shared.Console:    {Red: 86, Green: 14, Blue: 255},
	shared.LineIn:     {Red: 255, Green: 0, Blue: 0},
	shared.System:     {Red: 0, Green: 255, Blue: 0},
	shared.Sample:     {Red: 0, Green: 0, Blue: 255},
	shared.Headphones: {Red: 255, Green: 36, Blue: 13},
	shared.LineOut:    {Red: 255, Green: 0, Blue: 255},
}

// DefaultProfile builds the profile used when a device has none stored
// (EXPANSION's loader is an external collaborator; this is the fallback
// shape it hands to a fresh Device Actor). Mirrors the original
// implementation's default builder: dim-active mute buttons, fader
// bottoms in each channel's accent colour, headphones bumped to full volume, and a three-page layout.
func DefaultProfile() *Profile {
	p := &Profile{
		Channels: make(map[shared.FaderChannel]*ChannelConfig, len(shared.FaderChannels)),
		Outputs:  make(map[shared.FaderChannel]*OutputConfig, len(shared.FaderChannels)),
		Routing:  NewRoutingTable(),
		Configuration: Configuration{
			ButtonHoldTimeMs:      500,
			ChangePageWithButtons: true,
		},
	}

	for _, c := range shared.FaderChannels {
		accent := baseColour[c]
		volume := uint8(128)
		if c == shared.Headphones {
			volume = 255
		}
		p.Channels[c] = &ChannelConfig{
			Volume:    volume,
			MuteState: Unmuted,
			Display: FaderDisplay{
				FaderColours: FaderColourSet{
					TopColour:    Colour{},
					BottomColour: accent,
				},
				MuteColours: ButtonColourSet{
					ActiveColour:      accent,
					InactiveColour:    Colour{},
					InactiveBehaviour: shared.DimActive,
				},
				Screen: Screen{Colour: accent},
			},
		}
		p.Outputs[c] = &OutputConfig{MixAssignment: shared.MixA}
	}

	p.Pages = Pages{
		Current: 0,
		List: []FaderPage{
			{Assignments: [4]shared.FaderChannel{shared.Microphone, shared.Music, shared.Game, shared.Chat}},
			{Assignments: [4]shared.FaderChannel{shared.System, shared.Game, shared.LineIn, shared.LineOut}},
			{Assignments: [4]shared.FaderChannel{shared.Sample, shared.Chat, shared.Console, shared.Microphone}},
		},
	}

	for _, in := range shared.InputChannels {
		p.Routing.Set(in, shared.OutHeadphones, true)
		p.Routing.Set(in, shared.OutStreamMix, true)
	}
	p.Routing.Set(shared.InMicrophone, shared.OutLineOut, true)
	p.Routing.Set(shared.InMicrophone, shared.OutChatMic, true)
	p.Routing.Set(shared.InMicrophone, shared.OutSampler, true)
	p.Routing.Set(shared.InSample, shared.OutChatMic, true)

	p.Cough = Cough{
		ChannelAssignment: shared.Microphone,
		CoughBehaviour:    shared.CoughHold,
		MuteState:         Unmuted,
	}

	return p
}

// DefaultMicProfile builds the mic DSP configuration used when a device
// has none stored: gate enabled at -30 dB with 100% attenuation,
// compressor threshold -24 dB with no makeup gain, flat EQ.
func DefaultMicProfile() *MicProfile {
	mp := &MicProfile{
		Type: MicXLR,
		Gains: MicGains{
			XLRGain:     255,
			PhantomGain: 255,
			JackGain:    255,
		},
		Gate: Gate{
			Enabled:     true,
			Threshold:   -30,
			Attenuation: 100,
		},
		Compressor: Compressor{
			Threshold:  -24,
			MakeupGain: 0,
		},
	}
	for i, b := range FullEqBands {
		mp.FullEq.Bands[b] = EqBand{Frequency: defaultFullEqHz[i], Gain: 0}
	}
	for i, b := range MiniEqBands {
		mp.MiniEq.Bands[b] = EqBand{Frequency: defaultMiniEqHz[i], Gain: 0}
	}
	return mp
}

var defaultFullEqHz = [10]float64{31, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}
var defaultMiniEqHz = [6]float64{90, 250, 500, 1000, 3000, 8000}
