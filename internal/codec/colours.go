package codec

import (
	"encoding/binary"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
)

// colourBytes packs a colour as (r<<16)|(g<<8)|b little-endian (§4.2).
func colourBytes(c profile.Colour) []byte {
	packed := uint32(c.Red)<<16 | uint32(c.Green)<<8 | uint32(c.Blue)
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, packed)
	return buf
}

// OneColour is a single-colour slot, used as a spacer between colour map
// sections.
type OneColour struct {
	Colour1 profile.Colour
}

func (o OneColour) bytes() []byte { return colourBytes(o.Colour1) }

// TwoColour is an active/inactive colour pair — the shape of a button or
// scribble slot in the colour map.
type TwoColour struct {
	Colour1 profile.Colour
	Colour2 profile.Colour
}

func (t TwoColour) bytes() []byte {
	return append(colourBytes(t.Colour1), colourBytes(t.Colour2)...)
}

// ThreeColour is the left/right/knob colour triple for one rotary
// encoder's ring.
type ThreeColour struct {
	Left, Right, Knob profile.Colour
}

func (t ThreeColour) bytes() []byte {
	out := colourBytes(t.Left)
	out = append(out, colourBytes(t.Right)...)
	out = append(out, colourBytes(t.Knob)...)
	return out
}

// FaderColour is one fader's top/bottom colour pair. On animation-capable
// firmware it is padded with 12 extra zeroed u32 slots (§4.2).
type FaderColour struct {
	Colour1, Colour2 profile.Colour
}

func (f FaderColour) bytes(animationCapable bool) []byte {
	out := colourBytes(f.Colour1)
	out = append(out, colourBytes(f.Colour2)...)
	if animationCapable {
		out = append(out, make([]byte, 12*4)...)
	}
	return out
}

// ColourScheme is the full fixed-layout device colour array (§3, §4.2).
type ColourScheme struct {
	Scribbles     [4]TwoColour
	Mood          [2]TwoColour
	Mutes         [4]TwoColour
	Faders        [4]FaderColour
	Spacer1       OneColour
	Presets       [6]TwoColour
	Encoders      [4]ThreeColour
	Spacer2       OneColour
	SampleBanks   [3]TwoColour
	SampleButtons [4]TwoColour
	FxButtons     [4]TwoColour
	MicButtons    [2]TwoColour
	TailSpacer    TwoColour
}

// EncodeColourMap serializes the colour scheme in fixed section order
// (§4.2). animationCapable controls the fader-colour padding rule;
// output length is constant for a given firmware class (§8).
func EncodeColourMap(c ColourScheme, animationCapable bool) []byte {
	var out []byte
	for _, v := range c.Scribbles {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.Mood {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.Mutes {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.Faders {
		out = append(out, v.bytes(animationCapable)...)
	}
	out = append(out, c.Spacer1.bytes()...)
	for _, v := range c.Presets {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.Encoders {
		out = append(out, v.bytes()...)
	}
	out = append(out, c.Spacer2.bytes()...)
	for _, v := range c.SampleBanks {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.SampleButtons {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.FxButtons {
		out = append(out, v.bytes()...)
	}
	for _, v := range c.MicButtons {
		out = append(out, v.bytes()...)
	}
	out = append(out, c.TailSpacer.bytes()...)
	return out
}

// ColourMapLength returns the byte length EncodeColourMap produces for a
// given firmware class, without building a scheme.
func ColourMapLength(animationCapable bool) int {
	faderLen := 8
	if animationCapable {
		faderLen += 12 * 4
	}
	return 4*8 + 2*8 + 4*8 + 4*faderLen + 4 + 6*8 + 4*12 + 4 + 3*8 + 4*8 + 4*8 + 2*8 + 8
}
