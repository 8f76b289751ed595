// Package profile defines the in-memory, single-writer data model owned by
// a device actor: channel configuration, fader pages, routing, the cough
// button and device-wide configuration (§3). Loading, saving and parsing a
// profile from disk is an external collaborator's job (§1) — this package
// only defines the shape and the invariants the actor must preserve.
package profile

import "github.com/goxlr-daemon/goxlrd/internal/shared"

// Colour is a 24-bit RGB colour, packed as (r<<16)|(g<<8)|b when it hits
// the wire (§4.2).
type Colour struct {
	Red, Green, Blue uint8
}

// MuteState is the persisted, device-independent mute state of a channel.
type MuteState int

const (
	Unmuted MuteState = iota
	Pressed
	Held
)

// MuteActions holds the Press and Hold target lists for a channel.
type MuteActions struct {
	Press []shared.OutputChannel
	Hold  []shared.OutputChannel
}

// Targets returns the configured target list for the given action.
func (m MuteActions) Targets(action shared.MuteAction) []shared.OutputChannel {
	if action == shared.ActionHold {
		return m.Hold
	}
	return m.Press
}

// FaderColourSet is the top/bottom colour pair shown for a fader's LED
// strip.
type FaderColourSet struct {
	TopColour    Colour
	BottomColour Colour
}

// ButtonColourSet is the active/inactive colour pair and the behaviour
// used to render the Unmuted state of a mute button.
type ButtonColourSet struct {
	ActiveColour      Colour
	InactiveColour    Colour
	InactiveBehaviour shared.InactiveBehaviour
}

// Screen is the scribble display content for one fader.
type Screen struct {
	Colour   Colour
	Inverted bool
	Image    *string
	Text     *string
	Label    *rune
}

// FaderDisplayMode is a style flag applied to a fader's VU display.
type FaderDisplayMode int

const (
	DisplayGradient FaderDisplayMode = iota
	DisplayMeter
)

// FaderDisplay groups everything the fader-paging logic needs to render a
// channel onto a physical fader.
type FaderDisplay struct {
	FaderDisplayMode []FaderDisplayMode
	FaderColours     FaderColourSet
	MuteColours      ButtonColourSet
	Screen           Screen
}

// Contains reports whether mode is present in the style list.
func (d FaderDisplay) Contains(mode FaderDisplayMode) bool {
	for _, m := range d.FaderDisplayMode {
		if m == mode {
			return true
		}
	}
	return false
}

// ChannelConfig is the per-FaderChannel configuration block of §3.
type ChannelConfig struct {
	Volume      uint8
	MuteState   MuteState
	MuteActions MuteActions
	Display     FaderDisplay
}

// FaderPage is one set of four fader-to-channel assignments.
type FaderPage struct {
	Assignments [4]shared.FaderChannel
}

// Channel returns the FaderChannel assigned to fader f on this page.
func (p FaderPage) Channel(f shared.Fader) shared.FaderChannel {
	return p.Assignments[f]
}

// Pages holds the ordered list of fader pages and which one is active.
// Invariant: Current < len(List) and len(List) >= 1.
type Pages struct {
	Current int
	List    []FaderPage
}

// Valid reports whether the Pages invariant holds.
func (p Pages) Valid() bool {
	return len(p.List) >= 1 && p.Current >= 0 && p.Current < len(p.List)
}

// Active returns the currently-selected page.
func (p Pages) Active() FaderPage {
	return p.List[p.Current]
}

// RoutingTable is the persisted, boolean input x output routing matrix.
// The device-facing, richer RouteValue view lives in package routing —
// this is just the user-editable profile data.
type RoutingTable map[shared.InputChannel]map[shared.OutputChannel]bool

// NewRoutingTable builds a routing table with every cell false.
func NewRoutingTable() RoutingTable {
	t := make(RoutingTable, len(shared.InputChannels))
	for _, in := range shared.InputChannels {
		row := make(map[shared.OutputChannel]bool, len(shared.OutputChannels))
		for _, out := range shared.OutputChannels {
			row[out] = false
		}
		t[in] = row
	}
	return t
}

// Set writes a routing cell, silently ignoring the forbidden
// (Chat, ChatMic) pair (§3).
func (t RoutingTable) Set(in shared.InputChannel, out shared.OutputChannel, value bool) {
	if in == shared.InChat && out == shared.OutChatMic {
		return
	}
	if t[in] == nil {
		t[in] = make(map[shared.OutputChannel]bool, len(shared.OutputChannels))
	}
	t[in][out] = value
}

// Row returns a copy of the routing row for an input channel.
func (t RoutingTable) Row(in shared.InputChannel) map[shared.OutputChannel]bool {
	row := make(map[shared.OutputChannel]bool, len(shared.OutputChannels))
	for _, out := range shared.OutputChannels {
		row[out] = t[in][out]
	}
	return row
}

// Cough is the dedicated momentary/toggle mute button and its behaviour.
type Cough struct {
	ChannelAssignment shared.FaderChannel
	CoughBehaviour    shared.CoughBehaviour
	MuteState         MuteState
	MuteActions       MuteActions
	Colours           ButtonColourSet
}

// Configuration groups device-wide behaviour flags.
type Configuration struct {
	ButtonHoldTimeMs      uint16
	ChangePageWithButtons bool
	SubMixEnabled         bool
}

// SubMix is the optional secondary-bus volume for a channel, linked to the
// main volume by a fixed ratio when Linked is set (EXPANSION §1).
type SubMix struct {
	Volume uint8
	Linked *float64 // ratio of sub-mix volume to main volume, nil if unlinked
}

// OutputConfig groups the mix-assignment and sub-mix state for a channel.
type OutputConfig struct {
	MixAssignment shared.MixAssignment
	SubMix        SubMix
}

// Profile is the complete single-writer device profile held by a device
// actor (§3). It is created from an external loader at actor start and
// mutated only by that actor.
type Profile struct {
	Channels      map[shared.FaderChannel]*ChannelConfig
	Pages         Pages
	Routing       RoutingTable
	Cough         Cough
	Configuration Configuration
	Outputs       map[shared.FaderChannel]*OutputConfig
}

// Channel returns the channel config for c, creating a zero-value entry if
// necessary. Callers in the actor hold the profile exclusively, so this
// never races.
func (p *Profile) Channel(c shared.FaderChannel) *ChannelConfig {
	if p.Channels == nil {
		p.Channels = make(map[shared.FaderChannel]*ChannelConfig)
	}
	if p.Channels[c] == nil {
		p.Channels[c] = &ChannelConfig{}
	}
	return p.Channels[c]
}

// Output returns the output config for c, creating a zero-value entry if
// necessary.
func (p *Profile) Output(c shared.FaderChannel) *OutputConfig {
	if p.Outputs == nil {
		p.Outputs = make(map[shared.FaderChannel]*OutputConfig)
	}
	if p.Outputs[c] == nil {
		p.Outputs[c] = &OutputConfig{}
	}
	return p.Outputs[c]
}

// NextPageIndex returns the page index that next_page would select,
// wrapping modulo the page count. A single-page profile maps to itself.
func (p Pages) NextPageIndex() int {
	if len(p.List) <= 1 {
		return p.Current
	}
	return (p.Current + 1) % len(p.List)
}

// PrevPageIndex returns the page index that prev_page would select.
func (p Pages) PrevPageIndex() int {
	if len(p.List) <= 1 {
		return p.Current
	}
	return (p.Current - 1 + len(p.List)) % len(p.List)
}
