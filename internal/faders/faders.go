// Package faders implements the Fader/Pages Manager (C6): assigning
// channels to physical faders idempotently, multi-page paging, and the
// paired-button page-change gesture.
package faders

import (
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/shared"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// ScribbleRenderer renders a fader's scribble bitmap. It is an external
// collaborator (§4.6 step 5) — the daemon never interprets image bytes or
// font data itself.
type ScribbleRenderer interface {
	Render(imagePath *string, text *string, label *rune, inverted bool) ([1024]byte, error)
}

// Assignment is everything the Device Actor must push to hardware after
// Manager.Assign decides a fader's channel actually changed.
type Assignment struct {
	Fader        shared.Fader
	Channel      shared.FaderChannel
	DisplayStyle profile.FaderDisplay
	Scribble     *[1024]byte // nil when the device class has no screen
}

// Manager tracks which channel is currently on each fader, mirroring the
// Device Actor's fader_state cache. The active page lives in
// profile.Pages, not here.
type Manager struct {
	fullSized bool
	renderer  ScribbleRenderer
	current   [4]*shared.FaderChannel
}

// NewManager builds a Manager. fullSized gates whether scribble rendering
// (§4.6 step 5) is attempted; renderer may be nil when fullSized is false.
func NewManager(fullSized bool, renderer ScribbleRenderer) *Manager {
	return &Manager{fullSized: fullSized, renderer: renderer}
}

// Assign performs the idempotent fader-assignment sequence of §4.6. It
// returns nil (no-op) if fader already shows source in the cache.
func (m *Manager) Assign(fader shared.Fader, source shared.FaderChannel, cfg *profile.ChannelConfig) (*Assignment, error) {
	if m.current[fader] != nil && *m.current[fader] == source {
		return nil, nil
	}
	a := &Assignment{Fader: fader, Channel: source, DisplayStyle: cfg.Display}

	if m.fullSized {
		scribble, err := m.renderer.Render(cfg.Display.Screen.Image, cfg.Display.Screen.Text, cfg.Display.Screen.Label, cfg.Display.Screen.Inverted)
		if err != nil {
			return nil, fmt.Errorf("faders: rendering scribble for %v: %w", source, err)
		}
		a.Scribble = &scribble
	}

	ch := source
	m.current[fader] = &ch
	return a, nil
}

// Current returns the channel currently assigned to fader, if any.
func (m *Manager) Current(fader shared.Fader) (shared.FaderChannel, bool) {
	if m.current[fader] == nil {
		return 0, false
	}
	return *m.current[fader], true
}

// NextPage returns the page index next_page would select; a single-page
// profile maps to itself (§4.6).
func NextPage(pages profile.Pages) int {
	return pages.NextPageIndex()
}

// PrevPage returns the page index prev_page would select.
func PrevPage(pages profile.Pages) int {
	return pages.PrevPageIndex()
}

// SetPage validates an explicit page index, returning ErrInvalidPage if
// out of range.
func SetPage(pages profile.Pages, index int) (int, error) {
	if index < 0 || index >= len(pages.List) {
		return 0, fmt.Errorf("faders: page %d out of range [0,%d): %w", index, len(pages.List), xerrors.ErrInvalidPage)
	}
	return index, nil
}

// AddPage appends a new page, seeded with the current page's assignments
// so a freshly-added page never leaves a fader unassigned.
func AddPage(pages profile.Pages) profile.Pages {
	pages.List = append(pages.List, pages.Active())
	return pages
}

// RemovePage deletes the page at index, refusing to drop the last
// remaining page. Removing a page before the active one keeps the same
// page active. Removing the active page makes the page after it active,
// or the new final page when the removed page was the last one.
func RemovePage(pages profile.Pages, index int) (profile.Pages, error) {
	if index < 0 || index >= len(pages.List) {
		return pages, fmt.Errorf("faders: page %d out of range [0,%d): %w", index, len(pages.List), xerrors.ErrInvalidPage)
	}
	if len(pages.List) == 1 {
		return pages, fmt.Errorf("faders: cannot remove the last remaining page: %w", xerrors.ErrInvalidPage)
	}
	pages.List = append(append([]profile.FaderPage{}, pages.List[:index]...), pages.List[index+1:]...)
	if index < pages.Current {
		pages.Current--
	}
	if pages.Current >= len(pages.List) {
		pages.Current = len(pages.List) - 1
	}
	return pages, nil
}

// SetFaderOnPage validates page and fader range and assigns channel on
// that page, independent of which page is currently active.
func SetFaderOnPage(pages profile.Pages, page int, fader shared.Fader, channel shared.FaderChannel) (profile.Pages, error) {
	if page < 0 || page >= len(pages.List) {
		return pages, fmt.Errorf("faders: page %d out of range [0,%d): %w", page, len(pages.List), xerrors.ErrInvalidPage)
	}
	pages.List[page].Assignments[fader] = channel
	return pages, nil
}

// PairedButtonGesture is the paging decision derived from two fader mute
// buttons going down close together (§4.6's "page via paired buttons").
type PairedButtonGesture int

const (
	GestureNone PairedButtonGesture = iota
	GesturePrevPage
	GestureNextPage
)

// DetectPairedPress reports which page gesture, if any, a newly-pressed
// fader mute button combined with an already-down one implies. Only
// A+B (prev) and C+D (next) pairs are meaningful; any other combination
// (or a single button alone) is GestureNone.
func DetectPairedPress(newlyDown shared.Fader, alreadyDown map[shared.Fader]bool) PairedButtonGesture {
	switch newlyDown {
	case shared.FaderA:
		if alreadyDown[shared.FaderB] {
			return GesturePrevPage
		}
	case shared.FaderB:
		if alreadyDown[shared.FaderA] {
			return GesturePrevPage
		}
	case shared.FaderC:
		if alreadyDown[shared.FaderD] {
			return GestureNextPage
		}
	case shared.FaderD:
		if alreadyDown[shared.FaderC] {
			return GestureNextPage
		}
	}
	return GestureNone
}
