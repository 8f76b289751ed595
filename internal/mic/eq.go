package mic

import (
	"fmt"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/profile"
	"github.com/goxlr-daemon/goxlrd/internal/xerrors"
)

// SetFullEqFrequency validates band i's new frequency against its
// neighbour-derived window and, if valid, applies it and returns the
// Effect (packed integer) and Param (raw Hz) uploads (§4.7, §8).
func (c *Controller) SetFullEqFrequency(band profile.FullEqBand, freqHz float64) ([]Upload, error) {
	floorCeil := profile.FullEqFloorCeiling[band]
	min, max := floorCeil[0], floorCeil[1]

	if band > 0 {
		if prev := c.Profile.FullEq.Bands[band-1].Frequency; prev > min {
			min = prev
		}
	}
	if int(band) < len(profile.FullEqBands)-1 {
		if next := c.Profile.FullEq.Bands[band+1].Frequency; next < max {
			max = next
		}
	}
	if freqHz < min || freqHz > max {
		return nil, fmt.Errorf("mic: full-EQ band %v frequency %v outside [%v,%v]: %w", band, freqHz, min, max, xerrors.ErrOutOfRange)
	}

	c.Profile.FullEq.Bands[band].Frequency = freqHz
	encoded := codec.EncodeFullEqFrequency(freqHz)
	return []Upload{
		{Pipe: PipeEffect, Key: KeyEqFreqPrefix, Int: encoded},
		{Pipe: PipeParam, Key: KeyEqFreqPrefix, Float: float32(freqHz)},
	}, nil
}

// SetMiniEqFrequency validates band's fixed window and applies it. Unlike
// the full equalizer, mini bands never move relative to each other, so
// there is no neighbour constraint.
func (c *Controller) SetMiniEqFrequency(band profile.MiniEqBand, freqHz float64) ([]Upload, error) {
	win := profile.MiniEqFixedWindow[band]
	if freqHz < win[0] || freqHz > win[1] {
		return nil, fmt.Errorf("mic: mini-EQ band %v frequency %v outside [%v,%v]: %w", band, freqHz, win[0], win[1], xerrors.ErrOutOfRange)
	}
	c.Profile.MiniEq.Bands[band].Frequency = freqHz
	return []Upload{
		{Pipe: PipeParam, Key: KeyEqFreqPrefix, Float: codec.EncodeMiniEqFrequency(freqHz)},
	}, nil
}

// validateEqGain enforces the [-9,9] dB range shared by full and mini bands.
func validateEqGain(db int8) error {
	if db < -9 || db > 9 {
		return fmt.Errorf("mic: EQ gain %d out of range [-9,9]: %w", db, xerrors.ErrOutOfRange)
	}
	return nil
}

// SetFullEqGain validates and applies a full-EQ band's gain.
func (c *Controller) SetFullEqGain(band profile.FullEqBand, db int8) ([]Upload, error) {
	if err := validateEqGain(db); err != nil {
		return nil, err
	}
	c.Profile.FullEq.Bands[band].Gain = db
	return []Upload{
		{Pipe: PipeEffect, Key: KeyEqGainPrefix, Int: int32(db)},
		{Pipe: PipeParam, Key: KeyEqGainPrefix, Float: float32(db)},
	}, nil
}

// SetMiniEqGain validates and applies a mini-EQ band's gain.
func (c *Controller) SetMiniEqGain(band profile.MiniEqBand, db int8) ([]Upload, error) {
	if err := validateEqGain(db); err != nil {
		return nil, err
	}
	c.Profile.MiniEq.Bands[band].Gain = db
	return []Upload{
		{Pipe: PipeEffect, Key: KeyEqGainPrefix, Int: int32(db)},
		{Pipe: PipeParam, Key: KeyEqGainPrefix, Float: float32(db)},
	}, nil
}
