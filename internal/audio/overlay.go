package audio

import (
	"errors"
	"fmt"
)

// ErrOverlayOutOfBounds is returned when an overlay would reach past the
// end of its base buffer. The overlay never extends the timeline; sizing
// the base is the planner's job.
var ErrOverlayOutOfBounds = errors.New("overlay out of bounds")

// Overlay sums top onto base sample-wise starting at startOffsetMS,
// saturating on overflow. The result has exactly base's length.
func Overlay(base, top *Buffer, startOffsetMS int64) (*Buffer, error) {
	if base.Frames() == 0 || top.Frames() == 0 {
		return nil, ErrEmptyBuffer
	}
	if base.rate != top.rate || base.channels != top.channels {
		return nil, fmt.Errorf("overlay %dHz/%dch onto %dHz/%dch: %w",
			top.rate, top.channels, base.rate, base.channels, ErrFormatMismatch)
	}
	start := base.framesFor(startOffsetMS)
	if start < 0 || start+top.Frames() > base.Frames() {
		return nil, fmt.Errorf("overlay %dms at +%dms onto %dms base: %w",
			top.LengthMS(), startOffsetMS, base.LengthMS(), ErrOverlayOutOfBounds)
	}

	out := make([]int16, len(base.samples))
	copy(out, base.samples)
	off := start * base.channels
	for i, s := range top.samples {
		out[off+i] = clip(float64(out[off+i]) + float64(s))
	}
	return &Buffer{rate: base.rate, channels: base.channels, samples: out}, nil
}
