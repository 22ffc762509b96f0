package audio

import "math"

// SilenceDB is the gain of true silence. Its amplitude ratio is exactly 0,
// which a finite dB value can only approximate.
var SilenceDB = math.Inf(-1)

// FadeDirection tells whether a fade raises or lowers the level.
type FadeDirection int

const (
	FadeIn FadeDirection = iota
	FadeOut
)

// FadeSpec describes a linear gain ramp across a region: from FromDB at the
// first frame to ToDB at the last frame, exactly. Interpolation is linear in
// amplitude ratio so that ToDB may be SilenceDB.
type FadeSpec struct {
	Direction  FadeDirection
	DurationMS int64
	FromDB     float64
	ToDB       float64
}

// Ratio converts a dB gain to an amplitude multiplier (10^(db/20)).
// Ratio(SilenceDB) is 0.
func Ratio(db float64) float64 {
	return math.Pow(10, db/20)
}

// Gain returns a copy of b with every sample multiplied by Ratio(db),
// saturating at the int16 range instead of wrapping.
func Gain(b *Buffer, db float64) (*Buffer, error) {
	if b.Frames() == 0 {
		return nil, ErrEmptyBuffer
	}
	r := Ratio(db)
	out := make([]int16, len(b.samples))
	for i, s := range b.samples {
		out[i] = clip(float64(s) * r)
	}
	return &Buffer{rate: b.rate, channels: b.channels, samples: out}, nil
}

// Fade returns a copy of b with a per-frame linear gain ramp from
// spec.FromDB to spec.ToDB. Both channels of a frame get the same gain, and
// the first and last frames carry exactly the endpoint gains so the ramp
// joins its neighbours without a click.
func Fade(b *Buffer, spec FadeSpec) (*Buffer, error) {
	frames := b.Frames()
	if frames == 0 {
		return nil, ErrEmptyBuffer
	}
	r0 := Ratio(spec.FromDB)
	r1 := Ratio(spec.ToDB)
	span := float64(frames - 1)
	if span == 0 {
		span = 1
	}

	out := make([]int16, len(b.samples))
	for f := 0; f < frames; f++ {
		g := r0 + (r1-r0)*float64(f)/span
		base := f * b.channels
		for c := 0; c < b.channels; c++ {
			out[base+c] = clip(float64(b.samples[base+c]) * g)
		}
	}
	return &Buffer{rate: b.rate, channels: b.channels, samples: out}, nil
}

// clip saturates a sample value to the int16 range.
func clip(v float64) int16 {
	v = math.Round(v)
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
