package audio

import (
	"errors"
	"fmt"
)

const (
	SampleRate = 44100 // working sample rate, Hz
	Channels   = 2     // stereo
	BitDepth   = 16
)

var (
	// ErrEmptyBuffer is returned by operations that are undefined over a
	// zero-length buffer (gain, fade, overlay).
	ErrEmptyBuffer = errors.New("empty audio buffer")

	// ErrSliceOutOfRange is returned when a slice reaches past the end of a
	// buffer. Out-of-range slices are never silently truncated.
	ErrSliceOutOfRange = errors.New("slice out of range")

	// ErrFormatMismatch is returned when two buffers with different sample
	// rates or channel counts meet in one operation.
	ErrFormatMismatch = errors.New("buffer format mismatch")
)

// Buffer is an immutable decoded audio clip: interleaved signed 16-bit
// samples at a given rate and channel count. Every transformation (slice,
// gain, fade, overlay) returns a new Buffer and leaves the receiver intact.
type Buffer struct {
	rate     int
	channels int
	samples  []int16
}

// NewBuffer copies samples into a fresh Buffer. The sample count must be a
// whole number of frames.
func NewBuffer(rate, channels int, samples []int16) *Buffer {
	s := make([]int16, len(samples))
	copy(s, samples)
	return &Buffer{rate: rate, channels: channels, samples: s}
}

// Rate returns the sample rate in Hz.
func (b *Buffer) Rate() int { return b.rate }

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return b.channels }

// Samples returns the interleaved samples. The returned slice is the
// buffer's backing store and must not be modified.
func (b *Buffer) Samples() []int16 { return b.samples }

// Frames returns the number of frames (samples per channel).
func (b *Buffer) Frames() int { return len(b.samples) / b.channels }

// LengthMS returns the buffer duration in whole milliseconds
// (frames / rate * 1000, floored).
func (b *Buffer) LengthMS() int64 {
	return int64(b.Frames()) * 1000 / int64(b.rate)
}

// framesFor converts a millisecond duration to a frame count at the
// buffer's rate, flooring. framesFor(b.LengthMS()) never exceeds b.Frames().
func (b *Buffer) framesFor(ms int64) int {
	return int(ms * int64(b.rate) / 1000)
}

// Slice returns a copy of the region [offsetMS, offsetMS+durationMS).
// Reaching past the end of the buffer is an error, not a shorter slice.
func (b *Buffer) Slice(offsetMS, durationMS int64) (*Buffer, error) {
	if offsetMS < 0 || durationMS < 0 {
		return nil, fmt.Errorf("slice [%d:+%d]ms: %w", offsetMS, durationMS, ErrSliceOutOfRange)
	}
	start := b.framesFor(offsetMS)
	n := b.framesFor(durationMS)
	if start+n > b.Frames() {
		return nil, fmt.Errorf("slice [%d:+%d]ms of %dms buffer: %w",
			offsetMS, durationMS, b.LengthMS(), ErrSliceOutOfRange)
	}
	lo := start * b.channels
	hi := (start + n) * b.channels
	return NewBuffer(b.rate, b.channels, b.samples[lo:hi]), nil
}

// Concat joins buffers end to end into a new Buffer. All parts must share
// one rate and channel count.
func Concat(parts ...*Buffer) (*Buffer, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyBuffer
	}
	total := 0
	for _, p := range parts {
		if p.rate != parts[0].rate || p.channels != parts[0].channels {
			return nil, fmt.Errorf("concat %dHz/%dch with %dHz/%dch: %w",
				parts[0].rate, parts[0].channels, p.rate, p.channels, ErrFormatMismatch)
		}
		total += len(p.samples)
	}
	out := make([]int16, 0, total)
	for _, p := range parts {
		out = append(out, p.samples...)
	}
	return &Buffer{rate: parts[0].rate, channels: parts[0].channels, samples: out}, nil
}
