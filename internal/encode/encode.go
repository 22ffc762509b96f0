// Package encode serializes a finished buffer to the wire format. One
// container/codec pair is supported: CBR MP3, 192kbps, 44.1kHz stereo.
package encode

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/jinwoolab/openingmix/internal/audio"
)

// Format describes an encoded output.
type Format struct {
	MIME        string
	Extension   string
	SampleRate  int
	Channels    int
	BitrateKbps int
}

// MP3CBR192 is the only output format: constant 192kbps MP3, CD-rate stereo.
var MP3CBR192 = Format{
	MIME:        "audio/mpeg",
	Extension:   "mp3",
	SampleRate:  audio.SampleRate,
	Channels:    audio.Channels,
	BitrateKbps: 192,
}

// MP3 encodes a 44.1kHz stereo buffer to CBR MP3 bytes via FFmpeg. A buffer
// in any other format reaching this stage is a compositor bug, reported as
// an error rather than encoded wrong.
func MP3(b *audio.Buffer) ([]byte, error) {
	if b.Frames() == 0 {
		return nil, audio.ErrEmptyBuffer
	}
	if b.Rate() != MP3CBR192.SampleRate || b.NumChannels() != MP3CBR192.Channels {
		return nil, fmt.Errorf("encoder needs %dHz/%dch input, got %dHz/%dch",
			MP3CBR192.SampleRate, MP3CBR192.Channels, b.Rate(), b.NumChannels())
	}

	// FFmpeg: PCM stdin -> MP3 stdout
	cmd := exec.Command("ffmpeg",
		"-f", "s16le",
		"-ar", "44100",
		"-ac", "2",
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-b:a", "192k",
		"-ar", "44100",
		"-ac", "2",
		"-f", "mp3",
		"-loglevel", "error",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(audio.SamplesToBytes(b.Samples()))

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg encode: %w", err)
	}
	return out, nil
}
