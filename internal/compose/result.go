package compose

import (
	"github.com/jinwoolab/openingmix/internal/audio"
	"github.com/jinwoolab/openingmix/internal/encode"
	"github.com/jinwoolab/openingmix/internal/plan"
)

// Result is one finished opening: the concatenated buffer, its encoded
// bytes, and the format they are in. It is handed to the caller once and
// never mutated.
type Result struct {
	Buffer *audio.Buffer
	Bytes  []byte
	Format encode.Format
}

// Render is the one-call entry point: plan the timeline from the source
// durations, compose it, and encode the result. effect may be nil; its
// absence simply omits the effect region. The sources must already share
// the 44.1kHz stereo working format (DecodeFile guarantees this).
func Render(bed, effect, speech *audio.Buffer, recipe plan.Recipe) (*Result, error) {
	var effectMeta *plan.SourceMeta
	if effect != nil {
		effectMeta = &plan.SourceMeta{DurationMS: effect.LengthMS()}
	}

	p, err := plan.Build(
		plan.SourceMeta{DurationMS: bed.LengthMS()},
		effectMeta,
		plan.SourceMeta{DurationMS: speech.LengthMS()},
		recipe,
	)
	if err != nil {
		return nil, err
	}

	buf, err := Compose(bed, effect, speech, p)
	if err != nil {
		return nil, err
	}

	data, err := encode.MP3(buf)
	if err != nil {
		return nil, err
	}

	return &Result{Buffer: buf, Bytes: data, Format: encode.MP3CBR192}, nil
}
