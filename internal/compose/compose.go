// Package compose executes a timeline plan against decoded source buffers
// and produces the finished opening.
package compose

import (
	"fmt"

	"github.com/jinwoolab/openingmix/internal/audio"
	"github.com/jinwoolab/openingmix/internal/plan"
)

// CompositeError wraps the first failure hit while walking a plan.
// Composition halts on it; no partial output is ever returned.
type CompositeError struct {
	Region plan.RegionKind
	Err    error
}

func (e *CompositeError) Error() string {
	return fmt.Sprintf("compose %s region: %v", e.Region, e.Err)
}

func (e *CompositeError) Unwrap() error { return e.Err }

// Compose walks the plan's regions in order: slice the bed span, shape it
// with the region's gain or fade, overlay the foreground where the plan says
// so, and append. All sizing lives in the plan; Compose slices exactly what
// it is told. effect may be nil when the plan has no effect region.
func Compose(bed, effect, speech *audio.Buffer, p plan.Plan) (*audio.Buffer, error) {
	parts := make([]*audio.Buffer, 0, len(p.Regions))

	for _, r := range p.Regions {
		if r.SourceDurationMS == 0 {
			continue
		}

		seg, err := renderRegion(bed, effect, speech, r)
		if err != nil {
			return nil, &CompositeError{Region: r.Kind, Err: err}
		}
		parts = append(parts, seg)
	}

	out, err := audio.Concat(parts...)
	if err != nil {
		return nil, fmt.Errorf("concat regions: %w", err)
	}
	return out, nil
}

func renderRegion(bed, effect, speech *audio.Buffer, r plan.Region) (*audio.Buffer, error) {
	seg, err := bed.Slice(r.SourceOffsetMS, r.SourceDurationMS)
	if err != nil {
		return nil, err
	}

	if r.Fade != nil {
		seg, err = audio.Fade(seg, *r.Fade)
	} else if r.GainDB != 0 {
		seg, err = audio.Gain(seg, r.GainDB)
	}
	if err != nil {
		return nil, err
	}

	var top *audio.Buffer
	switch r.Overlay {
	case plan.OverlayNone:
		return seg, nil
	case plan.OverlayEffect:
		top = effect
	case plan.OverlaySpeech:
		top = speech
	}
	if top == nil {
		return nil, fmt.Errorf("plan overlays a source that was not supplied")
	}

	// The foreground is trimmed to the planned span; its real frame count
	// may exceed framesFor(LengthMS) by a fraction of a millisecond.
	top, err = top.Slice(0, r.SourceDurationMS)
	if err != nil {
		return nil, err
	}
	if r.OverlayGainDB != 0 {
		top, err = audio.Gain(top, r.OverlayGainDB)
		if err != nil {
			return nil, err
		}
	}
	return audio.Overlay(seg, top, 0)
}
