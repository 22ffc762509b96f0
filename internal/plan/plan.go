// Package plan builds the timeline of an opening: which span of which
// source lands where in the output, at what gain, under which fade. All
// offset arithmetic lives here; the compositor only executes regions.
package plan

import (
	"errors"
	"fmt"

	"github.com/jinwoolab/openingmix/internal/audio"
)

// RegionKind names a span of the output timeline.
type RegionKind int

const (
	Intro RegionKind = iota
	Effect
	SpeechBed
	PostRoll
	FadeOut
)

func (k RegionKind) String() string {
	switch k {
	case Intro:
		return "intro"
	case Effect:
		return "effect"
	case SpeechBed:
		return "speech-bed"
	case PostRoll:
		return "post-roll"
	case FadeOut:
		return "fade-out"
	}
	return fmt.Sprintf("region(%d)", int(k))
}

// OverlayTrack selects which foreground source, if any, is laid over a
// region's bed slice.
type OverlayTrack int

const (
	OverlayNone OverlayTrack = iota
	OverlayEffect
	OverlaySpeech
)

// Region is one contiguous span of the output timeline. The bed slice
// [SourceOffsetMS, +SourceDurationMS) is taken from the bed, shaped by
// GainDB or Fade, then Overlay is summed on top.
type Region struct {
	Kind             RegionKind
	SourceOffsetMS   int64
	SourceDurationMS int64
	GainDB           float64
	Fade             *audio.FadeSpec
	Overlay          OverlayTrack
	OverlayGainDB    float64
}

// Plan is the ordered, contiguous, non-overlapping sequence of regions
// that make up one opening.
type Plan struct {
	Regions []Region
}

// TotalMS returns the planned output duration.
func (p Plan) TotalMS() int64 {
	var total int64
	for _, r := range p.Regions {
		total += r.SourceDurationMS
	}
	return total
}

// Recipe holds the duration and gain constants governing a plan. The
// defaults reproduce the classic opening: five seconds of bed at full
// level, speech over a -20dB bed, five seconds of fade-out.
type Recipe struct {
	LeadInMS         int64
	BedAttenuationDB float64
	PostRollMS       int64
	FadeOutMS        int64
	EffectGainDB     float64 // gain delta applied to the effect clip itself
}

// DefaultRecipe returns the stock opening recipe.
func DefaultRecipe() Recipe {
	return Recipe{
		LeadInMS:         5000,
		BedAttenuationDB: -20,
		PostRollMS:       0,
		FadeOutMS:        5000,
		EffectGainDB:     0,
	}
}

// SourceMeta is the only thing the planner needs to know about a source:
// its duration. Plans are testable without decoding real audio.
type SourceMeta struct {
	DurationMS int64
}

var (
	// ErrEmptySource is returned when a required source has zero length.
	ErrEmptySource = errors.New("zero-length source")

	// ErrBadRecipe is returned for recipes with negative durations.
	ErrBadRecipe = errors.New("invalid recipe")
)

// InsufficientSourceError reports a bed that cannot fund every planned
// bed region. No partial plan accompanies it.
type InsufficientSourceError struct {
	Region      RegionKind // first region the bed cannot fund
	RequiredMS  int64      // total bed duration the plan needs
	AvailableMS int64      // bed duration actually supplied
}

func (e *InsufficientSourceError) Error() string {
	return fmt.Sprintf("bed too short for %s region: need %dms, have %dms",
		e.Region, e.RequiredMS, e.AvailableMS)
}

// Build computes the timeline for one opening. The bed is consumed front to
// back: lead-in at full level, an optional effect span ramping the bed down
// to the attenuated level, the speech span over a flat attenuated bed, a
// post-roll, and a fade to silence. effect may be nil.
//
// Build is deterministic: identical inputs produce identical plans.
func Build(bed SourceMeta, effect *SourceMeta, speech SourceMeta, recipe Recipe) (Plan, error) {
	if recipe.LeadInMS < 0 || recipe.PostRollMS < 0 || recipe.FadeOutMS < 0 {
		return Plan{}, fmt.Errorf("negative duration: %w", ErrBadRecipe)
	}
	if bed.DurationMS <= 0 {
		return Plan{}, fmt.Errorf("bed: %w", ErrEmptySource)
	}
	if speech.DurationMS <= 0 {
		return Plan{}, fmt.Errorf("speech: %w", ErrEmptySource)
	}
	var effectMS int64
	if effect != nil {
		if effect.DurationMS <= 0 {
			return Plan{}, fmt.Errorf("effect: %w", ErrEmptySource)
		}
		effectMS = effect.DurationMS
	}

	regions := make([]Region, 0, 5)
	cursor := int64(0)

	regions = append(regions, Region{
		Kind:             Intro,
		SourceOffsetMS:   cursor,
		SourceDurationMS: recipe.LeadInMS,
		GainDB:           0,
	})
	cursor += recipe.LeadInMS

	if effect != nil {
		// Ramp the bed down underneath the effect so it is already quiet
		// when speech starts, instead of a hard cut.
		regions = append(regions, Region{
			Kind:             Effect,
			SourceOffsetMS:   cursor,
			SourceDurationMS: effectMS,
			Fade: &audio.FadeSpec{
				Direction:  audio.FadeOut,
				DurationMS: effectMS,
				FromDB:     0,
				ToDB:       recipe.BedAttenuationDB,
			},
			Overlay:       OverlayEffect,
			OverlayGainDB: recipe.EffectGainDB,
		})
		cursor += effectMS
	}

	regions = append(regions, Region{
		Kind:             SpeechBed,
		SourceOffsetMS:   cursor,
		SourceDurationMS: speech.DurationMS,
		GainDB:           recipe.BedAttenuationDB,
		Overlay:          OverlaySpeech,
	})
	cursor += speech.DurationMS

	regions = append(regions, Region{
		Kind:             PostRoll,
		SourceOffsetMS:   cursor,
		SourceDurationMS: recipe.PostRollMS,
		GainDB:           recipe.BedAttenuationDB,
	})
	cursor += recipe.PostRollMS

	regions = append(regions, Region{
		Kind:             FadeOut,
		SourceOffsetMS:   cursor,
		SourceDurationMS: recipe.FadeOutMS,
		Fade: &audio.FadeSpec{
			Direction:  audio.FadeOut,
			DurationMS: recipe.FadeOutMS,
			FromDB:     recipe.BedAttenuationDB,
			ToDB:       audio.SilenceDB,
		},
	})
	cursor += recipe.FadeOutMS

	// Every region slices the bed, so the bed must cover the whole plan.
	// Verified up front rather than letting a later slice read past the end.
	if cursor > bed.DurationMS {
		over := firstUnfunded(regions, bed.DurationMS)
		return Plan{}, &InsufficientSourceError{
			Region:      over,
			RequiredMS:  cursor,
			AvailableMS: bed.DurationMS,
		}
	}

	return Plan{Regions: regions}, nil
}

// firstUnfunded returns the kind of the first region whose bed slice would
// reach past availableMS.
func firstUnfunded(regions []Region, availableMS int64) RegionKind {
	var sum int64
	for _, r := range regions {
		sum += r.SourceDurationMS
		if sum > availableMS {
			return r.Kind
		}
	}
	return regions[len(regions)-1].Kind
}
