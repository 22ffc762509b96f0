package compose

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinwoolab/openingmix/internal/audio"
	"github.com/jinwoolab/openingmix/internal/plan"
)

// testRecipe uses small spans so buffers stay cheap. All values are
// frame-exact at 44.1kHz.
func testRecipe() plan.Recipe {
	return plan.Recipe{
		LeadInMS:         600,
		BedAttenuationDB: -20,
		PostRollMS:       250,
		FadeOutMS:        300,
		EffectGainDB:     0,
	}
}

func constBuf(ms int64, val int16) *audio.Buffer {
	frames := int(ms * audio.SampleRate / 1000)
	s := make([]int16, frames*audio.Channels)
	for i := range s {
		s[i] = val
	}
	return audio.NewBuffer(audio.SampleRate, audio.Channels, s)
}

func mustPlan(t *testing.T, bedMS int64, effectMS int64, speechMS int64, r plan.Recipe) plan.Plan {
	t.Helper()
	var eff *plan.SourceMeta
	if effectMS > 0 {
		eff = &plan.SourceMeta{DurationMS: effectMS}
	}
	p, err := plan.Build(plan.SourceMeta{DurationMS: bedMS}, eff,
		plan.SourceMeta{DurationMS: speechMS}, r)
	require.NoError(t, err)
	return p
}

func TestComposeOutputDuration(t *testing.T) {
	bed := constBuf(3000, 10000)
	effect := constBuf(120, 500)
	speech := constBuf(400, 0)
	p := mustPlan(t, 3000, 120, 400, testRecipe())

	out, err := Compose(bed, effect, speech, p)
	require.NoError(t, err)
	// 600 + 120 + 400 + 250 + 300
	assert.EqualValues(t, 1670, out.LengthMS())
	assert.Equal(t, audio.SampleRate, out.Rate())
	assert.Equal(t, audio.Channels, out.NumChannels())
}

func TestComposeWithoutEffect(t *testing.T) {
	bed := constBuf(3000, 10000)
	speech := constBuf(400, 0)
	p := mustPlan(t, 3000, 0, 400, testRecipe())

	out, err := Compose(bed, nil, speech, p)
	require.NoError(t, err)
	assert.EqualValues(t, 600+400+250+300, out.LengthMS())
}

func TestComposeLeadInKeepsOriginalLevel(t *testing.T) {
	bed := constBuf(3000, 10000)
	speech := constBuf(400, 0)
	p := mustPlan(t, 3000, 0, 400, testRecipe())

	out, err := Compose(bed, nil, speech, p)
	require.NoError(t, err)
	assert.EqualValues(t, 10000, out.Samples()[0], "lead-in must stay at original gain")
}

func TestComposeSpeechBedAttenuated(t *testing.T) {
	bed := constBuf(3000, 10000)
	speech := constBuf(400, 0) // silent speech exposes the bed underneath
	p := mustPlan(t, 3000, 0, 400, testRecipe())

	out, err := Compose(bed, nil, speech, p)
	require.NoError(t, err)

	// Sample in the middle of the speech region: bed at -20dB = 1000.
	frame := int((600 + 200) * audio.SampleRate / 1000)
	assert.EqualValues(t, 1000, out.Samples()[frame*audio.Channels])
}

func TestComposeSpeechIsOverlaid(t *testing.T) {
	bed := constBuf(3000, 10000)
	speech := constBuf(400, 2000)
	p := mustPlan(t, 3000, 0, 400, testRecipe())

	out, err := Compose(bed, nil, speech, p)
	require.NoError(t, err)

	// Attenuated bed (1000) + speech (2000).
	frame := int((600 + 200) * audio.SampleRate / 1000)
	assert.EqualValues(t, 3000, out.Samples()[frame*audio.Channels])
}

func TestComposeEndsSilent(t *testing.T) {
	bed := constBuf(3000, 10000)
	speech := constBuf(400, 0)
	p := mustPlan(t, 3000, 0, 400, testRecipe())

	out, err := Compose(bed, nil, speech, p)
	require.NoError(t, err)

	s := out.Samples()
	assert.EqualValues(t, 0, s[len(s)-1], "fade-out must end in silence")
	assert.EqualValues(t, 0, s[len(s)-2])
}

func TestComposeEffectRampsBedDown(t *testing.T) {
	bed := constBuf(3000, 10000)
	effect := constBuf(120, 0) // silent effect exposes the ramping bed
	speech := constBuf(400, 0)
	p := mustPlan(t, 3000, 120, 400, testRecipe())

	out, err := Compose(bed, effect, speech, p)
	require.NoError(t, err)
	s := out.Samples()

	effStart := int(600 * audio.SampleRate / 1000)
	effEnd := effStart + int(120*audio.SampleRate/1000) - 1
	assert.EqualValues(t, 10000, s[effStart*audio.Channels], "ramp starts at 0dB")
	assert.EqualValues(t, 1000, s[effEnd*audio.Channels], "ramp ends at the attenuated level")
}

func TestComposeMissingOverlaySourceFails(t *testing.T) {
	bed := constBuf(3000, 10000)
	speech := constBuf(400, 0)
	p := mustPlan(t, 3000, 120, 400, testRecipe())

	// Plan has an effect region but no effect buffer was supplied.
	_, err := Compose(bed, nil, speech, p)
	var cerr *CompositeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, plan.Effect, cerr.Region)
}

func TestComposeFailsFast(t *testing.T) {
	// Bed long enough for the plan but with a speech buffer shorter than
	// planned: the speech region fails and nothing is returned.
	bed := constBuf(3000, 10000)
	p := mustPlan(t, 3000, 0, 400, testRecipe())

	short := constBuf(100, 0)
	out, err := Compose(bed, nil, short, p)
	assert.Nil(t, out)
	var cerr *CompositeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, plan.SpeechBed, cerr.Region)
}

func TestRenderEncodesMP3(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	bed := constBuf(3000, 8000)
	speech := constBuf(400, 2000)
	res, err := Render(bed, nil, speech, testRecipe())
	require.NoError(t, err)

	assert.EqualValues(t, 1550, res.Buffer.LengthMS())
	assert.NotEmpty(t, res.Bytes)
	assert.Equal(t, "audio/mpeg", res.Format.MIME)
	assert.Equal(t, 192, res.Format.BitrateKbps)
}
