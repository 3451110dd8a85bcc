package sound

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daygrid/internal/timer"
)

func TestNewPlayerSynthesizesAllCues(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	p := NewPlayer(log.WithField("component", "sound"))

	cues := []timer.Cue{
		timer.CueFocusStart,
		timer.CueSessionComplete,
		timer.CueBreakEnd,
		timer.CueSessionWarning,
		timer.CueBreakWarning,
	}
	for _, cue := range cues {
		if len(p.pcm[cue]) == 0 {
			t.Errorf("cue %q has no synthesized samples", cue)
		}
	}
}

func TestSynthesizeLength(t *testing.T) {
	data := synthesize([]note{{440, 100 * time.Millisecond}})
	want := int(float64(sampleRate)*0.1) * 2
	if len(data) != want {
		t.Errorf("synthesize() length = %d, want %d", len(data), want)
	}
}

func TestSynthesizeSilenceForZeroFreq(t *testing.T) {
	data := synthesize([]note{{0, 50 * time.Millisecond}})
	for i, b := range data {
		if b != 0 {
			t.Fatalf("sample byte %d = %d, want 0 for rest note", i, b)
		}
	}
}
