// Package sound plays the short audio cues emitted by the focus timer.
// Tones are synthesized at startup so no audio assets ship with the
// binary.
package sound

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daygrid/internal/timer"
)

const (
	sampleRate = 44100
	amplitude  = 0.28
)

var (
	audioCtx     *oto.Context
	audioCtxOnce sync.Once
	audioReady   bool
)

// note is one segment of a cue tone.
type note struct {
	freq     float64
	duration time.Duration
}

var cueNotes = map[timer.Cue][]note{
	timer.CueFocusStart:      {{660, 90 * time.Millisecond}, {880, 140 * time.Millisecond}},
	timer.CueSessionComplete: {{880, 110 * time.Millisecond}, {660, 110 * time.Millisecond}, {440, 180 * time.Millisecond}},
	timer.CueBreakEnd:        {{440, 110 * time.Millisecond}, {660, 110 * time.Millisecond}, {880, 180 * time.Millisecond}},
	timer.CueSessionWarning:  {{520, 80 * time.Millisecond}, {0, 60 * time.Millisecond}, {520, 80 * time.Millisecond}},
	timer.CueBreakWarning:    {{390, 80 * time.Millisecond}, {0, 60 * time.Millisecond}, {390, 80 * time.Millisecond}},
}

// Player synthesizes and plays timer cues. Playback is fire-and-forget;
// a cue that cannot be played is logged and dropped.
type Player struct {
	log *logrus.Entry
	pcm map[timer.Cue][]byte
}

func NewPlayer(log *logrus.Entry) *Player {
	pcm := make(map[timer.Cue][]byte, len(cueNotes))
	for cue, notes := range cueNotes {
		pcm[cue] = synthesize(notes)
	}
	return &Player{log: log, pcm: pcm}
}

func (p *Player) Play(cue timer.Cue) {
	data, ok := p.pcm[cue]
	if !ok {
		return
	}
	initContext()
	if !audioReady {
		p.log.WithField("cue", string(cue)).Debug("audio device unavailable, cue dropped")
		return
	}
	go func() {
		player := audioCtx.NewPlayer(bytes.NewReader(data))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.log.WithError(err).Debug("close audio player")
		}
	}()
}

func initContext() {
	audioCtxOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return
		}
		<-ready
		audioCtx = ctx
		audioReady = true
	})
}

// synthesize renders a note sequence as 16-bit mono PCM with a short
// linear fade on each note to avoid clicks.
func synthesize(notes []note) []byte {
	var buf bytes.Buffer
	for _, n := range notes {
		samples := int(float64(sampleRate) * n.duration.Seconds())
		fade := samples / 8
		for i := 0; i < samples; i++ {
			var v float64
			if n.freq > 0 {
				v = amplitude * math.Sin(2*math.Pi*n.freq*float64(i)/sampleRate)
			}
			if fade > 0 {
				if i < fade {
					v *= float64(i) / float64(fade)
				} else if samples-i < fade {
					v *= float64(samples-i) / float64(fade)
				}
			}
			_ = binary.Write(&buf, binary.LittleEndian, int16(v*math.MaxInt16))
		}
	}
	return buf.Bytes()
}

var _ timer.CuePlayer = (*Player)(nil)
