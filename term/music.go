package term

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

// BeepMusic loops an mp3 file through the beep speaker. The speaker is
// initialized lazily on the first Play, so a missing audio device only
// matters once the user toggles the tree.
type BeepMusic struct {
	Path   string
	Volume float64 // linear gain in [0, 1]

	playing bool
}

// NewBeepMusic creates a looping track.
func NewBeepMusic(path string, volume float64) *BeepMusic {
	return &BeepMusic{Path: path, Volume: volume}
}

// Playing implements arixtree.Music.
func (m *BeepMusic) Playing() bool { return m.playing }

// Play implements arixtree.Music.
func (m *BeepMusic) Play() error {
	if m.playing {
		return nil
	}
	f, err := os.Open(m.Path)
	if err != nil {
		return fmt.Errorf("open music: %w", err)
	}
	stream, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode music %s: %w", m.Path, err)
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		stream.Close()
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Loop(-1, stream),
		Base:     2,
		Volume:   gainToVolume(m.Volume),
		Silent:   m.Volume <= 0,
	})
	m.playing = true
	logf("playing %s (volume: %.2f)", m.Path, m.Volume)
	return nil
}

// gainToVolume converts a linear gain to beep's base-2 exponent.
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return 0
	}
	return math.Log2(gain)
}
