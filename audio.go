package arixtree

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
)

// FileMusic loops an mp3 file through an Ebitengine audio context. The file
// is read and decoded on the first Play, so a missing file only surfaces
// when the user first toggles the tree.
type FileMusic struct {
	ctx    *audio.Context
	path   string
	volume float64
	player *audio.Player
}

// NewFileMusic creates a looping track. ctx must be the process-wide audio
// context.
func NewFileMusic(ctx *audio.Context, path string, volume float64) *FileMusic {
	return &FileMusic{ctx: ctx, path: path, volume: volume}
}

// Playing implements Music.
func (m *FileMusic) Playing() bool {
	return m.player != nil && m.player.IsPlaying()
}

// Play implements Music.
func (m *FileMusic) Play() error {
	if m.player == nil {
		p, err := m.load()
		if err != nil {
			return err
		}
		m.player = p
		log.Printf("[arixtree/audio] loaded %s (volume: %.2f)", m.path, m.volume)
	}
	m.player.Play()
	return nil
}

func (m *FileMusic) load() (*audio.Player, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("read music: %w", err)
	}
	stream, err := mp3.DecodeWithSampleRate(m.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode music %s: %w", m.path, err)
	}
	loop := audio.NewInfiniteLoop(stream, stream.Length())
	p, err := m.ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	p.SetVolume(m.volume)
	return p, nil
}
