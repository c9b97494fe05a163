package arixtree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options are the presentation settings of the window and terminal
// programs. Particle groups are not configurable here.
type Options struct {
	Window WindowOptions `yaml:"window"`
	Audio  AudioOptions  `yaml:"audio"`
	Debug  DebugOptions  `yaml:"debug"`
}

// WindowOptions configures the Ebitengine window.
type WindowOptions struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // "#rrggbb"
	Greeting   string `yaml:"greeting"`   // small line drawn above the tree
	Subtitle   string `yaml:"subtitle"`   // large gold line under the greeting
}

// AudioOptions configures the background track.
type AudioOptions struct {
	MusicFile  string  `yaml:"music_file"` // mp3; empty disables music
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// DebugOptions toggles diagnostics.
type DebugOptions struct {
	Stats         bool   `yaml:"stats"`
	ShowFPS       bool   `yaml:"show_fps"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultOptions returns the settings used when no file is given.
func DefaultOptions() Options {
	return Options{
		Window: WindowOptions{
			Width:      1280,
			Height:     720,
			Title:      "Arix Tree",
			Background: "#050805",
			Greeting:   "Merry Christmas",
			Subtitle:   "zsh & lqq",
		},
		Audio: AudioOptions{
			Volume:     0.4,
			SampleRate: 48000,
		},
		Debug: DebugOptions{
			ScreenshotDir: "screenshots",
		},
	}
}

// LoadOptions reads a YAML file over DefaultOptions. Keys missing from the
// file keep their defaults.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options %s: %w", path, err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML over DefaultOptions and validates the result.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks ranges and formats.
func (o Options) Validate() error {
	if o.Window.Width <= 0 || o.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, o.Window.Width, o.Window.Height)
	}
	if _, err := o.BackgroundColor(); err != nil {
		return err
	}
	if o.Audio.Volume < 0 || o.Audio.Volume > 1 {
		return fmt.Errorf("%w: volume %g outside [0, 1]", ErrInvalidConfig, o.Audio.Volume)
	}
	if o.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, o.Audio.SampleRate)
	}
	return nil
}

// BackgroundColor parses Window.Background.
func (o Options) BackgroundColor() (Color, error) {
	c, err := parseHex(o.Window.Background)
	if err != nil {
		return Color{}, fmt.Errorf("%w: background: %w", ErrInvalidConfig, err)
	}
	return c, nil
}
