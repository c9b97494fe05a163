package arixtree

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game implements ebiten.Game around a Scene: one Update per tick drives the
// controller and the animator, one Draw per frame renders the result.
type Game struct {
	Scene    *Scene
	Renderer *Renderer
	Overlay  *Overlay

	fps         *fpsWidget
	script      *ScriptRunner
	screenshots screenshotQueue
	width       int
	height      int
}

// NewGame wires a scene, a renderer and an overlay according to opts.
// music may be nil.
func NewGame(opts Options, music Music) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bg, err := opts.BackgroundColor()
	if err != nil {
		return nil, err
	}

	scene := NewScene()
	scene.SetDebugMode(opts.Debug.Stats)
	scene.Controller().SetMusic(music)

	r := NewRenderer(scene, NewCamera(Rect{Width: float64(opts.Window.Width), Height: float64(opts.Window.Height)}))
	r.Background = bg

	g := &Game{
		Scene:       scene,
		Renderer:    r,
		Overlay:     NewOverlay(opts.Window.Greeting, opts.Window.Subtitle, ebiten.TPS()),
		screenshots: screenshotQueue{dir: opts.Debug.ScreenshotDir},
	}
	if opts.Debug.ShowFPS {
		g.fps = newFPSWidget()
	}
	g.Layout(opts.Window.Width, opts.Window.Height)
	return g, nil
}

// Screenshot queues a capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.screenshots.Screenshot(label)
}

// Toggle flips the tree's target formation.
func (g *Game) Toggle() TreeState {
	return g.Scene.Toggle()
}

// SetScript attaches a script that runs one step per tick before input is
// processed. A nil runner detaches it.
func (g *Game) SetScript(r *ScriptRunner) {
	g.script = r
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.script != nil {
		if err := g.script.step(g); err != nil {
			return err
		}
	}

	x, y := ebiten.CursorPosition()
	g.Overlay.SetPointer(float64(x), float64(y))
	if g.Overlay.Pressed() {
		g.Scene.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot(g.Scene.State().String())
	}

	g.Scene.Update(dt)
	g.Overlay.Update(dt)
	if g.fps != nil {
		g.fps.update(dt, g.Scene.Progress())
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.Draw(screen)
	g.Overlay.Draw(screen, g.Scene.State())
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.screenshots.flush(screen)
}

// Layout implements ebiten.Game. The logical screen follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and blocks until it is closed. A non-nil script is
// attached to the game before the loop starts.
func Run(opts Options, script *ScriptRunner) error {
	var music Music
	if opts.Audio.MusicFile != "" {
		ctx := audio.NewContext(opts.Audio.SampleRate)
		music = NewFileMusic(ctx, opts.Audio.MusicFile, opts.Audio.Volume)
	}

	game, err := NewGame(opts, music)
	if err != nil {
		return fmt.Errorf("arixtree: %w", err)
	}

	game.SetScript(script)

	ebiten.SetWindowSize(opts.Window.Width, opts.Window.Height)
	ebiten.SetWindowTitle(opts.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Printf("[arixtree] %d leaves, %d ornaments, %d lights",
		game.Scene.Leaves.Len(), game.Scene.Ornaments.Len(), game.Scene.Lights.Len())
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("arixtree: %w", err)
	}
	return nil
}
