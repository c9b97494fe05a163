package term

import (
	"context"
	"log"
	"time"
	"unicode/utf8"

	"github.com/arixtree/arixtree"
	"github.com/gdamore/tcell/v2"
)

// DefaultFPS is the terminal redraw rate.
const DefaultFPS = 30

var (
	colorGreeting = arixtree.MustHex("#D1FAE5")
	colorSubtitle = arixtree.MustHex("#FFD700")
	colorHint     = arixtree.MustHex("#A7F3D0")
	background    = tcell.NewRGBColor(5, 8, 5)
)

// App runs a Scene inside a tcell screen. All scene access happens on the
// goroutine that calls Run; input is polled on a helper goroutine and handed
// over through a channel.
type App struct {
	Scene    *arixtree.Scene
	Renderer *Renderer
	Canvas   *Canvas
	Greeting string
	Subtitle string
	FPS      int

	screen tcell.Screen
}

// NewApp wraps scene for display on screen. screen may be nil, in which case
// frames are only drawn into the Canvas.
func NewApp(screen tcell.Screen, scene *arixtree.Scene) *App {
	a := &App{
		Scene:    scene,
		Renderer: NewRenderer(scene),
		Greeting: arixtree.DefaultOptions().Window.Greeting,
		Subtitle: arixtree.DefaultOptions().Window.Subtitle,
		FPS:      DefaultFPS,
		screen:   screen,
	}
	w, h := 80, 24
	if screen != nil {
		w, h = screen.Size()
	}
	a.Canvas = NewCanvas(w, h)
	return a
}

// Run drives the scene until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	if a.screen != nil {
		go a.poll(ctx, events)
	}

	fps := a.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || a.Handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			a.Step(now.Sub(last).Seconds())
			last = now
			a.Frame()
			a.show()
		}
	}
}

// poll forwards screen events until the screen is finalized or ctx ends.
func (a *App) poll(ctx context.Context, out chan<- tcell.Event) {
	defer close(out)
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Handle applies one input event. It reports whether the app should quit.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyEnter:
			a.Scene.Toggle()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case ' ':
				a.Scene.Toggle()
			}
		}
	case *tcell.EventResize:
		if a.screen != nil {
			a.screen.Sync()
		}
	}
	return false
}

// Step advances the scene by dt seconds.
func (a *App) Step(dt float64) {
	a.Scene.Update(dt)
}

// Frame redraws the canvas: particles, greeting, subtitle and key hint.
func (a *App) Frame() {
	if a.screen != nil {
		w, h := a.screen.Size()
		a.Canvas.Resize(w, h)
	}
	a.Renderer.Draw(a.Canvas)

	w, h := a.Canvas.Size()
	y := 1
	if a.Greeting != "" {
		centered(a.Canvas, w, y, a.Greeting, colorGreeting)
		y++
	}
	if a.Subtitle != "" {
		centered(a.Canvas, w, y, a.Subtitle, colorSubtitle)
	}
	hint := "[space] " + arixtree.Label(a.Scene.State()) + "   [q] quit"
	centered(a.Canvas, w, h-2, hint, colorHint)
}

func centered(c *Canvas, w, y int, s string, col arixtree.Color) {
	c.Text((w-utf8.RuneCountInString(s))/2, y, s, col)
}

// show copies the canvas to the screen.
func (a *App) show() {
	if a.screen == nil {
		return
	}
	base := tcell.StyleDefault.Background(background)
	w, h := a.Canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := a.Canvas.At(x, y)
			rgba := cell.Color.RGBA()
			style := base.Foreground(tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B)))
			a.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
	a.screen.Show()
}

// logf keeps terminal diagnostics out of the drawn frame; callers should
// point the log package at a file while the screen is active.
func logf(format string, args ...any) {
	log.Printf("[arixtree/term] "+format, args...)
}
