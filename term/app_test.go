package term

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/arixtree/arixtree"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func newTestScene() *arixtree.Scene {
	return arixtree.NewSceneRand(rand.New(rand.NewPCG(7, 12)))
}

func row(c *Canvas, y int) string {
	w, _ := c.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(c.At(x, y).Rune)
	}
	return sb.String()
}

func countRune(c *Canvas, r rune) int {
	w, h := c.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.At(x, y).Rune == r {
				n++
			}
		}
	}
	return n
}

func TestHandleKeys(t *testing.T) {
	tests := []struct {
		name    string
		ev      tcell.Event
		quit    bool
		toggled bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true, false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true, false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true, false},
		{"Q", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), true, false},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), false, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false, true},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false, false},
		{"resize", tcell.NewEventResize(100, 40), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp(nil, newTestScene())
			assert.Equal(t, tt.quit, app.Handle(tt.ev))
			want := arixtree.Scattered
			if tt.toggled {
				want = arixtree.TreeShape
			}
			assert.Equal(t, want, app.Scene.State())
		})
	}
}

func TestRendererWaitsForFirstCommit(t *testing.T) {
	scene := newTestScene()
	r := NewRenderer(scene)
	c := NewCanvas(80, 24)
	r.Draw(c)
	assert.Zero(t, countRune(c, '*'))
	assert.Zero(t, countRune(c, starGlyph))
}

func TestFrameDrawsAssembledTree(t *testing.T) {
	app := NewApp(nil, newTestScene())
	for i := 0; i < 600; i++ {
		app.Step(frame)
	}
	require.Equal(t, arixtree.TreeShape, app.Scene.State())
	app.Frame()

	assert.Positive(t, countRune(app.Canvas, '*'))
	assert.Positive(t, countRune(app.Canvas, 'o'))
	assert.Equal(t, 1, countRune(app.Canvas, starGlyph))

	assert.Contains(t, row(app.Canvas, 1), "Merry Christmas")
	assert.Contains(t, row(app.Canvas, 2), "zsh & lqq")
	_, h := app.Canvas.Size()
	assert.Contains(t, row(app.Canvas, h-2), "[space] SCATTER THE STARS")
}

func TestRendererDrawsSparkles(t *testing.T) {
	scene := newTestScene()
	r := NewRenderer(scene)
	c := NewCanvas(80, 24)
	r.Draw(c)
	assert.Positive(t, countRune(c, sparkleGlyph), "dust floats before the tree is drawn")

	scene.Sparkles = nil
	r.Draw(c)
	assert.Zero(t, countRune(c, sparkleGlyph))
}

func TestSparklesNeverCoverTree(t *testing.T) {
	scene := newTestScene()
	r := NewRenderer(scene)
	for i := 0; i < 600; i++ {
		scene.Update(frame)
	}
	withDust := NewCanvas(80, 24)
	r.Draw(withDust)
	sparkles := scene.Sparkles
	scene.Sparkles = nil
	bare := NewCanvas(80, 24)
	r.Draw(bare)
	scene.Sparkles = sparkles

	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			if b := bare.At(x, y).Rune; b != ' ' {
				assert.Equal(t, b, withDust.At(x, y).Rune, "cell %d,%d", x, y)
			}
		}
	}
}

func TestFrameHintFollowsState(t *testing.T) {
	app := NewApp(nil, newTestScene())
	app.Step(frame)
	app.Frame()
	_, h := app.Canvas.Size()
	assert.Contains(t, row(app.Canvas, h-2), "[space] LIGHT UP THE TREE")

	app.Greeting = ""
	app.Frame()
	assert.NotContains(t, row(app.Canvas, 1), "Merry Christmas")
	assert.Contains(t, row(app.Canvas, 1), "zsh & lqq", "the subtitle moves up without a greeting")
}

func TestFrameCentersByRune(t *testing.T) {
	app := NewApp(nil, newTestScene())
	app.Greeting = "圣诞快乐"
	app.Subtitle = ""
	app.Frame()
	w, _ := app.Canvas.Size()
	x := (w - 4) / 2
	for i, r := range []rune("圣诞快乐") {
		assert.Equal(t, r, app.Canvas.At(x+i, 1).Rune)
	}
	assert.Equal(t, colorGreeting, app.Canvas.At(x, 1).Color)
}

func TestAppShowsOnScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(60, 20)

	app := NewApp(screen, newTestScene())
	w, h := app.Canvas.Size()
	assert.Equal(t, 60, w)
	assert.Equal(t, 20, h)

	app.Step(frame)
	app.Frame()
	app.show()

	cells, sw, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < sw; x++ {
		if r := cells[(h-2)*sw+x].Runes; len(r) > 0 {
			sb.WriteRune(r[0])
		}
	}
	assert.Contains(t, sb.String(), "LIGHT UP THE TREE")
}

func TestAppRunQuitsOnKey(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 12)

	app := NewApp(screen, newTestScene())
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, app.Run(ctx))
	assert.Less(t, time.Since(start), 5*time.Second, "quit key ends the loop before the deadline")
}

func TestAppRunStopsOnCancel(t *testing.T) {
	app := NewApp(nil, newTestScene())
	app.FPS = 120

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, app.Run(ctx))
	assert.Positive(t, app.Scene.Animator().Elapsed(), "frames ran while waiting")
}
