package term

import (
	"math"

	"github.com/arixtree/arixtree"
	"github.com/go-gl/mathgl/mgl64"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

var glyphs = map[arixtree.ParticleKind]rune{
	arixtree.Leaf:     '*',
	arixtree.Ornament: 'o',
	arixtree.Light:    '.',
}

const (
	starGlyph    = '★'
	sparkleGlyph = '·'
	// Motes dimmer than this fraction of their peak are not drawn.
	sparkleMinFade = 0.25
)

var starColor = arixtree.MustHex("#FFD700")

// Renderer projects a Scene's instances onto a Canvas, one glyph per
// particle.
type Renderer struct {
	Camera *arixtree.Camera

	scene   *arixtree.Scene
	buffers []*arixtree.InstanceBuffer
	star    arixtree.StarPose
	motes   []arixtree.Sparkle
}

// NewRenderer attaches instance buffers to every group of scene.
func NewRenderer(scene *arixtree.Scene) *Renderer {
	r := &Renderer{
		Camera: arixtree.NewCamera(arixtree.Rect{}),
		scene:  scene,
	}
	for _, g := range scene.Groups() {
		buf := arixtree.NewInstanceBuffer(g.Len())
		g.Attach(buf)
		r.buffers = append(r.buffers, buf)
	}
	scene.Star.Attach(&r.star)
	return r
}

// Draw clears c, plots every committed instance into it and scatters the
// dust layers over what is left blank.
func (r *Renderer) Draw(c *Canvas) {
	w, h := c.Size()
	// Project into a viewport of square "pixels", then squash rows.
	r.Camera.SetViewport(arixtree.Rect{Width: float64(w), Height: float64(h) * cellAspect})
	c.Clear()

	for i, g := range r.scene.Groups() {
		buf := r.buffers[i]
		if buf.Commits() == 0 {
			continue
		}
		world := buf.World()
		colors := buf.Colors()
		glyph := glyphs[g.Kind]
		for j, m := range buf.Matrices() {
			r.plot(c, world.Mul4(m).Col(3).Vec3(), glyph, colors[j])
		}
	}
	// The star is hidden until it has grown to a visible size.
	if r.star.Set && r.star.World.Col(0).Vec3().Len() > 0.1 {
		r.plot(c, r.star.World.Col(3).Vec3(), starGlyph, starColor)
	}
	r.drawSparkles(c)
}

// drawSparkles fills blank cells with dust. Motes never cover tree glyphs.
func (r *Renderer) drawSparkles(c *Canvas) {
	for _, e := range r.scene.Sparkles {
		if e.Config.Opacity <= 0 {
			continue
		}
		r.motes = e.AppendSparkles(r.motes[:0])
		for _, m := range r.motes {
			fade := m.Alpha / e.Config.Opacity
			if fade < sparkleMinFade {
				continue
			}
			sx, sy, depth, ok := r.Camera.WorldToScreen(m.Position)
			if !ok {
				continue
			}
			x, y := int(math.Floor(sx)), int(math.Floor(sy/cellAspect))
			if c.At(x, y).Rune != ' ' {
				continue
			}
			c.Plot(x, y, depth, sparkleGlyph, e.Config.Color.Scale(fade))
		}
	}
}

func (r *Renderer) plot(c *Canvas, p mgl64.Vec3, glyph rune, col arixtree.Color) {
	sx, sy, depth, ok := r.Camera.WorldToScreen(p)
	if !ok {
		return
	}
	c.Plot(int(math.Floor(sx)), int(math.Floor(sy/cellAspect)), depth, glyph, col)
}
