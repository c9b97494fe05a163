package arixtree

import (
	"image"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// commandKind identifies what a drawCommand renders.
type commandKind uint8

const (
	commandLeaf     commandKind = iota // flat-shaded needle triangle
	commandOrnament                    // shaded bauble disc
	commandLight                       // emissive bulb disc plus glow
	commandStar                        // star polygon plus glow
	commandSparkle                     // dust mote, glow only
)

// drawCommand is one projected instance waiting to be depth sorted.
type drawCommand struct {
	kind  commandKind
	depth float64
	// Screen-space center and radius (discs), or the three projected corners
	// of a leaf in pts.
	x, y, radius float64
	pts          [3][2]float64
	color        Color
	alpha        float64
}

// Shape constants, in world units. They mirror the meshes the groups are
// modelled on: a 3-sided cone for leaves and spheres for the rest.
const (
	leafHalfWidth   = 0.15
	leafHalfHeight  = 0.4
	ornamentRadius  = 0.3
	lightRadius     = 0.12
	lightGlowFactor = 4.0
	starOuter       = 1.0
	starInner       = 0.45
	starPoints      = 5
	ornamentSegs    = 14
	lightSegs       = 8
	glowSegs        = 12
	sparkleSegs     = 6
	ambientLight    = 0.4
)

var (
	keyLightDir    = mgl64.Vec3{15, 12, 15}.Normalize()
	colorLightGlow = MustHex("#FFAA33")
	colorStarGlow  = MustHex("#FFEDD5")
)

// whiteSubImage is a 1x1 region in the middle of a 3x3 white image, so
// sampling at its edges never bleeds transparent texels.
var whiteSubImage *ebiten.Image

func ensureWhite() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(ColorWhite.RGBA())
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// Renderer draws a Scene with Ebitengine. It owns one InstanceBuffer per
// group and a StarPose, attached to the scene on construction.
type Renderer struct {
	Camera     *Camera
	Background Color

	scene   *Scene
	buffers map[*Group]*InstanceBuffer
	star    StarPose

	sparkles  []Sparkle
	commands  []drawCommand
	verts     []ebiten.Vertex
	inds      []uint32
	glowVerts []ebiten.Vertex
	glowInds  []uint32
	drawCalls int
}

// NewRenderer attaches fresh instance buffers to every group of scene.
func NewRenderer(scene *Scene, cam *Camera) *Renderer {
	r := &Renderer{
		Camera:     cam,
		Background: MustHex("#050805"),
		scene:      scene,
		buffers:    make(map[*Group]*InstanceBuffer, 3),
	}
	for _, g := range scene.Groups() {
		buf := NewInstanceBuffer(g.Len())
		g.Attach(buf)
		r.buffers[g] = buf
	}
	scene.Star.Attach(&r.star)
	return r
}

// Buffer returns the instance buffer attached to g, or nil.
func (r *Renderer) Buffer(g *Group) *InstanceBuffer {
	return r.buffers[g]
}

// Draw renders the current frame into screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if r.scene.debug {
		t0 = time.Now()
	}

	b := screen.Bounds()
	r.Camera.SetViewport(Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())})
	screen.Fill(r.Background.RGBA())

	r.drawCalls = 0
	r.buildCommands()
	r.sortCommands()
	r.tessellate()
	r.submit(screen)

	if r.scene.debug {
		r.scene.recordDraw(time.Since(t0), (len(r.inds)+len(r.glowInds))/3, r.drawCalls)
	}
}

// buildCommands projects every committed instance into a drawCommand.
func (r *Renderer) buildCommands() {
	r.commands = r.commands[:0]
	for _, g := range r.scene.Groups() {
		buf := r.buffers[g]
		if buf == nil || buf.Commits() == 0 {
			continue
		}
		world := buf.World()
		colors := buf.Colors()
		for i, m := range buf.Matrices() {
			full := world.Mul4(m)
			var cmd drawCommand
			var ok bool
			switch g.Kind {
			case Leaf:
				cmd, ok = r.leafCommand(full, colors[i])
			case Ornament:
				cmd, ok = r.discCommand(commandOrnament, full, ornamentRadius, colors[i])
			case Light:
				cmd, ok = r.discCommand(commandLight, full, lightRadius, colors[i])
			}
			if ok {
				r.commands = append(r.commands, cmd)
			}
		}
	}
	r.sparkleCommands()
	if r.star.Set {
		if cmd, ok := r.discCommand(commandStar, r.star.World, starOuter, colorGold); ok && cmd.radius > 0.5 {
			r.commands = append(r.commands, cmd)
		}
	}
}

func (r *Renderer) leafCommand(m mgl64.Mat4, c Color) (drawCommand, bool) {
	local := [3]mgl64.Vec4{
		{0, leafHalfHeight, 0, 1},
		{-leafHalfWidth, -leafHalfHeight, 0, 1},
		{leafHalfWidth, -leafHalfHeight, 0, 1},
	}
	cmd := drawCommand{kind: commandLeaf}
	var depth float64
	for j, p := range local {
		sx, sy, d, ok := r.Camera.WorldToScreen(m.Mul4x1(p).Vec3())
		if !ok {
			return cmd, false
		}
		cmd.pts[j] = [2]float64{sx, sy}
		depth += d
	}
	cmd.depth = depth / 3

	// Double-sided Lambert against the key light.
	n := m.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3()
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	shade := ambientLight + (1-ambientLight)*math.Abs(n.Dot(keyLightDir))
	cmd.color = c.Scale(shade)
	return cmd, true
}

func (r *Renderer) discCommand(kind commandKind, m mgl64.Mat4, radius float64, c Color) (drawCommand, bool) {
	center := m.Col(3).Vec3()
	sx, sy, depth, ok := r.Camera.WorldToScreen(center)
	if !ok {
		return drawCommand{}, false
	}
	scale := m.Col(0).Vec3().Len()
	return drawCommand{
		kind:   kind,
		depth:  depth,
		x:      sx,
		y:      sy,
		radius: radius * scale * r.Camera.PixelsPerUnit(depth),
		color:  c,
		pts:    r.starTip(kind, m),
	}, true
}

// sparkleCommands projects every dust mote. Sizes are given in pixels at the
// camera's resting distance and shrink or grow with depth.
func (r *Renderer) sparkleCommands() {
	restDepth := r.Camera.Eye.Len()
	for _, e := range r.scene.Sparkles {
		r.sparkles = e.AppendSparkles(r.sparkles[:0])
		radius := e.Config.Size / 2
		for _, sp := range r.sparkles {
			if sp.Alpha <= 0 {
				continue
			}
			sx, sy, depth, ok := r.Camera.WorldToScreen(sp.Position)
			if !ok {
				continue
			}
			r.commands = append(r.commands, drawCommand{
				kind:   commandSparkle,
				depth:  depth,
				x:      sx,
				y:      sy,
				radius: radius * restDepth / depth,
				color:  e.Config.Color,
				alpha:  sp.Alpha,
			})
		}
	}
}

// starTip projects the star's first outer point so the polygon follows the
// star's spin. Unused for other kinds.
func (r *Renderer) starTip(kind commandKind, m mgl64.Mat4) (pts [3][2]float64) {
	if kind != commandStar {
		return pts
	}
	tip := m.Mul4x1(mgl64.Vec4{starOuter, 0, 0, 1}).Vec3()
	if sx, sy, _, ok := r.Camera.WorldToScreen(tip); ok {
		pts[0] = [2]float64{sx, sy}
	}
	return pts
}

// sortCommands orders commands back to front.
func (r *Renderer) sortCommands() {
	slices.SortStableFunc(r.commands, func(a, b drawCommand) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
}

// tessellate turns sorted commands into vertex batches: one opaque batch in
// painter's order and one additive glow batch.
func (r *Renderer) tessellate() {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	r.glowVerts = r.glowVerts[:0]
	r.glowInds = r.glowInds[:0]

	for i := range r.commands {
		cmd := &r.commands[i]
		switch cmd.kind {
		case commandLeaf:
			r.appendTriangle(cmd)
		case commandOrnament:
			r.verts, r.inds = appendFan(r.verts, r.inds, cmd.x, cmd.y, cmd.radius, ornamentSegs,
				cmd.color.Lerp(ColorWhite, 0.5), cmd.color.Scale(0.55), 1, 1)
		case commandLight:
			r.verts, r.inds = appendFan(r.verts, r.inds, cmd.x, cmd.y, cmd.radius, lightSegs,
				ColorWhite, cmd.color, 1, 1)
			r.glowVerts, r.glowInds = appendFan(r.glowVerts, r.glowInds, cmd.x, cmd.y,
				cmd.radius*lightGlowFactor, glowSegs, colorLightGlow, colorLightGlow, 0.35, 0)
		case commandStar:
			r.appendStar(cmd)
			r.glowVerts, r.glowInds = appendFan(r.glowVerts, r.glowInds, cmd.x, cmd.y,
				cmd.radius*3, glowSegs, colorStarGlow, colorStarGlow, 0.5, 0)
		case commandSparkle:
			r.glowVerts, r.glowInds = appendFan(r.glowVerts, r.glowInds, cmd.x, cmd.y,
				cmd.radius, sparkleSegs, cmd.color, cmd.color, cmd.alpha, 0)
		}
	}
}

func (r *Renderer) appendTriangle(cmd *drawCommand) {
	base := uint32(len(r.verts))
	for _, p := range cmd.pts {
		r.verts = append(r.verts, vertex(p[0], p[1], cmd.color, 1))
	}
	r.inds = append(r.inds, base, base+1, base+2)
}

func (r *Renderer) appendStar(cmd *drawCommand) {
	phase := -math.Pi / 2
	if tip := cmd.pts[0]; tip != [2]float64{} {
		phase = math.Atan2(tip[1]-cmd.y, tip[0]-cmd.x)
	}
	base := uint32(len(r.verts))
	r.verts = append(r.verts, vertex(cmd.x, cmd.y, ColorWhite, 1))
	for k := 0; k < starPoints*2; k++ {
		rad := cmd.radius
		if k%2 == 1 {
			rad *= starInner / starOuter
		}
		a := phase + float64(k)*math.Pi/starPoints
		r.verts = append(r.verts, vertex(cmd.x+math.Cos(a)*rad, cmd.y+math.Sin(a)*rad, cmd.color, 1))
	}
	n := uint32(starPoints * 2)
	for k := uint32(0); k < n; k++ {
		r.inds = append(r.inds, base, base+1+k, base+1+(k+1)%n)
	}
}

// appendFan appends a triangle fan disc. Colors and alphas are given for the
// center and the rim; vertex colors are premultiplied.
func appendFan(verts []ebiten.Vertex, inds []uint32, cx, cy, radius float64, segs int,
	inner, outer Color, innerA, outerA float64) ([]ebiten.Vertex, []uint32) {
	base := uint32(len(verts))
	verts = append(verts, vertex(cx, cy, inner, innerA))
	for k := 0; k < segs; k++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / float64(segs))
		verts = append(verts, vertex(cx+cos*radius, cy+sin*radius, outer, outerA))
	}
	n := uint32(segs)
	for k := uint32(0); k < n; k++ {
		inds = append(inds, base, base+1+k, base+1+(k+1)%n)
	}
	return verts, inds
}

func vertex(x, y float64, c Color, a float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(math.Min(c.R, 1) * a),
		ColorG: float32(math.Min(c.G, 1) * a),
		ColorB: float32(math.Min(c.B, 1) * a),
		ColorA: float32(a),
	}
}

// submit issues the opaque batch then the additive glow batch.
func (r *Renderer) submit(target *ebiten.Image) {
	white := ensureWhite()
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true

	if len(r.verts) > 0 {
		op.Blend = ebiten.BlendSourceOver
		target.DrawTriangles32(r.verts, r.inds, white, &op)
		r.drawCalls++
	}
	if len(r.glowVerts) > 0 {
		op.Blend = ebiten.BlendLighter
		target.DrawTriangles32(r.glowVerts, r.glowInds, white, &op)
		r.drawCalls++
	}
}
