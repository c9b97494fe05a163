package arixtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking at Target from Eye, projecting onto
// a screen-space Viewport.
type Camera struct {
	// Eye is the camera position in world space.
	Eye mgl64.Vec3
	// Target is the point the camera looks at.
	Target mgl64.Vec3
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near and Far bound the visible depth range.
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	viewProj mgl64.Mat4
	focal    float64 // pixels per world unit at depth 1
	dirty    bool
}

// NewCamera creates the default camera: 28 units in front of the origin with
// a 45 degree field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Eye:      mgl64.Vec3{0, 0, 28},
		FOV:      45,
		Near:     0.1,
		Far:      200,
		Viewport: viewport,
		dirty:    true,
	}
}

// SetViewport changes the output rectangle.
func (c *Camera) SetViewport(r Rect) {
	if r != c.Viewport {
		c.Viewport = r
		c.dirty = true
	}
}

// MarkDirty forces a recomputation of the view-projection matrix. Call it
// after changing Eye, Target, FOV, Near or Far directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// computeViewProj recomputes the cached matrix if dirty.
func (c *Camera) computeViewProj() mgl64.Mat4 {
	if !c.dirty {
		return c.viewProj
	}
	c.dirty = false

	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	fovy := mgl64.DegToRad(c.FOV)
	proj := mgl64.Perspective(fovy, aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye, c.Target, axisY)
	c.viewProj = proj.Mul4(view)
	c.focal = (c.Viewport.Height / 2) / math.Tan(fovy/2)
	return c.viewProj
}

// WorldToScreen projects p into screen pixels. depth is the distance along
// the view axis; ok is false when p lies behind the near plane.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy, depth float64, ok bool) {
	vp := c.computeViewProj()
	clip := vp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= c.Near {
		return 0, 0, w, false
	}
	nx := clip.X() / w
	ny := clip.Y() / w
	sx = c.Viewport.X + (nx+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ny)/2*c.Viewport.Height
	return sx, sy, w, true
}

// PixelsPerUnit returns how many screen pixels one world unit spans at the
// given view depth.
func (c *Camera) PixelsPerUnit(depth float64) float64 {
	c.computeViewProj()
	if depth <= 0 {
		return 0
	}
	return c.focal / depth
}
