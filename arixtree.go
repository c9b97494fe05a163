package arixtree

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1}

// MustHex parses a "#RRGGBB" string and panics if it is malformed. Intended
// for package-level color constants.
func MustHex(s string) Color {
	c, err := parseHex(s)
	if err != nil {
		panic("arixtree: " + err.Error())
	}
	return c
}

func parseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return colorFromColorful(c), nil
}

func colorFromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{R: c.R, G: c.G, B: c.B}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Lerp blends c toward other by t in RGB space.
func (c Color) Lerp(other Color, t float64) Color {
	return colorFromColorful(c.colorful().BlendRgb(other.colorful(), t))
}

// OffsetLightness shifts the HSL lightness of c by dl, clamped to [0, 1].
func (c Color) OffsetLightness(dl float64) Color {
	h, s, l := c.colorful().Hsl()
	l = math.Max(0, math.Min(1, l+dl))
	return colorFromColorful(colorful.Hsl(h, s, l))
}

// Hex returns the "#rrggbb" form of c.
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

// RGBA converts c to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	r, g, b := c.colorful().Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Scale multiplies every channel by k without clamping.
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k}
}

// Euler is a rotation expressed as three angles in radians, applied in XYZ
// order.
type Euler struct {
	X, Y, Z float64
}

// Quat returns the quaternion equivalent of e.
func (e Euler) Quat() mgl64.Quat {
	return mgl64.AnglesToQuat(e.X, e.Y, e.Z, mgl64.XYZ)
}

// Rect is an axis-aligned rectangle in screen pixels. The origin is at the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range for randomized attributes.
type Range struct {
	Min, Max float64
}

// TreeState is the target formation the particles are heading toward.
type TreeState uint8

const (
	Scattered TreeState = iota // particles float on the scatter sphere
	TreeShape                  // particles assemble into the pine tree
)

// Target returns the progress value this state pulls toward: 0 or 1.
func (s TreeState) Target() float64 {
	if s == TreeShape {
		return 1
	}
	return 0
}

// Toggle returns the opposite state.
func (s TreeState) Toggle() TreeState {
	if s == TreeShape {
		return Scattered
	}
	return TreeShape
}

func (s TreeState) String() string {
	switch s {
	case Scattered:
		return "SCATTERED"
	case TreeShape:
		return "TREE_SHAPE"
	default:
		return fmt.Sprintf("TreeState(%d)", uint8(s))
	}
}

// ParticleKind selects the layout, color and animation rules of a group.
type ParticleKind uint8

const (
	Leaf     ParticleKind = iota // needles forming the bough layers
	Ornament                     // baubles hanging on the bough tips
	Light                        // string lights spiralling the cone
)

func (k ParticleKind) String() string {
	switch k {
	case Leaf:
		return "LEAF"
	case Ornament:
		return "ORNAMENT"
	case Light:
		return "LIGHT"
	default:
		return fmt.Sprintf("ParticleKind(%d)", uint8(k))
	}
}

// ParticleConfig describes one particle group.
type ParticleConfig struct {
	Count          int
	Radius         float64
	Height         float64
	ColorPrimary   Color
	ColorSecondary Color
}

// Validate reports whether cfg can be handed to Generate.
func (cfg ParticleConfig) Validate() error {
	switch {
	case cfg.Count <= 0:
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidConfig, cfg.Count)
	case cfg.Radius < 0:
		return fmt.Errorf("%w: radius %g must not be negative", ErrInvalidConfig, cfg.Radius)
	case cfg.Height <= 0:
		return fmt.Errorf("%w: height %g must be positive", ErrInvalidConfig, cfg.Height)
	}
	return nil
}

// ParticleDescriptor holds everything needed to place one particle in either
// formation. Descriptors are never mutated after generation.
type ParticleDescriptor struct {
	ID              int
	TreePosition    mgl64.Vec3
	TreeRotation    Euler
	ScatterPosition mgl64.Vec3
	ScatterRotation Euler
	Scale           float64
	Color           Color
}
