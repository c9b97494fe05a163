package arixtree

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Generate lays out cfg.Count particles of the given kind using the global
// random source. Results are not reproducible across runs.
func Generate(cfg ParticleConfig, kind ParticleKind) []ParticleDescriptor {
	return GenerateRand(cfg, kind, nil)
}

// GenerateRand is Generate with an explicit random source. A nil rng falls
// back to the global source.
func GenerateRand(cfg ParticleConfig, kind ParticleKind, rng *rand.Rand) []ParticleDescriptor {
	if cfg.Count <= 0 {
		return nil
	}
	g := generator{cfg: cfg, kind: kind, rng: rng}
	out := make([]ParticleDescriptor, cfg.Count)
	for i := range out {
		out[i] = g.particle(i)
	}
	return out
}

type generator struct {
	cfg  ParticleConfig
	kind ParticleKind
	rng  *rand.Rand
}

func (g *generator) float() float64 {
	if g.rng == nil {
		return rand.Float64()
	}
	return g.rng.Float64()
}

// jitter returns a value in [-amount/2, amount/2).
func (g *generator) jitter(amount float64) float64 {
	return (g.float() - 0.5) * amount
}

// Random returns a value in [Min, Max) drawn from rng, or the global source
// when rng is nil.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	f := rand.Float64
	if rng != nil {
		f = rng.Float64
	}
	return r.Min + f()*(r.Max-r.Min)
}

var scaleRanges = [...]Range{
	Leaf:     {0.5, 1.0},
	Ornament: {0.6, 1.4},
	Light:    {0.5, 1.0},
}

// boughRadius is the radius of the foliage edge at normalized height t.
func boughRadius(radius, t float64) float64 {
	branchOut := math.Sin(t * math.Pi * boughLayers * 2)
	return radius*(1-t) + branchOut*boughBulge*(1-t)
}

func (g *generator) particle(i int) ParticleDescriptor {
	t := float64(i) / float64(g.cfg.Count)
	half := g.cfg.Height / 2

	d := ParticleDescriptor{ID: i}
	if g.kind == Light {
		angle := t * math.Pi * 2 * lightWindings
		r := g.cfg.Radius*(1-t) + tipOffset
		d.TreePosition = mgl64.Vec3{math.Cos(angle) * r, t*g.cfg.Height - half, math.Sin(angle) * r}
	} else {
		r := boughRadius(g.cfg.Radius, t)
		jit := 0.6
		if g.kind == Ornament {
			r += tipOffset
			jit = 0.1
		}
		theta := float64(i) * goldenAngle
		x := math.Cos(theta)*r + g.jitter(jit)
		z := math.Sin(theta)*r + g.jitter(jit)
		y := t*g.cfg.Height - half + g.jitter(jit*0.5)
		d.TreePosition = mgl64.Vec3{x, mgl64.Clamp(y, -half, half), z}
		d.TreeRotation = Euler{
			X: g.jitter(math.Pi * 0.5),
			Y: g.float() * math.Pi * 2,
			Z: g.jitter(math.Pi * 0.5),
		}
	}
	d.Scale = scaleRanges[g.kind].Random(g.rng)

	d.ScatterPosition = g.spherePoint(ScatterRadius)
	d.ScatterRotation = Euler{
		X: g.float() * math.Pi,
		Y: g.float() * math.Pi,
		Z: g.float() * math.Pi,
	}

	d.Color = g.color(d.TreePosition, t)
	return d
}

// spherePoint samples the surface of a sphere uniformly by inverse transform.
func (g *generator) spherePoint(radius float64) mgl64.Vec3 {
	theta := 2 * math.Pi * g.float()
	phi := math.Acos(2*g.float() - 1)
	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	return mgl64.Vec3{
		radius * sinPhi * cosTheta,
		radius * sinPhi * sinTheta,
		radius * cosPhi,
	}
}

func (g *generator) color(pos mgl64.Vec3, t float64) Color {
	switch g.kind {
	case Leaf:
		c := g.cfg.ColorPrimary
		dist := math.Hypot(pos.X(), pos.Z())
		if dist > boughRadius(g.cfg.Radius, t)-frostBand {
			return c.Lerp(colorFrost, g.float()*frostMaxMix)
		}
		return c.OffsetLightness(g.jitter(0.1))
	case Ornament:
		switch p := g.float(); {
		case p < 0.4:
			return colorGold
		case p < 0.7:
			return colorRuby.OffsetLightness(-0.1)
		default:
			return colorCrystal
		}
	default:
		return colorWarm
	}
}
