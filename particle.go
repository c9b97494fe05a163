package arixtree

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// mote holds per-mote simulation state. Unexported; managed by SparkleEmitter.
type mote struct {
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	life    float64 // remaining lifetime in seconds
	maxLife float64 // initial lifetime (for computing t)
	alpha   float64
}

// SparkleConfig describes one layer of floating dust around the tree.
type SparkleConfig struct {
	// Count is the pool size. Dead motes are replaced at once, so the layer
	// always holds Count motes.
	Count int
	// Scale is the edge length of the cube, centered on the origin, that
	// motes spawn in.
	Scale float64
	// Size is the mote diameter in pixels at the default camera distance.
	Size float64
	// Speed is the drift speed in world units per second.
	Speed float64
	// Opacity is the peak alpha, reached halfway through a mote's life.
	Opacity float64
	// Color is the mote tint.
	Color Color
	// Lifetime is the range of mote lifetimes in seconds.
	Lifetime Range
}

// Sparkle is the renderable state of one mote.
type Sparkle struct {
	Position mgl64.Vec3
	Alpha    float64
}

// The two dust layers drawn around the tree.
var (
	GoldDustConfig = SparkleConfig{
		Count:    500,
		Scale:    30,
		Size:     3,
		Speed:    0.4,
		Opacity:  0.6,
		Color:    colorGold,
		Lifetime: Range{3, 6},
	}
	WhiteDustConfig = SparkleConfig{
		Count:    200,
		Scale:    25,
		Size:     5,
		Speed:    0.2,
		Opacity:  0.3,
		Color:    ColorWhite,
		Lifetime: Range{4, 8},
	}
)

// SparkleEmitter manages a pool of dust motes with CPU-based simulation.
type SparkleEmitter struct {
	Config SparkleConfig

	motes []mote
	alive int
	rng   *rand.Rand
}

// NewSparkleEmitter creates a full layer. Every mote starts at a random point
// of its life so the layer does not pulse in unison. A nil rng uses the
// global source.
func NewSparkleEmitter(cfg SparkleConfig, rng *rand.Rand) *SparkleEmitter {
	e := &SparkleEmitter{
		Config: cfg,
		motes:  make([]mote, max(cfg.Count, 0)),
		rng:    rng,
	}
	for e.alive < len(e.motes) {
		e.spawnMote()
		m := &e.motes[e.alive-1]
		m.life = m.maxLife * e.float()
		m.alpha = e.envelope(m)
	}
	return e
}

// AliveCount returns the number of alive motes.
func (e *SparkleEmitter) AliveCount() int {
	return e.alive
}

// AppendSparkles appends the renderable state of every alive mote to dst and
// returns the extended slice.
func (e *SparkleEmitter) AppendSparkles(dst []Sparkle) []Sparkle {
	for i := 0; i < e.alive; i++ {
		m := &e.motes[i]
		dst = append(dst, Sparkle{Position: m.pos, Alpha: m.alpha})
	}
	return dst
}

// Update advances mote simulation by dt seconds.
func (e *SparkleEmitter) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	// Update existing motes, swap-remove dead ones.
	i := 0
	for i < e.alive {
		m := &e.motes[i]
		m.life -= dt
		if m.life <= 0 {
			e.alive--
			e.motes[i] = e.motes[e.alive]
			continue
		}
		m.pos = m.pos.Add(m.vel.Mul(dt))
		m.alpha = e.envelope(m)
		i++
	}

	// Refill the pool.
	for e.alive < len(e.motes) {
		e.spawnMote()
	}
}

// envelope fades a mote in and back out over its life.
func (e *SparkleEmitter) envelope(m *mote) float64 {
	t := 1 - m.life/m.maxLife
	return e.Config.Opacity * math.Sin(math.Pi*clamp01(t))
}

func (e *SparkleEmitter) float() float64 {
	if e.rng == nil {
		return rand.Float64()
	}
	return e.rng.Float64()
}

// spawnMote initializes the mote at slot e.alive and increments alive.
func (e *SparkleEmitter) spawnMote() {
	m := &e.motes[e.alive]

	half := e.Config.Scale / 2
	m.pos = mgl64.Vec3{
		(e.float()*2 - 1) * half,
		(e.float()*2 - 1) * half,
		(e.float()*2 - 1) * half,
	}

	// Drift in a uniformly random direction.
	theta := 2 * math.Pi * e.float()
	z := 2*e.float() - 1
	r := math.Sqrt(1 - z*z)
	m.vel = mgl64.Vec3{r * math.Cos(theta), r * math.Sin(theta), z}.Mul(e.Config.Speed)

	m.life = e.Config.Lifetime.Random(e.rng)
	if m.life <= 0 {
		m.life = 1.0
	}
	m.maxLife = m.life
	m.alpha = 0

	e.alive++
}
