package arixtree

import (
	"log"
	"math/rand/v2"
	"time"
)

// Music is the background track started by the first toggle. Implementations
// wrap an audio backend; Play may fail (for example when no output device is
// available) and is retried on the next toggle.
type Music interface {
	Playing() bool
	Play() error
}

// Controller owns the target formation. It starts scattered, assembles the
// tree once after IntroDelay, and flips on every Toggle.
type Controller struct {
	state     TreeState
	introLeft float64
	introDone bool
	music     Music
}

// NewController creates a controller in the Scattered state. music may be nil.
func NewController(music Music) *Controller {
	return &Controller{
		state:     Scattered,
		introLeft: IntroDelay,
		music:     music,
	}
}

// State returns the current target formation.
func (c *Controller) State() TreeState { return c.state }

// SetMusic replaces the background track.
func (c *Controller) SetMusic(m Music) { c.music = m }

// Update advances the intro timer by dt seconds.
func (c *Controller) Update(dt float64) {
	if c.introDone || dt <= 0 {
		return
	}
	c.introLeft -= dt
	if c.introLeft <= 0 {
		c.introDone = true
		c.state = TreeShape
	}
}

// Toggle flips the target formation and starts the music if it is not
// already playing. It returns the new state.
func (c *Controller) Toggle() TreeState {
	c.startMusic()
	c.state = c.state.Toggle()
	return c.state
}

func (c *Controller) startMusic() {
	if c.music == nil || c.music.Playing() {
		return
	}
	if err := c.music.Play(); err != nil {
		log.Printf("[arixtree] music did not start, retrying on next toggle: %v", err)
	}
}

// Scene is the complete tree: three instanced groups, the star, the dust
// layers around them, the animator that moves the tree and the controller
// that picks the formation.
type Scene struct {
	Leaves    *Group
	Ornaments *Group
	Lights    *Group
	Star      *Star

	// Sparkles float around the tree in both formations.
	Sparkles []*SparkleEmitter

	animator   *Animator
	controller *Controller
	debug      bool
	stats      debugStats
}

// NewScene generates every particle group from the compile-time configs using
// the global random source.
func NewScene() *Scene {
	return NewSceneRand(nil)
}

// NewSceneRand is NewScene with an explicit random source.
func NewSceneRand(rng *rand.Rand) *Scene {
	s := &Scene{
		Leaves:    NewGroup(LeavesConfig, Leaf, GenerateRand(LeavesConfig, Leaf, rng)),
		Ornaments: NewGroup(OrnamentsConfig, Ornament, GenerateRand(OrnamentsConfig, Ornament, rng)),
		Lights:    NewGroup(LightsConfig, Light, GenerateRand(LightsConfig, Light, rng)),
		Star:      NewStar(LeavesConfig.Height),
		Sparkles: []*SparkleEmitter{
			NewSparkleEmitter(GoldDustConfig, rng),
			NewSparkleEmitter(WhiteDustConfig, rng),
		},
	}
	s.animator = NewAnimator(s.Star, s.Leaves, s.Ornaments, s.Lights)
	s.controller = NewController(nil)
	return s
}

// Groups returns the three instanced groups in draw order.
func (s *Scene) Groups() []*Group {
	return s.animator.Groups()
}

// Animator returns the scene's animator.
func (s *Scene) Animator() *Animator { return s.animator }

// Controller returns the scene's controller.
func (s *Scene) Controller() *Controller { return s.controller }

// State returns the current target formation.
func (s *Scene) State() TreeState { return s.controller.State() }

// Progress returns the raw morph progress in [0, 1].
func (s *Scene) Progress() float64 { return s.animator.Progress() }

// Toggle flips the target formation.
func (s *Scene) Toggle() TreeState {
	st := s.controller.Toggle()
	if s.debug {
		log.Printf("[arixtree] toggle -> %s", st)
	}
	return st
}

// Update advances the intro timer and the animation by dt seconds.
func (s *Scene) Update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	before := s.controller.State()
	s.controller.Update(dt)
	if s.debug && s.controller.State() != before {
		log.Printf("[arixtree] intro -> %s", s.controller.State())
	}
	s.animator.Update(dt, s.controller.State())
	for _, e := range s.Sparkles {
		e.Update(dt)
	}

	if s.debug {
		s.stats.updateTime = time.Since(t0)
		s.stats.instanceCount = s.instanceCount()
	}
}

func (s *Scene) instanceCount() int {
	n := 0
	for _, g := range s.Groups() {
		if g.sink != nil {
			n += g.Len()
		}
	}
	return n
}

// SetDebugMode enables or disables per-frame timing logs.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// DebugMode reports whether debug logging is enabled.
func (s *Scene) DebugMode() bool { return s.debug }
