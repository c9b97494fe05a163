package arixtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var axisY = mgl64.Vec3{0, 1, 0}

// Group is one instanced particle group: its immutable descriptors, the sink
// they are rendered through and the group's accumulated yaw.
type Group struct {
	Kind   ParticleKind
	Config ParticleConfig

	particles []ParticleDescriptor
	// Quaternions derived once from the descriptors' Euler angles.
	treeQuats    []mgl64.Quat
	scatterQuats []mgl64.Quat

	sink     InstanceSink
	rotation float64
}

// NewGroup wraps generated descriptors. The descriptors are not copied and
// must not be modified afterwards.
func NewGroup(cfg ParticleConfig, kind ParticleKind, particles []ParticleDescriptor) *Group {
	g := &Group{
		Kind:         kind,
		Config:       cfg,
		particles:    particles,
		treeQuats:    make([]mgl64.Quat, len(particles)),
		scatterQuats: make([]mgl64.Quat, len(particles)),
	}
	for i := range particles {
		g.treeQuats[i] = particles[i].TreeRotation.Quat()
		g.scatterQuats[i] = particles[i].ScatterRotation.Quat()
	}
	return g
}

// Particles returns the group's descriptors. The returned slice MUST NOT be
// mutated.
func (g *Group) Particles() []ParticleDescriptor { return g.particles }

// Len returns the number of particles in the group.
func (g *Group) Len() int { return len(g.particles) }

// Rotation returns the group's accumulated yaw in radians.
func (g *Group) Rotation() float64 { return g.rotation }

// Attach binds a sink to the group and pushes every particle's static color
// into it. A nil sink detaches the group; detached groups are skipped by the
// animator.
func (g *Group) Attach(sink InstanceSink) {
	g.sink = sink
	if sink == nil {
		return
	}
	for i := range g.particles {
		sink.SetColorAt(i, g.particles[i].Color)
	}
}

// world returns the group's world matrix: scene offset then yaw.
func (g *Group) world() mgl64.Mat4 {
	return mgl64.Translate3D(0, sceneOffsetY, 0).Mul4(mgl64.HomogRotate3DY(g.rotation))
}

// instanceScale returns the rendered scale of particle d at the given time.
// Lights flicker, offset by their ID so neighbors do not pulse in unison.
func (g *Group) instanceScale(d *ParticleDescriptor, elapsed float64) float64 {
	if g.Kind == Light {
		return d.Scale * (0.8 + 0.4*math.Sin(elapsed*2+float64(d.ID)))
	}
	return d.Scale
}

// InstanceMatrix computes the group-local transform of particle i for the
// given eased progress and elapsed time.
func (g *Group) InstanceMatrix(i int, eased, elapsed float64) mgl64.Mat4 {
	d := &g.particles[i]
	pos := d.ScatterPosition.Add(d.TreePosition.Sub(d.ScatterPosition).Mul(eased))

	treeQuat := g.treeQuats[i]
	if g.Kind != Light {
		treeQuat = treeQuat.Mul(mgl64.QuatRotate(elapsed*LeafSpinRate, axisY))
	}
	rot := mgl64.QuatSlerp(g.scatterQuats[i], treeQuat, eased)

	s := g.instanceScale(d, elapsed)
	return mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(s, s, s))
}

func (g *Group) apply(eased, elapsed, dt float64) {
	if g.sink == nil {
		return
	}
	for i := range g.particles {
		g.sink.SetMatrixAt(i, g.InstanceMatrix(i, eased, elapsed))
	}
	g.rotation += dt * GroupSpinRate * eased
	g.sink.Commit(g.world())
}

// Star is the ornament on the apex. It flies in from above the scene and
// grows from nothing as the tree assembles.
type Star struct {
	Scatter  mgl64.Vec3
	Apex     mgl64.Vec3
	Position mgl64.Vec3
	Scale    float64
	Rotation float64

	sink StarSink
}

// NewStar creates a star that crowns a tree of the given height.
func NewStar(treeHeight float64) *Star {
	s := &Star{
		Scatter: mgl64.Vec3{0, ScatterRadius, 0},
		Apex:    mgl64.Vec3{0, treeHeight/2 + starApexMargin, 0},
	}
	s.Position = s.Scatter
	return s
}

// Attach binds a sink to the star. A nil sink makes the animator skip it.
func (s *Star) Attach(sink StarSink) { s.sink = sink }

// World returns the star's world matrix.
func (s *Star) World() mgl64.Mat4 {
	return mgl64.Translate3D(s.Position.X(), s.Position.Y()+sceneOffsetY, s.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(s.Rotation)).
		Mul4(mgl64.Scale3D(s.Scale, s.Scale, s.Scale))
}

func (s *Star) apply(eased, dt float64) {
	if s.sink == nil {
		return
	}
	s.Position = s.Scatter.Add(s.Apex.Sub(s.Scatter).Mul(eased))
	s.Scale = lerp(0, StarScale, eased)
	s.Rotation += dt*StarSpinRate + dt*GroupSpinRate*eased
	s.sink.SetStar(s.World())
}

// Animator owns the morph progress and drives every group toward the target
// formation once per frame.
type Animator struct {
	// Speed is the rate progress chases its target. Defaults to MorphSpeed.
	Speed float64

	groups   []*Group
	star     *Star
	progress float64
	eased    float64
	elapsed  float64
}

// NewAnimator creates an animator at progress 0 (fully scattered). star may
// be nil.
func NewAnimator(star *Star, groups ...*Group) *Animator {
	return &Animator{
		Speed:  MorphSpeed,
		groups: groups,
		star:   star,
	}
}

// Progress returns the raw morph progress in [0, 1].
func (a *Animator) Progress() float64 { return a.progress }

// Eased returns Smoothstep(Progress()) as of the last Update.
func (a *Animator) Eased() float64 { return a.eased }

// Elapsed returns the accumulated animation time in seconds.
func (a *Animator) Elapsed() float64 { return a.elapsed }

// Groups returns the animated groups. The returned slice MUST NOT be mutated.
func (a *Animator) Groups() []*Group { return a.groups }

// Star returns the star, or nil.
func (a *Animator) Star() *Star { return a.star }

// Update advances the animation by dt seconds toward target and writes every
// attached group's transforms.
func (a *Animator) Update(dt float64, target TreeState) {
	if dt < 0 {
		dt = 0
	}
	a.elapsed += dt
	a.progress = clamp01(Damp(a.progress, target.Target(), dt, a.Speed))
	a.eased = Smoothstep(a.progress)

	for _, g := range a.groups {
		g.apply(a.eased, a.elapsed, dt)
	}
	if a.star != nil {
		a.star.apply(a.eased, dt)
	}
}
