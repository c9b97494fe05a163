package arixtree

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func newTestGroup(kind ParticleKind, n int) *Group {
	cfg := ParticleConfig{Count: n, Radius: 5, Height: 10, ColorPrimary: ColorWhite}
	return NewGroup(cfg, kind, GenerateRand(cfg, kind, testRand()))
}

func assertVec3InDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], got[k], delta, "component %d of %v, want %v", k, got, want)
	}
}

func translation(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

func TestGroupAttachPushesColors(t *testing.T) {
	g := newTestGroup(Ornament, 20)
	buf := NewInstanceBuffer(g.Len())
	g.Attach(buf)
	for i, p := range g.Particles() {
		assert.Equal(t, p.Color, buf.Colors()[i])
	}
}

func TestAnimatorConverges(t *testing.T) {
	g := newTestGroup(Leaf, 50)
	g.Attach(NewInstanceBuffer(g.Len()))
	a := NewAnimator(nil, g)

	prev := a.Progress()
	for i := 0; i < 1200; i++ {
		a.Update(frame, TreeShape)
		require.LessOrEqual(t, a.Progress(), 1.0)
		require.GreaterOrEqual(t, a.Progress(), prev)
		require.InDelta(t, Smoothstep(a.Progress()), a.Eased(), 1e-12)
		prev = a.Progress()
	}
	assert.InDelta(t, 1, a.Progress(), 1e-6)
	assert.InDelta(t, 1200*frame, a.Elapsed(), 1e-9)
}

func TestAnimatorPositions(t *testing.T) {
	g := newTestGroup(Leaf, 30)
	buf := NewInstanceBuffer(g.Len())
	g.Attach(buf)
	a := NewAnimator(nil, g)

	a.Update(0, Scattered)
	for i, p := range g.Particles() {
		assertVec3InDelta(t, p.ScatterPosition, translation(buf.Matrices()[i]), 1e-9)
	}

	for i := 0; i < 1500; i++ {
		a.Update(frame, TreeShape)
	}
	for i, p := range g.Particles() {
		assertVec3InDelta(t, p.TreePosition, translation(buf.Matrices()[i]), 1e-4)
	}
}

func TestAnimatorToggleHasNoJumps(t *testing.T) {
	g := newTestGroup(Ornament, 10)
	g.Attach(NewInstanceBuffer(g.Len()))
	a := NewAnimator(nil, g)

	for i := 0; i < 90; i++ {
		a.Update(frame, TreeShape)
	}
	mid := a.Progress()
	require.Greater(t, mid, 0.5)
	require.Less(t, mid, 1.0)

	prev := mid
	for i := 0; i < 600; i++ {
		a.Update(frame, Scattered)
		p := a.Progress()
		assert.LessOrEqual(t, p, prev, "progress must head back toward 0")
		assert.LessOrEqual(t, prev-p, frame*a.Speed+1e-12, "progress moved too far in one frame")
		prev = p
	}
	assert.InDelta(t, 0, a.Progress(), 1e-3)
}

func TestAnimatorNegativeDt(t *testing.T) {
	a := NewAnimator(nil)
	a.Update(-1, TreeShape)
	assert.Zero(t, a.Progress())
	assert.Zero(t, a.Elapsed())
}

func TestAnimatorSkipsDetachedGroups(t *testing.T) {
	detached := newTestGroup(Leaf, 5)
	attached := newTestGroup(Leaf, 5)
	buf := NewInstanceBuffer(attached.Len())
	attached.Attach(buf)

	a := NewAnimator(NewStar(10), detached, attached)
	assert.NotPanics(t, func() {
		for i := 0; i < 120; i++ {
			a.Update(frame, TreeShape)
		}
	})
	assert.Zero(t, detached.Rotation())
	assert.Positive(t, attached.Rotation())
	assert.Equal(t, 120, buf.Commits())

	// The star has no sink either, so it never leaves its scatter point.
	assert.Equal(t, a.Star().Scatter, a.Star().Position)
}

func TestGroupYawFollowsEasedProgress(t *testing.T) {
	g := newTestGroup(Light, 5)
	buf := NewInstanceBuffer(g.Len())
	g.Attach(buf)
	a := NewAnimator(nil, g)

	for i := 0; i < 60; i++ {
		a.Update(frame, Scattered)
	}
	assert.Zero(t, g.Rotation(), "fully scattered groups do not spin")
	assertVec3InDelta(t, mgl64.Vec3{0, sceneOffsetY, 0}, translation(buf.World()), 1e-12)

	for i := 0; i < 60; i++ {
		a.Update(frame, TreeShape)
	}
	assert.Positive(t, g.Rotation())
	assert.Less(t, g.Rotation(), 60*frame*GroupSpinRate)
	assertVec3InDelta(t, mgl64.Vec3{0, sceneOffsetY, 0}, translation(buf.World()), 1e-12)
}

func TestLightFlicker(t *testing.T) {
	g := newTestGroup(Light, 3)
	d := &g.particles[0]
	require.Equal(t, 0, d.ID)

	assert.InDelta(t, 0.8*d.Scale, g.instanceScale(d, 0), 1e-12)
	assert.InDelta(t, 1.2*d.Scale, g.instanceScale(d, math.Pi/4), 1e-12)
	assert.InDelta(t, 0.4*d.Scale, g.instanceScale(d, 3*math.Pi/4), 1e-12)

	leaves := newTestGroup(Leaf, 3)
	ld := &leaves.particles[1]
	assert.Equal(t, ld.Scale, leaves.instanceScale(ld, 1.234))
}

func TestLeafSpinKeepsPosition(t *testing.T) {
	g := newTestGroup(Leaf, 3)
	m0 := g.InstanceMatrix(0, 1, 0)
	m1 := g.InstanceMatrix(0, 1, 5)
	assert.False(t, m0.ApproxEqualThreshold(m1, 1e-6), "assembled leaves spin over time")
	assertVec3InDelta(t, translation(m0), translation(m1), 1e-12)

	// Scattered particles ignore the spin entirely.
	s0 := g.InstanceMatrix(0, 0, 0)
	s1 := g.InstanceMatrix(0, 0, 5)
	assert.True(t, s0.ApproxEqualThreshold(s1, 1e-9))
}

// unscaledRotation divides the instance scale out of particle i's matrix.
func unscaledRotation(g *Group, i int, elapsed float64) mgl64.Mat3 {
	s := g.instanceScale(&g.Particles()[i], elapsed)
	return g.InstanceMatrix(i, 1, elapsed).Mat3().Mul(1 / s)
}

func TestLightsDoNotSpin(t *testing.T) {
	g := newTestGroup(Light, 5)
	for i := 0; i < g.Len(); i++ {
		r0 := unscaledRotation(g, i, 0)
		r5 := unscaledRotation(g, i, 5)
		assert.True(t, r0.ApproxEqualThreshold(r5, 1e-9), "light %d rotated: %v -> %v", i, r0, r5)
	}
}

func TestLeafSpinIsAboutLocalY(t *testing.T) {
	g := newTestGroup(Leaf, 5)
	for i := 0; i < g.Len(); i++ {
		q0 := mgl64.Mat4ToQuat(unscaledRotation(g, i, 0).Mat4())
		q10 := mgl64.Mat4ToQuat(unscaledRotation(g, i, 10).Mat4())
		rel := q0.Inverse().Mul(q10).Normalize()
		if rel.W < 0 {
			rel = rel.Scale(-1)
		}
		angle := 2 * math.Acos(mgl64.Clamp(rel.W, -1, 1))
		assert.InDelta(t, 10*LeafSpinRate, angle, 1e-6, "leaf %d", i)
		assertVec3InDelta(t, axisY, rel.V.Normalize(), 1e-6)
	}
}

func TestStarMorph(t *testing.T) {
	star := NewStar(16)
	pose := &StarPose{}
	star.Attach(pose)
	a := NewAnimator(star)

	a.Update(0, Scattered)
	require.True(t, pose.Set)
	assertVec3InDelta(t, mgl64.Vec3{0, ScatterRadius, 0}, star.Position, 1e-12)
	assert.Zero(t, star.Scale)

	for i := 0; i < 1500; i++ {
		a.Update(frame, TreeShape)
	}
	assertVec3InDelta(t, mgl64.Vec3{0, 9, 0}, star.Position, 1e-4)
	assert.InDelta(t, StarScale, star.Scale, 1e-4)
	assertVec3InDelta(t, mgl64.Vec3{0, 9 + sceneOffsetY, 0}, translation(pose.World), 1e-4)
	assert.Greater(t, star.Rotation, 1500*frame*StarSpinRate)
}
