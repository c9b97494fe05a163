package arixtree

import "github.com/go-gl/mathgl/mgl64"

// InstanceSink receives per-instance transforms and colors for one instanced
// group. Renderers implement it; the animator never talks to a rendering
// engine directly.
type InstanceSink interface {
	// SetColorAt stores the static color of instance i.
	SetColorAt(i int, c Color)
	// SetMatrixAt stores the group-local transform of instance i.
	SetMatrixAt(i int, m mgl64.Mat4)
	// Commit publishes the frame's transforms together with the group's
	// world matrix.
	Commit(world mgl64.Mat4)
}

// StarSink receives the star's world transform once per frame.
type StarSink interface {
	SetStar(world mgl64.Mat4)
}

// InstanceBuffer is an in-memory InstanceSink. Writes land in a staging
// buffer and become visible through Matrices after Commit.
type InstanceBuffer struct {
	staged   []mgl64.Mat4
	matrices []mgl64.Mat4
	colors   []Color
	world    mgl64.Mat4
	dirty    bool
	commits  int
}

// NewInstanceBuffer creates a buffer for n instances. Every slot starts as
// the identity transform colored white.
func NewInstanceBuffer(n int) *InstanceBuffer {
	b := &InstanceBuffer{
		staged:   make([]mgl64.Mat4, n),
		matrices: make([]mgl64.Mat4, n),
		colors:   make([]Color, n),
		world:    mgl64.Ident4(),
	}
	for i := range b.staged {
		b.staged[i] = mgl64.Ident4()
		b.matrices[i] = mgl64.Ident4()
		b.colors[i] = ColorWhite
	}
	return b
}

// Len returns the instance capacity.
func (b *InstanceBuffer) Len() int { return len(b.matrices) }

// SetColorAt implements InstanceSink. Out-of-range indices are ignored.
func (b *InstanceBuffer) SetColorAt(i int, c Color) {
	if i >= 0 && i < len(b.colors) {
		b.colors[i] = c
	}
}

// SetMatrixAt implements InstanceSink. Out-of-range indices are ignored.
func (b *InstanceBuffer) SetMatrixAt(i int, m mgl64.Mat4) {
	if i >= 0 && i < len(b.staged) {
		b.staged[i] = m
		b.dirty = true
	}
}

// Commit implements InstanceSink.
func (b *InstanceBuffer) Commit(world mgl64.Mat4) {
	b.world = world
	if b.dirty {
		b.staged, b.matrices = b.matrices, b.staged
		copy(b.staged, b.matrices)
		b.dirty = false
	}
	b.commits++
}

// Matrices returns the committed group-local transforms. The returned slice
// MUST NOT be mutated.
func (b *InstanceBuffer) Matrices() []mgl64.Mat4 { return b.matrices }

// Colors returns the per-instance colors. The returned slice MUST NOT be
// mutated.
func (b *InstanceBuffer) Colors() []Color { return b.colors }

// World returns the world matrix passed to the last Commit.
func (b *InstanceBuffer) World() mgl64.Mat4 { return b.world }

// Commits returns how many frames have been committed.
func (b *InstanceBuffer) Commits() int { return b.commits }

// StarPose is a StarSink that just remembers the last transform.
type StarPose struct {
	World mgl64.Mat4
	Set   bool
}

// SetStar implements StarSink.
func (p *StarPose) SetStar(world mgl64.Mat4) {
	p.World = world
	p.Set = true
}
