package arixtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) (*Scene, *Renderer) {
	t.Helper()
	s := NewSceneRand(testRand())
	r := NewRenderer(s, NewCamera(Rect{Width: 800, Height: 600}))
	return s, r
}

func TestNewRendererAttachesBuffers(t *testing.T) {
	s, r := newTestRenderer(t)
	for _, g := range s.Groups() {
		buf := r.Buffer(g)
		require.NotNil(t, buf, g.Kind.String())
		assert.Equal(t, g.Len(), buf.Len())
		assert.Equal(t, g.Particles()[0].Color, buf.Colors()[0])
	}
	assert.Nil(t, r.Buffer(newTestGroup(Leaf, 1)))
}

func countKinds(cmds []drawCommand) map[commandKind]int {
	kinds := make(map[commandKind]int)
	for _, c := range cmds {
		kinds[c.kind]++
	}
	return kinds
}

func TestRendererSkipsUncommittedBuffers(t *testing.T) {
	_, r := newTestRenderer(t)
	r.buildCommands()
	kinds := countKinds(r.commands)
	assert.Equal(t, len(r.commands), kinds[commandSparkle], "only dust is drawn before the first frame")
}

func TestRendererBuildCommands(t *testing.T) {
	s, r := newTestRenderer(t)
	for i := 0; i < 600; i++ {
		s.Update(frame)
	}
	require.InDelta(t, 1, s.Progress(), 0.01)

	r.buildCommands()
	kinds := countKinds(r.commands)
	// The assembled tree is fully in front of the camera.
	assert.Equal(t, s.Leaves.Len(), kinds[commandLeaf])
	assert.Equal(t, s.Ornaments.Len(), kinds[commandOrnament])
	assert.Equal(t, s.Lights.Len(), kinds[commandLight])
	assert.Equal(t, 1, kinds[commandStar])
	assert.Positive(t, kinds[commandSparkle])
	assert.LessOrEqual(t, kinds[commandSparkle], GoldDustConfig.Count+WhiteDustConfig.Count)

	r.sortCommands()
	for i := 1; i < len(r.commands); i++ {
		require.GreaterOrEqual(t, r.commands[i-1].depth, r.commands[i].depth, "commands are drawn back to front")
	}
}

func TestRendererHidesTinyStar(t *testing.T) {
	s, r := newTestRenderer(t)
	s.Update(frame)
	r.buildCommands()
	for _, c := range r.commands {
		assert.NotEqual(t, commandStar, c.kind, "the star has not grown yet")
	}
}

func TestRendererTessellate(t *testing.T) {
	s, r := newTestRenderer(t)
	for i := 0; i < 600; i++ {
		s.Update(frame)
	}
	r.buildCommands()
	r.sortCommands()
	r.tessellate()

	require.NotEmpty(t, r.inds)
	require.NotEmpty(t, r.glowInds)
	assert.Zero(t, len(r.inds)%3)
	assert.Zero(t, len(r.glowInds)%3)
	for _, i := range r.inds {
		require.Less(t, int(i), len(r.verts))
	}
	for _, i := range r.glowInds {
		require.Less(t, int(i), len(r.glowVerts))
	}

	wantOpaque := s.Leaves.Len() + s.Ornaments.Len()*ornamentSegs + s.Lights.Len()*lightSegs + starPoints*2
	assert.Equal(t, wantOpaque, len(r.inds)/3)
	sparkles := countKinds(r.commands)[commandSparkle]
	assert.Equal(t, (s.Lights.Len()+1)*glowSegs+sparkles*sparkleSegs, len(r.glowInds)/3)
}

func TestRendererSparkles(t *testing.T) {
	s, r := newTestRenderer(t)
	s.Update(frame)
	r.buildCommands()

	var gold, white int
	for _, c := range r.commands {
		if c.kind != commandSparkle {
			continue
		}
		require.Positive(t, c.alpha)
		require.Positive(t, c.radius)
		switch c.color {
		case GoldDustConfig.Color:
			gold++
			assert.LessOrEqual(t, c.alpha, GoldDustConfig.Opacity)
		case WhiteDustConfig.Color:
			white++
			assert.LessOrEqual(t, c.alpha, WhiteDustConfig.Opacity)
		default:
			t.Fatalf("unexpected sparkle color %s", c.color.Hex())
		}
	}
	assert.Positive(t, gold)
	assert.Positive(t, white)

	// Sparkles only feed the additive batch.
	r.commands = r.commands[:0]
	r.sparkleCommands()
	r.tessellate()
	assert.Empty(t, r.inds)
	assert.Equal(t, len(r.commands)*sparkleSegs, len(r.glowInds)/3)
}

func TestAppendFan(t *testing.T) {
	verts, inds := appendFan(nil, nil, 10, 20, 5, 6, ColorWhite, colorGold, 1, 0)
	require.Len(t, verts, 7)
	require.Len(t, inds, 18)
	assert.Equal(t, float32(10), verts[0].DstX)
	assert.Equal(t, float32(20), verts[0].DstY)
	assert.Equal(t, float32(1), verts[0].ColorA)
	assert.Equal(t, float32(0), verts[1].ColorA)
	assert.Equal(t, float32(0), verts[1].ColorR, "rim colors are premultiplied")
	assert.InDelta(t, 15, verts[1].DstX, 1e-5)

	// A second fan indexes past the first.
	_, inds = appendFan(verts, inds, 0, 0, 1, 3, ColorWhite, ColorWhite, 1, 1)
	assert.Equal(t, uint32(7), inds[18])
}
