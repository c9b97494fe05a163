package arixtree

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparkleEmitterStartsFull(t *testing.T) {
	for _, cfg := range []SparkleConfig{GoldDustConfig, WhiteDustConfig} {
		e := NewSparkleEmitter(cfg, testRand())
		assert.Equal(t, cfg.Count, e.AliveCount())
		assert.Len(t, e.AppendSparkles(nil), cfg.Count)
	}
}

func TestSparkleEmitterEmptyConfig(t *testing.T) {
	e := NewSparkleEmitter(SparkleConfig{Count: -1}, testRand())
	e.Update(1)
	assert.Zero(t, e.AliveCount())
	assert.Empty(t, e.AppendSparkles(nil))
}

func TestSparkleEmitterStaysInBounds(t *testing.T) {
	cfg := GoldDustConfig
	e := NewSparkleEmitter(cfg, testRand())
	// A mote can drift at most Speed * Lifetime.Max past its spawn cube.
	limit := cfg.Scale/2 + cfg.Speed*cfg.Lifetime.Max + 1e-9

	var buf []Sparkle
	for step := 0; step < 600; step++ {
		e.Update(frame)
		require.Equal(t, cfg.Count, e.AliveCount(), "pool refills every step")
		buf = e.AppendSparkles(buf[:0])
		for _, s := range buf {
			for k := 0; k < 3; k++ {
				require.LessOrEqual(t, math.Abs(s.Position[k]), limit)
			}
			require.GreaterOrEqual(t, s.Alpha, 0.0)
			require.LessOrEqual(t, s.Alpha, cfg.Opacity+1e-12)
		}
	}
}

func TestSparkleEmitterReplacesExpiredMotes(t *testing.T) {
	cfg := WhiteDustConfig
	e := NewSparkleEmitter(cfg, testRand())
	e.Update(cfg.Lifetime.Max + 1)
	require.Equal(t, cfg.Count, e.AliveCount())
	for _, s := range e.AppendSparkles(nil) {
		assert.Zero(t, s.Alpha, "fresh motes start invisible")
		for k := 0; k < 3; k++ {
			assert.LessOrEqual(t, math.Abs(s.Position[k]), cfg.Scale/2)
		}
	}

	// Fresh motes fade in.
	e.Update(0.5)
	for _, s := range e.AppendSparkles(nil) {
		assert.Positive(t, s.Alpha)
	}
}

func TestSparkleEmitterNegativeDt(t *testing.T) {
	e := NewSparkleEmitter(GoldDustConfig, testRand())
	before := e.AppendSparkles(nil)
	e.Update(-1)
	assert.Equal(t, before, e.AppendSparkles(nil))
}

func TestSparkleEmitterReproducibleWithSeed(t *testing.T) {
	a := NewSparkleEmitter(GoldDustConfig, rand.New(rand.NewPCG(1, 2)))
	b := NewSparkleEmitter(GoldDustConfig, rand.New(rand.NewPCG(1, 2)))
	a.Update(2)
	b.Update(2)
	assert.Equal(t, a.AppendSparkles(nil), b.AppendSparkles(nil))
}

func TestSparkleEnvelope(t *testing.T) {
	e := NewSparkleEmitter(SparkleConfig{Count: 1, Opacity: 0.6, Lifetime: Range{2, 2}}, testRand())
	m := &mote{life: 2, maxLife: 2}
	assert.Zero(t, e.envelope(m))
	m.life = 1
	assert.InDelta(t, 0.6, e.envelope(m), 1e-12)
	m.life = 0.5
	assert.InDelta(t, 0.6*math.Sin(0.75*math.Pi), e.envelope(m), 1e-12)
}
