package arixtree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordDrawNeedsDebugMode(t *testing.T) {
	s := NewSceneRand(testRand())
	s.recordDraw(time.Millisecond, 100, 2)
	assert.Zero(t, s.stats.frames)

	s.SetDebugMode(true)
	for i := 0; i < debugLogInterval; i++ {
		s.recordDraw(time.Millisecond, 100, 2)
	}
	assert.Equal(t, debugLogInterval, s.stats.frames)
	assert.Equal(t, 100, s.stats.triangleCount)
	assert.Equal(t, 2, s.stats.drawCalls)
}
