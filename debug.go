package arixtree

import (
	"log"
	"time"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime    time.Duration
	drawTime      time.Duration
	instanceCount int
	triangleCount int
	drawCalls     int
	frames        int
}

// debugLogInterval is how many frames pass between two stats lines.
const debugLogInterval = 60

// recordDraw stores the renderer's metrics for the current frame and logs the
// accumulated stats every debugLogInterval frames.
func (s *Scene) recordDraw(drawTime time.Duration, triangles, drawCalls int) {
	if !s.debug {
		return
	}
	s.stats.drawTime = drawTime
	s.stats.triangleCount = triangles
	s.stats.drawCalls = drawCalls
	s.stats.frames++
	if s.stats.frames%debugLogInterval == 0 {
		s.debugLog()
	}
}

// debugLog prints timing and draw stats.
func (s *Scene) debugLog() {
	st := s.stats
	log.Printf("[arixtree] update: %v | draw: %v | total: %v",
		st.updateTime, st.drawTime, st.updateTime+st.drawTime)
	log.Printf("[arixtree] instances: %d | triangles: %d | draw calls: %d | progress: %.3f",
		st.instanceCount, st.triangleCount, st.drawCalls, s.Progress())
}
