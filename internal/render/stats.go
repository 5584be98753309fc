package render

import "time"

// frameStats counts presented frames and reports the rate once per second.
type frameStats struct {
	now        func() time.Time
	frameCount int
	lastTime   time.Time
	fps        float64
}

func newFrameStats(now func() time.Time) *frameStats {
	return &frameStats{now: now, lastTime: now()}
}

// frame records one presented frame. It returns true when a new rate was
// computed.
func (s *frameStats) frame() bool {
	s.frameCount++
	t := s.now()
	elapsed := t.Sub(s.lastTime)
	if elapsed < time.Second {
		return false
	}
	s.fps = float64(s.frameCount) / elapsed.Seconds()
	s.frameCount = 0
	s.lastTime = t
	Logger().Debug("frame rate", "fps", s.fps)
	return true
}
