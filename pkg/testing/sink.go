package testing

import "sync"

// CountingSink is a schedule.RenderSink that counts draws. OnDraw, when set,
// runs on every draw — useful for asserting per-tick render state.
type CountingSink struct {
	mu     sync.Mutex
	draws  int
	OnDraw func()
}

// Draw implements schedule.RenderSink.
func (s *CountingSink) Draw() {
	s.mu.Lock()
	s.draws++
	fn := s.OnDraw
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Draws returns how many times Draw has run.
func (s *CountingSink) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}

// Reset zeroes the draw counter.
func (s *CountingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws = 0
}
