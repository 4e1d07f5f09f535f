// Package testutil provides test helpers: scripted random sources and
// observed loggers.
package testutil

import (
	"sync"
	"testing"
)

// SequenceSource is a dice source that replays a fixed list of 1-based faces.
//
// Each Intn(n) call consumes the next face f and returns f-1. The test fails
// if the list is exhausted or a face does not fit in [1, n].
type SequenceSource struct {
	t     testing.TB
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequenceSource returns a source replaying faces in order.
func NewSequenceSource(t testing.TB, faces ...int) *SequenceSource {
	t.Helper()
	return &SequenceSource{t: t, faces: append([]int(nil), faces...)}
}

// Intn returns the next scripted face minus one.
func (s *SequenceSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.faces) {
		s.t.Fatalf("sequence source exhausted after %d draws", len(s.faces))
		return 0
	}
	face := s.faces[s.next]
	s.next++
	if face < 1 || face > n {
		s.t.Fatalf("scripted face %d (draw %d) is not a valid d%d face", face, s.next, n)
		return 0
	}
	return face - 1
}

// Used returns how many faces have been consumed.
func (s *SequenceSource) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Remaining returns how many faces have not been consumed.
func (s *SequenceSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.faces) - s.next
}
