// ABOUTME: Load state shared by the controllers and the per-key sequencer
// ABOUTME: The sequencer tags operations so late responses can be discarded

package resource

import "strconv"

// State is a controller's load state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

const (
	keyList     = "list"
	keySettings = "settings"
	keyStats    = "stats"
	keyStatus   = "status"
	keySetup    = "setup"
)

func groupKey(id string) string { return "group/" + id }

// sequencer hands out monotonically increasing numbers per controller and
// remembers, per key, the latest issued number and the stamp taken when the
// latest operation was applied. Issue numbers and apply stamps share one
// counter, so a stamp greater than an issue number means the operation
// resolved after that issue. Callers hold the owning controller's mutex.
type sequencer struct {
	next    uint64
	issued  map[string]uint64
	applied map[string]uint64
}

func (s *sequencer) issue(key string) uint64 {
	if s.issued == nil {
		s.issued = make(map[string]uint64)
	}
	s.next++
	s.issued[key] = s.next
	return s.next
}

// latest reports whether seq is still the newest operation for key.
func (s *sequencer) latest(key string, seq uint64) bool {
	return s.issued[key] == seq
}

// apply records that the latest operation on key resolved now and returns
// the stamp it was given.
func (s *sequencer) apply(key string) uint64 {
	if s.applied == nil {
		s.applied = make(map[string]uint64)
	}
	s.next++
	s.applied[key] = s.next
	return s.next
}

// appliedAfter reports whether an operation on key was applied after seq
// was issued.
func (s *sequencer) appliedAfter(key string, seq uint64) bool {
	return s.applied[key] > seq
}
