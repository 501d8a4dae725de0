package rng

import "terrasim/internal/simerr"

// Stream is a single named pseudo-random sequence derived from a
// master seed. Every method except Fork mutates prngState; Fork is a
// pure value derivation and never touches the parent's position.
type Stream struct {
	originalSeed uint32
	prngState    uint32
	label        string
}

// NewStream creates a stream rooted at originalSeed. label is kept
// only for diagnostics (error messages, snapshot introspection).
func NewStream(originalSeed uint32, label string) *Stream {
	return &Stream{originalSeed: originalSeed, prngState: originalSeed, label: label}
}

// OriginalSeed returns the seed the stream (and all its forks) are
// rooted at.
func (s *Stream) OriginalSeed() uint32 { return s.originalSeed }

// Label returns the diagnostic label, if any.
func (s *Stream) Label() string { return s.label }

// NextUint32 advances the stream and returns the next raw word.
func (s *Stream) NextUint32() uint32 {
	next, out := NextUint32(s.prngState)
	s.prngState = next
	return out
}

// Float returns a float64 in [0, 1).
func (s *Stream) Float() float64 {
	return float64(s.NextUint32()) / 4294967296.0
}

// Int returns an integer in [min, max). min must be strictly less than
// max or ErrInvalidArgument is returned.
func (s *Stream) Int(min, max int64) (int64, error) {
	if min >= max {
		return 0, simerr.ErrInvalidArgument
	}
	span := float64(max - min)
	return min + int64(s.Float()*span), nil
}

// Bool returns true with probability p. p must lie in [0, 1].
func (s *Stream) Bool(p float64) (bool, error) {
	if p < 0 || p > 1 {
		return false, simerr.ErrInvalidArgument
	}
	return s.Float() < p, nil
}

// Pick returns a uniformly random element of arr. arr must be
// non-empty.
func Pick[T any](s *Stream, arr []T) (T, error) {
	var zero T
	if len(arr) == 0 {
		return zero, simerr.ErrInvalidArgument
	}
	idx, err := s.Int(0, int64(len(arr)))
	if err != nil {
		return zero, err
	}
	return arr[idx], nil
}

// Shuffle returns a new, Fisher-Yates shuffled copy of arr. The input
// slice is never mutated.
func Shuffle[T any](s *Stream, arr []T) []T {
	out := make([]T, len(arr))
	copy(out, arr)
	for i := len(out) - 1; i > 0; i-- {
		j, _ := s.Int(0, int64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Fork derives a new, independent child stream from label. The child
// seed is combine(originalSeed, hash(label)) — a pure function of the
// parent's root seed and the label, never of the parent's current
// prngState. Two forks with the same label from streams sharing an
// originalSeed are therefore identical regardless of how much either
// parent has been advanced beforehand.
func (s *Stream) Fork(label string) *Stream {
	childSeed := CombineSeed(s.originalSeed, SeedFromString(label))
	return NewStream(childSeed, label)
}

// ForkSeed is like Fork but derives the label seed from a raw uint32
// instead of hashing a string (for numeric fork labels).
func (s *Stream) ForkSeed(label uint32) *Stream {
	childSeed := CombineSeed(s.originalSeed, label)
	return NewStream(childSeed, "")
}

// StreamState is the serializable snapshot of a single stream.
type StreamState struct {
	OriginalSeed uint32     `json:"originalSeed"`
	PRNGState    PRNGState `json:"prngState"`
}

// PRNGState wraps the bare state word so the JSON shape matches the
// reference's nested {state: u32} form.
type PRNGState struct {
	State uint32 `json:"state"`
}

// GetState snapshots the stream's current position.
func (s *Stream) GetState() StreamState {
	return StreamState{OriginalSeed: s.originalSeed, PRNGState: PRNGState{State: s.prngState}}
}

// SetState restores a previously snapshotted position. The stored
// OriginalSeed must match this stream's, or ErrStateMismatch is
// returned and the stream is left untouched.
func (s *Stream) SetState(st StreamState) error {
	if st.OriginalSeed != s.originalSeed {
		return simerr.ErrStateMismatch
	}
	s.prngState = st.PRNGState.State
	return nil
}
