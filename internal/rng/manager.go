package rng

import "terrasim/internal/simerr"

// Manager owns a master seed and memoizes named streams derived from
// it. Calling Stream(name) twice with the same name always returns the
// same *Stream object.
type Manager struct {
	masterSeed uint32
	streams    map[string]*Stream
	order      []string
}

// NewManager creates a manager rooted at masterSeed.
func NewManager(masterSeed uint32) *Manager {
	return &Manager{masterSeed: masterSeed, streams: make(map[string]*Stream)}
}

// MasterSeed returns the manager's root seed.
func (m *Manager) MasterSeed() uint32 { return m.masterSeed }

// Stream returns the named stream, creating it on first use with seed
// combine(masterSeed, hash(name)).
func (m *Manager) Stream(name string) *Stream {
	if s, ok := m.streams[name]; ok {
		return s
	}
	seed := CombineSeed(m.masterSeed, SeedFromString(name))
	s := NewStream(seed, name)
	m.streams[name] = s
	m.order = append(m.order, name)
	return s
}

// Streams returns the memoized stream names in first-use order. This
// is an introspection convenience; it has no effect on determinism.
func (m *Manager) Streams() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// State is the full serializable snapshot of a manager: the master
// seed plus every memoized stream's state.
type State struct {
	MasterSeed uint32                 `json:"masterSeed"`
	Streams    map[string]StreamState `json:"streams"`
}

// GetState snapshots the manager and every stream it has created so
// far.
func (m *Manager) GetState() State {
	st := State{MasterSeed: m.masterSeed, Streams: make(map[string]StreamState, len(m.streams))}
	for name, s := range m.streams {
		st.Streams[name] = s.GetState()
	}
	return st
}

// LoadState restores a manager from a snapshot. The stored MasterSeed
// must equal this manager's, or ErrStateMismatch is returned and the
// manager is left untouched. Streams present in the snapshot but not
// yet created are materialized; streams already created have their
// position overwritten.
func (m *Manager) LoadState(st State) error {
	if st.MasterSeed != m.masterSeed {
		return simerr.ErrStateMismatch
	}
	for name, ss := range st.Streams {
		s, ok := m.streams[name]
		if !ok {
			s = NewStream(ss.OriginalSeed, name)
			m.streams[name] = s
			m.order = append(m.order, name)
		}
		if err := s.SetState(ss); err != nil {
			return err
		}
	}
	return nil
}
