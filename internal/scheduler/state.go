package scheduler

import "time"

// AccumulatorState is the serialized form of one subsystem's cadence
// accumulator.
type AccumulatorState struct {
	Accumulated    float64 `json:"accumulated"`
	CadenceSeconds float64 `json:"cadenceSeconds"`
}

// State is the full serialized scheduler state: game time, step
// number, and every subsystem's accumulator, keyed by name.
type State struct {
	GameTime     GameTime                    `json:"gameTime"`
	StepNumber   uint64                      `json:"stepNumber"`
	Accumulators map[string]AccumulatorState `json:"accumulators"`
}

// GetState returns a snapshot of the scheduler's serializable state.
func (s *Scheduler) GetState() State {
	accs := make(map[string]AccumulatorState, len(s.accumulators))
	for name, acc := range s.accumulators {
		accs[name] = AccumulatorState{
			Accumulated:    acc.accumulated,
			CadenceSeconds: acc.cadenceSeconds,
		}
	}
	return State{
		GameTime:     s.gameTime,
		StepNumber:   s.stepNumber,
		Accumulators: accs,
	}
}

// Restore constructs a paused scheduler with st's counters and a
// pre-populated accumulator table whose handler slots are empty.
// Subsequent RegisterSystem calls rebind handlers to the restored
// accumulators; the cadenceSeconds argument to those calls is ignored
// in favor of the restored cadence.
func Restore(deltaReal time.Duration, st State) *Scheduler {
	s := New(deltaReal)
	s.gameTime = st.GameTime
	s.stepNumber = st.StepNumber
	for name, accSt := range st.Accumulators {
		s.accumulators[name] = &accumulator{
			accumulated:    accSt.Accumulated,
			cadenceSeconds: accSt.CadenceSeconds,
		}
		s.systemOrder = append(s.systemOrder, name)
	}
	return s
}
