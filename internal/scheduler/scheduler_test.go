package scheduler

import (
	"testing"
	"time"
)

func TestAdvancePerTick(t *testing.T) {
	s := New(time.Second)
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.StepNumber() != 10 {
		t.Fatalf("expected stepNumber 10, got %d", s.StepNumber())
	}
	if s.GameTimeNow().TotalMinutes != 10 {
		t.Fatalf("expected gameTime 10 minutes, got %d", s.GameTimeNow().TotalMinutes)
	}
}

func TestHandlerIsolation(t *testing.T) {
	s := New(time.Second)
	ranA, ranB := 0, 0

	_, err := s.RegisterHandler("panics", func(ctx StepContext) {
		panic("boom")
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.RegisterHandler("ok", func(ctx StepContext) {
		ranB++
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Tick()
	s.Tick()

	if ranA != 0 {
		t.Fatal("unexpected")
	}
	if ranB != 2 {
		t.Fatalf("expected ok handler to run every tick despite sibling panics, got %d", ranB)
	}
}

func TestDuplicateHandlerName(t *testing.T) {
	s := New(time.Second)
	if _, err := s.RegisterHandler("h", func(StepContext) {}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RegisterHandler("h", func(StepContext) {}); err == nil {
		t.Fatal("expected DuplicateName error")
	}
}

func TestCadenceFiring(t *testing.T) {
	// S6: Δt_game=60, registerSystem("s", 300, h) over 10 ticks.
	s := New(2 * time.Second)
	var stepNumbers []uint64
	err := s.RegisterSystem("s", 300, func(ctx StepContext) {
		stepNumbers = append(stepNumbers, ctx.StepNumber)
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		s.Tick()
	}

	if len(stepNumbers) != 2 || stepNumbers[0] != 5 || stepNumbers[1] != 10 {
		t.Fatalf("expected firings at steps [5 10], got %v", stepNumbers)
	}
}

func TestCadenceFiringCountMatchesFormula(t *testing.T) {
	const cadence = 180.0
	const n = 37

	s := New(time.Second)
	fired := 0
	if err := s.RegisterSystem("sys", cadence, func(StepContext) { fired++ }); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		s.Tick()
	}

	want := (n * DeltaGameSeconds) / int(cadence)
	if fired != want {
		t.Fatalf("expected %d firings, got %d", want, fired)
	}

	st := s.GetState()
	wantRemainder := float64(n*DeltaGameSeconds) - float64(want)*cadence
	if got := st.Accumulators["sys"].Accumulated; got != wantRemainder {
		t.Fatalf("expected remainder %v, got %v", wantRemainder, got)
	}
}

func TestSerializeRestoreRoundTrip(t *testing.T) {
	s := New(time.Second)
	fired := 0
	if err := s.RegisterSystem("sys", 120, func(StepContext) { fired++ }); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		s.Tick()
	}

	st := s.GetState()
	restored := Restore(time.Second, st)

	if err := restored.RegisterSystem("sys", 999, func(StepContext) { fired++ }); err != nil {
		t.Fatal(err)
	}

	if restored.StepNumber() != s.StepNumber() {
		t.Fatalf("step number mismatch after restore")
	}
	if restored.GameTimeNow() != s.GameTimeNow() {
		t.Fatalf("game time mismatch after restore")
	}

	restoredState := restored.GetState()
	if restoredState.Accumulators["sys"].CadenceSeconds != 120 {
		t.Fatalf("expected restored cadence 120 to win over re-registration argument 999, got %v",
			restoredState.Accumulators["sys"].CadenceSeconds)
	}
}

func TestSingletonNotApplicableHereButStopIsIdempotent(t *testing.T) {
	s := New(time.Millisecond)
	s.Stop() // no-op, not running
	s.Start()
	if !s.Running() {
		t.Fatal("expected running after Start")
	}
	s.Stop()
	if s.Running() {
		t.Fatal("expected not running after Stop")
	}
	s.Stop() // no-op again
}
