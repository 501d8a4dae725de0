package store

import (
	"path/filepath"
	"testing"
	"time"

	"terrasim/internal/rng"
	"terrasim/internal/scheduler"
)

func TestCheckpointRestoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "checkpoints.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	mgr := rng.NewManager(42)
	mgr.Stream("test").NextUint32()
	mgr.Stream("dice")

	sched := scheduler.New(time.Second)
	if err := sched.RegisterSystem("sys", 120, func(scheduler.StepContext) {}); err != nil {
		t.Fatal(err)
	}
	sched.Tick()
	sched.Tick()

	id, err := s.Checkpoint(mgr, sched)
	if err != nil {
		t.Fatal(err)
	}

	rngState, schedState, err := s.Restore(id)
	if err != nil {
		t.Fatal(err)
	}

	if rngState.MasterSeed != 42 {
		t.Fatalf("expected master seed 42, got %d", rngState.MasterSeed)
	}
	if _, ok := rngState.Streams["test"]; !ok {
		t.Fatal("expected stream 'test' in restored state")
	}
	if schedState.StepNumber != 2 {
		t.Fatalf("expected stepNumber 2, got %d", schedState.StepNumber)
	}

	restoredMgr := rng.NewManager(42)
	if err := restoredMgr.LoadState(rngState); err != nil {
		t.Fatal(err)
	}

	restoredSched := scheduler.Restore(time.Second, schedState)
	if restoredSched.StepNumber() != 2 {
		t.Fatalf("expected restored stepNumber 2, got %d", restoredSched.StepNumber())
	}
}

func TestRestoreUnknownIDFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "checkpoints.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, _, err := s.Restore(999); err == nil {
		t.Fatal("expected error restoring nonexistent checkpoint")
	}
}
