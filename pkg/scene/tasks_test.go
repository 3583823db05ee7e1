package scene

import (
	"errors"
	"testing"
	"time"
)

func drainOne(t *testing.T, p *TaskPool) *Handle {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if done := p.DrainCompleted(); len(done) > 0 {
			if len(done) != 1 {
				t.Fatalf("drained %d handles, want 1", len(done))
			}
			return done[0]
		}
		if time.Now().After(deadline) {
			t.Fatal("work never completed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTaskPoolCommitsOnDrain(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Close()

	committed := make(chan []float32, 1)
	h := p.Submit(
		func() ([]float32, error) { return []float32{1, 2, 3}, nil },
		func(hs []float32) error { committed <- hs; return nil },
	)

	got := drainOne(t, p)
	if got != h {
		t.Error("drained handle is not the submitted one")
	}
	if h.Err != nil {
		t.Fatalf("handle error: %v", h.Err)
	}
	select {
	case hs := <-committed:
		if len(hs) != 3 || hs[0] != 1 {
			t.Errorf("committed %v", hs)
		}
	default:
		t.Fatal("commit never ran")
	}
}

func TestTaskPoolWorkErrorSkipsCommit(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Close()

	boom := errors.New("boom")
	h := p.Submit(
		func() ([]float32, error) { return nil, boom },
		func([]float32) error { t.Error("commit ran for failed work"); return nil },
	)

	drainOne(t, p)
	if !errors.Is(h.Err, boom) {
		t.Errorf("handle error = %v, want boom", h.Err)
	}
}

func TestTaskPoolCommitErrorReported(t *testing.T) {
	p := NewTaskPool(1)
	defer p.Close()

	fail := errors.New("swap failed")
	h := p.Submit(
		func() ([]float32, error) { return []float32{}, nil },
		func([]float32) error { return fail },
	)

	drainOne(t, p)
	if !errors.Is(h.Err, fail) {
		t.Errorf("handle error = %v, want commit failure", h.Err)
	}
}

func TestTaskPoolHandleIDsUnique(t *testing.T) {
	p := NewTaskPool(2)
	defer p.Close()

	seen := make(map[uint64]bool)
	var handles []*Handle
	for i := 0; i < 10; i++ {
		h := p.Submit(func() ([]float32, error) { return nil, nil }, nil)
		handles = append(handles, h)
	}

	deadline := time.Now().Add(5 * time.Second)
	drained := 0
	for drained < len(handles) {
		if time.Now().After(deadline) {
			t.Fatalf("only %d of %d handles completed", drained, len(handles))
		}
		done := p.DrainCompleted()
		drained += len(done)
		for _, h := range done {
			if seen[h.ID] {
				t.Errorf("duplicate handle id %d", h.ID)
			}
			seen[h.ID] = true
		}
		time.Sleep(time.Millisecond)
	}
}
