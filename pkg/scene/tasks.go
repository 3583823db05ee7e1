package scene

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Work computes a new height array without touching shared state.
type Work func() ([]float32, error)

// commitFunc swaps a finished array into its model. Only ever called
// from DrainCompleted.
type commitFunc func([]float32) error

// Handle identifies one submitted unit of work. Once DrainCompleted has
// returned it, Err reports how the work (and its commit) ended.
type Handle struct {
	ID  uint64
	Err error

	work   Work
	commit commitFunc
	result []float32
}

// TaskPool runs height-array computations on background workers. There
// is no cancellation and no timeout: once submitted, a unit of work
// runs to completion. Completed work is parked until the owner calls
// DrainCompleted, which is the only place results are committed.
type TaskPool struct {
	submit chan *Handle
	wg     sync.WaitGroup
	nextID atomic.Uint64

	mu        sync.Mutex
	completed []*Handle
}

// NewTaskPool starts a pool with the given number of workers; workers
// <= 0 picks one per CPU.
func NewTaskPool(workers int) *TaskPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &TaskPool{submit: make(chan *Handle, workers*2)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *TaskPool) worker() {
	defer p.wg.Done()
	for h := range p.submit {
		h.result, h.Err = h.work()
		p.mu.Lock()
		p.completed = append(p.completed, h)
		p.mu.Unlock()
	}
}

// Submit schedules work and returns its handle immediately.
func (p *TaskPool) Submit(work Work, commit commitFunc) *Handle {
	h := &Handle{ID: p.nextID.Add(1), work: work, commit: commit}
	p.submit <- h
	return h
}

// DrainCompleted commits every finished unit of work on the calling
// goroutine and returns the handles, in completion order. Handles whose
// work failed are returned with their error and nothing committed.
func (p *TaskPool) DrainCompleted() []*Handle {
	p.mu.Lock()
	done := p.completed
	p.completed = nil
	p.mu.Unlock()

	for _, h := range done {
		if h.Err != nil || h.commit == nil {
			continue
		}
		h.Err = h.commit(h.result)
	}
	return done
}

// Close stops the workers after the queued work finishes. Completed
// results left undrained are discarded.
func (p *TaskPool) Close() {
	close(p.submit)
	p.wg.Wait()
}
