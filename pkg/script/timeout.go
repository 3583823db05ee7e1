package script

import (
	"fmt"
	"time"

	"github.com/mjard/relief/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation results through channels. The scratch
// carries the script's staged scene mutations; it is committed by the
// receiver, never by the evaluation goroutine.
type evalResult struct {
	out     string
	errors  []EvalError
	err     error
	scratch *scene.Coordinator
}

// waitWithTimeout waits for a result from ch, but returns a timeout
// error if the evaluation exceeds EvalTimeout. A generation counter
// discards stale results from superseded evaluations.
//
// On timeout the goroutine may still be running, but it only touches
// its private scratch; with nobody left to commit it, its mutations
// are dropped when it eventually completes.
func (e *Engine) waitWithTimeout(ch <-chan evalResult, gen uint64) (string, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()

		if gen != current {
			return "", nil, fmt.Errorf("evaluation superseded by newer request")
		}
		if res.err == nil && len(res.errors) == 0 && res.scratch != nil {
			e.coord.Restore(res.scratch.Snapshot())
		}
		return res.out, res.errors, res.err

	case <-timer.C:
		// Invalidate the generation so a concurrent waiter cannot
		// commit on behalf of this evaluation either.
		e.mu.Lock()
		e.generation++
		e.mu.Unlock()
		return "", nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
