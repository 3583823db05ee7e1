// Package script provides the Lisp console for Relief. It wraps
// zygomys in a sandboxed environment whose builtins drive the scene
// coordinator: creating polygons, applying transformations and
// interpolations, and querying height statistics.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mjard/relief/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. Each call to Evaluate creates a
// fresh sandboxed environment; the scene coordinator is the only state
// carried across evaluations. A script's scene mutations are staged on
// a scratch copy and committed as a whole when the evaluation succeeds,
// so a failed or timed-out script leaves the scene untouched.
type Engine struct {
	coord *scene.Coordinator

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an engine bound to a coordinator.
func NewEngine(coord *scene.Coordinator) *Engine {
	return &Engine{coord: coord}
}

// Evaluate runs Lisp source against the scene.
//
// Return semantics:
//   - On success: the printed form of the last value + nil errors + nil error
//   - On parse/eval failure: "" + eval errors + nil error
//   - On fatal failure (timeout, panic): "" + nil + error
//
// The script mutates a scratch copy of the scene; the scratch is
// committed back on the caller's goroutine only when the evaluation
// finished cleanly and was neither timed out nor superseded. A failed,
// abandoned, or stale evaluation leaves the scene exactly as it was.
func (e *Engine) Evaluate(source string) (string, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		scratch := e.coord.Scratch()
		defer scratch.Close()

		out, evalErrs, err := e.evaluate(scratch, source)
		ch <- evalResult{out: out, errors: evalErrs, err: err, scratch: scratch}
	}()

	return e.waitWithTimeout(ch, gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox
// whose builtins drive the given scratch coordinator.
func (e *Engine) evaluate(coord *scene.Coordinator, source string) (string, []EvalError, error) {
	// An empty script is a valid program that changes nothing.
	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}

	// Sandbox mode prevents user code from touching the filesystem or
	// syscalls; the only capabilities are the registered builtins.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, coord)

	err := env.LoadString(normalizeSource(source))
	if err != nil {
		return "", parseZygoError(err), nil
	}

	val, err := env.Run()
	if err != nil {
		return "", parseZygoError(err), nil
	}
	if val == nil {
		return "", nil, nil
	}
	return val.SexpString(nil), nil, nil
}

// linePattern matches zygomys error messages with "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." messages.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygoError converts a zygomys error into EvalError values,
// extracting line information from the message when present.
func parseZygoError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
