package hostcmd

import (
	"context"
	"sync"
)

// FakeCall records one invocation seen by a FakeRunner.
type FakeCall struct {
	Path string
	Args []string
}

// FakeRunner is a scripted Runner for tests. Results are queued per tool
// path and popped in order; an unscripted call succeeds with empty output.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []FakeCall
	scripts map[string][]scripted
}

type scripted struct {
	out Output
	err error
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{scripts: make(map[string][]scripted)}
}

// Script queues a result for the next invocation of path.
func (f *FakeRunner) Script(path string, out Output, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[path] = append(f.scripts[path], scripted{out: out, err: err})
}

func (f *FakeRunner) Run(_ context.Context, path string, args ...string) (Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, FakeCall{Path: path, Args: args})

	queue := f.scripts[path]
	if len(queue) == 0 {
		return Output{}, nil
	}
	next := queue[0]
	f.scripts[path] = queue[1:]
	return next.out, next.err
}

// Calls returns every recorded invocation in order.
func (f *FakeRunner) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallsTo returns the argument lists of every invocation of path.
func (f *FakeRunner) CallsTo(path string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, c := range f.calls {
		if c.Path == path {
			out = append(out, c.Args)
		}
	}
	return out
}
