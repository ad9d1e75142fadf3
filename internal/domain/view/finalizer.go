// Where: internal/domain/view/finalizer.go
// What: One-shot finalization checkpoint with once-wrapped actions.
// Why: Coordinates must be fixed at a single deferred point reachable from first real use.
package view

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// State is the lifecycle of a Finalizer.
type State int

const (
	StateOpen State = iota
	StateFinalizing
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateFinalizing:
		return "finalizing"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Action is a finalization callback that runs at most once, no matter how
// many times it is queued or triggered.
type Action struct {
	once sync.Once
	run  func()
}

// Once wraps run into an Action.
func Once(run func()) *Action {
	return &Action{run: run}
}

// Run executes the action if it has not run yet.
func (a *Action) Run() {
	if a == nil || a.run == nil {
		return
	}
	a.once.Do(a.run)
}

// Finalizer holds actions queued until the open -> finalizing transition.
type Finalizer struct {
	mu      sync.Mutex
	state   State
	owner   uint64
	done    chan struct{}
	actions []*Action
	queued  map[*Action]struct{}
}

// NewFinalizer returns an open finalizer.
func NewFinalizer() *Finalizer {
	return &Finalizer{queued: map[*Action]struct{}{}}
}

// State returns the current lifecycle state.
func (f *Finalizer) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// WhenFinalizing queues action for the finalization transition. Queuing the
// same action twice is a no-op. Actions queued after finalization completed
// run immediately.
func (f *Finalizer) WhenFinalizing(action *Action) {
	if action == nil {
		return
	}
	f.mu.Lock()
	if f.state == StateFinalized {
		f.mu.Unlock()
		action.Run()
		return
	}
	if _, ok := f.queued[action]; ok {
		f.mu.Unlock()
		return
	}
	f.queued[action] = struct{}{}
	f.actions = append(f.actions, action)
	f.mu.Unlock()
}

// Finalize runs every queued action in queue order, then marks the
// finalizer finalized. Actions may queue further actions; those run in the
// same pass. A call made from inside a running action returns at once;
// calls from other goroutines block until the pass is done.
func (f *Finalizer) Finalize() {
	id := goroutineID()
	f.mu.Lock()
	switch f.state {
	case StateFinalized:
		f.mu.Unlock()
		return
	case StateFinalizing:
		done, reentrant := f.done, f.owner == id
		f.mu.Unlock()
		if !reentrant {
			<-done
		}
		return
	}
	done := make(chan struct{})
	f.state = StateFinalizing
	f.owner = id
	f.done = done
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.state = StateFinalized
		f.mu.Unlock()
		close(done)
	}()
	for {
		f.mu.Lock()
		if len(f.actions) == 0 {
			f.state = StateFinalized
			f.mu.Unlock()
			return
		}
		next := f.actions[0]
		f.actions = f.actions[1:]
		f.mu.Unlock()
		next.Run()
	}
}

// goroutineID parses the calling goroutine's id from its stack header.
func goroutineID() uint64 {
	var buf [64]byte
	header := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		header = header[:i]
	}
	id, _ := strconv.ParseUint(string(header), 10, 64)
	return id
}
