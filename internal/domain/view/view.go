// Where: internal/domain/view/view.go
// What: Deferred, one-shot-finalizable collection of named members.
// Why: Registration happens throughout configuration but members must be fixed before use.
package view

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrLateRegistration is returned when Register is called after finalization.
	ErrLateRegistration = errors.New("registration after finalization")
	ErrDuplicateName    = errors.New("member already registered")
	ErrUnknownMember    = errors.New("unknown member")
)

// LateRegistrationError names the member registered too late.
type LateRegistrationError struct {
	Name string
}

func (e *LateRegistrationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrLateRegistration, e.Name)
}

func (e *LateRegistrationError) Unwrap() error {
	return ErrLateRegistration
}

// Factory creates the member value for a fully-qualified name.
type Factory[T any] func(name string) (T, error)

type member[T any] struct {
	name     string
	once     sync.Once
	value    T
	err      error
	realized bool
	pending  []func(T)
}

// View collects members lazily. configureEach actions apply to every member
// when it is realized, in the order they were added relative to each
// member's own configure actions.
type View[T any] struct {
	mu        sync.Mutex
	factory   Factory[T]
	finalizer *Finalizer
	members   map[string]*member[T]
	order     []string
	each      []func(T)
}

// New returns an open view that creates members with factory.
func New[T any](factory Factory[T]) *View[T] {
	return &View[T]{
		factory:   factory,
		finalizer: NewFinalizer(),
		members:   map[string]*member[T]{},
	}
}

// Handle is a deferred reference to a registered member.
type Handle[T any] struct {
	view *View[T]
	name string
}

// Name returns the fully-qualified member name.
func (h Handle[T]) Name() string {
	return h.name
}

// Get realizes the member if needed and returns it.
func (h Handle[T]) Get() (T, error) {
	return h.view.realize(h.name)
}

// Configure adds an action for this member only. It runs immediately when
// the member is already realized.
func (h Handle[T]) Configure(action func(T)) {
	h.view.configure(h.name, action)
}

// State reports the finalization state of the view.
func (v *View[T]) State() State {
	return v.finalizer.State()
}

// Names returns the registered member names in registration order.
func (v *View[T]) Names() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Register adds a member under name, optionally configured by configure.
// The state check and the insert happen under one lock, so a registration
// either lands before finalization starts or fails as late.
func (v *View[T]) Register(name string, configure ...func(T)) (Handle[T], error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.finalizer.State() != StateOpen {
		return Handle[T]{}, &LateRegistrationError{Name: name}
	}
	if _, ok := v.members[name]; ok {
		return Handle[T]{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	m := &member[T]{name: name}
	m.pending = append(m.pending, v.each...)
	for _, action := range configure {
		if action != nil {
			m.pending = append(m.pending, action)
		}
	}
	v.members[name] = m
	v.order = append(v.order, name)
	return Handle[T]{view: v, name: name}, nil
}

// ConfigureEach applies action to every current and future member once it
// is realized.
func (v *View[T]) ConfigureEach(action func(T)) {
	if action == nil {
		return
	}
	v.mu.Lock()
	v.each = append(v.each, action)
	var now []T
	for _, name := range v.order {
		m := v.members[name]
		if m.realized {
			if m.err == nil {
				now = append(now, m.value)
			}
			continue
		}
		m.pending = append(m.pending, action)
	}
	v.mu.Unlock()

	for _, value := range now {
		action(value)
	}
}

// WhenFinalizing queues action for the finalization transition.
func (v *View[T]) WhenFinalizing(action *Action) {
	v.finalizer.WhenFinalizing(action)
}

// WhenElementFinalized applies action to every member at finalization.
func (v *View[T]) WhenElementFinalized(action func(T)) {
	v.WhenFinalizing(Once(func() { v.ConfigureEach(action) }))
}

// Finalize triggers the finalization transition if it has not happened yet.
func (v *View[T]) Finalize() {
	v.finalizer.Finalize()
}

// Elements finalizes the view, then realizes and returns every member in
// registration order.
func (v *View[T]) Elements() ([]T, error) {
	v.Finalize()
	names := v.Names()
	out := make([]T, 0, len(names))
	for _, name := range names {
		value, err := v.realize(name)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func (v *View[T]) configure(name string, action func(T)) {
	if action == nil {
		return
	}
	v.mu.Lock()
	m, ok := v.members[name]
	if !ok {
		v.mu.Unlock()
		return
	}
	if !m.realized {
		m.pending = append(m.pending, action)
		v.mu.Unlock()
		return
	}
	value, err := m.value, m.err
	v.mu.Unlock()
	if err == nil {
		action(value)
	}
}

func (v *View[T]) realize(name string) (T, error) {
	v.mu.Lock()
	m, ok := v.members[name]
	v.mu.Unlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrUnknownMember, name)
	}

	m.once.Do(func() {
		value, err := v.factory(name)
		v.mu.Lock()
		m.value, m.err = value, err
		v.mu.Unlock()
		if err != nil {
			v.mu.Lock()
			m.realized = true
			m.pending = nil
			v.mu.Unlock()
			return
		}
		for {
			v.mu.Lock()
			if len(m.pending) == 0 {
				m.realized = true
				v.mu.Unlock()
				return
			}
			next := m.pending[0]
			m.pending = m.pending[1:]
			v.mu.Unlock()
			next(value)
		}
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	return m.value, m.err
}
