package reactive

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var subscriptionIDs atomic.Uint64

// subscription is a single registered callback.
type subscription struct {
	id uint64
	fn func()
}

// Signal is a reactive value container.
// All methods are safe for concurrent use.
type Signal[T any] struct {
	value T
	mu    sync.RWMutex

	// equal decides whether a Set actually changed the value.
	// If nil, uses default equality checking.
	equal func(T, T) bool

	scope *Scope

	subs  []*subscription
	subMu sync.RWMutex
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// In attaches the signal to a scope so its notifications honour Scope.Batch.
func (s *Signal[T]) In(scope *Scope) *Signal[T] {
	s.scope = scope
	return s
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if the value changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Subscribe registers fn to run after every change.
// The returned function removes the subscription; calling it twice is safe.
func (s *Signal[T]) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	sub := &subscription{id: subscriptionIDs.Add(1), fn: fn}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub.id) })
	}
}

func (s *Signal[T]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify copies the subscriber list before calling out so callbacks may
// subscribe or unsubscribe without deadlocking.
func (s *Signal[T]) notify() {
	s.subMu.RLock()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if s.scope != nil {
		subs = append(subs, s.scope.observers()...)
		if s.scope.queue(subs) {
			return
		}
	}
	for _, sub := range subs {
		sub.fn()
	}
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common scalar types and reflect.DeepEqual for
// everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
