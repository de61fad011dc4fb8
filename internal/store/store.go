// Package store holds the in-memory reactive mirror of repository state.
package store

import (
	"reflect"
	"sync"
)

// Store is a synchronous state container. Updates are applied under a lock and
// subscribers are notified after the lock is released, in update order.
type Store[S any] struct {
	mu     sync.RWMutex
	state  S
	nextID uint64
	subs   map[uint64]func(S)

	// notifyMu serializes notification rounds so callbacks observe updates in order.
	notifyMu sync.Mutex
}

func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial, subs: make(map[uint64]func(S))}
}

// GetState returns the current state. Callers must treat it as immutable.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState replaces the state with update(current). The updater must not
// mutate its argument in place; it returns a new value instead.
func (s *Store[S]) SetState(update func(S) S) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = update(s.state)
	next := s.state
	listeners := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

func (s *Store[S]) listen(fn func(S)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Equal reports whether two selector results are the same.
type Equal[T any] func(a, b T) bool

// DeepEqual is the default selector comparison.
func DeepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// Subscribe calls callback with the selected slice whenever it changes. The
// callback is not invoked for the value present at subscription time and must
// not call SetState on the same store.
// A nil equal falls back to DeepEqual. The returned func unsubscribes.
func Subscribe[S, T any](s *Store[S], selector func(S) T, equal Equal[T], callback func(T)) func() {
	if equal == nil {
		equal = DeepEqual[T]
	}

	var mu sync.Mutex
	s.notifyMu.Lock()
	last := selector(s.GetState())
	unsubscribe := s.listen(func(state S) {
		selected := selector(state)
		mu.Lock()
		changed := !equal(last, selected)
		if changed {
			last = selected
		}
		mu.Unlock()
		if changed {
			callback(selected)
		}
	})
	s.notifyMu.Unlock()
	return unsubscribe
}
