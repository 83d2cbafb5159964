package hammock

import (
	"context"
	"sync"
)

// InitType is dispatched once by NewStore so every slice reports its initial state.
const InitType = "@@hammock/INIT"

// Store is a minimal state container: it owns one state value and applies
// dispatched actions to it one at a time. Dispatch is safe for concurrent use,
// so the thunks of several derived actions may run against the same store.
type Store struct {
	mu      sync.Mutex
	reducer Reducer
	state   H
	subs    []subscription
	nextID  int
}

type subscription struct {
	id int
	fn func(H)
}

// NewStore creates a store. A nil initial state is filled in by the reducer.
func NewStore(reducer Reducer, initial H) *Store {
	s := &Store{reducer: reducer}
	s.state = reducer(initial, Action{Type: InitType})
	return s
}

// Dispatch applies a to the state and then notifies subscribers with the new state.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = s.reducer(s.state, a)
	state := s.state
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}

// State returns the current state. It must be treated as read-only.
func (s *Store) State() H {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every dispatch. The returned
// function removes it again.
func (s *Store) Subscribe(fn func(H)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Run executes t against this store.
func (s *Store) Run(ctx context.Context, t Thunk) (any, error) {
	return t(ctx, s.Dispatch)
}

// CombineReducers builds a reducer whose state holds one slice per key. When no
// slice changes, the state passed in is returned as is.
func CombineReducers(reducers map[string]Reducer) Reducer {
	return func(state H, a Action) H {
		changed := state == nil
		next := make(H, len(state)+len(reducers))
		for k, v := range state {
			next[k] = v
		}
		for key, r := range reducers {
			prev, _ := asH(state[key])
			slice := r(prev, a)
			if prev == nil || !sameMap(prev, slice) {
				changed = true
			}
			next[key] = slice
		}
		if !changed {
			return state
		}
		return next
	}
}
