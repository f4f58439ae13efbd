package state

import "sync"

// Store owns the state tree. Dispatches are serialised, and subscribers see
// every state in dispatch order. A subscriber must not dispatch.
type Store struct {
	dispatchMu sync.Mutex
	mu         sync.Mutex
	state      State
	subs       map[int]func(State)
	next       int
}

// NewStore starts a store at initial
func NewStore(initial State) *Store {
	return &Store{state: initial, subs: map[int]func(State){}}
}

// Dispatch reduces a into the state and notifies subscribers. A panic from
// the reducer leaves the state as it was and the store usable.
func (s *Store) Dispatch(a Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	next, subs := s.reduce(a)
	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) reduce(a Action) (State, []func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.state, subs
}

// State returns the current state. Reducers never modify slices in place, so
// the snapshot stays valid after later dispatches.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
