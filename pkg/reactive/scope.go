package reactive

import "sync"

// Scope groups signals that are batched together.
type Scope struct {
	mu      sync.Mutex
	depth   int
	pending []*subscription

	subs []*subscription
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Batch runs fn and defers every notification raised by signals in this
// scope until the outermost Batch returns. Each subscriber runs at most once
// per batch. Batches can be nested.
func (s *Scope) Batch(fn func()) {
	s.mu.Lock()
	s.depth++
	s.mu.Unlock()

	defer s.flush()

	fn()
}

// Subscribe registers fn to run after any signal in the scope changes.
// Inside a Batch, fn runs once when the batch completes.
func (s *Scope) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	sub := &subscription{id: subscriptionIDs.Add(1), fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, existing := range s.subs {
				if existing.id == sub.id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Scope) observers() []*subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*subscription, len(s.subs))
	copy(out, s.subs)
	return out
}

// queue records subs for the pending batch. It reports false when no batch
// is open and the caller must notify immediately.
func (s *Scope) queue(subs []*subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.depth == 0 {
		return false
	}
	s.pending = append(s.pending, subs...)
	return true
}

func (s *Scope) flush() {
	s.mu.Lock()
	s.depth--
	if s.depth > 0 {
		s.mu.Unlock()
		return
	}
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	seen := make(map[uint64]bool, len(pending))
	for _, sub := range pending {
		if seen[sub.id] {
			continue
		}
		seen[sub.id] = true
		sub.fn()
	}
}
