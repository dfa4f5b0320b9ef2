package basket

import "sync"

// Feed is a broadcast holder of a current value. Subscribers receive the
// latest value immediately, then every subsequent publish in order.
type Feed[T any] struct {
	mu      sync.Mutex
	current T
	nextID  int
	subs    map[int]func(T)
}

// NewFeed builds a feed seeded with the zero value.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: map[int]func(T){}}
}

// Publish stores value as current and notifies subscribers in order.
func (f *Feed[T]) Publish(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = value
	for _, fn := range f.subs {
		fn(value)
	}
}

// Current returns the last published value.
func (f *Feed[T]) Current() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Subscribe registers fn, replays the current value to it, and returns an
// unsubscribe func.
func (f *Feed[T]) Subscribe(fn func(T)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	// Replay under the lock so no publish can slip in before the snapshot.
	fn(f.current)
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}
