package resilience

import (
	"fmt"
	"sync"
)

// ErrFlightPanicked wraps a panic raised inside a flight. Every waiter receives it.
type ErrFlightPanicked struct {
	Key   string
	Value any
}

func (e *ErrFlightPanicked) Error() string {
	return fmt.Sprintf("flight %q panicked: %v", e.Key, e.Value)
}

// Flight deduplicates concurrent calls for the same key. Callers that arrive while a call
// is in flight wait for it and receive its result with shared=true.
type Flight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func (g *Flight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall[T]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	return c.val, c.err, false
}

func (g *Flight[T]) run(key string, c *flightCall[T], fn func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			c.val = zero
			c.err = &ErrFlightPanicked{Key: key, Value: r}
		}

		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn()
}
