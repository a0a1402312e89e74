package pullover

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"
)

// A Semaphore bounds concurrent access to a resource by handing out up to a
// fixed number of permits. Callers blocked in Acquire are served strictly in
// the order they called it.
//
// A Semaphore is safe for concurrent use.
type Semaphore struct {
	mutex   sync.Mutex
	max     int
	held    int
	waiters []chan *Permit
}

// A Permit is one unit of a semaphore's capacity, held between Acquire and Release.
type Permit struct {
	sema     *Semaphore
	released bool
}

// NewSemaphore creates a new semaphore with the given maximum number of permits.
// A max less than 1 is treated as 1.
func NewSemaphore(max int) *Semaphore {
	if max < 1 {
		max = 1
	}

	return &Semaphore{max: max}
}

// Acquire acquires a permit, waiting until one becomes available.
// Waiting callers are granted permits in the order they called Acquire.
// Acquire fails only if ctx is canceled while waiting; a permit granted
// concurrently with the cancellation is handed back to the semaphore, not leaked.
func (s *Semaphore) Acquire(ctx context.Context) (*Permit, error) {
	s.mutex.Lock()

	if s.held < s.max && len(s.waiters) == 0 {
		s.held++
		s.mutex.Unlock()

		return &Permit{sema: s}, nil
	}

	waiter := make(chan *Permit, 1)
	s.waiters = append(s.waiters, waiter)
	s.mutex.Unlock()

	select {
	case permit := <-waiter:
		return permit, nil

	case <-ctx.Done():
		s.mutex.Lock()

		if i := slices.Index(s.waiters, waiter); i >= 0 {
			s.waiters = slices.Delete(s.waiters, i, i+1)
			s.mutex.Unlock()

			return nil, context.Cause(ctx)
		}

		s.mutex.Unlock()

		// a release beat the cancellation; pass the permit on
		permit := <-waiter
		permit.Release()

		return nil, context.Cause(ctx)
	}
}

// TryAcquire acquires a permit without waiting, returning false if none is available.
// It does not overtake callers already waiting in Acquire.
func (s *Semaphore) TryAcquire() (*Permit, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.held == s.max || len(s.waiters) > 0 {
		return nil, false
	}

	s.held++

	return &Permit{sema: s}, true
}

// Available returns the number of permits that can be acquired without waiting.
func (s *Semaphore) Available() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.max - s.held
}

// Release returns the permit to the semaphore. If callers are waiting, the earliest
// waiter is granted a fresh permit for the slot. Releasing a permit more than once
// is a no-op.
func (p *Permit) Release() {
	s := p.sema

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if p.released {
		return
	}

	p.released = true

	if len(s.waiters) > 0 {
		waiter := s.waiters[0]
		s.waiters = slices.Delete(s.waiters, 0, 1)

		waiter <- &Permit{sema: s}

		return
	}

	s.held--
}
