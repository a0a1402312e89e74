package pullover

import (
	"context"
	"time"

	"golang.org/x/exp/constraints"
)

// ProducerFunc returns a channel of elements for a stream.
//
// A ProducerFunc is a factory: each call starts a fresh, independent traversal
// of the stream, with its own state. Two traversals never observe each other's
// progress. A traversal ends when the returned channel is closed; it fails when
// the producer cancels the stream's context with a non-nil cause before closing
// the channel.
type ProducerFunc[T any] func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T

// Iterator produces elements of an external sequence one at a time.
type Iterator[T any] interface {
	// Next returns the next element of the sequence.
	// It returns ok == false once the sequence is exhausted, and a non-nil
	// error if the next element could not be produced.
	Next(ctx context.Context) (elem T, ok bool, err error)
}

// Produce returns a producer that produces the elements of the given slices, in order.
func Produce[T any](slices ...[]T) ProducerFunc[T] {
	return func(ctx context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for _, slice := range slices {
				for _, elem := range slice {
					select {
					case outCh <- elem:

					case <-ctx.Done():
						return
					}
				}
			}
		}()

		return outCh
	}
}

// ProduceOne returns a producer that produces the given element, then ends.
func ProduceOne[T any](elem T) ProducerFunc[T] {
	return Produce([]T{elem})
}

// ProduceDelayed returns a producer that waits for the given delay, produces
// the given element, then ends. Two delayed producers raced against each other
// complete in increasing order of their delays.
func ProduceDelayed[T any](elem T, delay time.Duration) ProducerFunc[T] {
	return func(ctx context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			timer := time.NewTimer(delay)
			defer timer.Stop()

			select {
			case <-timer.C:

			case <-ctx.Done():
				return
			}

			select {
			case outCh <- elem:

			case <-ctx.Done():
			}
		}()

		return outCh
	}
}

// ProduceEmpty returns a producer that ends immediately, producing no elements.
func ProduceEmpty[T any]() ProducerFunc[T] {
	return func(_ context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)
		close(outCh)

		return outCh
	}
}

// ProduceError returns a producer that fails immediately with err, producing no elements.
func ProduceError[T any](err error) ProducerFunc[T] {
	return func(_ context.Context, cancel context.CancelCauseFunc) <-chan T {
		cancel(err)

		outCh := make(chan T)
		close(outCh)

		return outCh
	}
}

// ProduceChannel returns a producer that produces the elements received through the given channels, in order.
// The producer ends once all channels are closed.
func ProduceChannel[T any](channels ...<-chan T) ProducerFunc[T] {
	return func(ctx context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for _, ch := range channels {
				for {
					var elem T
					var ok bool

					select {
					case elem, ok = <-ch:

					case <-ctx.Done():
						return
					}

					if !ok {
						break
					}

					select {
					case outCh <- elem:

					case <-ctx.Done():
						return
					}
				}
			}
		}()

		return outCh
	}
}

// ProduceIterator returns a producer that produces the elements of the given iterator, in order.
// The producer ends when the iterator is exhausted, and fails if the iterator fails.
// The iterator is advanced only as elements are consumed.
func ProduceIterator[T any](iterator Iterator[T]) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for {
				if contextDone(ctx) {
					return
				}

				elem, ok, err := iterator.Next(ctx)
				if err != nil {
					cancel(err)
					return
				}

				if !ok {
					return
				}

				select {
				case outCh <- elem:

				case <-ctx.Done():
					return
				}
			}
		}()

		return outCh
	}
}

// ProduceRange returns a producer that produces the integers in the half-open
// interval [from, to), in increasing order.
func ProduceRange[T constraints.Integer](from T, to T) ProducerFunc[T] {
	return func(ctx context.Context, _ context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for elem := from; elem < to; elem++ {
				select {
				case outCh <- elem:

				case <-ctx.Done():
					return
				}
			}
		}()

		return outCh
	}
}
