package pullover

import "context"

// SupplierFunc produces a single element on demand.
type SupplierFunc[T any] func() T

// RecoverFunc maps a stream failure to a replacement producer.
type RecoverFunc[T any] func(err error) ProducerFunc[T]

// A Pair holds two elements zipped together from two streams.
type Pair[T any, U any] struct {
	First  T
	Second U
}

// Concat returns a producer that produces all elements of the given producers, one producer
// after another, in order. A producer is started only after all producers before it are
// exhausted; if the stream is canceled or fails, the remaining producers are never started.
func Concat[T any](producers ...ProducerFunc[T]) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for _, prod := range producers {
				if contextDone(ctx) {
					return
				}

				for elem := range prod(ctx, cancel) {
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

// Append returns a producer that produces the same elements as prod, followed by the element
// returned by supplier. supplier is called only once prod is exhausted.
func Append[T any](prod ProducerFunc[T], supplier SupplierFunc[T]) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		ch := prod(ctx, cancel)

		outCh := make(chan T)

		go func() {
			defer close(outCh)

			for elem := range ch {
				select {
				case outCh <- elem:

				case <-ctx.Done():
					return
				}
			}

			if contextDone(ctx) {
				return
			}

			select {
			case outCh <- supplier():

			case <-ctx.Done():
			}
		}()

		return outCh
	}
}

// Prepend returns a producer that produces the element returned by supplier, followed by the
// same elements as prod. prod is started only after the supplied element has been consumed.
func Prepend[T any](prod ProducerFunc[T], supplier SupplierFunc[T]) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			select {
			case outCh <- supplier():

			case <-ctx.Done():
				return
			}

			for elem := range prod(ctx, cancel) {
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

// Intersperse returns a producer that produces the same elements as prod, with a separator
// returned by supplier between consecutive elements. No separator is produced before the
// first or after the last element; a stream of zero or one elements gets no separator.
// supplier is called freshly for every separator.
func Intersperse[T any](prod ProducerFunc[T], supplier SupplierFunc[T]) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		ch := prod(ctx, cancel)

		outCh := make(chan T)

		go func() {
			defer close(outCh)

			first := true

			for elem := range ch {
				if !first {
					select {
					case outCh <- supplier():

					case <-ctx.Done():
						return
					}
				}

				first = false

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

// Zip returns a producer that pulls first and second in lockstep, producing their elements
// in pairs. It ends as soon as either producer ends; the other producer's traversal is then
// canceled, not left running.
func Zip[T any, U any](first ProducerFunc[T], second ProducerFunc[U]) ProducerFunc[Pair[T, U]] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan Pair[T, U] {
		outCh := make(chan Pair[T, U])

		go func() {
			defer close(outCh)

			zipCtx, cancelZip := context.WithCancelCause(ctx)
			defer cancelZip(ErrShortCircuit)

			firstCh := first(zipCtx, cancel)
			secondCh := second(zipCtx, cancel)

			for {
				var firstElem T
				var ok bool

				select {
				case firstElem, ok = <-firstCh:

				case <-ctx.Done():
					return
				}

				if !ok {
					return
				}

				var secondElem U

				select {
				case secondElem, ok = <-secondCh:

				case <-ctx.Done():
					return
				}

				if !ok {
					return
				}

				select {
				case outCh <- Pair[T, U]{First: firstElem, Second: secondElem}:

				case <-ctx.Done():
					return
				}
			}
		}()

		return outCh
	}
}

// Recover returns a producer that produces the same elements as prod. If prod fails, the
// failure does not propagate; instead, handler is called with the failure cause, and the
// elements of the producer it returns are produced in place of the remainder of prod.
// Elements produced before the failure stand. Only prod's own failure is intercepted: a
// failure of the replacement producer propagates as usual.
func Recover[T any](prod ProducerFunc[T], handler RecoverFunc[T]) ProducerFunc[T] {
	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan T {
		outCh := make(chan T)

		go func() {
			defer close(outCh)

			prodCtx, cancelProd := context.WithCancelCause(ctx)
			defer cancelProd(nil)

			for elem := range prod(prodCtx, cancelProd) {
				select {
				case outCh <- elem:

				case <-ctx.Done():
					return
				}
			}

			if contextDone(ctx) {
				return
			}

			err := context.Cause(prodCtx)
			if err == nil {
				return
			}

			for elem := range handler(err)(ctx, cancel) {
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
