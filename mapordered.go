package pullover

import "context"

// AsyncMapperFunc maps element elem to type U, or fails with an error.
// The index is the 0-based index of elem, in the order produced by the upstream producer.
type AsyncMapperFunc[T any, U any] func(ctx context.Context, elem T, index uint64) (U, error)

// MapOrdered returns a producer that calls mapp for each element produced by prod, mapping
// it to type U, with up to concurrency calls running at the same time. Unlike MapConcurrent,
// the new producer produces results in upstream order: a result is held back until the
// results of all earlier elements have been produced, no matter which call finishes first.
//
// Each traversal uses its own Semaphore of concurrency permits. A permit is acquired before
// a call is started and released when the call finishes, whether it succeeded or failed, so
// capacity is never leaked. Upstream is pulled only while a permit is available, so at most
// concurrency elements are in flight at once.
//
// If a call fails, the failure surfaces at that element's position in the output: results
// of earlier elements are still produced, then the stream fails with the call's error.
//
// A concurrency less than 1 is treated as 1.
func MapOrdered[T any, U any](prod ProducerFunc[T], mapp AsyncMapperFunc[T, U], concurrency int) ProducerFunc[U] {
	if concurrency < 1 {
		concurrency = 1
	}

	return func(ctx context.Context, cancel context.CancelCauseFunc) <-chan U {
		ch := prod(ctx, cancel)

		outCh := make(chan U)

		go func() {
			defer close(outCh)

			sema := NewSemaphore(concurrency)

			type inflight struct {
				done chan struct{}
				elem U
				err  error
			}

			queue := []*inflight{}

			index := uint64(0)

			exhausted := false

			for {
				for !exhausted && sema.Available() > 0 {
					var elem T
					var ok bool

					select {
					case elem, ok = <-ch:

					case <-ctx.Done():
						return
					}

					if !ok {
						exhausted = true
						break
					}

					permit, err := sema.Acquire(ctx)
					if err != nil {
						return
					}

					entry := &inflight{done: make(chan struct{})}
					queue = append(queue, entry)

					go func(permit *Permit, entry *inflight, elem T, index uint64) {
						defer close(entry.done)
						defer permit.Release()

						entry.elem, entry.err = mapp(ctx, elem, index)
					}(permit, entry, elem, index)

					index++
				}

				if len(queue) == 0 {
					return
				}

				head := queue[0]
				queue = queue[1:]

				select {
				case <-head.done:

				case <-ctx.Done():
					return
				}

				if head.err != nil {
					cancel(head.err)
					return
				}

				select {
				case outCh <- head.elem:

				case <-ctx.Done():
					return
				}
			}
		}()

		return outCh
	}
}
