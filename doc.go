// Package pullover provides lazy, pull-based streams of elements, built from
// composable transformation stages.
//
// A stream is a ProducerFunc: a factory that, each time it is called, starts a
// fresh and independent traversal of its elements. Traversals are driven by the
// consumer: an element is produced only after a downstream stage or consumer
// has consumed the previous one, so an unconsumed stream does no work.
//
// Streams are constructed from slices, channels, iterators, timers, or single
// values, transformed by intermediate stages such as Map, Filter, FlatMap,
// Concat, Zip, and Recover, and consumed by terminal functions such as Each,
// Run, Reduce, and ReduceSlice.
//
// A traversal fails by canceling its context with a cause. The failure
// propagates through every downstream stage and is reported by the terminal
// consumer, unless a Recover stage intercepts it and substitutes a replacement
// stream. Producer implementations must be prepared to be canceled at any time
// by checking the provided context.Context.
//
// MapOrdered applies an asynchronous operation to up to a fixed number of
// elements at the same time, gated by a fair counting Semaphore, while still
// producing results in upstream order regardless of which operation finishes
// first.
package pullover
