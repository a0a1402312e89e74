package pullover

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

type sliceIterator struct {
	elems []int
	pos   int
	calls int
	err   error
}

func (it *sliceIterator) Next(_ context.Context) (int, bool, error) {
	it.calls++

	if it.err != nil && it.pos == len(it.elems) {
		return 0, false, it.err
	}

	if it.pos == len(it.elems) {
		return 0, false, nil
	}

	elem := it.elems[it.pos]
	it.pos++

	return elem, true, nil
}

func TestProduce(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	ints := []int{}
	for i := range Produce([]int{1, 2}, []int{3, 4, 5})(ctx, cancel) {
		ints = append(ints, i)
	}

	is.Equal(ints, []int{1, 2, 3, 4, 5})
}

func TestProduce_IndependentTraversals(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ints := Produce([]int{1, 2, 3})

	first, err := ReduceSlice(ctx, ints)
	is.NoErr(err)

	second, err := ReduceSlice(ctx, ints)
	is.NoErr(err)

	is.Equal(first, []int{1, 2, 3})
	is.Equal(second, []int{1, 2, 3})
}

func TestProduceOne(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	result, err := ReduceSlice(ctx, ProduceOne("foo"))

	is.NoErr(err)
	is.Equal(result, []string{"foo"})
}

func TestProduceDelayed(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	result, err := ReduceSlice(ctx, ProduceDelayed(42, 10*time.Millisecond))

	is.NoErr(err)
	is.Equal(result, []int{42})
}

func TestProduceDelayed_Race(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	done := make(chan int, 2)

	go func() {
		_, _ = ReduceSlice(ctx, ProduceDelayed(1, 120*time.Millisecond))
		done <- 1
	}()

	go func() {
		_, _ = ReduceSlice(ctx, ProduceDelayed(2, 10*time.Millisecond))
		done <- 2
	}()

	is.Equal(<-done, 2)
	is.Equal(<-done, 1)
}

func TestProduceEmpty(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	result, err := ReduceSlice(ctx, ProduceEmpty[int]())

	is.NoErr(err)
	is.Equal(len(result), 0)
}

func TestProduceError(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	errBoom := errors.New("boom")

	result, err := ReduceSlice(ctx, ProduceError[int](errBoom))

	is.Equal(len(result), 0)
	is.True(errors.Is(err, errBoom))
}

func TestProduceChannel(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	intsCh1 := Produce([]int{1, 2})(ctx, cancel)
	intsCh2 := Produce([]int{3, 4, 5})(ctx, cancel)

	ints := []int{}
	for i := range ProduceChannel(intsCh1, intsCh2)(ctx, cancel) {
		ints = append(ints, i)
	}

	is.Equal(ints, []int{1, 2, 3, 4, 5})
}

func TestProduceIterator(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	iterator := &sliceIterator{elems: []int{1, 2, 3}}

	result, err := ReduceSlice(ctx, ProduceIterator[int](iterator))

	is.NoErr(err)
	is.Equal(result, []int{1, 2, 3})
}

func TestProduceIterator_Error(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	errBroken := errors.New("broken iterator")

	iterator := &sliceIterator{elems: []int{1, 2}, err: errBroken}

	result, err := ReduceSlice(ctx, ProduceIterator[int](iterator))

	is.Equal(result, []int{1, 2})
	is.True(errors.Is(err, errBroken))
}

func TestProduceRange(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	result, err := ReduceSlice(ctx, ProduceRange(3, 8))

	is.NoErr(err)
	is.Equal(result, []int{3, 4, 5, 6, 7})
}

func TestProduceRange_Empty(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	result, err := ReduceSlice(ctx, ProduceRange(5, 5))

	is.NoErr(err)
	is.Equal(len(result), 0)
}
