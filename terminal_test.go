package pullover

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/matryer/is"
)

func TestEach(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ints := Produce([]int{1, 2, 3, 4, 5})

	sum := 0

	summer := func(_ context.Context, _ context.CancelCauseFunc, elem int, index uint64) {
		is.Equal(index, uint64(elem-1))

		sum += elem
	}

	_ = Each(ctx, ints, summer)

	is.Equal(sum, 15)
}

func TestEach_Cancel(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ints := Produce([]int{1, 2, 3, 4, 5})

	sum := 0

	summer := func(_ context.Context, cancel context.CancelCauseFunc, elem int, index uint64) {
		is.True(elem <= 3)
		is.Equal(index, uint64(elem-1))

		if elem == 3 {
			cancel(nil)
			return
		}

		sum += elem
	}

	err := Each(ctx, ints, summer)

	is.Equal(sum, 3)
	is.True(errors.Is(err, context.Canceled))
}

func TestEachConcurrent(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ints := Produce([]int{1, 2, 3, 4, 5})

	sum := atomic.Int32{}

	summer := func(_ context.Context, _ context.CancelCauseFunc, elem int, index uint64) {
		is.Equal(index, uint64(elem-1))

		sum.Add(int32(elem))
	}

	_ = EachConcurrent(ctx, ints, summer)

	is.Equal(int(sum.Load()), 15)
}

func TestRun(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	pulled := 0

	ints := Peek(Produce([]int{1, 2, 3}), func(_ context.Context, _ context.CancelCauseFunc, _ int, _ uint64) {
		pulled++
	})

	err := Run(ctx, ints)

	is.NoErr(err)
	is.Equal(pulled, 3)
}

func TestRun_Failure(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	errBoom := errors.New("boom")

	err := Run(ctx, ProduceError[int](errBoom))

	is.True(errors.Is(err, errBoom))
}

func TestReduce(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ints := Produce([]int{1, 2, 3, 4, 5})

	summer := func(_ context.Context, _ context.CancelCauseFunc, elem int, index uint64, acc int) int {
		is.Equal(index, uint64(elem-1))

		return acc + elem
	}

	result, _ := Reduce(ctx, ints, 0, summer)

	is.Equal(result, 15)
}

func TestReduce_Cancel(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ints := Produce([]int{1, 2, 3, 4, 5})

	summer := func(_ context.Context, cancel context.CancelCauseFunc, elem int, index uint64, acc int) int {
		is.True(elem <= 3)
		is.Equal(index, uint64(elem-1))

		if elem == 3 {
			cancel(nil)
			return acc
		}

		return acc + elem
	}

	result, err := Reduce(ctx, ints, 0, summer)

	is.Equal(result, 3)
	is.True(errors.Is(err, context.Canceled))
}

func TestReduceSlice(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	strs := Produce([]string{"foo", "bar", "baz"})

	result, err := ReduceSlice(ctx, strs)

	is.NoErr(err)
	is.Equal(result, []string{"foo", "bar", "baz"})
}

func TestAnyMatch(t *testing.T) {
	tests := []struct {
		given                []int
		want                 bool
		wantProducerCanceled bool
	}{
		{
			given:                []int{1, 2, 3, 4, 5},
			want:                 false,
			wantProducerCanceled: false,
		},
		{
			given:                []int{1, 2, 100, 4, 5},
			want:                 true,
			wantProducerCanceled: true,
		},
	}

	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			is := is.New(t)

			ctx := context.Background()

			producerCanceled := make(chan bool)

			ints := func(ctx context.Context, _ context.CancelCauseFunc) <-chan int {
				outCh := make(chan int)

				go func() {
					canceled := false

					defer func() {
						producerCanceled <- canceled
					}()

					defer close(outCh)

					for _, i := range test.given {
						select {
						case outCh <- i:

						case <-ctx.Done():
							canceled = true
							return
						}
					}
				}()

				return outCh
			}

			greaterThan10 := func(_ context.Context, _ context.CancelCauseFunc, elem int, _ uint64) bool {
				return elem > 10
			}

			result, err := AnyMatch(ctx, ints, greaterThan10)

			is.NoErr(err)
			is.Equal(result, test.want)
			is.Equal(<-producerCanceled, test.wantProducerCanceled)
		})
	}
}

func TestAllMatch(t *testing.T) {
	tests := []struct {
		given                []int
		want                 bool
		wantProducerCanceled bool
	}{
		{
			given:                []int{1, 2, 3, 4, 5},
			want:                 true,
			wantProducerCanceled: false,
		},
		{
			given:                []int{1, 2, 100, 4, 5},
			want:                 false,
			wantProducerCanceled: true,
		},
	}

	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			is := is.New(t)

			ctx := context.Background()

			producerCanceled := make(chan bool)

			ints := func(ctx context.Context, _ context.CancelCauseFunc) <-chan int {
				outCh := make(chan int)

				go func() {
					canceled := false

					defer func() {
						producerCanceled <- canceled
					}()

					defer close(outCh)

					for _, i := range test.given {
						select {
						case outCh <- i:

						case <-ctx.Done():
							canceled = true
							return
						}
					}
				}()

				return outCh
			}

			lessThan10 := func(_ context.Context, _ context.CancelCauseFunc, elem int, _ uint64) bool {
				return elem < 10
			}

			result, err := AllMatch(ctx, ints, lessThan10)

			is.NoErr(err)
			is.Equal(result, test.want)
			is.Equal(<-producerCanceled, test.wantProducerCanceled)
		})
	}
}

func TestCount(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	strs := Produce([]string{"foo", "bar", "baz"})

	result, _ := Count(ctx, strs)

	is.Equal(result, uint64(3))
}
