package concurrency

import (
	"context"
	"sync"
)

const (
	// DefaultMax default max
	DefaultMax = 256
)

// GoLimit bounds the number of goroutines running at once
type GoLimit struct {
	ch chan struct{}
}

// NewGoLimit new go limit
func NewGoLimit(max int) *GoLimit {
	if max <= 0 {
		max = DefaultMax
	}

	return &GoLimit{
		ch: make(chan struct{}, max),
	}
}

// Add take a slot, blocks while all are in use
func (g *GoLimit) Add() {
	g.ch <- struct{}{}
}

// Done release a slot
func (g *GoLimit) Done() {
	<-g.ch
}

// Await run fn for every index in [0, n) with at most limit running at once and
// wait for all of them. Indexes not started yet are skipped once ctx is done.
func Await(ctx context.Context, limit *GoLimit, n int, fn func(ctx context.Context, i int)) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}

		limit.Add()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer limit.Done()

			fn(ctx, i)
		}(i)
	}

	wg.Wait()
}
