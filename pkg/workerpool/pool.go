// Package workerpool provides a bounded pool for blocking work.
//
// Adapter operations that wrap synchronous tools or SDK calls submit
// through a pool so they cannot stall the request goroutines that
// await them. Slots are a buffered channel used as a semaphore.
package workerpool

import (
	"context"
	"fmt"
)

// Pool bounds the number of blocking operations running at once.
type Pool struct {
	slots chan struct{}
}

// New creates a pool with the given number of slots. Sizes below one
// are raised to one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Size returns the pool's slot count.
func (p *Pool) Size() int {
	return cap(p.slots)
}

// Do acquires a slot, runs fn, and returns its error. Waiting for a
// slot respects ctx; fn itself is responsible for honoring ctx once
// running (exec.CommandContext and http requests built with the same
// ctx already do).
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("waiting for worker: %w", ctx.Err())
	}
	defer func() { <-p.slots }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}
