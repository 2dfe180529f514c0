// Package forkjoin provides the bounded worker pool used to fork
// packed-tree siblings and force-kernel subtrees in parallel.
//
// The packer's co-region protocol needs a "was this child stolen by a
// different worker" signal, the Go equivalent of checking a worker id
// before and after a cilk_spawn. Go has no cooperative work-stealing
// runtime to introspect, so this package fakes the signal directly:
// every fork first makes a non-blocking attempt to claim an idle pool
// slot (golang.org/x/sync/semaphore's TryAcquire). If a slot was free,
// the child runs on a pool goroutine and counts as stolen; if the pool
// was saturated, the child runs inline, synchronously, in the caller's
// own goroutine, and never needed a forwarding marker at all.
package forkjoin

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many forked children may run concurrently.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool with room for n concurrently running forked
// children.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(n))}
}

// DefaultPool returns a pool sized to the host's available processors,
// the same default concurrency the sequential-vs-parallel cutoffs in
// pack.Option/force.Option assume when none is supplied.
func DefaultPool() *Pool {
	return NewPool(runtime.GOMAXPROCS(0))
}

// Future is the join point for one forked child.
type Future struct {
	done chan struct{}
	err  error
}

// Wait blocks until the forked child has finished and returns its error.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Fork attempts to claim an idle pool slot for fn. If a slot is free,
// fn runs on a new goroutine and Fork reports stolen=true; the returned
// Future completes when fn returns. If the pool is saturated, fn runs
// synchronously before Fork returns at all, and stolen=false: there was
// no concurrency, so the caller never needs to plant a forwarding
// marker for this child.
func (p *Pool) Fork(fn func() error) (fut *Future, stolen bool) {
	stolen = p.sem.TryAcquire(1)
	fut = &Future{done: make(chan struct{})}
	if stolen {
		go func() {
			defer p.sem.Release(1)
			fut.err = fn()
			close(fut.done)
		}()
		return fut, true
	}

	fut.err = fn()
	close(fut.done)
	return fut, false
}

// TryAcquire claims capacity for a child the caller will run itself
// (used by the force kernel, which forks plain recursive calls rather
// than closures handed to Fork). Release must be called exactly once
// for every TryAcquire that returned true.
func (p *Pool) TryAcquire() bool {
	return p.sem.TryAcquire(1)
}

// Release gives back capacity claimed by a successful TryAcquire.
func (p *Pool) Release() {
	p.sem.Release(1)
}

// Acquire blocks until capacity is available or ctx is done. Release
// must be called once for every Acquire that returned nil.
func (p *Pool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}
