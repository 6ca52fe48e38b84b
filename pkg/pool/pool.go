package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// searchAlone runs f, which may return nil, until count elements are found
func searchAlone(f func() interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		for results[i] == nil {
			results[i] = f()
		}
	}
	return results
}

// parallelizeAlone calculates the result of f count times
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is used to trigger our latent workers to do something.
//
// A worker is told to either calculate a function once,
// or keep calculating a function until enough non nil results have been claimed.
type command struct {
	search bool
	// remaining is the number of result slots not yet claimed by a search.
	remaining *int64
	// This is the index we evaluate our function at, when not searching
	i int
	f func(int) interface{}
	// This is the array where we put results
	results []interface{}
	// done receives one value per result written.
	done chan<- struct{}
}

// workerSearch is the subroutine called when doing a search command.
//
// We keep querying f while slots remain. A successful result claims a slot,
// is written, and only then signalled, so the caller never reads a slot early.
func workerSearch(c command) {
	for atomic.LoadInt64(c.remaining) > 0 {
		res := c.f(0)
		if res == nil {
			continue
		}
		i := atomic.AddInt64(c.remaining, -1)
		if i < 0 {
			return
		}
		c.results[i] = res
		c.done <- struct{}{}
	}
}

// worker starts up a new worker, listening to commands, and producing results
func worker(commands <-chan command) {
	for c := range commands {
		if c.search {
			workerSearch(c)
			continue
		}
		c.results[c.i] = c.f(c.i)
		c.done <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing functions.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current thread instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// each new operation. A Pool may be shared by concurrent callers.
type Pool struct {
	// The common channel used to send commands to the workers.
	//
	// This effectively makes a work stealing pool.
	commands    chan command
	workerCount int
	closeOnce   sync.Once
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}

	p := &Pool{
		commands:    make(chan command),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.commands)
	}
	return p
}

// Workers returns the number of goroutines backing p, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// TearDown cleanly tears down a pool. Calling it more than once is harmless.
//
// The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() { close(p.commands) })
}

// Search queries the function f, until count successes are found.
//
// f is supposed to try a single candidate, returning nil if that candidate isn't
// successful.
//
// The result will be an array containing the first count successes.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	if p == nil {
		return searchAlone(f, count)
	}

	results := make([]interface{}, count)
	done := make(chan struct{}, count)
	remaining := int64(count)
	cmd := command{
		search:    true,
		remaining: &remaining,
		f:         func(int) interface{} { return f() },
		results:   results,
		done:      done,
	}
	for i := 0; i < p.workerCount; i++ {
		p.commands <- cmd
	}
	for i := 0; i < count; i++ {
		<-done
	}
	return results
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)
	done := make(chan struct{}, count)
	for i := 0; i < count; i++ {
		p.commands <- command{
			i:       i,
			f:       f,
			results: results,
			done:    done,
		}
	}
	for i := 0; i < count; i++ {
		<-done
	}
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader
//
// The behavior is to return the same output as the underlying reader. The difference
// is that it's safe to call this function concurrently.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
