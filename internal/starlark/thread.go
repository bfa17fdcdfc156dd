package starlark

import (
	"sync"

	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"go.starlark.net/starlark"
	"golang.org/x/sync/errgroup"
)

// ThreadPool manages a pool of Starlark threads for parallel execution.
type ThreadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

// NewThreadPool creates a new thread pool with the specified maximum size.
func NewThreadPool(maxSize int) *ThreadPool {
	if maxSize <= 0 {
		maxSize = 10 // default pool size
	}
	return &ThreadPool{
		threads: make([]*starlark.Thread, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get retrieves a thread from the pool or creates a new one.
// The thread name is used for error reporting.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) > 0 {
		thread := p.threads[len(p.threads)-1]
		p.threads = p.threads[:len(p.threads)-1]
		thread.Name = name
		return thread
	}
	return newThread(name)
}

// Put returns a thread to the pool for reuse.
// If the pool is full, the thread is discarded.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of threads in the pool.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// Script is one builder script to render.
type Script struct {
	Name   string // file name, used in errors
	Source string
}

// Result is the rendering of one Script.
type Result struct {
	Name  string
	SQL   string
	Error error
}

// RenderFunc turns a script's frame into SQL text.
type RenderFunc func(*frame.Frame) (string, error)

// ParallelExecutor renders many scripts concurrently with shared globals.
type ParallelExecutor struct {
	pool   *ThreadPool
	ctx    *ExecutionContext
	render RenderFunc
}

// NewParallelExecutor creates an executor running at most maxConcurrency
// scripts at once and rendering their frames with render.
func NewParallelExecutor(maxConcurrency int, ctx *ExecutionContext, render RenderFunc) *ParallelExecutor {
	pool := NewThreadPool(maxConcurrency)
	return &ParallelExecutor{
		pool:   pool,
		ctx:    ctx,
		render: render,
	}
}

// Execute renders every script. Results keep the order of scripts.
func (e *ParallelExecutor) Execute(scripts []Script) []Result {
	results := make([]Result, len(scripts))

	var g errgroup.Group
	g.SetLimit(e.pool.maxSize)

	for i, s := range scripts {
		g.Go(func() error {
			thread := e.pool.Get(s.Name)
			defer e.pool.Put(thread)

			results[i] = Result{Name: s.Name}
			f, err := e.ctx.exec(thread, s.Name, s.Source)
			if err != nil {
				results[i].Error = err
				return nil
			}
			results[i].SQL, results[i].Error = e.render(f)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
