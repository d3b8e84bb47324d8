package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// articleResult implements Result
type articleResult struct {
	err error
}

func (r *articleResult) GetError() error {
	return r.err
}

// articleJob implements Job and counts its executions
type articleJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
}

func (j *articleJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &articleResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &articleResult{err: errors.New("analysis failed")}
	}
	return &articleResult{}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("workers = %d, want 5", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("workers = %d, want 1 for zero input", p.workers)
	}
	if p := NewPool(-1); p.workers != 1 {
		t.Errorf("workers = %d, want 1 for negative input", p.workers)
	}
}

func TestPoolRunsEveryJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed int32
	count := 10
	for i := 0; i < count; i++ {
		pool.Submit(&articleJob{executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("got %d results, want %d", len(results), count)
	}
	if n := atomic.LoadInt32(&executed); n != int32(count) {
		t.Errorf("executed %d jobs, want %d", n, count)
	}
}

// trackedJob records concurrent executions
type trackedJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *trackedJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &articleResult{}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	workers := 10
	pool := NewPool(workers)
	pool.Start()

	var current, peak, completed int32
	var mu sync.Mutex

	totalJobs := 50
	for i := 0; i < totalJobs; i++ {
		pool.Submit(&trackedJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > peak {
					peak = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
				atomic.AddInt32(&completed, 1)
			},
			duration: 10 * time.Millisecond,
		})
	}

	pool.Wait()

	if n := atomic.LoadInt32(&completed); n != int32(totalJobs) {
		t.Errorf("completed %d jobs, want %d", n, totalJobs)
	}

	mu.Lock()
	max := peak
	mu.Unlock()
	if max > int32(workers) {
		t.Errorf("peak concurrency %d exceeded %d workers", max, workers)
	}
}

func TestPoolFailedJobsDoNotAffectOthers(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&articleJob{shouldErr: true})
	pool.Submit(&articleJob{shouldErr: false})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("got %d failures, want 1", failed)
	}
}

func TestResultCollector(t *testing.T) {
	c := NewResultCollector()
	c.Add(&articleResult{})
	c.Add(&articleResult{err: errors.New("err")})

	if res := c.Results(); len(res) != 2 {
		t.Errorf("got %d results, want 2", len(res))
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	// Submit after shutdown must return without blocking
	done := make(chan struct{})
	go func() {
		pool.Submit(&articleJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPoolShutdownAbandonsInFlightJobs(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(&trackedJob{
		start:    func() { close(started) },
		duration: 200 * time.Millisecond,
	})
	<-started

	pool.Shutdown()

	// Shutdown must drain and close the results channel
	done := make(chan struct{})
	go func() {
		for range pool.results {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Shutdown timed out")
	}
}
