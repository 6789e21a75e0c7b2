package worker

import (
	"context"
	"sync"
	"time"
)

// Task is a unit of work identified by Key in its Result.
type Task struct {
	Key string
	Run func(ctx context.Context) error
}

type Result struct {
	Key string
	Err error
}

// Pool runs submitted tasks on a fixed number of goroutines, optionally
// spacing task starts to a maximum rate.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	rate    time.Duration
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{workers: workers, tasks: make(chan Task, buffer)}
}

// SetRateLimit caps task starts per second across all workers. It must be
// called before Start.
func (p *Pool) SetRateLimit(rps int) {
	if rps <= 0 {
		p.rate = 0
		return
	}
	p.rate = time.Second / time.Duration(rps)
}

// Submit blocks until a worker or the buffer accepts t, or ctx ends.
func (p *Pool) Submit(ctx context.Context, t Task) error {
	if t.Run == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- t:
		return nil
	}
}

// Close signals that no more tasks will be submitted.
func (p *Pool) Close() {
	close(p.tasks)
}

// Start launches the workers. The returned channel yields one Result per
// executed task and is closed once every worker has exited.
func (p *Pool) Start(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	var (
		tick   <-chan time.Time
		ticker *time.Ticker
	)
	if p.rate > 0 {
		ticker = time.NewTicker(p.rate)
		tick = ticker.C
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if tick != nil {
						select {
						case <-ctx.Done():
							return
						case <-tick:
						}
					}
					err := t.Run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Key: t.Key, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		if ticker != nil {
			ticker.Stop()
		}
		close(out)
	}()
	return out
}
