// Package jobx runs fire-and-forget background tasks on a bounded in-process
// worker pool. Tasks are not persisted; anything still queued when the
// shutdown timeout expires is dropped.
package jobx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

// Task is one unit of background work.
type Task struct {
	// Name identifies the task in logs, e.g. "article.pipeline".
	Name string
	// Key is an optional identifier of the subject, e.g. the article id.
	Key string
	Run func(ctx context.Context)
}

// Submitter hands tasks to a background executor without blocking.
type Submitter interface {
	Submit(task Task) error
}

// Pool is a fixed-size worker pool fed by a bounded queue.
type Pool struct {
	opts  WorkerOptions
	queue chan Task

	mu       sync.RWMutex
	running  bool
	stopped  bool
	inFlight atomic.Int64

	// base is the context handed to tasks. It is cancelled only after the
	// shutdown timeout, so running tasks are not interrupted by Start's ctx.
	base       context.Context
	cancelBase context.CancelFunc
}

func NewPool(options ...WorkerOption) *Pool {
	opts := defaultWorkerOptions()
	for _, o := range options {
		o(&opts)
	}
	base, cancel := context.WithCancel(context.Background())
	return &Pool{
		opts:       opts,
		queue:      make(chan Task, opts.QueueSize),
		base:       base,
		cancelBase: cancel,
	}
}

// Submit enqueues task. It never blocks: a full queue yields ErrQueueFull and
// a pool that is shutting down yields ErrPoolStopped.
func (p *Pool) Submit(task Task) error {
	if task.Run == nil {
		return jobxErrors.New(ErrInvalidTask).WithDetail("name", task.Name)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return jobxErrors.New(ErrPoolStopped)
	}

	select {
	case p.queue <- task:
		return nil
	default:
		return jobxErrors.New(ErrQueueFull).
			WithDetail("queue_size", p.opts.QueueSize).
			WithDetail("name", task.Name)
	}
}

// InFlight reports the number of tasks currently executing.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Pending reports the number of queued tasks not yet picked up.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Start runs the workers and blocks until ctx is cancelled, then stops
// accepting tasks and drains the queue within the shutdown timeout.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return jobxErrors.New(ErrAlreadyRunning)
	}
	p.running = true
	p.mu.Unlock()

	logx.Infof("jobx: starting %d workers (queue size %d)", p.opts.Concurrency, p.opts.QueueSize)

	var wg sync.WaitGroup
	for i := range p.opts.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.workerLoop(id)
		}(i)
	}

	<-ctx.Done()
	logx.Info("jobx: shutting down workers...")

	p.mu.Lock()
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logx.Info("jobx: all workers stopped")
	case <-time.After(p.opts.ShutdownTimeout):
		logx.Warnf("jobx: shutdown timed out with %d tasks running and %d queued", p.InFlight(), p.Pending())
	}
	p.cancelBase()
	return nil
}

func (p *Pool) workerLoop(id int) {
	for task := range p.queue {
		p.run(id, task)
	}
}

func (p *Pool) run(id int, task Task) {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			logx.WithFields(logx.Fields{
				"worker": id,
				"task":   task.Name,
				"key":    task.Key,
			}).Errorf("jobx: task panicked: %v", r)
		}
	}()

	task.Run(p.base)
}
