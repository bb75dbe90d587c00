package jobx

import "time"

// WorkerOptions configures a Pool.
type WorkerOptions struct {
	Concurrency     int
	QueueSize       int
	ShutdownTimeout time.Duration
}

func defaultWorkerOptions() WorkerOptions {
	return WorkerOptions{
		Concurrency:     4,
		QueueSize:       64,
		ShutdownTimeout: 30 * time.Second,
	}
}

// WorkerOption is a functional option for a Pool.
type WorkerOption func(*WorkerOptions)

// WithConcurrency sets the number of worker goroutines.
func WithConcurrency(n int) WorkerOption {
	return func(o *WorkerOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithQueueSize sets how many submitted tasks may wait for a free worker.
func WithQueueSize(n int) WorkerOption {
	return func(o *WorkerOptions) {
		if n >= 0 {
			o.QueueSize = n
		}
	}
}

// WithShutdownTimeout bounds how long Start waits for queued and running
// tasks after its context is cancelled.
func WithShutdownTimeout(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		if d > 0 {
			o.ShutdownTimeout = d
		}
	}
}
