package jobx

import "github.com/Abraxas-365/aiwriter/pkg/errx"

var jobxErrors = errx.NewRegistry("JOBX")

var (
	ErrQueueFull      = jobxErrors.Register("QUEUE_FULL", errx.TypeUnavailable, 503, "Worker queue is full")
	ErrPoolStopped    = jobxErrors.Register("POOL_STOPPED", errx.TypeUnavailable, 503, "Worker pool is shutting down")
	ErrAlreadyRunning = jobxErrors.Register("ALREADY_RUNNING", errx.TypeConflict, 409, "Worker pool is already running")
	ErrInvalidTask    = jobxErrors.Register("INVALID_TASK", errx.TypeValidation, 400, "Invalid task definition")
)
