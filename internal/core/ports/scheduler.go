package ports

import "context"

// Scheduler runs a job for key. Jobs sharing a key run in submission order.
type Scheduler interface {
	Schedule(key string, job func(ctx context.Context))
}

// InlineScheduler runs jobs immediately on the caller's goroutine.
type InlineScheduler struct{}

func (InlineScheduler) Schedule(_ string, job func(ctx context.Context)) {
	job(context.Background())
}
