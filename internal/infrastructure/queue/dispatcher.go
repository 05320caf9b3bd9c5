package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type task struct {
	key string
	job func(ctx context.Context)
}

// DepthObserver receives a worker's queue depth after every change.
type DepthObserver func(workerID, depth int)

// Dispatcher runs scheduled jobs on a fixed set of workers using consistent
// hashing on the job key, guaranteeing per-key ordering. It implements
// ports.Scheduler.
type Dispatcher struct {
	workers []chan task
	depth   DepthObserver
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. depth may be nil.
func NewDispatcher(numWorkers int, depth DepthObserver, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan task, numWorkers),
		depth:   depth,
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan task, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Schedule queues job on the worker responsible for key. The call blocks
// only when that worker's buffer is full.
func (d *Dispatcher) Schedule(key string, job func(ctx context.Context)) {
	i := d.shardIndex(key)
	d.workers[i] <- task{key: key, job: job}
	d.observe(i)
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) observe(i int) {
	if d.depth != nil {
		d.depth(i, len(d.workers[i]))
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan task) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ch:
			if !ok {
				return
			}
			d.observe(id)
			if err := d.run(ctx, t); err != nil {
				d.log.Error().Err(err).
					Str("key", t.key).
					Int("worker_id", id).
					Msg("scheduled job failed")
			}
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	t.job(ctx)
	return nil
}
