package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Task is a unit of background work. Tasks are attempted once.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher runs submitted tasks on a fixed pool of workers so that slow
// outbound calls never hold up the request that produced them.
type Dispatcher struct {
	tasks   chan Task
	errs    chan error
	workers int
	timeout time.Duration
}

func NewDispatcher(workers, queueSize int, timeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		tasks:   make(chan Task, queueSize),
		errs:    make(chan error, queueSize),
		workers: workers,
		timeout: timeout,
	}
}

// Submit enqueues the task without blocking. It reports false when the queue is full.
func (d *Dispatcher) Submit(task Task) bool {
	select {
	case d.tasks <- task:
		return true
	default:
		log.WithField("task", task.Name).Warn("dispatcher queue full, dropping task")
		return false
	}
}

// Errors exposes task failures. Failures are dropped when nobody drains the channel.
func (d *Dispatcher) Errors() <-chan error {
	return d.errs
}

// Run blocks until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		worker := i
		group.Go(func() error {
			d.work(ctx, worker)
			return nil
		})
	}
	return group.Wait()
}

func (d *Dispatcher) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-d.tasks:
			d.execute(ctx, worker, task)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, worker int, task Task) {
	runCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	entry := log.WithFields(log.Fields{"task": task.Name, "worker": worker})
	if err := task.Run(runCtx); err != nil {
		entry.WithError(err).Error("background task failed")
		select {
		case d.errs <- errors.Wrap(err, task.Name):
		default:
		}
		return
	}
	entry.Debug("background task done")
}

var _ TaskRunner = (*Dispatcher)(nil)
