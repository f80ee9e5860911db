package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of background work. Payload carries whatever the handler
// needs; reminder delivery puts the push message here.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a single job. A non-nil error schedules a retry.
type Handler func(context.Context, Job) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue fans jobs out to a fixed worker pool over a buffered channel.
// A slow push endpoint must never stall the reminder sweep, so delivery
// happens here instead of inline in the scheduler.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	log     *zap.SugaredLogger

	jobs    chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewQueue builds a stopped queue; call Start before enqueueing.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		cfg:     cfg,
		log:     cfg.Logger.Sugar(),
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start spins up the workers. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.started = true
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.consume()
	}
	q.log.Infow("queue started", "queue", q.name, "workers", q.cfg.Workers)
}

// Stop cancels the workers and blocks until they drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.log.Infow("queue stopped", "queue", q.name)
}

// Enqueue submits a job, blocking while the buffer is full.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	ctx, started := q.ctx, q.started
	q.mu.Unlock()
	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}

	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	}
}

func (q *Queue) consume() {
	defer q.wg.Done()
	for {
		select {
		case job := <-q.jobs:
			if err := q.handler(q.ctx, job); err != nil {
				q.requeueLater(job, err)
			}
		case <-q.ctx.Done():
			return
		}
	}
}

// requeueLater re-submits a failed job after the retry delay, dropping it
// once the attempt budget is spent.
func (q *Queue) requeueLater(job Job, cause error) {
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		q.log.Errorw("job dropped after retries",
			"queue", q.name, "job_id", job.ID, "type", job.Type, "error", cause)
		return
	}
	q.log.Warnw("job failed, scheduling retry",
		"queue", q.name, "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "error", cause)

	go func() {
		timer := time.NewTimer(q.cfg.RetryDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
			if err := q.Enqueue(job); err != nil {
				q.log.Errorw("requeue failed", "queue", q.name, "job_id", job.ID, "error", err)
			}
		case <-q.ctx.Done():
		}
	}()
}
