package ratelimit

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"StratScan/internal/domain/models"
)

// DefaultMaxConcurrent bounds in-flight upstream requests when nothing is configured.
const DefaultMaxConcurrent = 5

// ConcurrencyLimiter runs at most max tasks at a time. Waiting tasks start in
// submission order; a finishing task hands its slot straight to the next waiter.
type ConcurrencyLimiter struct {
	mu      sync.Mutex
	max     int
	running int
	queue   *list.List // of chan struct{}
}

func NewConcurrencyLimiter(max int) *ConcurrencyLimiter {
	if max <= 0 {
		max = DefaultMaxConcurrent
	}
	return &ConcurrencyLimiter{max: max, queue: list.New()}
}

// Do waits for a slot and runs task. A task error or panic is returned to this
// caller only and never affects other tasks. If ctx ends while queued the task
// is dropped and ctx.Err() returned.
func (l *ConcurrencyLimiter) Do(ctx context.Context, task func(ctx context.Context) error) (err error) {
	if err := l.acquire(ctx); err != nil {
		return err
	}
	defer l.release()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// Execute is Do for tasks that produce a value.
func Execute[T any](ctx context.Context, l *ConcurrencyLimiter, task func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := l.Do(ctx, func(ctx context.Context) error {
		v, err := task(ctx)
		out = v
		return err
	})
	return out, err
}

func (l *ConcurrencyLimiter) acquire(ctx context.Context) error {
	l.mu.Lock()
	if l.running < l.max && l.queue.Len() == 0 {
		l.running++
		l.mu.Unlock()
		return nil
	}
	ready := make(chan struct{})
	el := l.queue.PushBack(ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		select {
		case <-ready:
			// slot was handed over while we were cancelling; pass it on
			l.mu.Unlock()
			l.release()
		default:
			l.queue.Remove(el)
			l.mu.Unlock()
		}
		return ctx.Err()
	}
}

func (l *ConcurrencyLimiter) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if front := l.queue.Front(); front != nil {
		l.queue.Remove(front)
		close(front.Value.(chan struct{}))
		return
	}
	l.running--
}

// Stats reports the current load.
func (l *ConcurrencyLimiter) Stats() models.LimiterStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return models.LimiterStats{
		CurrentlyRunning: l.running,
		QueueLength:      l.queue.Len(),
		MaxConcurrent:    l.max,
	}
}
