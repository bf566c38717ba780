package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var _ TaskRunnerInterface = (*Runner)(nil)

const (
	defaultTaskTimeout = 5 * time.Minute
	maxRetryDelay      = 30 * time.Second
)

type Runner struct {
	workerCount int
	retryDelay  time.Duration
	taskTimeout time.Duration
}

// NewRunner creates a pool of workerCount workers. retryDelay is the
// first backoff step; it doubles on each retry up to 30 seconds.
func NewRunner(workerCount int, retryDelay time.Duration) *Runner {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Runner{
		workerCount: workerCount,
		retryDelay:  retryDelay,
		taskTimeout: defaultTaskTimeout,
	}
}

// Run executes all tasks and blocks until each one has succeeded or given
// up. The returned errors line up with tasks.
func (r *Runner) Run(ctx context.Context, tasks []TaskInterface) []error {
	errs := make([]error, len(tasks))
	taskQueue := make(chan int, len(tasks))
	for i := range tasks {
		taskQueue <- i
	}
	close(taskQueue)

	var wg sync.WaitGroup
	for id := 0; id < min(r.workerCount, len(tasks)); id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskQueue {
				errs[i] = r.executeTask(ctx, id, tasks[i])
			}
		}()
	}
	wg.Wait()

	return errs
}

func (r *Runner) executeTask(ctx context.Context, workerID int, task TaskInterface) error {
	for {
		task.Start()

		taskCtx, cancel := context.WithTimeout(ctx, r.taskTimeout)
		err := task.Execute(taskCtx)
		cancel()

		if err == nil {
			return nil
		}

		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if !task.ShouldRetry(err) {
			slog.Error("Task failed", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
			return err
		}

		task.IncrementRetryCount()
		delay := r.backoff(task.GetRetryCount())

		slog.Warn("Task retry scheduled", "type", string(task.GetType()), "platform", task.GetPlatform(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

		select {
		case <-ctx.Done():
			slog.Debug("Runner stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (r *Runner) backoff(retryCount int) time.Duration {
	delay := r.retryDelay << uint(retryCount-1)
	if delay > maxRetryDelay || delay < 0 {
		delay = maxRetryDelay
	}
	return delay
}
