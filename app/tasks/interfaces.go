package tasks

import "context"

// TaskRunnerInterface runs a finite batch of tasks on a worker pool.
//
//	runner := NewRunner(cfg.WorkerCount, time.Second)
//	errs := runner.Run(ctx, []TaskInterface{NewPublishArticleTask(...)})
type TaskRunnerInterface interface {
	Run(ctx context.Context, tasks []TaskInterface) []error
}
