// Parallel fan-out executor: bounded worker pool for specialist calls.
//
// Results are positional: results[i] always corresponds to tasks[i],
// whatever the completion order. A failure inside one task never
// propagates; it is captured in the task's Result. Workers share no
// mutable state beyond their own result slot.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voxlab/jarvis/agents"
)

// DefaultMaxWorkers is the default fan-out concurrency bound.
const DefaultMaxWorkers = 3

// DefaultTaskTimeout bounds one specialist invocation.
const DefaultTaskTimeout = 15 * time.Second

// Task is one pending specialist invocation.
type Task struct {
	Agent       agents.AgentID
	RequestText string
	Timeout     time.Duration
}

// Result is the outcome of one task. Exactly one of Value/Err is
// meaningful depending on OK.
type Result struct {
	OK      bool
	Value   string
	Err     string
	Elapsed time.Duration
}

// Invoker performs one specialist call. The dispatcher wires this to the
// selector with the agent's system prompt; tests substitute fakes.
type Invoker func(ctx context.Context, task Task) (string, error)

// Executor runs tasks on a bounded worker pool.
type Executor struct {
	workers int
	invoke  Invoker
	logger  *slog.Logger
}

// NewExecutor creates an executor with at most workers concurrent tasks.
// workers <= 0 falls back to DefaultMaxWorkers.
func NewExecutor(workers int, invoke Invoker, logger *slog.Logger) *Executor {
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{workers: workers, invoke: invoke, logger: logger}
}

// Run executes every task and returns results in task order. Caller
// cancellation stops new submissions and aborts in-flight work via the
// per-task contexts; unstarted tasks report a cancellation failure.
func (e *Executor) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	workers := e.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	type job struct {
		idx  int
		task Task
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = e.runOne(ctx, j.task)
			}
		}()
	}

	submitted := 0
submit:
	for i, t := range tasks {
		select {
		case jobs <- job{idx: i, task: t}:
			submitted++
		case <-ctx.Done():
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	// Tasks never handed to a worker report cancellation.
	for i := submitted; i < len(tasks); i++ {
		results[i] = Result{OK: false, Err: "cancelled"}
	}
	return results
}

// runOne executes a single task with its timeout, capturing panics and
// translating deadline expiry into a plain "timeout" failure.
func (e *Executor) runOne(ctx context.Context, task Task) (result Result) {
	timeout := task.Timeout
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			e.logger.Error("fan-out task panicked",
				"agent", task.Agent.String(),
				"panic", fmt.Sprint(r),
			)
			result = Result{OK: false, Err: fmt.Sprintf("panic: %v", r), Elapsed: time.Since(start)}
		}
	}()

	value, err := e.invoke(taskCtx, task)
	if err != nil {
		if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return Result{OK: false, Err: "timeout"}
		}
		return Result{OK: false, Err: err.Error()}
	}
	return Result{OK: true, Value: value}
}
