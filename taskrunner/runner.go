package taskrunner

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guardian/coverdrop-core/clock"
)

// Task is one named unit of recurring work: rotation, dead-drop poll,
// outbound send, or vault GC (§5). Run is invoked with the runner's
// clock-relative "now" each time the task comes due.
type Task struct {
	Name          string
	Interval      time.Duration
	JitterPercent int // ±JitterPercent% applied to Interval, like the teacher's jitterPercent
	Run           func(ctx context.Context, now time.Time) error
}

type scheduledTask struct {
	task                Task
	nextExecution       time.Time
	consecutiveFailures int
}

// Runner drives every registered Task from a single goroutine, matching
// §5's "run cooperatively on one goroutine" model: tasks never run
// concurrently with each other, only the next-due task executes at a
// time.
type Runner struct {
	mu       sync.Mutex
	clock    clock.Clock
	tasks    []*scheduledTask
	stopChan chan struct{}
	running  bool
}

// NewRunner constructs a Runner bound to c. Production callers pass
// clock.System{}; tests pass a clock.Virtual so task timing can be
// driven deterministically.
func NewRunner(c clock.Clock) *Runner {
	return &Runner{clock: c}
}

// Register adds task to the schedule. Its first execution is due at
// initialDelay from now; every subsequent execution is due at the
// previous one's time plus a jittered Interval.
func (r *Runner) Register(task Task, initialDelay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, &scheduledTask{
		task:          task,
		nextExecution: r.clock.Now().Add(initialDelay),
	})
}

// NextScheduledExecution reports when name is next due, for inspection
// and tests.
func (r *Runner) NextScheduledExecution(name string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.tasks {
		if st.task.Name == name {
			return st.nextExecution, true
		}
	}
	return time.Time{}, false
}

// jitteredInterval applies ±percent% random jitter to base, using
// crypto/rand exactly as the teacher's calculateNextInterval does, so
// task timing is unpredictable to an outside observer.
func jitteredInterval(base time.Duration, percent int) time.Duration {
	if percent <= 0 {
		return base
	}
	maxJitter := int64(float64(base) * float64(percent) / 100.0)
	if maxJitter <= 0 {
		return base
	}
	jitterBig, err := rand.Int(rand.Reader, big.NewInt(2*maxJitter))
	if err != nil {
		return base
	}
	jitter := time.Duration(jitterBig.Int64() - maxJitter)
	return base + jitter
}

// RunOnce finds the earliest task due at or before now and runs it,
// rescheduling it for its next jittered interval regardless of
// success or failure (a failing task is retried on its normal schedule,
// not with its own backoff — §5 leaves backoff to the mixer's publisher,
// not the scheduler). It returns ran=false if no task is yet due.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (ran bool, name string, err error) {
	r.mu.Lock()
	var due *scheduledTask
	for _, st := range r.tasks {
		if st.nextExecution.After(now) {
			continue
		}
		if due == nil || st.nextExecution.Before(due.nextExecution) {
			due = st
		}
	}
	r.mu.Unlock()

	if due == nil {
		return false, "", nil
	}

	runID := uuid.New().String()
	log := pkgLogger("RunOnce").WithFields(map[string]any{"task": due.task.Name, "run_id": runID})
	log.Debug("task run starting")

	runErr := due.task.Run(ctx, now)

	r.mu.Lock()
	if runErr != nil {
		due.consecutiveFailures++
		log.WithError(runErr).Warn("task run failed")
	} else {
		due.consecutiveFailures = 0
	}
	due.nextExecution = now.Add(jitteredInterval(due.task.Interval, due.task.JitterPercent))
	r.mu.Unlock()

	return true, due.task.Name, runErr
}

// Run drives the scheduler until ctx is cancelled or Stop is called,
// sleeping on the runner's clock between due tasks.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("taskrunner: already running")
	}
	r.running = true
	r.stopChan = make(chan struct{})
	stop := r.stopChan
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	for {
		ran, _, _ := r.RunOnce(ctx, r.clock.Now())
		if ran {
			continue
		}

		wait := r.shortestWait()
		select {
		case <-r.clock.After(wait):
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop halts a running Run loop.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	close(r.stopChan)
}

func (r *Runner) shortestWait() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	shortest := time.Minute
	found := false
	for _, st := range r.tasks {
		remaining := st.nextExecution.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		if !found || remaining < shortest {
			shortest = remaining
			found = true
		}
	}
	if !found {
		return time.Minute
	}
	if shortest <= 0 {
		return time.Millisecond
	}
	return shortest
}
