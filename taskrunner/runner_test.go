package taskrunner

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/guardian/coverdrop-core/clock"
	"github.com/stretchr/testify/require"
)

func TestRunOnceSkipsTasksNotYetDue(t *testing.T) {
	c := clock.NewVirtual(time.Unix(1_700_000_000, 0))
	r := NewRunner(c)

	var ran int
	r.Register(Task{
		Name:     "rotation",
		Interval: time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			ran++
			return nil
		},
	}, time.Hour)

	didRun, _, err := r.RunOnce(context.Background(), c.Now())
	require.NoError(t, err)
	require.False(t, didRun)
	require.Equal(t, 0, ran)
}

func TestRunOnceRunsDueTaskAndReschedules(t *testing.T) {
	c := clock.NewVirtual(time.Unix(1_700_000_000, 0))
	r := NewRunner(c)

	var ran int
	r.Register(Task{
		Name:     "poll",
		Interval: 10 * time.Minute,
		Run: func(ctx context.Context, now time.Time) error {
			ran++
			return nil
		},
	}, 0)

	didRun, name, err := r.RunOnce(context.Background(), c.Now())
	require.NoError(t, err)
	require.True(t, didRun)
	require.Equal(t, "poll", name)
	require.Equal(t, 1, ran)

	next, ok := r.NextScheduledExecution("poll")
	require.True(t, ok)
	require.True(t, next.After(c.Now()), "next execution must be rescheduled into the future")

	didRun, _, err = r.RunOnce(context.Background(), c.Now())
	require.NoError(t, err)
	require.False(t, didRun, "task just ran, should not be due again immediately")
}

func TestRunOncePicksEarliestDueTask(t *testing.T) {
	c := clock.NewVirtual(time.Unix(1_700_000_000, 0))
	r := NewRunner(c)

	var order []string
	r.Register(Task{
		Name:     "later",
		Interval: time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			order = append(order, "later")
			return nil
		},
	}, 5*time.Minute)
	r.Register(Task{
		Name:     "sooner",
		Interval: time.Hour,
		Run: func(ctx context.Context, now time.Time) error {
			order = append(order, "sooner")
			return nil
		},
	}, time.Minute)

	c.Advance(6 * time.Minute)

	_, name, err := r.RunOnce(context.Background(), c.Now())
	require.NoError(t, err)
	require.Equal(t, "sooner", name)

	_, name, err = r.RunOnce(context.Background(), c.Now())
	require.NoError(t, err)
	require.Equal(t, "later", name)

	require.Equal(t, []string{"sooner", "later"}, order)
}

func TestRunOnceReschedulesEvenOnFailure(t *testing.T) {
	c := clock.NewVirtual(time.Unix(1_700_000_000, 0))
	r := NewRunner(c)

	r.Register(Task{
		Name:     "send",
		Interval: time.Minute,
		Run: func(ctx context.Context, now time.Time) error {
			return errors.New("boom")
		},
	}, 0)

	didRun, _, err := r.RunOnce(context.Background(), c.Now())
	require.True(t, didRun)
	require.Error(t, err)

	next, ok := r.NextScheduledExecution("send")
	require.True(t, ok)
	require.True(t, next.After(c.Now()), "a failing task must still be rescheduled")
}

func TestJitteredIntervalStaysWithinBounds(t *testing.T) {
	base := 10 * time.Minute
	for i := 0; i < 50; i++ {
		got := jitteredInterval(base, 50)
		require.GreaterOrEqual(t, got, base/2)
		require.LessOrEqual(t, got, base+base/2)
	}
}

func TestJitteredIntervalZeroPercentIsExact(t *testing.T) {
	require.Equal(t, 5*time.Minute, jitteredInterval(5*time.Minute, 0))
}

func TestRunDrivesTaskUntilStopped(t *testing.T) {
	c := clock.NewVirtual(time.Unix(1_700_000_000, 0))
	r := NewRunner(c)

	ranCh := make(chan struct{}, 8)
	r.Register(Task{
		Name:     "gc",
		Interval: time.Minute,
		Run: func(ctx context.Context, now time.Time) error {
			ranCh <- struct{}{}
			return nil
		},
	}, 0)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	<-ranCh // first run fires immediately (zero initial delay)

	for i := 0; i < 3; i++ {
		for c.PendingTimerCount() == 0 {
			runtime.Gosched()
		}
		c.Advance(time.Minute)
		<-ranCh
	}

	r.Stop()
	require.NoError(t, <-done)
}
