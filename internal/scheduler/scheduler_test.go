package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestRegisterTask_Duplicate(t *testing.T) {
	s := newTestScheduler(t)
	cfg := TaskConfig{ID: "a", Name: "A", Cron: "*/5 * * * *", Func: func(context.Context) error { return nil }}

	require.NoError(t, s.RegisterTask(cfg))
	assert.Error(t, s.RegisterTask(cfg))
}

func TestRegisterTask_InvalidCron(t *testing.T) {
	s := newTestScheduler(t)
	err := s.RegisterTask(TaskConfig{ID: "bad", Cron: "not a cron", Func: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestStart_RunsStartupTasks(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:         "startup",
		Name:       "Startup",
		Cron:       "0 0 1 1 *",
		RunOnStart: true,
		Func: func(context.Context) error {
			calls.Add(1)
			return errors.New("logged, not fatal")
		},
	}))

	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		tasks := s.ListTasks()
		return len(tasks) == 1 && tasks[0].LastRun != nil && !tasks[0].Running
	}, time.Second, 10*time.Millisecond)

	info := s.ListTasks()[0]
	assert.Equal(t, "logged, not fatal", info.LastError)
	assert.NotEmpty(t, info.LastDuration)
}

func TestRegisterTask_NameDefaultsToID(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "unnamed",
		Cron: "*/5 * * * *",
		Func: func(context.Context) error { return nil },
	}))

	tasks := s.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "unnamed", tasks[0].Name)
}

func TestRegisterTask_RequiresIDAndFunc(t *testing.T) {
	s := newTestScheduler(t)
	assert.Error(t, s.RegisterTask(TaskConfig{Cron: "*/5 * * * *", Func: func(context.Context) error { return nil }}))
	assert.Error(t, s.RegisterTask(TaskConfig{ID: "nofunc", Cron: "*/5 * * * *"}))
}

func TestRunNow_AlreadyRunning(t *testing.T) {
	s := newTestScheduler(t)
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "slow",
		Cron: "0 0 1 1 *",
		Func: func(context.Context) error {
			close(started)
			<-release
			return nil
		},
	}))

	require.NoError(t, s.RunNow("slow"))
	<-started
	assert.ErrorIs(t, s.RunNow("slow"), ErrTaskRunning)

	close(release)
	assert.Eventually(t, func() bool {
		return s.RunNow("slow") == nil
	}, time.Second, 10*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	s := newTestScheduler(t)
	done := make(chan struct{})
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "manual",
		Cron: "0 0 1 1 *",
		Func: func(context.Context) error {
			close(done)
			return nil
		},
	}))

	require.NoError(t, s.RunNow("manual"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	assert.ErrorIs(t, s.RunNow("missing"), ErrTaskNotFound)
}
