// Package scheduler runs background jobs, such as the feed sync, on cron
// schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskRunning  = errors.New("task is already running")
)

// TaskFunc is a unit of scheduled work. ctx is cancelled on Stop.
type TaskFunc func(ctx context.Context) error

// TaskConfig describes a task. Name defaults to ID.
type TaskConfig struct {
	ID          string
	Name        string
	Description string
	Cron        string // five-field cron, e.g. "*/15 * * * *"
	Func        TaskFunc
	RunOnStart  bool
}

// TaskInfo is the externally visible state of a task.
type TaskInfo struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Cron         string     `json:"cron"`
	LastRun      *time.Time `json:"lastRun,omitempty"`
	LastDuration string     `json:"lastDuration,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
	NextRun      *time.Time `json:"nextRun,omitempty"`
	Running      bool       `json:"running"`
}

type task struct {
	cfg     TaskConfig
	job     gocron.Job
	running bool
	last    *runResult
}

type runResult struct {
	started  time.Time
	duration time.Duration
	err      error
}

// Scheduler owns a gocron scheduler and the state of its tasks.
type Scheduler struct {
	cron   gocron.Scheduler
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	tasks map[string]*task
}

// New creates a scheduler. Tasks only fire on their schedule after Start.
func New(logger zerolog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron,
		logger: logger.With().Str("component", "scheduler").Logger(),
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]*task),
	}, nil
}

// RegisterTask adds a task. Overlapping runs of the same task are skipped.
func (s *Scheduler) RegisterTask(cfg TaskConfig) error {
	if cfg.ID == "" {
		return errors.New("task ID is required")
	}
	if cfg.Func == nil {
		return fmt.Errorf("task %q has no function", cfg.ID)
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[cfg.ID]; exists {
		return fmt.Errorf("task with ID %q already registered", cfg.ID)
	}

	id := cfg.ID
	job, err := s.cron.NewJob(
		gocron.CronJob(cfg.Cron, false),
		gocron.NewTask(func() { s.run(id) }),
		gocron.WithName(cfg.Name),
		gocron.WithTags(id),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job for task %q: %w", id, err)
	}

	s.tasks[id] = &task{cfg: cfg, job: job}

	s.logger.Info().
		Str("id", id).
		Str("cron", cfg.Cron).
		Bool("runOnStart", cfg.RunOnStart).
		Msg("Registered task")
	return nil
}

// claim marks a task running. It fails when the task is unknown or busy.
func (s *Scheduler) claim(id string) (*task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if t.running {
		return nil, fmt.Errorf("%w: %s", ErrTaskRunning, id)
	}
	t.running = true
	return t, nil
}

// run is the cron entry point; a busy task skips this tick.
func (s *Scheduler) run(id string) {
	t, err := s.claim(id)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Skipping task run")
		return
	}
	s.execute(t)
}

func (s *Scheduler) execute(t *task) {
	started := time.Now()
	err := t.cfg.Func(s.ctx)
	result := &runResult{started: started, duration: time.Since(started), err: err}

	s.mu.Lock()
	t.running = false
	t.last = result
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Str("id", t.cfg.ID).Dur("duration", result.duration).Msg("Task failed")
		return
	}
	s.logger.Debug().Str("id", t.cfg.ID).Dur("duration", result.duration).Msg("Task completed")
}

// Start begins cron scheduling and fires the RunOnStart tasks in the
// background.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Starting scheduler")
	s.cron.Start()

	s.mu.RLock()
	ids := make([]string, 0, len(s.tasks))
	for id, t := range s.tasks {
		if t.cfg.RunOnStart {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range ids {
		go s.run(id)
	}
}

// Stop cancels the context handed to running tasks and shuts gocron down.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()
	return s.cron.Shutdown()
}

// RunNow starts a task in the background. It returns ErrTaskNotFound or
// ErrTaskRunning without starting anything.
func (s *Scheduler) RunNow(id string) error {
	t, err := s.claim(id)
	if err != nil {
		return err
	}
	go s.execute(t)
	return nil
}

// ListTasks returns the state of every task, ordered by ID.
func (s *Scheduler) ListTasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		infos = append(infos, t.info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// info snapshots a task. Callers hold mu.
func (t *task) info() TaskInfo {
	info := TaskInfo{
		ID:          t.cfg.ID,
		Name:        t.cfg.Name,
		Description: t.cfg.Description,
		Cron:        t.cfg.Cron,
		Running:     t.running,
	}
	if t.last != nil {
		started := t.last.started
		info.LastRun = &started
		info.LastDuration = t.last.duration.String()
		if t.last.err != nil {
			info.LastError = t.last.err.Error()
		}
	}
	if next, err := t.job.NextRun(); err == nil && !next.IsZero() {
		info.NextRun = &next
	}
	return info
}
