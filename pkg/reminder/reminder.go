// Package reminder schedules recurring check-in reminders and publishes
// them to the notification bus.
package reminder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"

	"flowstate/pkg/bus"
	"flowstate/pkg/logger"
)

// Schedule is either a cron expression or a fixed interval.
type Schedule struct {
	Kind    string `json:"kind"` // "cron" | "every"
	Expr    string `json:"expr,omitempty"`
	EveryMS *int64 `json:"every_ms,omitempty"`
}

type JobState struct {
	NextRunAtMS *int64 `json:"next_run_at_ms,omitempty"`
	LastRunAtMS *int64 `json:"last_run_at_ms,omitempty"`
}

// Job is one stored reminder.
type Job struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Schedule Schedule `json:"schedule"`
	Enabled  bool     `json:"enabled"`
	State    JobState `json:"state"`
}

const pollInterval = 30 * time.Second

// Service owns the reminder job file and the scheduling loop.
type Service struct {
	storePath string
	bus       *bus.NotificationBus
	mu        sync.Mutex
	jobs      []Job
	stop      chan struct{}
	running   bool
}

func NewService(storePath string, nb *bus.NotificationBus) *Service {
	s := &Service{storePath: storePath, bus: nb, stop: make(chan struct{})}
	if err := s.load(); err != nil {
		logger.WarnCF("reminder", "Could not load jobs, starting empty", map[string]any{
			"path":  storePath,
			"error": err.Error(),
		})
	}
	return s
}

func (s *Service) load() error {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return err
	}
	s.jobs = jobs
	return nil
}

func (s *Service) save() error {
	data, err := json.MarshalIndent(s.jobs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.storePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.storePath, data, 0o644)
}

// AddJob validates the schedule, computes the first run and persists the
// job.
func (s *Service) AddJob(name, message string, schedule Schedule) (*Job, error) {
	if err := validateSchedule(schedule); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job := Job{
		ID:       uuid.NewString(),
		Name:     name,
		Message:  message,
		Schedule: schedule,
		Enabled:  true,
	}
	if next, ok := nextRun(schedule, time.Now()); ok {
		ms := next.UnixMilli()
		job.State.NextRunAtMS = &ms
	}

	s.jobs = append(s.jobs, job)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &job, nil
}

func validateSchedule(schedule Schedule) error {
	switch schedule.Kind {
	case "cron":
		if !gronx.New().IsValid(schedule.Expr) {
			return fmt.Errorf("invalid cron expression %q", schedule.Expr)
		}
	case "every":
		if schedule.EveryMS == nil || *schedule.EveryMS <= 0 {
			return fmt.Errorf("every schedule requires a positive interval")
		}
	default:
		return fmt.Errorf("unknown schedule kind %q", schedule.Kind)
	}
	return nil
}

func nextRun(schedule Schedule, after time.Time) (time.Time, bool) {
	switch schedule.Kind {
	case "cron":
		next, err := gronx.NextTickAfter(schedule.Expr, after, false)
		if err != nil {
			return time.Time{}, false
		}
		return next, true
	case "every":
		return after.Add(time.Duration(*schedule.EveryMS) * time.Millisecond), true
	}
	return time.Time{}, false
}

// ListJobs returns the stored jobs; disabled ones only when includeDisabled
// is set.
func (s *Service) ListJobs(includeDisabled bool) []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if !j.Enabled && !includeDisabled {
			continue
		}
		out = append(out, j)
	}
	return out
}

// RemoveJob deletes a job by id and reports whether it existed.
func (s *Service) RemoveJob(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, j := range s.jobs {
		if j.ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			_ = s.save()
			return true
		}
	}
	return false
}

// EnableJob toggles a job and returns it, or nil when not found.
func (s *Service) EnableJob(id string, enabled bool) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs[i].Enabled = enabled
			if enabled {
				if next, ok := nextRun(s.jobs[i].Schedule, time.Now()); ok {
					ms := next.UnixMilli()
					s.jobs[i].State.NextRunAtMS = &ms
				}
			}
			_ = s.save()
			job := s.jobs[i]
			return &job
		}
	}
	return nil
}

// Start launches the scheduling loop.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("reminder service already running")
	}
	s.running = true
	s.stop = make(chan struct{})
	s.mu.Unlock()

	go s.loop()
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
}

func (s *Service) loop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.fireDue(now)
		}
	}
}

func (s *Service) fireDue(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.jobs {
		job := &s.jobs[i]
		if !job.Enabled || job.State.NextRunAtMS == nil {
			continue
		}
		if now.UnixMilli() < *job.State.NextRunAtMS {
			continue
		}

		s.bus.Publish(bus.Notification{
			Kind:      "reminder",
			Title:     job.Name,
			Body:      job.Message,
			CreatedAt: now,
		})
		logger.InfoCF("reminder", "Reminder fired", map[string]any{"job": job.Name})

		last := now.UnixMilli()
		job.State.LastRunAtMS = &last
		if next, ok := nextRun(job.Schedule, now); ok {
			ms := next.UnixMilli()
			job.State.NextRunAtMS = &ms
		} else {
			job.State.NextRunAtMS = nil
		}
		changed = true
	}
	if changed {
		_ = s.save()
	}
}
