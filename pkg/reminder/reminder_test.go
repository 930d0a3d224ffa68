package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"flowstate/pkg/bus"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reminders.json")
	return NewService(path, bus.NewNotificationBus())
}

func TestAddJobCron(t *testing.T) {
	svc := newTestService(t)

	job, err := svc.AddJob("morning", "Time for your check-in", Schedule{Kind: "cron", Expr: "0 9 * * *"})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if job.ID == "" {
		t.Error("expected generated job id")
	}
	if !job.Enabled {
		t.Error("new job should be enabled")
	}
	if job.State.NextRunAtMS == nil {
		t.Error("expected next run to be scheduled")
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.AddJob("bad", "x", Schedule{Kind: "cron", Expr: "not a cron"}); err == nil {
		t.Error("expected invalid cron expression to be rejected")
	}
	if _, err := svc.AddJob("bad", "x", Schedule{Kind: "every"}); err == nil {
		t.Error("expected every schedule without interval to be rejected")
	}
	if _, err := svc.AddJob("bad", "x", Schedule{Kind: "weird"}); err == nil {
		t.Error("expected unknown schedule kind to be rejected")
	}
}

func TestListRemoveEnable(t *testing.T) {
	svc := newTestService(t)

	every := int64(60000)
	job, err := svc.AddJob("hourly", "stretch", Schedule{Kind: "every", EveryMS: &every})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	if got := len(svc.ListJobs(false)); got != 1 {
		t.Fatalf("expected 1 enabled job, got %d", got)
	}

	if disabled := svc.EnableJob(job.ID, false); disabled == nil || disabled.Enabled {
		t.Fatal("expected job to be disabled")
	}
	if got := len(svc.ListJobs(false)); got != 0 {
		t.Errorf("disabled job should be hidden from default listing, got %d", got)
	}
	if got := len(svc.ListJobs(true)); got != 1 {
		t.Errorf("disabled job should appear with includeDisabled, got %d", got)
	}

	if re := svc.EnableJob(job.ID, true); re == nil || !re.Enabled || re.State.NextRunAtMS == nil {
		t.Fatal("re-enabled job should be rescheduled")
	}

	if !svc.RemoveJob(job.ID) {
		t.Error("expected RemoveJob to find the job")
	}
	if svc.RemoveJob(job.ID) {
		t.Error("expected second RemoveJob to report missing")
	}
}

func TestJobsPersistAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	nb := bus.NewNotificationBus()

	svc := NewService(path, nb)
	every := int64(1000)
	if _, err := svc.AddJob("persisted", "hydrate", Schedule{Kind: "every", EveryMS: &every}); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	reloaded := NewService(path, nb)
	jobs := reloaded.ListJobs(true)
	if len(jobs) != 1 || jobs[0].Name != "persisted" {
		t.Fatalf("expected persisted job after reload, got %+v", jobs)
	}
}

func TestFireDuePublishesAndReschedules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	nb := bus.NewNotificationBus()
	svc := NewService(path, nb)

	every := int64(60000)
	job, err := svc.AddJob("due", "Daily check-in time", Schedule{Kind: "every", EveryMS: &every})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	svc.fireDue(time.Now().Add(2 * time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, ok := nb.Consume(ctx)
	if !ok {
		t.Fatal("expected a published notification")
	}
	if n.Kind != "reminder" || n.Title != "due" || n.Body != "Daily check-in time" {
		t.Errorf("unexpected notification: %+v", n)
	}

	jobs := svc.ListJobs(true)
	if jobs[0].State.LastRunAtMS == nil {
		t.Error("expected last run to be recorded")
	}
	if jobs[0].State.NextRunAtMS == nil {
		t.Error("expected job to be rescheduled")
	}
	if *jobs[0].State.NextRunAtMS <= *job.State.NextRunAtMS {
		t.Error("expected next run to advance past the original schedule")
	}
}
