package channels

import (
	"context"
	"sync"
	"testing"
	"time"

	"flowstate/pkg/bus"
	"flowstate/pkg/config"
)

type fakeNotifier struct {
	mu      sync.Mutex
	running bool
	got     []bus.Notification
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Start(ctx context.Context) error {
	f.setRunning(true)
	return nil
}

func (f *fakeNotifier) Stop(ctx context.Context) error {
	f.setRunning(false)
	return nil
}

func (f *fakeNotifier) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeNotifier) setRunning(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = v
}

func (f *fakeNotifier) Send(ctx context.Context, n bus.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, n)
	return nil
}

func (f *fakeNotifier) received() []bus.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bus.Notification, len(f.got))
	copy(out, f.got)
	return out
}

func TestManagerWithoutDiscordUsesConsoleOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	m, err := NewManager(cfg, bus.NewNotificationBus())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	names := m.EnabledNames()
	if len(names) != 1 || names[0] != "console" {
		t.Errorf("expected console only, got %v", names)
	}
}

func TestManagerRejectsDiscordWithoutChannelID(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Channels.Discord.Token = "token"

	if _, err := NewManager(cfg, bus.NewNotificationBus()); err == nil {
		t.Error("expected error when discord token is set without channel_id")
	}
}

func TestPumpFansOutToRunningNotifiers(t *testing.T) {
	nb := bus.NewNotificationBus()
	fake := &fakeNotifier{}
	m := &Manager{bus: nb, notifiers: []Notifier{fake}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	nb.Publish(bus.Notification{Kind: "reminder", Title: "morning", Body: "Check in!", CreatedAt: time.Now()})

	deadline := time.After(2 * time.Second)
	for len(fake.received()) == 0 {
		select {
		case <-deadline:
			t.Fatal("notification never reached the notifier")
		case <-time.After(10 * time.Millisecond):
		}
	}

	got := fake.received()
	if got[0].Title != "morning" || got[0].Body != "Check in!" {
		t.Errorf("unexpected notification: %+v", got[0])
	}

	m.StopAll(ctx)
	if fake.IsRunning() {
		t.Error("StopAll should stop the notifier")
	}
}

func TestStoppedNotifierIsSkipped(t *testing.T) {
	nb := bus.NewNotificationBus()
	fake := &fakeNotifier{}
	m := &Manager{bus: nb, notifiers: []Notifier{fake}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	fake.setRunning(false)

	nb.Publish(bus.Notification{Kind: "reminder", Body: "ignored"})
	time.Sleep(50 * time.Millisecond)

	if n := len(fake.received()); n != 0 {
		t.Errorf("stopped notifier should not receive, got %d", n)
	}
}
