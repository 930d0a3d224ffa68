// Package channels delivers bus notifications to the outside world.
package channels

import (
	"context"
	"fmt"
	"os"

	"flowstate/pkg/bus"
	"flowstate/pkg/config"
	"flowstate/pkg/logger"
)

// Notifier is one delivery target for reminders and achievement unlocks.
type Notifier interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, n bus.Notification) error
	IsRunning() bool
}

// Manager fans bus notifications out to every enabled notifier.
type Manager struct {
	notifiers []Notifier
	bus       *bus.NotificationBus
}

func NewManager(cfg *config.Config, nb *bus.NotificationBus) (*Manager, error) {
	m := &Manager{bus: nb}

	if cfg.Channels.Discord.Token != "" {
		discord, err := NewDiscordNotifier(cfg.Channels.Discord)
		if err != nil {
			return nil, err
		}
		m.notifiers = append(m.notifiers, discord)
	}

	// Always keep the console as a fallback target.
	m.notifiers = append(m.notifiers, NewConsoleNotifier())

	return m, nil
}

func (m *Manager) EnabledNames() []string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return names
}

func (m *Manager) StartAll(ctx context.Context) error {
	for _, n := range m.notifiers {
		if err := n.Start(ctx); err != nil {
			return fmt.Errorf("start %s channel: %w", n.Name(), err)
		}
	}
	go m.pump(ctx)
	return nil
}

func (m *Manager) StopAll(ctx context.Context) {
	for _, n := range m.notifiers {
		if err := n.Stop(ctx); err != nil {
			logger.WarnCF("channels", "Error stopping channel", map[string]any{
				"channel": n.Name(),
				"error":   err.Error(),
			})
		}
	}
}

func (m *Manager) pump(ctx context.Context) {
	for {
		n, ok := m.bus.Consume(ctx)
		if !ok {
			return
		}
		for _, target := range m.notifiers {
			if !target.IsRunning() {
				continue
			}
			if err := target.Send(ctx, n); err != nil {
				logger.ErrorCF("channels", "Delivery failed", map[string]any{
					"channel": target.Name(),
					"kind":    n.Kind,
					"error":   err.Error(),
				})
			}
		}
	}
}

// ConsoleNotifier prints notifications to stdout. It is always available.
type ConsoleNotifier struct {
	running bool
}

func NewConsoleNotifier() *ConsoleNotifier { return &ConsoleNotifier{} }

func (c *ConsoleNotifier) Name() string                    { return "console" }
func (c *ConsoleNotifier) Start(ctx context.Context) error { c.running = true; return nil }
func (c *ConsoleNotifier) Stop(ctx context.Context) error  { c.running = false; return nil }
func (c *ConsoleNotifier) IsRunning() bool                 { return c.running }

func (c *ConsoleNotifier) Send(ctx context.Context, n bus.Notification) error {
	if n.Title != "" {
		fmt.Fprintf(os.Stdout, "\n🔔 %s\n%s\n", n.Title, n.Body)
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n🔔 %s\n", n.Body)
	return nil
}
