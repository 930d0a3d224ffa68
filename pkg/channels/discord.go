package channels

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"flowstate/pkg/bus"
	"flowstate/pkg/config"
	"flowstate/pkg/logger"
)

const discordMessageLimit = 2000

// DiscordNotifier posts notifications to a single configured channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
	running   bool
}

func NewDiscordNotifier(cfg config.DiscordConfig) (*DiscordNotifier, error) {
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("discord channel_id is required when a token is set")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: cfg.ChannelID}, nil
}

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) Start(ctx context.Context) error {
	logger.InfoC("discord", "Starting Discord notifier")

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	d.running = true

	botUser, err := d.session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	logger.InfoCF("discord", "Discord notifier connected", map[string]any{
		"username": botUser.Username,
		"user_id":  botUser.ID,
	})
	return nil
}

func (d *DiscordNotifier) Stop(ctx context.Context) error {
	logger.InfoC("discord", "Stopping Discord notifier")
	d.running = false
	if err := d.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

func (d *DiscordNotifier) IsRunning() bool { return d.running }

func (d *DiscordNotifier) Send(ctx context.Context, n bus.Notification) error {
	if !d.running {
		return fmt.Errorf("discord notifier not running")
	}

	content := n.Body
	if n.Title != "" {
		content = "**" + n.Title + "**\n" + n.Body
	}
	for _, chunk := range splitMessage(content, discordMessageLimit) {
		if _, err := d.session.ChannelMessageSend(d.channelID, chunk); err != nil {
			return fmt.Errorf("failed to send discord message: %w", err)
		}
	}
	return nil
}

func splitMessage(content string, limit int) []string {
	runes := []rune(content)
	if len(runes) <= limit {
		return []string{content}
	}
	var chunks []string
	for len(runes) > 0 {
		n := limit
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
