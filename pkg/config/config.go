package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	App       AppConfig       `json:"app"`
	Agents    AgentsConfig    `json:"agents"`
	Provider  ProviderConfig  `json:"provider"`
	Channels  ChannelsConfig  `json:"channels"`
	Reminders RemindersConfig `json:"reminders"`
	mu        sync.RWMutex
}

type AppConfig struct {
	DataDir string `json:"data_dir" env:"FLOWSTATE_APP_DATA_DIR"`
}

// AgentsConfig holds the three fixed hosted-agent identifiers. The call
// shape is identical for all of them; routing is purely by id.
type AgentsConfig struct {
	CheckinID string `json:"checkin_id" env:"FLOWSTATE_AGENTS_CHECKIN_ID"`
	CoachID   string `json:"coach_id" env:"FLOWSTATE_AGENTS_COACH_ID"`
	OracleID  string `json:"oracle_id" env:"FLOWSTATE_AGENTS_ORACLE_ID"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key" env:"FLOWSTATE_PROVIDER_API_KEY"`
	APIBase string `json:"api_base" env:"FLOWSTATE_PROVIDER_API_BASE"`
}

type ChannelsConfig struct {
	Discord DiscordConfig `json:"discord"`
}

type DiscordConfig struct {
	Token     string              `json:"token" env:"FLOWSTATE_CHANNELS_DISCORD_TOKEN"`
	ChannelID string              `json:"channel_id" env:"FLOWSTATE_CHANNELS_DISCORD_CHANNEL_ID"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"FLOWSTATE_CHANNELS_DISCORD_ALLOW_FROM"`
}

type RemindersConfig struct {
	Enabled bool `json:"enabled" env:"FLOWSTATE_REMINDERS_ENABLED"`
}

const defaultAPIBase = "https://agent-prod.studio.lyzr.ai"

// IDs of the production agents the app ships with. Override per install
// via config or FLOWSTATE_AGENTS_* env vars.
const (
	defaultCheckinAgentID = "699ea162006f1f9bd420ce52"
	defaultCoachAgentID   = "699ea17f55140cb9a8fc8c83"
	defaultOracleAgentID  = "699ea16355140cb9a8fc8c57"
)

func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			DataDir: "~/.flowstate",
		},
		Agents: AgentsConfig{
			CheckinID: defaultCheckinAgentID,
			CoachID:   defaultCoachAgentID,
			OracleID:  defaultOracleAgentID,
		},
		Provider: ProviderConfig{},
		Channels: ChannelsConfig{
			Discord: DiscordConfig{
				Token:     "",
				AllowFrom: FlexibleStringSlice{},
			},
		},
		Reminders: RemindersConfig{
			Enabled: true,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if envErr := env.Parse(cfg); envErr != nil {
				return nil, envErr
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) DataDirPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return expandHome(c.App.DataDir)
}

func (c *Config) GetAPIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Provider.APIKey
}

func (c *Config) GetAPIBase() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Provider.APIBase != "" {
		return c.Provider.APIBase
	}
	return defaultAPIBase
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
