package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	BotThinkMinMillis       int `json:"bot_think_min_millis"`
	BotThinkMaxMillis       int `json:"bot_think_max_millis"`
	// TargetScore ends a match once a team reaches it across rounds.
	TargetScore int    `json:"target_score"`
	BotLevel    string `json:"bot_level"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Defaults returns the built-in configuration used when no file is loaded.
func Defaults() *GameConfig {
	return &GameConfig{
		TurnDurationSeconds:     30,
		BotAutoFillDelaySeconds: 10,
		BotThinkMinMillis:       800,
		BotThinkMaxMillis:       2500,
		TargetScore:             1000,
		BotLevel:                "greedy",
	}
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Defaults()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, falling back to the
// defaults when no file was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Defaults()
	}
	return cfg
}
