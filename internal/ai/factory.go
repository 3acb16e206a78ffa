package ai

import (
	"github.com/fdg312/meal-planner/internal/config"
)

// NewCompleter выбирает реализацию по AI_MODE.
func NewCompleter(cfg *config.Config) Completer {
	switch cfg.AIMode {
	case config.AIModeOpenAI:
		return NewOpenAICompleter(cfg)
	default:
		return NewMockCompleter()
	}
}
