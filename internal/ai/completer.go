package ai

import (
	"context"
	"errors"
)

// ErrCompletionFailed оборачивает любые ошибки внешнего LLM API (сеть, авторизация, лимиты).
var ErrCompletionFailed = errors.New("completion failed")

// Completer отправляет промпт в модель и возвращает текст первого ответа без пробелов по краям.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier used for completions.
	Model() string
}
