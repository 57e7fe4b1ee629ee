// Package ai отвечает на вопросы формы, которые не закрылись профилем.
// Два провайдера: премиальный (OpenAI) для cover letter и открытых вопросов
// pro-пользователей, дефолтный (Gemini) для всего остального.
package ai

import "context"

// Request — один вызов генерации.
type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// Provider — минимальный интерфейс генерации текста.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Providers — доступный набор провайдеров. Premium может отсутствовать.
type Providers struct {
	Premium Provider
	Default Provider
}

// CallContext описывает характер вызова для выбора провайдера.
type CallContext struct {
	IsCoverLetter bool
	IsOpenEnded   bool
	IsPro         bool
}

// SelectProvider выбирает провайдера для вызова.
// Cover letter всегда идёт в премиальный, открытые вопросы — только
// для pro-пользователей. Всё остальное обслуживает дефолтный.
func SelectProvider(p Providers, call CallContext) Provider {
	if call.IsCoverLetter && p.Premium != nil {
		return p.Premium
	}
	if call.IsPro && call.IsOpenEnded && p.Premium != nil {
		return p.Premium
	}
	return p.Default
}
