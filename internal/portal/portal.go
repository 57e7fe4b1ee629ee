// Package portal содержит адаптеры порталов вакансий и общий движок
// заполнения форм. Адаптер знает DOM-особенности конкретного сайта,
// движок — общую логику матчинга, скоринга и валидации ответов.
package portal

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

// Portal — capability-интерфейс адаптера одного семейства сайтов.
// Диспетчеризация по домену через реестр, без иерархий наследования.
type Portal interface {
	Name() string

	// DiscoverFields возвращает контролы формы в порядке обхода.
	DiscoverFields(page browser.Page) []browser.Element

	// LabelFor извлекает текст вопроса и признак обязательности.
	LabelFor(e *Engine, el browser.Element) (label string, required bool)

	// FieldType определяет тип вопроса по контролу.
	FieldType(el browser.Element) form.QuestionType

	// IsChoiceControl сообщает, что контрол — кастомный виджет портала,
	// который заполняется через FillChoiceControl, а не нативно.
	IsChoiceControl(el browser.Element, label string) bool

	// FillChoiceControl заполняет кастомный виджет.
	FillChoiceControl(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error)
}

// Preparer — опциональный хук, выполняемый до обхода полей
// (клик по кнопке Apply, добавление секций образования).
type Preparer interface {
	Prepare(ctx context.Context, e *Engine)
}

// AfterFiller — опциональный хук после заполнения одного поля
// (секция подписи о инвалидности у Lever).
type AfterFiller interface {
	AfterField(ctx context.Context, e *Engine, q *form.FormQuestion)
}

// Factory создаёт адаптер для конкретного URL страницы.
type Factory func(pageURL string, logger *zap.Logger) Portal

var registry = map[string]Factory{
	"lever.co": func(_ string, logger *zap.Logger) Portal {
		return NewLever(logger)
	},
	"greenhouse.io": func(pageURL string, logger *zap.Logger) Portal {
		return NewGreenhouse(pageURL, logger)
	},
	"ashbyhq.com": func(_ string, logger *zap.Logger) Portal {
		return NewAshby(logger)
	},
	"jobvite.com": func(_ string, logger *zap.Logger) Portal {
		return NewJobvite(logger)
	},
	"workable.com": func(_ string, logger *zap.Logger) Portal {
		return NewWorkable(logger)
	},
}

// Lookup находит адаптер по домену URL вакансии.
func Lookup(rawURL string, logger *zap.Logger) (Portal, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}

	host := strings.ToLower(parsed.Hostname())
	for domain, factory := range registry {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return factory(rawURL, logger), true
		}
	}
	return nil, false
}
