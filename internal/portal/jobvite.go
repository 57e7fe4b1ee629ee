package portal

import (
	"context"

	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

// Jobvite — адаптер портала Jobvite. Кастомных виджетов нет:
// обычные input/textarea/select, метки только через общий скан контекста.
type Jobvite struct {
	logger *zap.Logger
}

func NewJobvite(logger *zap.Logger) *Jobvite {
	return &Jobvite{logger: logger}
}

func (j *Jobvite) Name() string { return "jobvite" }

func (j *Jobvite) DiscoverFields(page browser.Page) []browser.Element {
	return page.QueryAll("input, textarea, select")
}

func (j *Jobvite) LabelFor(e *Engine, el browser.Element) (string, bool) {
	label := e.AnalyzeContext(el)
	return label, IsRequiredLabel(label)
}

func (j *Jobvite) FieldType(el browser.Element) form.QuestionType {
	return form.ParseQuestionType(el.GetAttribute("type"), el.TagName())
}

func (j *Jobvite) IsChoiceControl(browser.Element, string) bool { return false }

func (j *Jobvite) FillChoiceControl(context.Context, *Engine, *form.FormQuestion) (bool, error) {
	return false, nil
}
