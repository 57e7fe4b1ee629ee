package portal

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

// Workable — адаптер портала Workable. Кастомные радиогруппы живут в
// fieldset[role='radiogroup'], метки ищутся через aria-labelledby или
// по шаблону {name}_label.
type Workable struct {
	logger *zap.Logger
}

func NewWorkable(logger *zap.Logger) *Workable {
	return &Workable{logger: logger}
}

func (w *Workable) Name() string { return "workable" }

func (w *Workable) DiscoverFields(page browser.Page) []browser.Element {
	return page.QueryAll("input:not([type='radio']), textarea, select, fieldset[role='radiogroup']")
}

func (w *Workable) LabelFor(e *Engine, el browser.Element) (string, bool) {
	if label, required, ok := w.labelledBy(e, el); ok {
		return label, required
	}

	fallback := e.AnalyzeContext(el)
	return fallback, IsRequiredLabel(fallback)
}

// labelledBy ищет элемент метки по aria-labelledby (берётся первый
// идентификатор) или по id вида {name}_label. Обязательность читается
// из текста элемента двумя уровнями выше метки.
func (w *Workable) labelledBy(e *Engine, el browser.Element) (string, bool, bool) {
	var label browser.Element

	if labelledBy := el.GetAttribute("aria-labelledby"); labelledBy != "" {
		id := strings.Fields(labelledBy)[0]
		label = e.Page().Query("#" + id)
	}

	if label == nil || label.Text() == "" {
		if name := el.GetAttribute("name"); name != "" {
			label = e.Page().Query("#" + name + "_label")
		}
	}

	if label == nil {
		return "", false, false
	}
	text := label.Text()
	if text == "" {
		return "", false, false
	}

	required := false
	if parent := label.Parent(); parent != nil {
		if grandparent := parent.Parent(); grandparent != nil {
			required = IsRequiredLabel(grandparent.Text())
		}
	}
	return text, required, true
}

func (w *Workable) FieldType(el browser.Element) form.QuestionType {
	if w.isRadioGroup(el) {
		return form.TypeSelect
	}
	return form.ParseQuestionType(el.GetAttribute("type"), el.TagName())
}

func (w *Workable) IsChoiceControl(el browser.Element, _ string) bool {
	return w.isRadioGroup(el)
}

func (w *Workable) isRadioGroup(el browser.Element) bool {
	return el.TagName() == "fieldset" && el.GetAttribute("role") == "radiogroup"
}

// FillChoiceControl выбирает пункт радиогруппы: тексты берутся из
// span[id*='radio_label_'], клик идёт по соответствующему input.
func (w *Workable) FillChoiceControl(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	if err := q.Element.ScrollIntoView(); err != nil {
		w.logger.Warn("не удалось прокрутить к радиогруппе", zap.Error(err))
	}

	inputs := q.Element.QueryAll("input[type='radio']")
	spans := q.Element.QueryAll("span[id*='radio_label_']")
	if len(inputs) == 0 || len(spans) == 0 || len(inputs) != len(spans) {
		return false, fmt.Errorf("радиогруппа %q без согласованных опций", q.Question)
	}

	texts := make([]string, 0, len(spans))
	for _, span := range spans {
		texts = append(texts, span.Text())
	}

	indices := e.ResolveChoice(ctx, q, texts, false)
	if len(indices) == 0 {
		return false, nil
	}

	if err := inputs[indices[0]].Click(); err != nil {
		return false, fmt.Errorf("ошибка клика по радиокнопке: %w", err)
	}
	return true, nil
}
