package portal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

// Ashby — адаптер портала Ashby. Особенности: группы радио/чекбоксов в
// fieldset, контейнеры yes/no с кнопками, дропдауны с aria-haspopup,
// react-datepicker и радио согласия на SMS.
type Ashby struct {
	logger *zap.Logger
}

func NewAshby(logger *zap.Logger) *Ashby {
	return &Ashby{logger: logger}
}

func (a *Ashby) Name() string { return "ashby" }

const consentQuestion = "Do you consent to receive text message updates from us regarding this application?"

var mmddyyyyRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

func (a *Ashby) DiscoverFields(page browser.Page) []browser.Element {
	return page.QueryAll("input:not([type='radio']):not([type='checkbox']), textarea, select, fieldset, div[class*='_yesno'], div[class*='_phoneNumberConsent']")
}

// LabelFor для кастомных виджетов поднимается по предкам до
// label.ashby-application-form-question-title, прихватывая описание
// вопроса; для остальных идёт по label[for].
func (a *Ashby) LabelFor(e *Engine, el browser.Element) (string, bool) {
	if a.isConsentRadio(el) {
		return consentQuestion, false
	}

	if a.isCustomWidget(el) {
		current := el
		for i := 0; i < 5 && current != nil; i++ {
			if label := current.Query("label.ashby-application-form-question-title"); label != nil {
				text := label.Text()
				if desc := current.Query(".ashby-application-form-question-description"); desc != nil {
					if descText := desc.Text(); descText != "" {
						text = text + " - " + descText
					}
				}
				required := strings.Contains(label.GetAttribute("class"), "required")
				return text, required
			}
			current = current.Parent()
		}

		if el.TagName() == "fieldset" {
			if label := el.Query("label"); label != nil {
				return label.Text(), strings.Contains(label.GetAttribute("class"), "required")
			}
		}
	}

	fieldID := el.GetAttribute("id")
	if fieldID != "" {
		if label := e.Page().Query("label[for='" + fieldID + "']"); label != nil {
			required := strings.Contains(label.GetAttribute("class"), "required")
			return label.Text(), required
		}
	}

	fallback := e.AnalyzeContext(el)
	return fallback, IsRequiredLabel(fallback)
}

func (a *Ashby) FieldType(el browser.Element) form.QuestionType {
	switch {
	case a.isDatepicker(el):
		return form.TypeDate
	case el.TagName() == "fieldset", a.isYesNo(el), a.isDropdown(el):
		return form.TypeSelect
	case a.isConsentRadio(el):
		return form.TypeCheckbox
	}
	return form.ParseQuestionType(el.GetAttribute("type"), el.TagName())
}

func (a *Ashby) IsChoiceControl(el browser.Element, _ string) bool {
	return a.isCustomWidget(el) || a.isConsentRadio(el) || a.isDatepicker(el)
}

func (a *Ashby) FillChoiceControl(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	el := q.Element
	switch {
	case a.isConsentRadio(el):
		return a.fillConsentRadio(ctx, e, q)
	case el.TagName() == "fieldset":
		return a.fillRadioGroup(ctx, e, q)
	case a.isYesNo(el):
		return a.fillYesNo(ctx, e, q)
	case a.isDropdown(el):
		return a.fillDropdown(ctx, e, q)
	case a.isDatepicker(el):
		return a.fillDatepicker(ctx, e, q)
	}
	return false, nil
}

func (a *Ashby) isCustomWidget(el browser.Element) bool {
	return el.TagName() == "fieldset" || a.isYesNo(el) || a.isDropdown(el) || a.isDatepicker(el)
}

func (a *Ashby) isYesNo(el browser.Element) bool {
	return strings.Contains(el.GetAttribute("class"), "_yesno")
}

func (a *Ashby) isConsentRadio(el browser.Element) bool {
	return strings.Contains(el.GetAttribute("class"), "phoneNumberConsent")
}

func (a *Ashby) isDropdown(el browser.Element) bool {
	return el.GetAttribute("aria-haspopup") == "listbox"
}

// isDatepicker распознаёт поле даты по type=date или классу
// react-datepicker на одном из ближайших предков.
func (a *Ashby) isDatepicker(el browser.Element) bool {
	if el.GetAttribute("type") == "date" {
		return true
	}

	current := el
	for i := 0; i < 3 && current != nil; i++ {
		if strings.Contains(current.GetAttribute("class"), "react-datepicker") {
			return true
		}
		current = current.Parent()
	}
	return false
}

// fillRadioGroup заполняет fieldset с опциями в div[class^='_option'].
// Группа с чекбоксами — мультиселект.
func (a *Ashby) fillRadioGroup(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	if err := q.Element.ScrollIntoView(); err != nil {
		a.logger.Warn("не удалось прокрутить к группе", zap.Error(err))
	}

	optionDivs := q.Element.QueryAll("xpath=.//div[starts-with(@class, '_option')]")
	if len(optionDivs) == 0 {
		return false, fmt.Errorf("в группе %q нет опций", q.Question)
	}

	var labels []browser.Element
	var texts []string
	multiselect := false
	for i, div := range optionDivs {
		label := div.Query("label")
		if label == nil {
			continue
		}
		if i == 0 {
			if input := div.Query("input"); input != nil {
				multiselect = input.GetAttribute("type") == "checkbox"
			}
		}
		labels = append(labels, label)
		texts = append(texts, label.Text())
	}
	if len(labels) == 0 {
		return false, fmt.Errorf("в группе %q нет размеченных опций", q.Question)
	}

	indices := e.ResolveChoice(ctx, q, texts, multiselect)
	if len(indices) == 0 {
		return false, nil
	}

	for _, idx := range indices {
		if err := labels[idx].Click(); err != nil {
			return false, fmt.Errorf("ошибка клика по опции %d: %w", idx, err)
		}
	}
	return true, nil
}

// fillYesNo кликает одну из кнопок контейнера yes/no.
func (a *Ashby) fillYesNo(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	if err := q.Element.ScrollIntoView(); err != nil {
		a.logger.Warn("не удалось прокрутить к контейнеру", zap.Error(err))
	}

	buttons := q.Element.QueryAll("button")
	if len(buttons) < 2 {
		return false, fmt.Errorf("в yes/no контейнере %q меньше двух кнопок", q.Question)
	}

	texts := make([]string, 0, len(buttons))
	for _, button := range buttons {
		texts = append(texts, button.Text())
	}

	indices := e.ResolveChoice(ctx, q, texts, false)
	if len(indices) == 0 {
		return false, nil
	}

	if err := buttons[indices[0]].Click(); err != nil {
		return false, fmt.Errorf("ошибка клика по кнопке: %w", err)
	}
	return true, nil
}

// fillConsentRadio выбирает вариант согласия на SMS-уведомления.
func (a *Ashby) fillConsentRadio(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	if err := q.Element.ScrollIntoView(); err != nil {
		a.logger.Warn("не удалось прокрутить к радио согласия", zap.Error(err))
	}

	labels := q.Element.QueryAll("label")
	if len(labels) == 0 {
		return false, fmt.Errorf("в радио согласия нет опций")
	}

	texts := make([]string, 0, len(labels))
	for _, label := range labels {
		texts = append(texts, label.Text())
	}

	indices := e.ResolveChoice(ctx, q, texts, false)
	if len(indices) == 0 {
		return false, nil
	}

	if err := labels[indices[0]].Click(); err != nil {
		return false, fmt.Errorf("ошибка клика по опции согласия: %w", err)
	}
	return true, nil
}

// fillDropdown вводит значение в typeahead-дропдаун и кликает первую
// появившуюся опцию. Без детерминированного значения вопрос уходит в AI;
// вопросы про локацию переформулируются в явный запрос текущей локации.
func (a *Ashby) fillDropdown(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	value := strings.TrimSpace(q.Answer.String())
	if value == "" {
		question := q.Question
		if strings.Contains(strings.ToLower(question), "location") {
			question = "What is your current location?"
		}
		answer, open := e.AskAI(ctx, question, form.TypeInput, q.Required)
		if answer.IsNone() {
			return false, nil
		}
		value = answer.String()
		q.Answer = answer
		q.AICustom = open
		q.Pruned = true
	}

	el := q.Element
	if err := el.Click(); err != nil {
		return false, fmt.Errorf("не удалось открыть дропдаун: %w", err)
	}
	if err := el.Clear(); err != nil {
		return false, fmt.Errorf("ошибка очистки дропдауна: %w", err)
	}
	if err := el.SendKeys(value); err != nil {
		return false, fmt.Errorf("ошибка ввода в дропдаун: %w", err)
	}

	listboxID := el.GetAttribute("aria-controls")
	if listboxID == "" {
		return false, fmt.Errorf("у дропдауна не появился aria-controls")
	}

	option := e.Page().Query("#" + listboxID + " div[role='option']")
	if option == nil {
		return false, fmt.Errorf("опции дропдауна не появились")
	}
	if err := option.Click(); err != nil {
		return false, fmt.Errorf("ошибка клика по опции: %w", err)
	}
	return true, nil
}

// fillDatepicker вводит дату в формате MM/DD/YYYY; значение другого
// формата переспрашивается у AI как вопрос с типом даты.
func (a *Ashby) fillDatepicker(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	value := strings.TrimSpace(q.Answer.String())
	if value == "" {
		return false, nil
	}

	if err := q.Element.ScrollIntoView(); err != nil {
		a.logger.Warn("не удалось прокрутить к полю даты", zap.Error(err))
	}

	if !mmddyyyyRe.MatchString(value) {
		answer, _ := e.AskAI(ctx, q.Question, form.TypeDate, q.Required)
		if answer.IsNone() {
			return false, nil
		}
		value = answer.String()
		q.Answer = answer
	}

	if err := q.Element.Clear(); err != nil {
		return false, fmt.Errorf("ошибка очистки поля даты: %w", err)
	}
	if err := q.Element.SendKeys(value); err != nil {
		return false, fmt.Errorf("ошибка ввода даты: %w", err)
	}
	// Tab подтверждает дату и закрывает календарь
	if err := q.Element.Press("Tab"); err != nil {
		return false, fmt.Errorf("ошибка подтверждения даты: %w", err)
	}
	return true, nil
}
