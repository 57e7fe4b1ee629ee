package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

// Lever — адаптер портала Lever. Особенности: группы опций в виде
// ul[data-qa], typeahead-поле локации и секция подписи о инвалидности.
type Lever struct {
	logger *zap.Logger
}

func NewLever(logger *zap.Logger) *Lever {
	return &Lever{logger: logger}
}

func (l *Lever) Name() string { return "lever" }

// DiscoverFields возвращает контролы в DOM-порядке, но поля локации
// переносит в конец: их typeahead конфликтует с автозаполнением после
// загрузки резюме.
func (l *Lever) DiscoverFields(page browser.Page) []browser.Element {
	fields := page.QueryAll("input:not([type='radio']):not([type='checkbox']), textarea, select, ul[data-qa]")

	var ordered, deferred []browser.Element
	for _, el := range fields {
		if l.isLocationField(el) {
			deferred = append(deferred, el)
			continue
		}
		ordered = append(ordered, el)
	}
	return append(ordered, deferred...)
}

// LabelFor ищет метку в контейнере вопроса .application-question,
// затем по label[for], затем общим сканом контекста.
func (l *Lever) LabelFor(e *Engine, el browser.Element) (string, bool) {
	parent := el
	for i := 0; i < 5 && parent != nil; i++ {
		if strings.Contains(parent.GetAttribute("class"), "application-question") {
			if label := parent.Query(".application-label"); label != nil {
				required := label.Query(".required") != nil
				return label.Text(), required
			}
			break
		}
		parent = parent.Parent()
	}

	if label := e.LabelByFor(el); label != "" {
		return label, IsRequiredLabel(label)
	}

	fallback := e.AnalyzeContext(el)
	return fallback, IsRequiredLabel(fallback)
}

func (l *Lever) FieldType(el browser.Element) form.QuestionType {
	if l.isGroup(el) {
		if strings.Contains(strings.ToLower(el.GetAttribute("data-qa")), "checkboxes") {
			return form.TypeMultiselect
		}
		return form.TypeSelect
	}
	return form.ParseQuestionType(el.GetAttribute("type"), el.TagName())
}

func (l *Lever) IsChoiceControl(el browser.Element, label string) bool {
	return l.isGroup(el) || l.isLocationField(el) ||
		(strings.Contains(strings.ToLower(label), "current") &&
			strings.Contains(strings.ToLower(label), "location"))
}

func (l *Lever) FillChoiceControl(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	if l.isGroup(q.Element) {
		return l.fillGroup(ctx, e, q)
	}
	return l.fillLocation(ctx, e, q)
}

// AfterField после ответа на вопрос о инвалидности заполняет секцию
// подписи: имя и текущую дату в MM/DD/YYYY.
func (l *Lever) AfterField(ctx context.Context, e *Engine, q *form.FormQuestion) {
	if !strings.Contains(strings.ToLower(q.Question), "disability") {
		return
	}

	section := e.Page().Query("#disabilitySignatureSection")
	if section == nil || !section.IsDisplayed() {
		return
	}

	l.logger.Info("заполняем секцию подписи о инвалидности")

	if name := section.Query("input[name='eeo[disabilitySignature]']"); name != nil {
		if err := name.SendKeys(e.Profile().FullName); err != nil {
			l.logger.Warn("не удалось заполнить имя в подписи", zap.Error(err))
			return
		}
	}
	if date := section.Query("input[name='eeo[disabilitySignatureDate]']"); date != nil {
		if err := date.SendKeys(time.Now().Format("01/02/2006")); err != nil {
			l.logger.Warn("не удалось заполнить дату в подписи", zap.Error(err))
		}
	}
}

func (l *Lever) isGroup(el browser.Element) bool {
	return el.TagName() == "ul" && el.GetAttribute("data-qa") != ""
}

func (l *Lever) isLocationField(el browser.Element) bool {
	switch el.GetAttribute("name") {
	case "location", "currentLocation", "current_location":
		return true
	}
	switch el.GetAttribute("id") {
	case "location", "currentLocation", "current_location":
		return true
	}
	return false
}

// fillGroup заполняет группу опций ul[data-qa]: собирает тексты из
// span.application-answer-alternative и кликает совпавшие пункты.
func (l *Lever) fillGroup(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	if err := q.Element.ScrollIntoView(); err != nil {
		l.logger.Warn("не удалось прокрутить к группе", zap.Error(err))
	}

	optionLabels := q.Element.QueryAll("li label")
	if len(optionLabels) == 0 {
		return false, fmt.Errorf("в группе %q нет опций", q.Question)
	}

	texts := make([]string, 0, len(optionLabels))
	for _, label := range optionLabels {
		text := ""
		if alt := label.Query("span.application-answer-alternative"); alt != nil {
			text = alt.Text()
		}
		texts = append(texts, text)
	}

	multiselect := q.Type == form.TypeMultiselect
	indices := e.ResolveChoice(ctx, q, texts, multiselect)
	if len(indices) == 0 {
		return false, nil
	}

	for _, idx := range indices {
		if err := optionLabels[idx].Click(); err != nil {
			return false, fmt.Errorf("ошибка клика по опции %d: %w", idx, err)
		}
	}
	return true, nil
}

// fillLocation вводит значение в typeahead-поле локации и кликает первый
// пункт выпадающего списка. Если список не появился, введённый текст
// остаётся как есть.
func (l *Lever) fillLocation(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	value := strings.TrimSpace(q.Answer.String())
	if value == "" {
		answer, _ := e.AskAI(ctx, "What is your current location?", form.TypeInput, q.Required)
		if answer.IsNone() {
			return false, nil
		}
		value = answer.String()
		q.Answer = answer
	}

	if err := q.Element.ScrollIntoView(); err != nil {
		l.logger.Warn("не удалось прокрутить к полю локации", zap.Error(err))
	}
	if err := q.Element.SendKeys(value); err != nil {
		return false, fmt.Errorf("ошибка ввода локации: %w", err)
	}

	// Пауза на появление автодополнения
	time.Sleep(2 * time.Second)

	selectors := []string{
		".dropdown-results .dropdown-location",
		".dropdown-location",
		".dropdown-results div",
		"[id^='location-']",
	}
	for _, selector := range selectors {
		option := e.Page().Query(selector)
		if option == nil {
			continue
		}
		if err := option.ScrollIntoView(); err == nil {
			if err := option.Click(); err == nil {
				return true, nil
			}
		}
	}

	l.logger.Info("автодополнение локации не появилось, оставляем введённый текст",
		zap.String("value", e.Sanitize(value)))
	return true, nil
}
