package portal

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

// Greenhouse — адаптер портала Greenhouse. Новый портал
// (job-boards.greenhouse.io) использует React-select и кнопку Apply,
// старый — select2-подобные дропдауны и чекбокс-группы в div.field.
type Greenhouse struct {
	isNew  bool
	logger *zap.Logger
}

func NewGreenhouse(pageURL string, logger *zap.Logger) *Greenhouse {
	return &Greenhouse{
		isNew:  strings.Contains(pageURL, "job-boards.greenhouse.io"),
		logger: logger,
	}
}

func (g *Greenhouse) Name() string { return "greenhouse" }

// Prepare кликает кнопку Apply на новом портале и добавляет нужное число
// записей в секцию образования до обхода полей.
func (g *Greenhouse) Prepare(ctx context.Context, e *Engine) {
	if g.isNew {
		if button := e.Page().Query("button:has-text('Apply')"); button != nil {
			if err := button.Click(); err != nil {
				g.logger.Warn("не удалось кликнуть кнопку Apply", zap.Error(err))
			}
		}
	}

	g.prepareEducation(e)
}

// prepareEducation докликивает "добавить образование" по числу записей
// в профиле: первая запись уже есть на странице.
func (g *Greenhouse) prepareEducation(e *Engine) {
	entries := len(e.Profile().Education)
	if entries < 2 {
		return
	}

	var addButton browser.Element
	if g.isNew {
		if section := e.Page().Query(".education--container"); section != nil {
			addButton = section.Query(".add-another-button")
		}
	} else {
		if e.Page().Query("#education_section") != nil {
			addButton = e.Page().Query("#add_education")
		}
	}
	if addButton == nil {
		return
	}

	for i := 1; i < entries; i++ {
		if !addButton.IsDisplayed() {
			break
		}
		if err := addButton.Click(); err != nil {
			g.logger.Warn("не удалось добавить запись образования", zap.Error(err))
			break
		}
	}
}

func (g *Greenhouse) DiscoverFields(page browser.Page) []browser.Element {
	return page.QueryAll("input:not([type='radio']):not([type='checkbox']), textarea, select, div.field:has(input[type='checkbox'])")
}

// LabelFor у Greenhouse идёт по лестнице: label[for=id], подпись
// file-контрола, label внутри div.field, label[for=name], aria-label,
// label-предок, общий скан контекста.
func (g *Greenhouse) LabelFor(e *Engine, el browser.Element) (string, bool) {
	fieldType := el.GetAttribute("type")
	fieldID := el.GetAttribute("id")

	if fieldType == "file" {
		if fieldID != "" {
			if label := e.Page().Query("#upload-label-" + fieldID); label != nil {
				text := label.Text()
				return text, IsRequiredLabel(text)
			}
		}
		if parent := el.Query("xpath=./ancestor::div[@data-presigned-form]"); parent != nil {
			text := parent.GetAttribute("data-presigned-form")
			return text, IsRequiredLabel(text)
		}
	}

	if label := e.LabelByFor(el); label != "" {
		return label, IsRequiredLabel(label)
	}

	if el.TagName() == "div" && strings.Contains(el.GetAttribute("class"), "field") {
		if label := el.Query("label"); label != nil {
			text := firstLine(label.Text())
			return text, IsRequiredLabel(text)
		}
	}

	if name := el.GetAttribute("name"); name != "" {
		if label := e.Page().Query("label[for='" + name + "']"); label != nil {
			text := label.Text()
			return text, IsRequiredLabel(text)
		}
	}

	if aria := el.GetAttribute("aria-label"); aria != "" {
		return aria, IsRequiredLabel(aria)
	}

	if ancestor := el.Query("xpath=./ancestor::label"); ancestor != nil {
		text := firstLine(ancestor.Text())
		return text, IsRequiredLabel(text)
	}

	fallback := e.AnalyzeContext(el)
	return fallback, IsRequiredLabel(fallback)
}

func (g *Greenhouse) FieldType(el browser.Element) form.QuestionType {
	if g.isCheckboxGroup(el) {
		return form.TypeMultiselect
	}
	if g.isReactSelect(el) || g.isSelect2(el) {
		return form.TypeSelect
	}
	return form.ParseQuestionType(el.GetAttribute("type"), el.TagName())
}

func (g *Greenhouse) IsChoiceControl(el browser.Element, _ string) bool {
	return g.isReactSelect(el) || g.isSelect2(el) || g.isCheckboxGroup(el)
}

func (g *Greenhouse) FillChoiceControl(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	switch {
	case g.isReactSelect(q.Element):
		return g.fillReactSelect(ctx, e, q)
	case g.isSelect2(q.Element):
		return g.fillSelect2(ctx, e, q)
	case g.isCheckboxGroup(q.Element):
		return g.fillCheckboxGroup(ctx, e, q)
	}
	return false, nil
}

func (g *Greenhouse) isReactSelect(el browser.Element) bool {
	if !g.isNew {
		return false
	}
	return el.Query("xpath=./ancestor::div[contains(@class, 'select__control')]") != nil
}

func (g *Greenhouse) isSelect2(el browser.Element) bool {
	if g.isNew || el.TagName() != "input" {
		return false
	}
	if el.GetAttribute("role") == "combobox" && el.GetAttribute("aria-controls") != "" {
		return true
	}
	return strings.Contains(strings.ToLower(el.GetAttribute("class")), "select2")
}

func (g *Greenhouse) isCheckboxGroup(el browser.Element) bool {
	if g.isNew || el.TagName() != "div" {
		return false
	}
	return strings.Contains(el.GetAttribute("class"), "field") &&
		el.Query("input[type='checkbox']") != nil
}

// fillReactSelect открывает выпадающий список React-select, при большом
// числе опций сужает его вводом значения, затем кликает совпавшую опцию.
func (g *Greenhouse) fillReactSelect(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	el := q.Element
	control := el.Query("xpath=./ancestor::div[contains(@class, 'select__control')]")
	if control == nil {
		return false, fmt.Errorf("контейнер select__control не найден")
	}

	multiselect := false
	if container := el.Query("xpath=./ancestor::div[contains(@class, 'select__value-container')]"); container != nil {
		multiselect = strings.Contains(container.GetAttribute("class"), "is-multi")
	}

	// Autocomplete-вариант распознаётся по пустому блоку индикаторов
	autocomplete := control.Query(".select__indicators *") == nil

	toggle := control.Query("button[aria-label='Toggle flyout']")
	opener := toggle
	if opener == nil {
		opener = el
	}
	if err := opener.Click(); err != nil {
		return false, fmt.Errorf("не удалось открыть выпадающий список: %w", err)
	}

	value := strings.TrimSpace(q.Answer.String())
	if autocomplete && value != "" {
		q.Pruned = true
		prefix := value
		if len(prefix) > 7 {
			prefix = prefix[:7]
		}
		if err := el.SendKeys(prefix); err != nil {
			return false, fmt.Errorf("ошибка ввода в autocomplete: %w", err)
		}
	}

	fieldID := el.GetAttribute("id")
	if fieldID == "" {
		return false, fmt.Errorf("у react-select нет id, listbox не найти")
	}
	listboxSelector := "#react-select-" + fieldID + "-listbox div[role='option']"

	optionEls := e.Page().QueryAll(listboxSelector)
	if len(optionEls) == 0 {
		// Клик мимо и повторное открытие: список иногда не успевает
		e.Page().RemoveFocus()
		if err := opener.Click(); err == nil {
			optionEls = e.Page().QueryAll(listboxSelector)
		}
	}
	if len(optionEls) == 0 {
		return false, fmt.Errorf("опции react-select не появились")
	}

	// Длинный список сужаем вводом целевого значения
	if len(optionEls) >= pruneThreshold && value != "" && !autocomplete {
		q.Pruned = true
		if err := el.SendKeys(value); err == nil {
			if narrowed := e.Page().QueryAll(listboxSelector); len(narrowed) > 0 {
				optionEls = narrowed
			} else if el.Clear() == nil {
				optionEls = e.Page().QueryAll(listboxSelector)
			}
		}
	}

	texts := make([]string, 0, len(optionEls))
	for _, opt := range optionEls {
		texts = append(texts, opt.Text())
	}

	indices := e.ResolveChoice(ctx, q, texts, multiselect)
	if len(indices) == 0 {
		// Совпадения нет: Enter принимает введённый текст
		if err := el.Press("Enter"); err != nil {
			return false, fmt.Errorf("ошибка подтверждения ввода: %w", err)
		}
		return true, nil
	}

	for i, idx := range indices {
		if i > 0 && toggle != nil {
			if err := toggle.Click(); err != nil {
				return false, fmt.Errorf("не удалось переоткрыть список: %w", err)
			}
		}
		if err := optionEls[idx].Click(); err != nil {
			return false, fmt.Errorf("ошибка клика по опции %d: %w", idx, err)
		}
	}
	return true, nil
}

// fillSelect2 работает со старыми дропдаунами: клик по контейнеру,
// поиск через input с суффиксом _search, выбор из listbox по aria-controls.
func (g *Greenhouse) fillSelect2(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	el := q.Element
	fieldID := el.GetAttribute("id")
	if fieldID == "" {
		return false, fmt.Errorf("у select2-поля нет id")
	}

	isSelect2Class := strings.Contains(strings.ToLower(el.GetAttribute("class")), "select2")

	searchInput := el
	if isSelect2Class {
		parent := el.Parent()
		if parent == nil {
			return false, fmt.Errorf("родитель select2-поля не найден")
		}
		if err := parent.Click(); err != nil {
			return false, fmt.Errorf("не удалось открыть select2: %w", err)
		}
		searchInput = e.Page().Query("#" + fieldID + "_search")
		if searchInput == nil {
			return false, fmt.Errorf("поисковый ввод select2 не найден")
		}
	} else {
		if err := el.Click(); err != nil {
			return false, fmt.Errorf("не удалось открыть дропдаун: %w", err)
		}
	}

	ariaControls := searchInput.GetAttribute("aria-controls")
	if ariaControls == "" {
		return false, fmt.Errorf("у дропдауна нет aria-controls")
	}

	value := strings.TrimSpace(q.Answer.String())
	if !isSelect2Class && value != "" {
		q.Pruned = true
		if err := searchInput.SendKeys(value); err != nil {
			return false, fmt.Errorf("ошибка ввода в поиск: %w", err)
		}
	}

	optionSelector := "#" + ariaControls + " li"
	optionEls := e.Page().QueryAll(optionSelector)
	if len(optionEls) == 0 {
		e.Page().RemoveFocus()
		if el.Parent() != nil && el.Parent().Click() == nil {
			optionEls = e.Page().QueryAll(optionSelector)
		}
	}

	if len(optionEls) >= pruneThreshold && value != "" {
		q.Pruned = true
		if err := searchInput.SendKeys(value); err == nil {
			if narrowed := e.Page().QueryAll(optionSelector); len(narrowed) > 0 {
				optionEls = narrowed
			} else if searchInput.Clear() == nil {
				optionEls = e.Page().QueryAll(optionSelector)
			}
		}
	}

	if len(optionEls) > 0 {
		texts := make([]string, 0, len(optionEls))
		for _, opt := range optionEls {
			texts = append(texts, opt.Text())
		}
		if indices := e.ResolveChoice(ctx, q, texts, false); len(indices) > 0 {
			if err := optionEls[indices[0]].Click(); err != nil {
				return false, fmt.Errorf("ошибка клика по опции: %w", err)
			}
			return true, nil
		}
	}

	// Совпадения нет: вводим значение напрямую и подтверждаем Enter
	if isSelect2Class && value != "" {
		if err := searchInput.SendKeys(value); err != nil {
			return false, fmt.Errorf("ошибка прямого ввода: %w", err)
		}
	}
	if err := searchInput.Press("Enter"); err != nil {
		return false, fmt.Errorf("ошибка подтверждения ввода: %w", err)
	}
	return true, nil
}

// fillCheckboxGroup обрабатывает чекбокс-группы старого портала:
// label с чекбоксами внутри div.field, мультиселект по текстам.
func (g *Greenhouse) fillCheckboxGroup(ctx context.Context, e *Engine, q *form.FormQuestion) (bool, error) {
	groupLabel := q.Element.Query("label")
	if groupLabel == nil {
		return false, fmt.Errorf("label группы чекбоксов не найден")
	}

	checkboxes := groupLabel.QueryAll("label:has(input[type='checkbox'])")
	if len(checkboxes) == 0 {
		return false, fmt.Errorf("в группе %q нет чекбоксов", q.Question)
	}

	texts := make([]string, 0, len(checkboxes))
	for _, box := range checkboxes {
		texts = append(texts, box.Text())
	}

	indices := e.ResolveChoice(ctx, q, texts, true)
	if len(indices) == 0 {
		return false, nil
	}

	for _, idx := range indices {
		if err := checkboxes[idx].Click(); err != nil {
			return false, fmt.Errorf("ошибка клика по чекбоксу %d: %w", idx, err)
		}
	}
	return true, nil
}
