package portal

import (
	"strings"

	"applyAgent/internal/browser"
)

// AnalyzeContext собирает текстовый контекст поля из атрибутов и
// окружающего DOM: name/id/placeholder/aria-label, связанный label,
// label-предок и предыдущий сосед. Общий fallback для всех порталов,
// когда специфичная для сайта разметка не дала метку.
func (e *Engine) AnalyzeContext(el browser.Element) string {
	var clues []string

	fieldID := el.GetAttribute("id")
	clues = append(clues,
		el.GetAttribute("name"),
		fieldID,
		el.GetAttribute("placeholder"),
		el.GetAttribute("aria-label"),
	)

	if fieldID != "" {
		if label := e.page.Query("label[for='" + fieldID + "']"); label != nil {
			clues = append(clues, label.Text())
		}
	}

	if ancestor := el.Query("xpath=./ancestor::label"); ancestor != nil {
		clues = append(clues, ancestor.Text())
	}

	if sibling := el.Query("xpath=./preceding-sibling::*[1]"); sibling != nil {
		clues = append(clues, sibling.Text())
	}

	var parts []string
	for _, clue := range clues {
		clue = strings.TrimSpace(clue)
		if clue != "" {
			parts = append(parts, clue)
		}
	}

	return strings.ToLower(strings.Join(parts, " "))
}

// LabelByFor ищет метку по атрибуту for, связывающему её с контролом.
func (e *Engine) LabelByFor(el browser.Element) string {
	fieldID := el.GetAttribute("id")
	if fieldID == "" {
		return ""
	}

	label := e.page.Query("label[for='" + fieldID + "']")
	if label == nil {
		return ""
	}
	return strings.TrimSpace(label.Text())
}

// IsRequiredLabel определяет обязательность поля по маркеру в метке.
func IsRequiredLabel(label string) bool {
	return strings.Contains(label, "*")
}

// firstLine возвращает первую непустую строку многострочного текста метки.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
