package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Element — capability-интерфейс над контролом формы.
// Движок заполнения работает только через него и никогда не переживает страницу.
type Element interface {
	IsDisplayed() bool
	IsEnabled() bool
	IsChecked() bool
	GetAttribute(name string) string
	TagName() string
	Text() string
	Click() error
	SendKeys(text string) error
	Clear() error
	Press(key string) error
	ScrollIntoView() error
	SetFiles(path string) error
	SelectByIndex(i int) error
	OptionTexts() []string
	Parent() Element
	Query(selector string) Element
	QueryAll(selector string) []Element
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

// WrapElement оборачивает playwright handle в capability-интерфейс.
func WrapElement(handle playwright.ElementHandle) Element {
	if handle == nil {
		return nil
	}
	return &playwrightElement{handle: handle}
}

func (e *playwrightElement) IsDisplayed() bool {
	visible, err := e.handle.IsVisible()
	return err == nil && visible
}

func (e *playwrightElement) IsEnabled() bool {
	enabled, err := e.handle.IsEnabled()
	return err == nil && enabled
}

func (e *playwrightElement) IsChecked() bool {
	checked, err := e.handle.IsChecked()
	return err == nil && checked
}

func (e *playwrightElement) GetAttribute(name string) string {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return ""
	}
	return value
}

func (e *playwrightElement) TagName() string {
	result, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%v", result)
}

func (e *playwrightElement) Text() string {
	text, err := e.handle.TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *playwrightElement) Click() error {
	return e.handle.Click()
}

func (e *playwrightElement) SendKeys(text string) error {
	return e.handle.Type(text)
}

func (e *playwrightElement) Clear() error {
	return e.handle.Fill("")
}

func (e *playwrightElement) Press(key string) error {
	return e.handle.Press(key)
}

func (e *playwrightElement) ScrollIntoView() error {
	err := e.handle.ScrollIntoViewIfNeeded(playwright.ElementHandleScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(5000),
	})
	if err == nil {
		return nil
	}

	// Fallback на scrollIntoView, если встроенный метод не сработал
	_, err = e.handle.Evaluate(`el => {
		el.scrollIntoView({ behavior: 'instant', block: 'center' });
	}`)
	if err != nil {
		return fmt.Errorf("ошибка прокрутки к элементу: %w", err)
	}
	return nil
}

func (e *playwrightElement) SetFiles(path string) error {
	return e.handle.SetInputFiles(path)
}

func (e *playwrightElement) SelectByIndex(i int) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{Indexes: &[]int{i}})
	return err
}

// OptionTexts возвращает тексты опций нативного <select> в порядке DOM.
func (e *playwrightElement) OptionTexts() []string {
	result, err := e.handle.Evaluate(`el => Array.from(el.options || []).map(o => o.textContent.trim())`)
	if err != nil {
		return nil
	}

	raw, ok := result.([]any)
	if !ok {
		return nil
	}

	texts := make([]string, 0, len(raw))
	for _, item := range raw {
		texts = append(texts, fmt.Sprintf("%v", item))
	}
	return texts
}

func (e *playwrightElement) Parent() Element {
	parent, err := e.handle.QuerySelector("xpath=..")
	if err != nil || parent == nil {
		return nil
	}
	return WrapElement(parent)
}

func (e *playwrightElement) Query(selector string) Element {
	child, err := e.handle.QuerySelector(selector)
	if err != nil || child == nil {
		return nil
	}
	return WrapElement(child)
}

func (e *playwrightElement) QueryAll(selector string) []Element {
	children, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil
	}

	elements := make([]Element, 0, len(children))
	for _, child := range children {
		elements = append(elements, WrapElement(child))
	}
	return elements
}
