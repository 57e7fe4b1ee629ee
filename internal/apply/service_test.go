package apply

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"applyAgent/internal/ai"
	"applyAgent/internal/browser"
	"applyAgent/internal/form"
	"applyAgent/internal/portal"
	"applyAgent/internal/profile"
)

const leverFieldsSelector = "input:not([type='radio']):not([type='checkbox']), textarea, select, ul[data-qa]"

// elemStub — контрол страницы для тестов сервиса.
type elemStub struct {
	tag   string
	attrs map[string]string

	displayed bool
	enabled   bool

	typed   []string
	clicks  int
	cleared bool
}

func newElemStub(tag string, attrs map[string]string) *elemStub {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &elemStub{tag: tag, attrs: attrs, displayed: true, enabled: true}
}

func (e *elemStub) IsDisplayed() bool               { return e.displayed }
func (e *elemStub) IsEnabled() bool                 { return e.enabled }
func (e *elemStub) IsChecked() bool                 { return false }
func (e *elemStub) GetAttribute(name string) string { return e.attrs[name] }
func (e *elemStub) TagName() string                 { return e.tag }
func (e *elemStub) Text() string                    { return "" }
func (e *elemStub) Click() error                    { e.clicks++; return nil }
func (e *elemStub) SendKeys(text string) error      { e.typed = append(e.typed, text); return nil }
func (e *elemStub) Clear() error                    { e.cleared = true; return nil }
func (e *elemStub) Press(string) error              { return nil }
func (e *elemStub) ScrollIntoView() error           { return nil }
func (e *elemStub) SetFiles(string) error           { return nil }
func (e *elemStub) SelectByIndex(int) error         { return nil }
func (e *elemStub) OptionTexts() []string           { return nil }
func (e *elemStub) Parent() browser.Element         { return nil }
func (e *elemStub) Query(string) browser.Element    { return nil }
func (e *elemStub) QueryAll(string) []browser.Element {
	return nil
}

// pageStub — страница с резолвингом селекторов по картам.
type pageStub struct {
	navigated []string
	waitErr   error
	all       map[string][]browser.Element
}

func newPageStub() *pageStub {
	return &pageStub{all: map[string][]browser.Element{}}
}

func (p *pageStub) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *pageStub) CurrentURL() string {
	if len(p.navigated) == 0 {
		return ""
	}
	return p.navigated[len(p.navigated)-1]
}

func (p *pageStub) WaitForSelector(context.Context, string) error  { return p.waitErr }
func (p *pageStub) WaitForLoadState(context.Context, string) error { return nil }
func (p *pageStub) Query(string) browser.Element                   { return nil }
func (p *pageStub) QueryAll(selector string) []browser.Element     { return p.all[selector] }
func (p *pageStub) RemoveFocus()                                   {}
func (p *pageStub) AcceptCookieConsent(context.Context)            {}

type noopResolver struct{}

func (noopResolver) AnswerQuestion(context.Context, ai.QuestionRequest) (form.Answer, bool, error) {
	return form.NoAnswer(), false, nil
}

func newTestService() *Service {
	s := NewService(nil, ai.Providers{}, zap.NewNop())
	s.newResolver = func(*profile.Profile, string) portal.Resolver {
		return noopResolver{}
	}
	return s
}

func TestApplicationURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		portal string
		want   string
	}{
		{
			name:   "lever добавляет /apply и режет query",
			url:    "https://jobs.lever.co/acme/123?lever-source=LinkedIn",
			portal: "lever",
			want:   "https://jobs.lever.co/acme/123/apply",
		},
		{
			name:   "lever не дублирует /apply",
			url:    "https://jobs.lever.co/acme/123/apply",
			portal: "lever",
			want:   "https://jobs.lever.co/acme/123/apply",
		},
		{
			name:   "greenhouse добавляет #app",
			url:    "https://boards.greenhouse.io/acme/jobs/1?gh_src=x",
			portal: "greenhouse",
			want:   "https://boards.greenhouse.io/acme/jobs/1#app",
		},
		{
			name:   "greenhouse не дублирует #app",
			url:    "https://boards.greenhouse.io/acme/jobs/1#app",
			portal: "greenhouse",
			want:   "https://boards.greenhouse.io/acme/jobs/1#app",
		},
		{
			name:   "ashby добавляет /application",
			url:    "https://jobs.ashbyhq.com/acme/1/",
			portal: "ashby",
			want:   "https://jobs.ashbyhq.com/acme/1/application",
		},
		{
			name:   "workable всегда добавляет /apply",
			url:    "https://apply.workable.com/acme/j/1",
			portal: "workable",
			want:   "https://apply.workable.com/acme/j/1/apply",
		},
		{
			name:   "jobvite добавляет /apply",
			url:    "https://jobs.jobvite.com/acme/job/1",
			portal: "jobvite",
			want:   "https://jobs.jobvite.com/acme/job/1/apply",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applicationURL(tt.url, tt.portal))
		})
	}
}

func TestApplyFillsFormAndSubmits(t *testing.T) {
	email := newElemStub("input", map[string]string{"name": "email"})
	submitBtn := newElemStub("button", map[string]string{"type": "submit"})

	page := newPageStub()
	page.all[leverFieldsSelector] = []browser.Element{email}
	page.all["xpath=//button[@type='submit']"] = []browser.Element{submitBtn}

	s := newTestService()
	result, err := s.applyOnPage(context.Background(), page, Request{
		JobURL:  "https://jobs.lever.co/acme/123?src=li",
		Profile: map[string]any{"email": "ivan@example.com"},
		Submit:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, "lever", result.Portal)
	assert.Equal(t, "https://jobs.lever.co/acme/123/apply", result.URL)
	assert.Equal(t, []string{"https://jobs.lever.co/acme/123/apply"}, page.navigated)
	assert.True(t, result.Submitted)
	assert.Equal(t, 1, submitBtn.clicks)

	require.Len(t, result.Questions, 1)
	assert.Equal(t, []string{"ivan@example.com"}, email.typed)
}

func TestApplyWithoutSubmitLeavesFormUnsent(t *testing.T) {
	email := newElemStub("input", map[string]string{"name": "email"})
	submitBtn := newElemStub("button", map[string]string{"type": "submit"})

	page := newPageStub()
	page.all[leverFieldsSelector] = []browser.Element{email}
	page.all["xpath=//button[@type='submit']"] = []browser.Element{submitBtn}

	s := newTestService()
	result, err := s.applyOnPage(context.Background(), page, Request{
		JobURL:  "https://jobs.lever.co/acme/123",
		Profile: map[string]any{"email": "ivan@example.com"},
	})

	require.NoError(t, err)
	assert.False(t, result.Submitted)
	assert.Equal(t, 0, submitBtn.clicks)
}

func TestApplyUnknownPortal(t *testing.T) {
	s := newTestService()
	_, err := s.applyOnPage(context.Background(), newPageStub(), Request{
		JobURL: "https://careers.example.com/jobs/1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "не поддерживается")
}

func TestApplyFailsWhenFormNeverLoads(t *testing.T) {
	page := newPageStub()
	page.waitErr = errors.New("timeout")

	s := newTestService()
	_, err := s.applyOnPage(context.Background(), page, Request{
		JobURL: "https://jobs.lever.co/acme/123",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "не загрузилась")
}

func TestApplyFailsWithoutQuestions(t *testing.T) {
	s := newTestService()
	_, err := s.applyOnPage(context.Background(), newPageStub(), Request{
		JobURL: "https://jobs.lever.co/acme/123",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найдено вопросов")
}

func TestApplyMissingSubmitButtonReturnsQuestions(t *testing.T) {
	email := newElemStub("input", map[string]string{"name": "email"})

	page := newPageStub()
	page.all[leverFieldsSelector] = []browser.Element{email}

	s := newTestService()
	result, err := s.applyOnPage(context.Background(), page, Request{
		JobURL:  "https://jobs.lever.co/acme/123",
		Profile: map[string]any{"email": "ivan@example.com"},
		Submit:  true,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "кнопка отправки")
	require.NotNil(t, result)
	assert.Len(t, result.Questions, 1)
}

func TestSubmitSkipsHiddenCandidates(t *testing.T) {
	hidden := newElemStub("button", map[string]string{"type": "submit"})
	hidden.displayed = false
	visible := newElemStub("button", map[string]string{"type": "submit"})

	page := newPageStub()
	page.all["xpath=//button[@type='submit']"] = []browser.Element{hidden, visible}

	s := newTestService()
	require.NoError(t, s.submit(page))

	assert.Equal(t, 0, hidden.clicks)
	assert.Equal(t, 1, visible.clicks)
}
