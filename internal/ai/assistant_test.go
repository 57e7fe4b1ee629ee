package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"applyAgent/internal/form"
	"applyAgent/internal/profile"
)

// stubProvider отдаёт ответы по очереди и записывает запросы.
type stubProvider struct {
	name      string
	responses []string
	err       error
	calls     []Request
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, req Request) (string, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("нет заготовленных ответов")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func testAssistant(t *testing.T, stub *stubProvider, raw map[string]any) *Assistant {
	t.Helper()
	p, err := profile.FromMap(raw)
	require.NoError(t, err)
	a := NewAssistant(Providers{Default: stub}, p, "", zap.NewNop())
	a.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }
	return a
}

func TestSelectProvider(t *testing.T) {
	premium := &stubProvider{name: "openai"}
	fallback := &stubProvider{name: "gemini"}
	both := Providers{Premium: premium, Default: fallback}

	assert.Equal(t, premium, SelectProvider(both, CallContext{IsCoverLetter: true}))
	assert.Equal(t, premium, SelectProvider(both, CallContext{IsPro: true, IsOpenEnded: true}))
	assert.Equal(t, fallback, SelectProvider(both, CallContext{IsOpenEnded: true}))
	assert.Equal(t, fallback, SelectProvider(both, CallContext{IsPro: true}))
	assert.Equal(t, fallback, SelectProvider(Providers{Default: fallback}, CallContext{IsCoverLetter: true}))
}

func TestAnswerQuestionInput(t *testing.T) {
	stub := &stubProvider{name: "gemini", responses: []string{
		"false",   // классификация открытого вопроса
		"Toronto", // сам ответ
	}}
	a := testAssistant(t, stub, map[string]any{"fullName": "Ivan Petrov"})

	answer, open, err := a.AnswerQuestion(context.Background(), QuestionRequest{
		Question: "What city do you live in?",
		Type:     form.TypeInput,
	})
	require.NoError(t, err)
	assert.False(t, open)
	assert.Equal(t, form.TextAnswer("Toronto"), answer)

	// Промпт ответа содержит контекст профиля
	require.Len(t, stub.calls, 2)
	assert.Contains(t, stub.calls[1].Prompt, "Name: Ivan Petrov")
	assert.Equal(t, float32(0.1), stub.calls[1].Temperature)
}

func TestAnswerQuestionSkipsWhenProfileValueKnown(t *testing.T) {
	stub := &stubProvider{name: "gemini", responses: []string{"false"}}
	a := testAssistant(t, stub, map[string]any{})

	answer, open, err := a.AnswerQuestion(context.Background(), QuestionRequest{
		Question:     "Email address",
		Type:         form.TypeInput,
		ProfileValue: "ivan@example.com",
	})
	require.NoError(t, err)
	assert.False(t, open)
	assert.True(t, answer.IsNone())
	// Только классификация, без вызова генерации
	assert.Len(t, stub.calls, 1)
}

func TestAnswerQuestionAdditionalInfoSkippedForNonPro(t *testing.T) {
	stub := &stubProvider{name: "gemini"}
	a := testAssistant(t, stub, map[string]any{})

	// "Additional information" распознаётся как открытый без вызова AI
	answer, open, err := a.AnswerQuestion(context.Background(), QuestionRequest{
		Question: "Additional information",
		Type:     form.TypeTextarea,
	})
	require.NoError(t, err)
	assert.True(t, open)
	assert.True(t, answer.IsNone())
	assert.Empty(t, stub.calls)
}

func TestAnswerQuestionOpenEndedUsesHigherTemperature(t *testing.T) {
	stub := &stubProvider{name: "gemini", responses: []string{
		"true",
		"I am excited about this role because of my background in Go.",
	}}
	a := testAssistant(t, stub, map[string]any{"pro": true})

	_, open, err := a.AnswerQuestion(context.Background(), QuestionRequest{
		Question: "Why do you want to work here?",
		Type:     form.TypeTextarea,
		Required: true,
	})
	require.NoError(t, err)
	assert.True(t, open)
	require.Len(t, stub.calls, 2)
	assert.Equal(t, float32(0.8), stub.calls[1].Temperature)
	assert.Equal(t, 650, stub.calls[1].MaxTokens)
}

func TestAnswerQuestionFollowUpContext(t *testing.T) {
	stub := &stubProvider{name: "gemini", responses: []string{
		"true",  // follow-up классификация
		"false", // открытый вопрос
		"Signature Ivan",
	}}
	a := testAssistant(t, stub, map[string]any{})

	_, _, err := a.AnswerQuestion(context.Background(), QuestionRequest{
		Question:     "If yes, please sign above",
		Type:         form.TypeInput,
		PrevQuestion: "Do you have a disability?",
		PrevAnswer:   "No",
	})
	require.NoError(t, err)
	require.Len(t, stub.calls, 3)
	assert.Contains(t, stub.calls[2].Prompt, "PREVIOUS CONTEXT")
	assert.Contains(t, stub.calls[2].Prompt, "Do you have a disability?")
}

func TestProcessAnswerSelect(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{})
	options := []string{"Yes", "No"}

	assert.Equal(t, form.IndexAnswer(1), a.processAnswer("No", form.TypeSelect, options))
	assert.Equal(t, form.IndexAnswer(0), a.processAnswer("yes", form.TypeSelect, options))
	assert.True(t, a.processAnswer("Maybe", form.TypeSelect, options).IsNone())
	assert.True(t, a.processAnswer("null", form.TypeSelect, options).IsNone())
}

func TestProcessAnswerMultiselect(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{})
	options := []string{"Go", "Python", "Rust"}

	got := a.processAnswer(`["Go", "rust", "Go"]`, form.TypeMultiselect, options)
	assert.Equal(t, []int{0, 2}, got.Indices)

	got = a.processAnswer("Python", form.TypeMultiselect, options)
	assert.Equal(t, []int{1}, got.Indices)

	assert.True(t, a.processAnswer(`["Haskell"]`, form.TypeMultiselect, options).IsNone())
}

func TestProcessAnswerDate(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{})

	assert.Equal(t, form.TextAnswer("03/15/2026"), a.processAnswer("03/15/2026", form.TypeDate, nil))
	assert.True(t, a.processAnswer("March 15", form.TypeDate, nil).IsNone())
}

func TestProcessAnswerCheckboxDefaultsToNo(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{})

	assert.Equal(t, form.TextAnswer("Yes"), a.processAnswer("yes", form.TypeCheckbox, nil))
	assert.Equal(t, form.TextAnswer("No"), a.processAnswer("perhaps", form.TypeCheckbox, nil))
}

func TestProcessAnswerNumber(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{})

	got := a.processAnswer("around 5 years", form.TypeNumber, nil)
	assert.Equal(t, float64(5), got.Number)
	assert.True(t, a.processAnswer("unknown", form.TypeNumber, nil).IsNone())
}

func TestCallFallsBackToDefaultProvider(t *testing.T) {
	premium := &stubProvider{name: "openai", err: errors.New("quota exceeded")}
	fallback := &stubProvider{name: "gemini", responses: []string{"Dear Hiring Manager,\n\nI am a fit.\n\nSincerely,\nIvan"}}

	p, err := profile.FromMap(map[string]any{"fullName": "Ivan Petrov"})
	require.NoError(t, err)
	a := NewAssistant(Providers{Premium: premium, Default: fallback}, p, "", zap.NewNop())

	letter, err := a.CoverLetter(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, letter, "Dear Hiring Manager")
	assert.Len(t, premium.calls, 1)
	assert.Len(t, fallback.calls, 1)
}

func TestCleanCoverLetterStripsHeader(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{"fullName": "Ivan Petrov"})

	raw := "Ivan Petrov\n123 Main St\n\nDear Hiring Manager,\n\nI am writing to apply.\n\nSincerely,\nIvan Petrov"
	cleaned := a.cleanCoverLetter(raw)
	assert.True(t, len(cleaned) < len(raw))
	assert.Contains(t, cleaned, "Dear Hiring Manager")
	assert.Contains(t, cleaned, "Sincerely,")
	assert.NotContains(t, cleaned, "123 Main St")
}

func TestCleanCoverLetterAddsMissingParts(t *testing.T) {
	a := testAssistant(t, &stubProvider{}, map[string]any{"fullName": "Ivan Petrov"})

	cleaned := a.cleanCoverLetter("I am writing to apply for this position.")
	assert.Contains(t, cleaned, "Dear Hiring Manager,")
	assert.Contains(t, cleaned, "Sincerely,\nIvan Petrov")
}

func TestRateLimiterExhaustsRequests(t *testing.T) {
	rl := NewRateLimiter(2, 1000)

	require.NoError(t, rl.AllowRequest(context.Background()))
	require.NoError(t, rl.AllowRequest(context.Background()))
	assert.Error(t, rl.AllowRequest(context.Background()))
}

func TestRateLimiterTokenBudget(t *testing.T) {
	rl := NewRateLimiter(100, 100)

	require.NoError(t, rl.AllowTokens(context.Background(), 60))
	assert.Error(t, rl.AllowTokens(context.Background(), 60))
}
