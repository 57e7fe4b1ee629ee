package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"applyAgent/internal/form"
	"applyAgent/internal/profile"
)

// Assistant отвечает на вопросы формы по контексту профиля.
type Assistant struct {
	providers      Providers
	profile        *profile.Profile
	profileContext string
	jobDescription string
	logger         *zap.Logger

	// now подменяется в тестах
	now func() time.Time
}

func NewAssistant(providers Providers, p *profile.Profile, jobDescription string, logger *zap.Logger) *Assistant {
	return &Assistant{
		providers:      providers,
		profile:        p,
		profileContext: p.Summary(),
		jobDescription: jobDescription,
		logger:         logger,
		now:            time.Now,
	}
}

// QuestionRequest — один вопрос формы для AI-резолвера.
type QuestionRequest struct {
	Question     string
	Type         form.QuestionType
	Options      []string
	Required     bool
	CustomPrompt string
	// ProfileValue заполнен, если матчер уже нашёл значение профиля
	ProfileValue string
	PrevQuestion string
	PrevAnswer   string
}

const systemPrompt = `You are a helpful assistant that fills out job application forms based on user profile information.

IMPORTANT INSTRUCTIONS:
1. Do not include any explanation or additional text - only the value`

// AnswerQuestion отвечает на вопрос формы. Возвращает ответ и признак
// открытого вопроса. AnswerNone без ошибки означает "пропустить поле".
func (a *Assistant) AnswerQuestion(ctx context.Context, req QuestionRequest) (form.Answer, bool, error) {
	isFollowUp := false
	if req.PrevQuestion != "" {
		isFollowUp = a.classifyFollowUp(ctx, req.Question, req.PrevQuestion)
	}

	isOpenEnded := a.classifyOpenEnded(ctx, req.Question)

	// Если профиль уже дал значение и вопрос не открытый, AI не нужен
	if req.ProfileValue != "" && !isOpenEnded {
		return form.NoAnswer(), isOpenEnded, nil
	}

	// Необязательные вопросы "дополнительной информации"
	// пропускаются для не-pro пользователей
	if req.Type == form.TypeTextarea && !a.profile.Pro && !req.Required && isAdditionalInfo(req.Question) {
		a.logger.Info("пропускаем вопрос дополнительной информации для не-pro пользователя",
			zap.String("question", req.Question))
		return form.NoAnswer(), isOpenEnded, nil
	}

	userPrompt := a.buildUserPrompt(req, isOpenEnded, isFollowUp)

	temperature := float32(0.1)
	if isOpenEnded {
		temperature = 0.8
	}

	maxTokens := 250
	if req.Type == form.TypeTextarea && a.profile.Pro {
		maxTokens = 650
	}

	answer, err := a.call(ctx, Request{
		Prompt:       userPrompt,
		SystemPrompt: systemPrompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	}, CallContext{IsOpenEnded: isOpenEnded, IsPro: a.profile.Pro})
	if err != nil {
		return form.NoAnswer(), isOpenEnded, fmt.Errorf("ошибка AI-ответа на вопрос %q: %w", req.Question, err)
	}

	return a.processAnswer(answer, req.Type, req.Options), isOpenEnded, nil
}

// call выбирает провайдера и выполняет вызов. При отказе премиального
// провайдера тихо откатывается на дефолтный.
func (a *Assistant) call(ctx context.Context, req Request, callCtx CallContext) (string, error) {
	provider := SelectProvider(a.providers, callCtx)
	if provider == nil {
		return "", fmt.Errorf("нет доступных AI-провайдеров")
	}

	answer, err := provider.Generate(ctx, req)
	if err != nil && provider != a.providers.Default && a.providers.Default != nil {
		a.logger.Warn("премиальный провайдер недоступен, откатываемся на дефолтный",
			zap.String("provider", provider.Name()), zap.Error(err))
		return a.providers.Default.Generate(ctx, req)
	}
	return answer, err
}

func isAdditionalInfo(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, keyword := range []string{"additional", "optional", "comments", "anything else"} {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}

// classifyOpenEnded определяет, требует ли вопрос развёрнутого ответа.
func (a *Assistant) classifyOpenEnded(ctx context.Context, question string) bool {
	// Частный случай Lever: поле "Additional information"
	if strings.EqualFold(strings.TrimSpace(question), "additional information") {
		return true
	}

	prompt := fmt.Sprintf(`Question: %s

Based on the criteria below, determine whether the following question is open-ended (requires a descriptive, multi-sentence answer) or not (can be answered with yes/no or a single word).
Open-ended questions typically:
- Ask "why", "how", "what", "describe", "explain", "tell me about"
- Require personal reflection, motivation, or reasoning
- Ask about feelings, excitement, passion, goals, or experiences
- Need multiple sentences to answer properly

Answer "true" if open-ended, "false" if not.
`, question)

	result, err := a.call(ctx, Request{Prompt: prompt, Temperature: 0.1, MaxTokens: 10}, CallContext{})
	if err != nil {
		a.logger.Error("не удалось классифицировать вопрос как открытый",
			zap.String("question", question), zap.Error(err))
		return false
	}
	return strings.EqualFold(strings.TrimSpace(result), "true")
}

// classifyFollowUp определяет, является ли вопрос продолжением предыдущего.
func (a *Assistant) classifyFollowUp(ctx context.Context, question, prevQuestion string) bool {
	prompt := fmt.Sprintf(`Question: %s
Previous Question: %s

Is the current question a follow-up to the previous question and contains an if at the start or explicitly mention above?

Answer only "true" or "false".`, question, prevQuestion)

	result, err := a.call(ctx, Request{Prompt: prompt, Temperature: 0.1, MaxTokens: 10}, CallContext{})
	if err != nil {
		a.logger.Error("не удалось классифицировать связь с предыдущим вопросом",
			zap.String("question", question), zap.Error(err))
		return false
	}
	return strings.EqualFold(strings.TrimSpace(result), "true")
}

func (a *Assistant) buildUserPrompt(req QuestionRequest, isOpenEnded, isFollowUp bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Profile:\n%s\n", a.profileContext)

	if isFollowUp {
		fmt.Fprintf(&b, `

PREVIOUS CONTEXT:
Previous Question: %s
Previous Answer: %s

This question is a follow-up use the previous context to answer the question accurately. `,
			req.PrevQuestion, req.PrevAnswer)
	}

	if req.CustomPrompt != "" {
		fmt.Fprintf(&b, `

CUSTOM INSTRUCTIONS:
%s

IMPORTANT CONTEXT:
- If the custom instructions ask for specific details or focus areas, prioritize those in your response`, req.CustomPrompt)
	}

	fmt.Fprintf(&b, "\n\nQuestion: %s\n\n%s\n", req.Question, a.buildTypePrompt(req, isOpenEnded, isFollowUp))
	return b.String()
}

func (a *Assistant) buildTypePrompt(req QuestionRequest, isOpenEnded, isFollowUp bool) string {
	currentDate := a.now().Format("January 2, 2006")
	var prompt string

	switch req.Type {
	case form.TypeSelect:
		if len(req.Options) > 0 {
			prompt = "\nAvailable Options: " + strings.Join(req.Options, ", ") +
				"\nSelect the BEST matching option from the list above. Return only the exact option text."
		} else {
			prompt = "\nProvide the most appropriate answer."
		}
	case form.TypeMultiselect:
		if len(req.Options) > 0 {
			prompt = "\nAvailable Options: " + strings.Join(req.Options, ", ") +
				"\nSelect ALL appropriate options from the list above. Return as JSON array like [\"option1\", \"option2\"] or \"null\" if no options match."
		} else {
			prompt = "\nProvide all appropriate answers as JSON array."
		}
	case form.TypeDate:
		prompt = fmt.Sprintf("\nProvide a date in MM/DD/YYYY format. Consider the current date (%s) when answering questions about graduation status, employment dates, or time-based information.", currentDate)
	case form.TypeCheckbox:
		prompt = "\nBased on the user profile information above, should this checkbox be checked? Answer only 'Yes' or 'No'."
	case form.TypeNumber:
		prompt = "\nProvide a numeric value (integer or decimal). Return only the number without any text or formatting."
	default:
		datePrompt := fmt.Sprintf("Consider the current date (%s) when answering questions about graduation status, employment dates, or time-based information.", currentDate)
		descriptive := ""
		if isOpenEnded {
			descriptive = "Provide a detailed and descriptive answer using full sentence format. Use relevant details from the profile(education, experience, skills, etc.) to craft a thoughtful response. "
		}
		prompt = fmt.Sprintf("Answer the question formally. %s%s", descriptive, datePrompt)
		if a.jobDescription != "" && isOpenEnded {
			prompt += fmt.Sprintf("\n\nJob Description:\n%s\n\nTailor your response to show how you would be a good fit for this specific role.", truncate(a.jobDescription, 500))
		}
	}

	if !req.Required {
		if !isFollowUp || req.PrevAnswer == "" {
			prompt += "\nProvide \"null\" if you cannot determine an appropriate answer."
		} else {
			prompt += "\nTry to answer the question as best as possible."
		}
	} else {
		prompt += "\nYou MUST answer this question as it is required."
	}

	return prompt + "\nAlways answer yes to any question related to eligibility, interest, or willingness to proceed unless doing so would be illegal or dishonest."
}

// processAnswer переводит текстовый ответ провайдера в типизированный.
func (a *Assistant) processAnswer(answer string, qt form.QuestionType, options []string) form.Answer {
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "null") || answer == "" {
		return form.NoAnswer()
	}

	switch qt {
	case form.TypeSelect:
		if len(options) == 0 {
			return form.TextAnswer(answer)
		}
		if idx, ok := findOption(options, answer); ok {
			return form.IndexAnswer(idx)
		}
		a.logger.Warn("AI выбрал опцию вне списка", zap.String("answer", answer))
		return form.NoAnswer()

	case form.TypeMultiselect:
		return a.processMultiselect(answer, options)

	case form.TypeDate:
		if _, err := time.Parse("01/02/2006", answer); err != nil {
			a.logger.Warn("AI вернул дату в неверном формате", zap.String("answer", answer))
			return form.NoAnswer()
		}
		return form.TextAnswer(answer)

	case form.TypeCheckbox:
		switch strings.ToLower(answer) {
		case "yes", "true", "1", "check", "checked":
			return form.TextAnswer("Yes")
		case "no", "false", "0", "uncheck", "unchecked":
			return form.TextAnswer("No")
		default:
			a.logger.Warn("AI вернул неожиданный ответ для чекбокса, ставим No",
				zap.String("answer", answer))
			return form.TextAnswer("No")
		}

	case form.TypeNumber:
		var b strings.Builder
		for _, c := range answer {
			if (c >= '0' && c <= '9') || c == '.' || c == '-' {
				b.WriteRune(c)
			}
		}
		cleaned := b.String()
		if cleaned == "" || cleaned == "." || cleaned == "-" {
			a.logger.Warn("AI вернул не число", zap.String("answer", answer))
			return form.NoAnswer()
		}
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return form.NoAnswer()
		}
		return form.NumberAnswer(value)

	default:
		return form.TextAnswer(answer)
	}
}

func (a *Assistant) processMultiselect(answer string, options []string) form.Answer {
	if strings.HasPrefix(answer, "[") && strings.HasSuffix(answer, "]") {
		var selected []string
		if err := json.Unmarshal([]byte(answer), &selected); err != nil {
			a.logger.Warn("не удалось разобрать ответ мультиселекта как JSON",
				zap.String("answer", answer))
			return form.NoAnswer()
		}

		var indices []int
		seen := make(map[int]bool)
		for _, s := range selected {
			if idx, ok := findOption(options, s); ok && !seen[idx] {
				seen[idx] = true
				indices = append(indices, idx)
			}
		}
		if len(indices) == 0 {
			return form.NoAnswer()
		}
		return form.IndexListAnswer(indices)
	}

	// Одна опция без JSON-массива
	if idx, ok := findOption(options, answer); ok {
		return form.IndexListAnswer([]int{idx})
	}
	return form.NoAnswer()
}

func findOption(options []string, value string) (int, bool) {
	for i, opt := range options {
		if opt == value {
			return i, true
		}
	}
	for i, opt := range options {
		if strings.EqualFold(opt, value) {
			return i, true
		}
	}
	return 0, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
