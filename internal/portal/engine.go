package portal

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/ai"
	"applyAgent/internal/browser"
	"applyAgent/internal/form"
	"applyAgent/internal/matcher"
	"applyAgent/internal/profile"
	"applyAgent/internal/sanitizer"
	"applyAgent/internal/scorer"
	"applyAgent/internal/validate"
)

// pruneThreshold — при большем числе опций вопрос переводится в pruned-режим:
// ответ хранится текстом метки, а не позиционным индексом.
const pruneThreshold = 20

// Resolver — AI-резолвер для вопросов без детерминированного ответа.
type Resolver interface {
	AnswerQuestion(ctx context.Context, req ai.QuestionRequest) (form.Answer, bool, error)
}

// CoverLetterWriter — опциональная способность резолвера генерировать
// сопроводительное письмо для соответствующего textarea.
type CoverLetterWriter interface {
	CoverLetter(ctx context.Context, customPrompt string) (string, error)
}

// Config — зависимости движка на одну попытку подачи заявки.
type Config struct {
	Page     browser.Page
	Profile  *profile.Profile
	Resolver Resolver
	// Overrides — ответы, заданные вызывающей стороной, по тексту вопроса.
	// Имеют приоритет над матчингом и AI.
	Overrides map[string]string
	Logger    *zap.Logger
}

// Engine ведёт общий конвейер заполнения: skip-проверки, метка, матчинг
// профиля, AI-fallback, скоринг опций, валидация и запись в контрол.
// Живёт одну попытку, состояние между попытками не переносится.
type Engine struct {
	page     browser.Page
	profile  *profile.Profile
	matcher  *matcher.Matcher
	resolver Resolver
	sanitize *sanitizer.DataSanitizer
	logger   *zap.Logger

	overrides map[string]string

	// usage — счётчики использования ключей профиля: N-е поле образования
	// читает N-ю запись.
	usage map[string]int
	// counted — счётчики одинаковых меток для различения дублей.
	counted map[string]int
	// matched хранит сырое значение профиля по id вопроса:
	// для мультиселектов нужен полный список, а не первый элемент.
	matched map[string]any
	// aiAsked отмечает вопросы, по которым AI уже консультировали,
	// чтобы скоринг опций не ходил к нему повторно.
	aiAsked map[string]bool

	prevQuestion string
	prevAnswer   string

	questions []*form.FormQuestion
}

func NewEngine(cfg Config) *Engine {
	overrides := cfg.Overrides
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &Engine{
		page:      cfg.Page,
		profile:   cfg.Profile,
		matcher:   matcher.New(cfg.Profile, cfg.Logger),
		resolver:  cfg.Resolver,
		sanitize:  sanitizer.New(),
		logger:    cfg.Logger,
		overrides: overrides,
		usage:     map[string]int{},
		counted:   map[string]int{},
		matched:   map[string]any{},
		aiAsked:   map[string]bool{},
	}
}

func (e *Engine) Page() browser.Page { return e.page }

func (e *Engine) Logger() *zap.Logger { return e.logger }

func (e *Engine) Profile() *profile.Profile { return e.profile }

// Sanitize маскирует персональные данные перед записью в логи.
func (e *Engine) Sanitize(text string) string { return e.sanitize.Sanitize(text) }

// Questions возвращает все обработанные вопросы в порядке обнаружения.
func (e *Engine) Questions() []*form.FormQuestion { return e.questions }

// Run обходит поля формы и заполняет их по одному, в порядке обнаружения.
// Ошибка одного поля складывается в его FieldResult и не прерывает обход.
func (e *Engine) Run(ctx context.Context, p Portal) []form.FieldResult {
	if prep, ok := p.(Preparer); ok {
		prep.Prepare(ctx, e)
	}

	fields := p.DiscoverFields(e.page)
	e.logger.Info("обнаружены поля формы",
		zap.String("portal", p.Name()), zap.Int("count", len(fields)))

	var results []form.FieldResult
	filled := 0
	for i, el := range fields {
		result, processed := e.processField(ctx, p, el)
		if !processed {
			continue
		}
		if result.Err != nil {
			e.logger.Warn("ошибка обработки поля",
				zap.Int("field", i+1), zap.Error(result.Err))
		}
		if result.Matched {
			filled++
		}
		results = append(results, result)
	}

	e.logger.Info("заполнение формы завершено",
		zap.String("portal", p.Name()),
		zap.Int("filled", filled), zap.Int("total", len(fields)))
	return results
}

// processField ведёт одно поле через весь конвейер.
// Второй результат false означает, что поле пропущено до создания вопроса.
func (e *Engine) processField(ctx context.Context, p Portal, el browser.Element) (form.FieldResult, bool) {
	if e.shouldSkip(el) {
		return form.FieldResult{}, false
	}

	label, required := p.LabelFor(e, el)
	qt := p.FieldType(el)

	question := matcher.CleanLabel(label)
	q := form.NewQuestion(el, qt, question, required)
	q.Count = e.counted[question]
	e.counted[question]++
	e.questions = append(e.questions, q)

	matched := e.resolveAnswer(ctx, q, label)

	var ok bool
	var err error
	if p.IsChoiceControl(el, label) {
		ok, err = p.FillChoiceControl(ctx, e, q)
	} else {
		ok, err = e.fillNative(ctx, q)
	}

	q.Answer = validate.Question(q, e.logger)

	if !q.Answer.IsNone() {
		e.prevQuestion = q.Question
		e.prevAnswer = q.Answer.String()
		e.logger.Info("поле обработано",
			zap.String("question", q.Question),
			zap.String("answer", e.sanitize.Sanitize(q.Answer.String())),
			zap.Bool("filled", ok))
	}

	if after, hasHook := p.(AfterFiller); hasHook && ok {
		after.AfterField(ctx, e, q)
	}

	return form.FieldResult{Question: q, Matched: ok && matched, Err: err}, true
}

// resolveAnswer заполняет q.Answer: override → профиль → AI-fallback.
// Возвращает true, если какой-то источник дал ответ.
func (e *Engine) resolveAnswer(ctx context.Context, q *form.FormQuestion, rawLabel string) bool {
	if value, ok := e.overrides[q.Question]; ok {
		q.Answer = form.TextAnswer(value)
		return true
	}

	if q.Type == form.TypeTextarea && strings.Contains(strings.ToLower(q.Question), "cover letter") {
		q.Section = form.SectionCoverLetter
		if writer, ok := e.resolver.(CoverLetterWriter); ok {
			letter, err := writer.CoverLetter(ctx, "")
			if err != nil {
				e.logger.Warn("не удалось сгенерировать сопроводительное письмо", zap.Error(err))
			} else {
				q.Answer = form.TextAnswer(letter)
				q.AICustom = true
				return true
			}
		}
	}

	matched := false
	profileValue := ""

	if m, ok := e.matcher.Match(rawLabel, q.Type, e.usage); ok && e.matcher.Validate(rawLabel, m, q.Type) {
		q.Section = m.Section
		e.matched[q.ID] = m.Value
		e.usage[m.Key]++

		profileValue = valueText(m.Value)
		q.Answer = form.TextAnswer(profileValue)
		matched = true
	}

	// AI зовём для textarea всегда (открытые вопросы) и для полей без
	// детерминированного ответа, кроме выбора из списка и файлов:
	// опциям сначала даётся шанс на скоринге, файлам AI не поможет.
	needAI := q.Type == form.TypeTextarea ||
		(!matched && !q.Type.IsChoice() && q.Type != form.TypeFile)
	if !needAI {
		return matched
	}

	answer, open := e.askAI(ctx, q, profileValue)
	q.AICustom = open && !answer.IsNone()
	if !answer.IsNone() {
		q.Answer = answer
		return true
	}
	return matched
}

// askAI спрашивает резолвер. Любая ошибка логируется и превращается
// в "нет ответа": сбой AI не должен ронять заполнение формы.
func (e *Engine) askAI(ctx context.Context, q *form.FormQuestion, profileValue string) (form.Answer, bool) {
	e.aiAsked[q.ID] = true

	answer, open, err := e.resolver.AnswerQuestion(ctx, ai.QuestionRequest{
		Question:     q.Question,
		Type:         q.Type,
		Options:      q.Options,
		Required:     q.Required,
		ProfileValue: profileValue,
		PrevQuestion: e.prevQuestion,
		PrevAnswer:   e.prevAnswer,
	})
	if err != nil {
		e.logger.Warn("AI-резолвер не дал ответа",
			zap.String("question", q.Question), zap.Error(err))
		return form.NoAnswer(), false
	}
	return answer, open
}

// AskAI — то же для адаптеров, когда виджету нужен ответ с другим типом
// вопроса (typeahead-локация у Ashby, дата в datepicker).
func (e *Engine) AskAI(ctx context.Context, question string, qt form.QuestionType, required bool) (form.Answer, bool) {
	answer, open, err := e.resolver.AnswerQuestion(ctx, ai.QuestionRequest{
		Question:     question,
		Type:         qt,
		Required:     required,
		PrevQuestion: e.prevQuestion,
		PrevAnswer:   e.prevAnswer,
	})
	if err != nil {
		e.logger.Warn("AI-резолвер не дал ответа",
			zap.String("question", question), zap.Error(err))
		return form.NoAnswer(), false
	}
	return answer, open
}

// shouldSkip решает, нужно ли вообще трогать контрол. File и radio
// проверяются только на enabled: их часто прячут через CSS, оставляя
// рабочими. Уже заполненные поля не перезаписываются.
func (e *Engine) shouldSkip(el browser.Element) bool {
	fieldType := strings.ToLower(el.GetAttribute("type"))

	if fieldType == "file" || fieldType == "radio" {
		return !el.IsEnabled()
	}

	if !el.IsDisplayed() || !el.IsEnabled() {
		return true
	}

	switch fieldType {
	case "hidden", "submit", "button", "reset", "image":
		return true
	}

	if strings.TrimSpace(el.GetAttribute("value")) != "" {
		return true
	}

	return false
}

// ResolveChoice подбирает индексы опций под ответ вопроса. Если
// детерминированного ответа нет или скоринг не прошёл порог, один раз
// консультируется с AI и использует его ответ. Пустой результат значит
// "оставить поле незаполненным".
func (e *Engine) ResolveChoice(ctx context.Context, q *form.FormQuestion, options []string, multiselect bool) []int {
	q.Options = options
	if multiselect {
		q.Type = form.TypeMultiselect
	}
	if len(options) > pruneThreshold {
		q.Pruned = true
	}

	indices := e.scoreTargets(q, options, multiselect)

	if len(indices) == 0 && !e.aiAsked[q.ID] {
		answer, _ := e.askAI(ctx, q, "")
		switch answer.Kind {
		case form.AnswerIndex:
			indices = []int{answer.Index}
		case form.AnswerIndexList:
			indices = answer.Indices
		case form.AnswerText, form.AnswerLabel:
			// AI вернул текст: скорим его как новую цель
			q.Answer = answer
			indices = e.scoreTargets(q, options, multiselect)
		}
	}

	if len(indices) == 0 {
		e.logger.Info("ни одна опция не прошла порог",
			zap.String("question", q.Question), zap.Int("options", len(options)))
		q.Answer = form.NoAnswer()
		return nil
	}

	q.Answer = choiceAnswer(indices, options, multiselect, q.Pruned)
	return indices
}

// scoreTargets скорит текущий ответ вопроса против списка опций.
func (e *Engine) scoreTargets(q *form.FormQuestion, options []string, multiselect bool) []int {
	targets := e.choiceTargets(q, multiselect)
	if len(targets) == 0 {
		return nil
	}

	if multiselect {
		return scorer.BestOptions(options, targets)
	}

	idx, ok := scorer.BestOption(options, targets[0])
	if !ok {
		return nil
	}
	return []int{idx}
}

// choiceTargets возвращает целевые значения для скоринга. Для
// мультиселектов берётся полный списочный профильный ответ, если он был.
func (e *Engine) choiceTargets(q *form.FormQuestion, multiselect bool) []string {
	if raw, ok := e.matched[q.ID]; ok && multiselect {
		if list, isList := raw.([]string); isList {
			return list
		}
	}

	target := strings.TrimSpace(q.Answer.String())
	if target == "" {
		return nil
	}
	if multiselect && strings.Contains(target, ",") {
		var targets []string
		for _, part := range strings.Split(target, ",") {
			if part = strings.TrimSpace(part); part != "" {
				targets = append(targets, part)
			}
		}
		return targets
	}
	return []string{target}
}

func choiceAnswer(indices []int, options []string, multiselect, pruned bool) form.Answer {
	if pruned {
		labels := make([]string, 0, len(indices))
		for _, idx := range indices {
			labels = append(labels, options[idx])
		}
		return form.LabelAnswer(strings.Join(labels, ", "))
	}
	if multiselect {
		return form.IndexListAnswer(indices)
	}
	return form.IndexAnswer(indices[0])
}

func valueText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
