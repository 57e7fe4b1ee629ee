// Package apply оркеструет одну попытку подачи заявки: выбор адаптера по
// домену, переход на прямой URL формы, заполнение через движок и отправку.
package apply

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/ai"
	"applyAgent/internal/browser"
	"applyAgent/internal/form"
	"applyAgent/internal/portal"
	"applyAgent/internal/profile"
)

// Request — одна попытка подачи заявки.
type Request struct {
	WorkerID string
	JobURL   string
	// Profile — сырой профиль пользователя, как его передаёт вызывающая сторона.
	Profile        map[string]any
	JobDescription string
	// Submit включает отправку формы после заполнения.
	Submit bool
	// Overrides — ответы вызывающей стороны по тексту вопроса,
	// имеют приоритет над матчингом и AI.
	Overrides map[string]string
}

// Result — итог попытки. Questions заполнены и при неудачной отправке,
// чтобы воркер мог сохранить собранные ответы.
type Result struct {
	Portal    string
	URL       string
	Questions []*form.FormQuestion
	Submitted bool
}

// Service ведёт попытки подачи заявок на браузерных сессиях пула.
type Service struct {
	pool      *browser.Pool
	providers ai.Providers
	logger    *zap.Logger

	// newResolver подменяется в тестах
	newResolver func(p *profile.Profile, jobDescription string) portal.Resolver
}

func NewService(pool *browser.Pool, providers ai.Providers, logger *zap.Logger) *Service {
	s := &Service{
		pool:      pool,
		providers: providers,
		logger:    logger,
	}
	s.newResolver = func(p *profile.Profile, jobDescription string) portal.Resolver {
		return ai.NewAssistant(providers, p, jobDescription, logger)
	}
	return s
}

// Apply выполняет попытку на сессии воркера. Ошибки отдельных полей не
// поднимаются сюда: ошибкой попытки считается только незагрузившаяся
// страница, неизвестный портал, пустая форма или ненайденная кнопка отправки.
func (s *Service) Apply(ctx context.Context, req Request) (*Result, error) {
	session, err := s.pool.Acquire(ctx, req.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения браузерной сессии: %w", err)
	}
	defer s.pool.Release(req.WorkerID)

	return s.applyOnPage(ctx, session.Browser, req)
}

func (s *Service) applyOnPage(ctx context.Context, page browser.Page, req Request) (*Result, error) {
	p, ok := portal.Lookup(req.JobURL, s.logger)
	if !ok {
		return nil, fmt.Errorf("портал для URL %s не поддерживается", req.JobURL)
	}

	appURL := applicationURL(req.JobURL, p.Name())
	s.logger.Info("начинаем попытку подачи заявки",
		zap.String("portal", p.Name()), zap.String("url", appURL))

	if err := page.Navigate(ctx, appURL); err != nil {
		return nil, fmt.Errorf("ошибка перехода на страницу заявки: %w", err)
	}
	if err := page.WaitForSelector(ctx, "input"); err != nil {
		return nil, fmt.Errorf("форма заявки не загрузилась: %w", err)
	}

	page.AcceptCookieConsent(ctx)

	prof, err := profile.FromMap(req.Profile)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля: %w", err)
	}

	engine := portal.NewEngine(portal.Config{
		Page:      page,
		Profile:   prof,
		Resolver:  s.newResolver(prof, req.JobDescription),
		Overrides: req.Overrides,
		Logger:    s.logger,
	})
	engine.Run(ctx, p)

	questions := engine.Questions()
	if len(questions) == 0 {
		return nil, fmt.Errorf("на странице %s не найдено вопросов формы", appURL)
	}

	result := &Result{Portal: p.Name(), URL: appURL, Questions: questions}
	if !req.Submit {
		s.logger.Info("заявка подготовлена без отправки",
			zap.String("url", appURL), zap.Int("questions", len(questions)))
		return result, nil
	}

	if err := s.submit(page); err != nil {
		return result, fmt.Errorf("отправка заявки не удалась: %w", err)
	}
	result.Submitted = true

	s.logger.Info("заявка отправлена",
		zap.String("url", appURL), zap.Int("questions", len(questions)))
	return result, nil
}

// Лестница селекторов кнопки отправки: сначала по тексту, затем по
// атрибутам, классам и id. Берётся первый видимый и активный элемент.
var submitSelectors = []string{
	"xpath=//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'submit application')]",
	"xpath=//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'submit')]",
	"xpath=//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'send application')]",
	"xpath=//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'complete application')]",
	"xpath=//input[@type='submit' and contains(translate(@value, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'submit')]",
	"xpath=//button[@type='submit']",
	"xpath=//input[@type='submit']",
	"xpath=//*[contains(@class, 'submit') and (self::button or self::input)]",
	"xpath=//*[contains(@class, 'apply') and (self::button or self::input)]",
	"xpath=//*[contains(@id, 'submit') and (self::button or self::input)]",
	"xpath=//*[contains(@id, 'apply') and (self::button or self::input)]",
}

func (s *Service) submit(page browser.Page) error {
	for _, selector := range submitSelectors {
		for _, el := range page.QueryAll(selector) {
			if !el.IsDisplayed() || !el.IsEnabled() {
				continue
			}
			if err := el.ScrollIntoView(); err != nil {
				s.logger.Warn("не удалось прокрутить к кнопке отправки", zap.Error(err))
			}
			if err := el.Click(); err != nil {
				return fmt.Errorf("ошибка клика по кнопке отправки: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("кнопка отправки заявки не найдена")
}

// applicationURL убирает query-параметры и приводит URL вакансии к прямой
// ссылке на форму заявки конкретного портала.
func applicationURL(rawURL, portalName string) string {
	clean := rawURL
	if i := strings.Index(clean, "?"); i >= 0 {
		clean = clean[:i]
	}

	switch portalName {
	case "lever", "jobvite":
		if !strings.Contains(clean, "/apply") {
			clean = strings.TrimRight(clean, "/") + "/apply"
		}
	case "greenhouse":
		if !strings.Contains(clean, "#app") {
			clean += "#app"
		}
	case "ashby":
		if !strings.Contains(clean, "/application") {
			clean = strings.TrimRight(clean, "/") + "/application"
		}
	case "workable":
		clean = strings.TrimRight(clean, "/") + "/apply"
	}
	return clean
}
