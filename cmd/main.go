package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"applyAgent/internal/ai"
	"applyAgent/internal/apply"
	"applyAgent/internal/browser"
	"applyAgent/internal/config"
	"applyAgent/internal/database"
	"applyAgent/internal/form"
	"applyAgent/internal/logger"
	"applyAgent/internal/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := migrations.Run(cfg, log); err != nil {
		log.Fatal("Ошибка миграций", zap.Error(err))
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("Ошибка подключения к БД", zap.Error(err))
	}
	defer db.Close(log)

	repo := database.NewApplicationRepository(db.DB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := buildProviders(ctx, cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации AI-провайдеров", zap.Error(err))
	}

	pool := browser.NewPool(browserFactory(cfg), log, cfg.Pool.IdleTimeout, cfg.Pool.SweepPeriod)
	defer pool.CloseAll()

	service := apply.NewService(pool, providers, log)

	runWorker(ctx, cfg, service, repo, log)
}

// buildProviders собирает набор AI-провайдеров: Gemini обязателен,
// OpenAI подключается как премиальный при наличии ключа.
func buildProviders(ctx context.Context, cfg *config.Cfg, log *zap.Logger) (ai.Providers, error) {
	gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		return ai.Providers{}, err
	}

	providers := ai.Providers{Default: gemini}
	if cfg.OpenAI.APIKey != "" {
		providers.Premium = ai.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log,
			cfg.OpenAI.RequestsPerMinute, cfg.OpenAI.TokensPerHour)
	}
	return providers, nil
}

// browserFactory запускает браузер воркера. Каждому воркеру — свой
// каталог профиля, чтобы сессии не конфликтовали.
func browserFactory(cfg *config.Cfg) browser.Factory {
	return func(ctx context.Context, workerID string) (*browser.PlaywrightBrowser, error) {
		userDataDir := cfg.Browser.UserDataDir
		if userDataDir != "" {
			userDataDir = filepath.Join(userDataDir, workerID)
		}

		b := browser.New(browser.Config{
			Headless:     cfg.Browser.Headless,
			UserDataDir:  userDataDir,
			BrowsersPath: cfg.Browser.BrowsersPath,
			Display:      cfg.Browser.Display,
		})
		if err := b.Launch(ctx); err != nil {
			return nil, err
		}
		return b, nil
	}
}

// runWorker крутит цикл воркера: забирает ожидающую попытку, выполняет
// её и записывает итог. Пустая очередь — пауза до следующего опроса.
func runWorker(ctx context.Context, cfg *config.Cfg, service *apply.Service, repo *database.ApplicationRepository, log *zap.Logger) {
	log.Info("воркер запущен", zap.String("worker_id", cfg.Worker.ID))

	for {
		select {
		case <-ctx.Done():
			log.Info("воркер остановлен")
			return
		default:
		}

		app, err := repo.NextPending()
		if err != nil {
			log.Error("ошибка чтения очереди заявок", zap.Error(err))
		}
		if app == nil || err != nil {
			select {
			case <-ctx.Done():
				log.Info("воркер остановлен")
				return
			case <-time.After(cfg.Worker.PollPeriod):
			}
			continue
		}

		processApplication(ctx, cfg, service, repo, log, app)
	}
}

func processApplication(ctx context.Context, cfg *config.Cfg, service *apply.Service, repo *database.ApplicationRepository, log *zap.Logger, app *database.Application) {
	if err := repo.MarkRunning(app.ID, cfg.Worker.ID); err != nil {
		log.Error("не удалось закрепить попытку за воркером",
			zap.Uint("id", app.ID), zap.Error(err))
		return
	}

	var rawProfile map[string]any
	if app.Profile != "" {
		if err := json.Unmarshal([]byte(app.Profile), &rawProfile); err != nil {
			finish(repo, log, app.ID, database.StatusFailed, "", false, "",
				"некорректный профиль: "+err.Error())
			return
		}
	}

	result, err := service.Apply(ctx, apply.Request{
		WorkerID:       cfg.Worker.ID,
		JobURL:         app.JobURL,
		Profile:        rawProfile,
		JobDescription: app.JobDescription,
		Submit:         app.Submit,
	})
	if err != nil {
		log.Error("попытка подачи не удалась",
			zap.Uint("id", app.ID), zap.String("url", app.JobURL), zap.Error(err))

		portal, questions, submitted := "", "", false
		if result != nil {
			portal = result.Portal
			questions = marshalQuestions(result.Questions, log)
			submitted = result.Submitted
		}
		finish(repo, log, app.ID, database.StatusFailed, portal, submitted, questions,
			logger.TruncateForLog(err.Error(), 500))
		return
	}

	finish(repo, log, app.ID, database.StatusCompleted, result.Portal, result.Submitted,
		marshalQuestions(result.Questions, log), "")

	log.Info("попытка завершена",
		zap.Uint("id", app.ID),
		zap.String("portal", result.Portal),
		zap.Bool("submitted", result.Submitted),
		zap.Int("questions", len(result.Questions)))
}

func finish(repo *database.ApplicationRepository, log *zap.Logger, id uint, status, portal string, submitted bool, questions, errMsg string) {
	if err := repo.Finish(id, status, portal, submitted, questions, errMsg); err != nil {
		log.Error("не удалось записать итог попытки", zap.Uint("id", id), zap.Error(err))
	}
}

func marshalQuestions(questions []*form.FormQuestion, log *zap.Logger) string {
	data, err := json.Marshal(questions)
	if err != nil {
		log.Warn("не удалось сериализовать вопросы формы", zap.Error(err))
		return ""
	}
	return string(data)
}
