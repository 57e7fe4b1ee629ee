package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"applyAgent/internal/form"
)

// maxResumeSize — потолок размера скачиваемого файла резюме.
const maxResumeSize = 10 * 1024 * 1024

// fillNative записывает ответ в стандартный HTML-контрол.
// Кастомные виджеты порталов сюда не попадают.
func (e *Engine) fillNative(ctx context.Context, q *form.FormQuestion) (bool, error) {
	if q.Answer.IsNone() {
		return false, nil
	}

	if err := q.Element.ScrollIntoView(); err != nil {
		e.logger.Warn("не удалось прокрутить к элементу", zap.Error(err))
	}

	switch q.Type {
	case form.TypeSelect:
		return e.fillSelect(ctx, q)
	case form.TypeCheckbox:
		return e.fillCheckbox(q)
	case form.TypeFile:
		return e.fillFile(ctx, q)
	default:
		return e.fillText(q)
	}
}

func (e *Engine) fillText(q *form.FormQuestion) (bool, error) {
	if err := q.Element.Clear(); err != nil {
		return false, fmt.Errorf("ошибка очистки поля: %w", err)
	}
	if err := q.Element.SendKeys(q.Answer.String()); err != nil {
		return false, fmt.Errorf("ошибка ввода текста: %w", err)
	}
	return true, nil
}

func (e *Engine) fillSelect(ctx context.Context, q *form.FormQuestion) (bool, error) {
	options := q.Element.OptionTexts()
	if len(options) == 0 {
		return false, nil
	}

	indices := e.ResolveChoice(ctx, q, options, false)
	if len(indices) == 0 {
		return false, nil
	}

	if err := q.Element.SelectByIndex(indices[0]); err != nil {
		return false, fmt.Errorf("ошибка выбора опции %d: %w", indices[0], err)
	}
	return true, nil
}

func (e *Engine) fillCheckbox(q *form.FormQuestion) (bool, error) {
	shouldCheck := false
	switch strings.ToLower(strings.TrimSpace(q.Answer.String())) {
	case "yes", "true", "1":
		shouldCheck = true
	}

	if shouldCheck != q.Element.IsChecked() {
		if err := q.Element.Click(); err != nil {
			return false, fmt.Errorf("ошибка клика по чекбоксу: %w", err)
		}
	}
	return true, nil
}

// fillFile загружает файл резюме в контрол: URL скачивается во временный
// файл, локальный путь проверяется на существование. Временный файл
// удаляется после загрузки.
func (e *Engine) fillFile(ctx context.Context, q *form.FormQuestion) (bool, error) {
	source := strings.TrimSpace(q.Answer.String())
	if source == "" {
		return false, nil
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		localPath, filename, err := e.downloadResume(ctx, source)
		if err != nil {
			return false, err
		}
		defer os.Remove(localPath)

		if err := q.Element.SetFiles(localPath); err != nil {
			return false, fmt.Errorf("ошибка загрузки файла в форму: %w", err)
		}
		q.Answer = form.FileUpload(form.FileAnswer{SourceURL: source, Filename: filename})
		e.logger.Info("файл загружен", zap.String("filename", filename))
		return true, nil
	}

	if _, err := os.Stat(source); err != nil {
		return false, fmt.Errorf("файл резюме не найден: %w", err)
	}
	if err := q.Element.SetFiles(source); err != nil {
		return false, fmt.Errorf("ошибка загрузки файла в форму: %w", err)
	}
	q.Answer = form.FileUpload(form.FileAnswer{LocalPath: source, Filename: filepath.Base(source)})
	return true, nil
}

func (e *Engine) downloadResume(ctx context.Context, rawURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("ошибка скачивания резюме: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("не удалось скачать резюме: HTTP %d", resp.StatusCode)
	}
	if resp.ContentLength > maxResumeSize {
		return "", "", fmt.Errorf("файл резюме слишком большой: %d байт", resp.ContentLength)
	}

	filename := resumeFilename(e.profile.ResumeFilename, rawURL)
	localPath := filepath.Join(os.TempDir(), filename)

	out, err := os.Create(localPath)
	if err != nil {
		return "", "", fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(resp.Body, maxResumeSize+1))
	if err != nil {
		os.Remove(localPath)
		return "", "", fmt.Errorf("ошибка записи файла: %w", err)
	}
	if written == 0 {
		os.Remove(localPath)
		return "", "", fmt.Errorf("скачанный файл пуст")
	}
	if written > maxResumeSize {
		os.Remove(localPath)
		return "", "", fmt.Errorf("файл резюме превышает %d байт", maxResumeSize)
	}

	return localPath, filename, nil
}

// resumeFilename выбирает имя файла: из профиля, иначе из пути URL,
// иначе resume.pdf. Расширение добавляется, если его нет.
func resumeFilename(profileName, rawURL string) string {
	filename := strings.TrimSpace(profileName)

	if filename == "" {
		if parsed, err := url.Parse(rawURL); err == nil {
			if base := filepath.Base(parsed.Path); base != "." && base != "/" {
				filename = base
			}
		}
	}
	if filename == "" {
		filename = "resume.pdf"
	}
	if !strings.Contains(filename, ".") {
		filename += ".pdf"
	}
	return filename
}
