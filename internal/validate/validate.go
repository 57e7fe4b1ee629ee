// Package validate приводит ответы на вопросы формы к каноническому виду
// для их типа: индексы для селектов, MM/DD/YYYY для дат, числа для
// number-полей.
package validate

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"applyAgent/internal/form"
)

// dateFormats — лестница входных форматов дат. MM/DD идёт раньше DD/MM,
// неоднозначные даты трактуются по-американски.
var dateFormats = []string{
	"01/02/2006", "01/02/06",
	"2006-01-02", "06-01-02",
	"02/01/2006", "02/01/06",
	"January 2, 2006", "Jan 2, 2006",
	"2 January 2006", "2 Jan 2006",
}

const dateOutputFormat = "01/02/2006"

// Question валидирует ответ вопроса по его типу и возвращает
// канонический ответ. Исходный ответ не меняется.
func Question(q *form.FormQuestion, logger *zap.Logger) form.Answer {
	if q.Answer.IsNone() {
		return form.NoAnswer()
	}

	switch q.Type {
	case form.TypeSelect:
		return validateSelect(q, logger)
	case form.TypeMultiselect:
		return validateMultiselect(q, logger)
	case form.TypeDate:
		return validateDate(q, logger)
	case form.TypeNumber:
		return validateNumber(q, logger)
	case form.TypeCheckbox:
		return validateCheckbox(q, logger)
	default:
		// input, textarea, file остаются как есть
		return q.Answer
	}
}

func validateSelect(q *form.FormQuestion, logger *zap.Logger) form.Answer {
	// Для pruned-селекта ответ хранится текстом метки
	if q.Pruned {
		switch q.Answer.Kind {
		case form.AnswerLabel, form.AnswerText:
			return form.LabelAnswer(q.Answer.Text)
		default:
			logger.Warn("pruned select: ожидалась строка",
				zap.String("question_id", q.ID))
			return form.LabelAnswer(q.Answer.String())
		}
	}

	switch q.Answer.Kind {
	case form.AnswerIndex:
		if q.Answer.Index >= 0 && q.Answer.Index < len(q.Options) {
			return q.Answer
		}
		logger.Warn("select: индекс вне диапазона",
			zap.String("question_id", q.ID), zap.Int("index", q.Answer.Index))
	case form.AnswerText, form.AnswerLabel:
		if idx, err := strconv.Atoi(strings.TrimSpace(q.Answer.Text)); err == nil {
			if idx >= 0 && idx < len(q.Options) {
				return form.IndexAnswer(idx)
			}
			logger.Warn("select: строковый индекс вне диапазона",
				zap.String("question_id", q.ID), zap.Int("index", idx))
		} else {
			logger.Warn("select: не удалось разобрать индекс",
				zap.String("question_id", q.ID), zap.String("answer", q.Answer.Text))
		}
	default:
		logger.Warn("select: ожидался индекс",
			zap.String("question_id", q.ID))
	}

	if len(q.Options) > 0 {
		return form.IndexAnswer(0)
	}
	return form.NoAnswer()
}

func validateMultiselect(q *form.FormQuestion, logger *zap.Logger) form.Answer {
	// Для pruned-мультиселекта ответ — строка меток через запятую
	if q.Pruned {
		switch q.Answer.Kind {
		case form.AnswerLabel, form.AnswerText:
			return form.LabelAnswer(q.Answer.Text)
		case form.AnswerIndexList:
			// Индексы превращаются в метки опций: pruned-вопрос ждёт текст
			parts := make([]string, 0, len(q.Answer.Indices))
			for _, i := range q.Answer.Indices {
				if i < 0 || i >= len(q.Options) {
					logger.Warn("multiselect: индекс вне диапазона",
						zap.String("question_id", q.ID), zap.Int("index", i))
					continue
				}
				parts = append(parts, q.Options[i])
			}
			return form.LabelAnswer(strings.Join(parts, ", "))
		default:
			return form.LabelAnswer(q.Answer.String())
		}
	}

	switch q.Answer.Kind {
	case form.AnswerIndexList:
		return form.IndexListAnswer(dedupInRange(q.Answer.Indices, len(q.Options), q.ID, logger))
	case form.AnswerText, form.AnswerLabel:
		// Строка "0, 2, 3" разбирается как список индексов
		var indices []int
		for _, part := range strings.Split(q.Answer.Text, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			idx, err := strconv.Atoi(part)
			if err != nil {
				logger.Warn("multiselect: не удалось разобрать индексы",
					zap.String("question_id", q.ID), zap.String("answer", q.Answer.Text))
				return form.IndexListAnswer(nil)
			}
			indices = append(indices, idx)
		}
		return form.IndexListAnswer(dedupInRange(indices, len(q.Options), q.ID, logger))
	default:
		logger.Warn("multiselect: ожидался список индексов",
			zap.String("question_id", q.ID))
		return form.IndexListAnswer(nil)
	}
}

func dedupInRange(indices []int, optionCount int, questionID string, logger *zap.Logger) []int {
	seen := make(map[int]bool)
	var out []int
	for _, idx := range indices {
		if idx < 0 || idx >= optionCount {
			logger.Warn("multiselect: индекс вне диапазона",
				zap.String("question_id", questionID), zap.Int("index", idx))
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

func validateDate(q *form.FormQuestion, logger *zap.Logger) form.Answer {
	raw := strings.TrimSpace(q.Answer.String())
	if raw == "" {
		return form.NoAnswer()
	}

	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return form.TextAnswer(parsed.Format(dateOutputFormat))
		}
	}

	// Неразборчивую дату оставляем как есть
	logger.Warn("date: не удалось разобрать дату",
		zap.String("question_id", q.ID), zap.String("answer", raw))
	return form.TextAnswer(raw)
}

func validateNumber(q *form.FormQuestion, logger *zap.Logger) form.Answer {
	if q.Answer.Kind == form.AnswerNumber {
		return q.Answer
	}

	raw := q.Answer.String()
	var b strings.Builder
	for _, c := range raw {
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			b.WriteRune(c)
		}
	}
	cleaned := b.String()

	if cleaned == "" || cleaned == "." || cleaned == "-" {
		logger.Warn("number: некорректный формат",
			zap.String("question_id", q.ID), zap.String("answer", raw))
		return form.NoAnswer()
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		logger.Warn("number: не удалось разобрать число",
			zap.String("question_id", q.ID), zap.String("answer", raw))
		return form.NoAnswer()
	}

	return form.NumberAnswer(value)
}

func validateCheckbox(q *form.FormQuestion, logger *zap.Logger) form.Answer {
	switch strings.ToLower(strings.TrimSpace(q.Answer.String())) {
	case "yes", "true", "1", "check", "checked":
		return form.TextAnswer("Yes")
	case "no", "false", "0", "uncheck", "unchecked":
		return form.TextAnswer("No")
	default:
		logger.Warn("checkbox: неожиданный ответ, ставим No",
			zap.String("question_id", q.ID), zap.String("answer", q.Answer.String()))
		return form.TextAnswer("No")
	}
}
