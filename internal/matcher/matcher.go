// Package matcher сопоставляет метки полей формы с ключами профиля.
// Скоринг по ключевым словам: чем длиннее совпавшая фраза, тем выше счёт.
package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"applyAgent/internal/form"
	"applyAgent/internal/profile"
)

// Match — результат сопоставления метки с профилем.
type Match struct {
	Key     string
	Value   any // string, bool или []string
	Score   int
	Section form.Section
}

type Matcher struct {
	profile *profile.Profile
	logger  *zap.Logger
}

func New(p *profile.Profile, logger *zap.Logger) *Matcher {
	return &Matcher{profile: p, logger: logger}
}

var (
	cleanRe  = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
	labelRe  = regexp.MustCompile(`[^A-Za-z0-9?!/.' ]+`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// CleanString убирает спецсимволы и заменяет дефисы/подчёркивания пробелами.
func CleanString(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return cleanRe.ReplaceAllString(s, "")
}

// CleanLabel чистит метку, сохраняя знаки вопроса и пунктуацию предложений.
func CleanLabel(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = labelRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))

	if s != "" && s == strings.ToLower(s) {
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

var genericUploadTerms = []string{"upload a file", "drag and drop", "file upload", "attach file", "choose file"}
var genericFileTerms = []string{"upload", "file", "attach", "drag", "drop", "browse", "choose"}
var gpaTerms = []string{"gpa", "grade point"}

// Match подбирает ключ профиля по метке поля.
// usage — счётчики использования ключей для повторяющихся полей образования.
func (m *Matcher) Match(label string, qt form.QuestionType, usage map[string]int) (*Match, bool) {
	if label == "" {
		return nil, false
	}

	context := CleanString(strings.ToLower(strings.TrimSpace(label)))
	isFile := qt == form.TypeFile

	bestKey := ""
	bestScore := 0

	for key, keywords := range fieldKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(context, kw) {
				score += len(kw)
			}
		}

		// Буст резюме для file-контролов с обобщённым текстом загрузки
		if isFile && key == "resumeUrl" && score > 0 {
			for _, term := range genericUploadTerms {
				if strings.Contains(context, term) {
					score += 10
					break
				}
			}
		}

		// Аббревиатура "gpa" слишком короткая для общей таблицы фраз,
		// поэтому метки вида "What is your GPA?" бустятся отдельно
		if key == "educationGpa" {
			for _, term := range gpaTerms {
				if strings.Contains(context, term) {
					score += 10
					break
				}
			}
		}

		// При равном счёте берём лексикографически меньший ключ,
		// чтобы результат не зависел от порядка обхода map
		if score > bestScore || (score == bestScore && score > 0 && key < bestKey) {
			bestScore = score
			bestKey = key
		}
	}

	// Fallback: file-контрол без явного совпадения всё равно пробуем
	// закрыть резюме, если текст похож на загрузку файла
	if bestKey == "" && isFile {
		if _, ok := m.profile.Value("resumeUrl"); ok {
			for _, term := range genericFileTerms {
				if strings.Contains(context, term) {
					bestKey = "resumeUrl"
					bestScore = 5
					break
				}
			}
		}
	}

	if bestKey == "" {
		return nil, false
	}

	match := &Match{Key: bestKey, Score: bestScore, Section: SectionFor(bestKey)}

	// Образовательные ключи читают N-ю запись по счётчику использования
	if profile.IsEducationKey(bestKey) && bestKey != "educationGpa" {
		value, ok := m.profile.EducationValue(bestKey, usage[bestKey])
		if !ok {
			return nil, false
		}
		match.Value = value
		return match, true
	}

	value, ok := m.profile.Value(bestKey)
	if !ok {
		return nil, false
	}

	// Булевы значения приводим к Yes/No
	if b, isBool := value.(bool); isBool {
		if b {
			match.Value = "Yes"
		} else {
			match.Value = "No"
		}
		return match, true
	}

	// Для select со списочным значением берём первый элемент
	if list, isList := value.([]string); isList && qt.IsChoice() {
		if len(list) == 0 {
			return nil, false
		}
		match.Value = list[0]
		return match, true
	}

	match.Value = value
	return match, true
}

var remoteIndicators = []string{"comfortable working from home", "productive working from home", "remote work"}
var companyIndicators = []string{"company name", "employer name", "which company", "name of company"}

// Validate проверяет, что совпадение логически осмысленно.
// Отсекает случаи вроде названия компании в поле GPA.
func (m *Matcher) Validate(label string, match *Match, qt form.QuestionType) bool {
	if match == nil || match.Value == nil {
		return false
	}
	valueStr, _ := match.Value.(string)
	if valueStr == "" {
		if _, isList := match.Value.([]string); !isList {
			return false
		}
	}

	// Резюме заполняется только в file-контрол
	if match.Key == "resumeUrl" && qt != form.TypeFile {
		m.logger.Info("отклонено совпадение резюме для не-file поля",
			zap.String("label", label))
		return false
	}

	context := strings.ToLower(label)

	if strings.Contains(context, "gpa") || strings.Contains(context, "grade point") {
		if match.Key == "currentCompany" {
			m.logger.Info("отклонено совпадение компании для вопроса о GPA",
				zap.String("label", label))
			return false
		}
		if match.Key == "educationGpa" {
			_, err := strconv.ParseFloat(valueStr, 64)
			return err == nil
		}
	}

	// Вопросы об удалёнке ожидают Yes/No
	for _, indicator := range remoteIndicators {
		if strings.Contains(context, indicator) {
			if valueStr != "Yes" && valueStr != "No" {
				m.logger.Info("отклонено совпадение для вопроса об удалённой работе",
					zap.String("key", match.Key), zap.String("label", label))
				return false
			}
		}
	}

	// Вопросы о названии компании не принимают Yes/No и GPA
	for _, indicator := range companyIndicators {
		if strings.Contains(context, indicator) {
			if match.Key == "educationGpa" || valueStr == "Yes" || valueStr == "No" {
				m.logger.Info("отклонено совпадение для вопроса о названии компании",
					zap.String("key", match.Key), zap.String("label", label))
				return false
			}
		}
	}

	return true
}
