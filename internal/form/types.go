// Package form содержит модель вопроса формы и представление ответа.
// Один FormQuestion соответствует одному обнаруженному контролу на странице портала.
package form

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"applyAgent/internal/browser"
)

// QuestionType определяет тип контрола формы.
type QuestionType string

const (
	TypeInput       QuestionType = "input"
	TypeNumber      QuestionType = "number"
	TypeTextarea    QuestionType = "textarea"
	TypeSelect      QuestionType = "select"
	TypeMultiselect QuestionType = "multiselect"
	TypeDate        QuestionType = "date"
	TypeFile        QuestionType = "file"
	TypeCheckbox    QuestionType = "checkbox"
)

// ParseQuestionType определяет тип вопроса по атрибуту type и имени тега.
// Неизвестные типы считаются обычным текстовым вводом.
func ParseQuestionType(typeAttr, tagName string) QuestionType {
	switch strings.ToLower(tagName) {
	case "textarea":
		return TypeTextarea
	case "select":
		return TypeSelect
	}

	switch strings.ToLower(strings.TrimSpace(typeAttr)) {
	case "number":
		return TypeNumber
	case "date":
		return TypeDate
	case "file":
		return TypeFile
	case "checkbox":
		return TypeCheckbox
	case "select", "select-one":
		return TypeSelect
	case "multiselect":
		return TypeMultiselect
	default:
		return TypeInput
	}
}

// IsChoice сообщает, отвечает ли тип выбором из списка опций.
func (t QuestionType) IsChoice() bool {
	return t == TypeSelect || t == TypeMultiselect
}

// Section определяет раздел формы, выведенный из сматченного ключа профиля.
type Section string

const (
	SectionPersonal    Section = "personal"
	SectionEducation   Section = "education"
	SectionExperience  Section = "experience"
	SectionResume      Section = "resume"
	SectionCoverLetter Section = "cover_letter"
	SectionAdditional  Section = "additional"
	SectionDemographic Section = "demographic"
)

// AnswerKind — дискриминатор tagged union представления ответа.
// Потребители ветвятся по Kind, а не по флагу Pruned вопроса.
type AnswerKind int

const (
	// AnswerNone означает "пропустить поле". Это не ошибка.
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerIndex
	AnswerIndexList
	AnswerLabel
	AnswerNumber
	AnswerFile
)

// FileAnswer описывает источник и имя файла для file-контролов.
type FileAnswer struct {
	SourceURL string `json:"source_url,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// Answer — разрешённое значение вопроса.
// Заполнено ровно одно из полей, соответствующее Kind.
type Answer struct {
	Kind    AnswerKind
	Text    string
	Index   int
	Indices []int
	Number  float64
	File    *FileAnswer
}

func NoAnswer() Answer                { return Answer{Kind: AnswerNone} }
func TextAnswer(s string) Answer      { return Answer{Kind: AnswerText, Text: s} }
func IndexAnswer(i int) Answer        { return Answer{Kind: AnswerIndex, Index: i} }
func IndexListAnswer(is []int) Answer { return Answer{Kind: AnswerIndexList, Indices: is} }
func LabelAnswer(s string) Answer     { return Answer{Kind: AnswerLabel, Text: s} }
func NumberAnswer(n float64) Answer   { return Answer{Kind: AnswerNumber, Number: n} }
func FileUpload(f FileAnswer) Answer  { return Answer{Kind: AnswerFile, File: &f} }

// IsNone сообщает, что ответа нет и поле нужно пропустить.
func (a Answer) IsNone() bool { return a.Kind == AnswerNone }

// Value возвращает естественное представление ответа для сериализации:
// индекс, список индексов, строку, число или nil.
func (a Answer) Value() any {
	switch a.Kind {
	case AnswerText, AnswerLabel:
		return a.Text
	case AnswerIndex:
		return a.Index
	case AnswerIndexList:
		return a.Indices
	case AnswerNumber:
		// Целые значения сериализуем без дробной части
		if a.Number == float64(int64(a.Number)) {
			return int64(a.Number)
		}
		return a.Number
	case AnswerFile:
		return a.File
	default:
		return nil
	}
}

// String возвращает текстовую форму ответа для логов и повторного скоринга.
func (a Answer) String() string {
	switch a.Kind {
	case AnswerText, AnswerLabel:
		return a.Text
	case AnswerIndex:
		return fmt.Sprintf("%d", a.Index)
	case AnswerNumber:
		if a.Number == float64(int64(a.Number)) {
			return fmt.Sprintf("%d", int64(a.Number))
		}
		return fmt.Sprintf("%g", a.Number)
	case AnswerFile:
		if a.File == nil {
			return ""
		}
		return a.File.Filename
	default:
		return ""
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}

// FormQuestion — один обнаруженный контрол формы.
type FormQuestion struct {
	ID       string          `json:"id"`
	Element  browser.Element `json:"-"`
	Type     QuestionType    `json:"type"`
	Question string          `json:"question"`
	Required bool            `json:"required"`
	Options  []string        `json:"options,omitempty"`
	Answer   Answer          `json:"answer"`
	Section  Section         `json:"section"`

	// AICustom выставляется, когда ответ дал AI-резолвер на открытый вопрос.
	AICustom bool `json:"ai_custom"`
	// Pruned выставляется, когда список опций превысил порог и ответ
	// хранится как текст метки, а не позиционный индекс.
	Pruned bool `json:"pruned"`
	// Count — порядковый номер среди вопросов с одинаковой меткой.
	Count int `json:"count"`
}

// NewQuestion создаёт вопрос с уникальным идентификатором.
func NewQuestion(el browser.Element, qt QuestionType, label string, required bool) *FormQuestion {
	return &FormQuestion{
		ID:       uuid.NewString(),
		Element:  el,
		Type:     qt,
		Question: label,
		Required: required,
		Answer:   NoAnswer(),
		Section:  SectionAdditional,
	}
}

// FieldResult — результат обработки одного поля.
// Ошибка одного поля никогда не прерывает заполнение остальных:
// оркестратор сам решает, продолжать ли, по содержимому результата.
type FieldResult struct {
	Question *FormQuestion
	Matched  bool
	Err      error
}
