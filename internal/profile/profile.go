// Package profile содержит профиль соискателя и его нормализацию.
// Нормализованный профиль — плоская таблица ключ→значение, по которой
// работает матчер полей формы.
package profile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Education — одна запись об образовании. Записи отсортированы по убыванию
// давности: первая считается самой свежей.
type Education struct {
	School        string `mapstructure:"school"`
	Degree        string `mapstructure:"degree"`
	FieldOfStudy  string `mapstructure:"fieldOfStudy"`
	EducationGpa  string `mapstructure:"educationGpa"`
	EducationFrom string `mapstructure:"educationFrom"` // MM/YYYY
	EducationTo   string `mapstructure:"educationTo"`   // MM/YYYY

	// Производные поля, вычисляются в Normalize
	StartMonth string `mapstructure:"-"`
	StartYear  string `mapstructure:"-"`
	EndMonth   string `mapstructure:"-"`
	EndYear    string `mapstructure:"-"`
}

// Value возвращает значение образовательного ключа для этой записи.
func (e Education) Value(key string) string {
	switch key {
	case "school":
		return e.School
	case "degree":
		return mapLabel(degreeLabels, e.Degree)
	case "fieldOfStudy":
		return e.FieldOfStudy
	case "educationGpa":
		return e.EducationGpa
	case "educationStartMonth":
		return e.StartMonth
	case "educationStartYear":
		return e.StartYear
	case "educationEndMonth":
		return e.EndMonth
	case "educationEndYear":
		return e.EndYear
	default:
		return ""
	}
}

// Employment — одна запись об опыте работы.
// Пустая ToDate означает текущее место.
type Employment struct {
	Company  string `mapstructure:"company"`
	Title    string `mapstructure:"title"`
	FromDate string `mapstructure:"fromDate"`
	ToDate   string `mapstructure:"toDate"`
}

// Profile — профиль соискателя, как его присылает вызывающая сторона.
type Profile struct {
	FullName        string `mapstructure:"fullName"`
	FirstName       string `mapstructure:"firstName"`
	LastName        string `mapstructure:"lastName"`
	Email           string `mapstructure:"email"`
	PhoneNumber     string `mapstructure:"phoneNumber"`
	CurrentLocation string `mapstructure:"currentLocation"`
	ResumeURL       string `mapstructure:"resumeUrl"`
	ResumeFilename  string `mapstructure:"resumeFilename"`

	LinkedIn  string `mapstructure:"linkedin"`
	Twitter   string `mapstructure:"twitter"`
	GitHub    string `mapstructure:"github"`
	Portfolio string `mapstructure:"portfolio"`

	Gender     string   `mapstructure:"gender"`
	Veteran    string   `mapstructure:"veteran"`
	Sexuality  string   `mapstructure:"sexuality"`
	Race       []string `mapstructure:"race"`
	Hispanic   bool     `mapstructure:"hispanic"`
	Disability string   `mapstructure:"disability"`
	Trans      string   `mapstructure:"trans"`

	EligibleCanada *bool `mapstructure:"eligibleCanada"`
	EligibleUS     *bool `mapstructure:"eligibleUS"`
	USSponsorship  *bool `mapstructure:"usSponsorship"`
	CASponsorship  *bool `mapstructure:"caSponsorship"`
	Over18         *bool `mapstructure:"over18"`

	NoticePeriod   string `mapstructure:"noticePeriod"`
	ExpectedSalary string `mapstructure:"expectedSalary"`
	RoleLevel      string `mapstructure:"roleLevel"`
	CompanySize    string `mapstructure:"companySize"`
	Source         string `mapstructure:"source"`

	Skills                  []string `mapstructure:"skills"`
	JobTypes                []string `mapstructure:"jobTypes"`
	LocationPreferences     []string `mapstructure:"locationPreferences"`
	IndustrySpecializations []string `mapstructure:"industrySpecializations"`

	Education  []Education  `mapstructure:"education"`
	Employment []Employment `mapstructure:"employment"`

	// Pro включает премиальные AI-ответы (cover letter, открытые вопросы)
	Pro bool `mapstructure:"pro"`

	values map[string]any
}

// FromMap декодирует профиль из map и нормализует его.
func FromMap(raw map[string]any) (*Profile, error) {
	var p Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания декодера профиля: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("ошибка декодирования профиля: %w", err)
	}

	p.Normalize(time.Now())
	return &p, nil
}

// Normalize вычисляет производные поля и строит плоскую таблицу значений.
// today нужен для расчёта earliestStartDate из notice period.
func (p *Profile) Normalize(today time.Time) {
	// firstName/lastName из fullName, если не заданы явно
	if p.FullName != "" {
		parts := strings.Fields(p.FullName)
		if p.FirstName == "" && len(parts) > 0 {
			p.FirstName = parts[0]
		}
		if p.LastName == "" && len(parts) > 1 {
			p.LastName = strings.Join(parts[1:], " ")
		}
	}

	// hispanic добавляется к race
	if p.Hispanic && !containsString(p.Race, "Hispanic or Latino") {
		p.Race = append(p.Race, "Hispanic or Latino")
	}

	// Извлекаем месяц/год из дат образования в формате MM/YYYY
	for i := range p.Education {
		edu := &p.Education[i]
		if m, y, ok := splitMonthYear(edu.EducationFrom); ok {
			edu.StartMonth, edu.StartYear = m, y
		}
		if m, y, ok := splitMonthYear(edu.EducationTo); ok {
			edu.EndMonth, edu.EndYear = m, y
		}
	}

	p.values = map[string]any{}
	set := func(key string, value any) {
		switch v := value.(type) {
		case string:
			if v != "" {
				p.values[key] = v
			}
		case nil:
		default:
			p.values[key] = value
		}
	}

	set("fullName", p.FullName)
	set("firstName", p.FirstName)
	set("lastName", p.LastName)
	set("email", p.Email)
	set("phoneNumber", p.PhoneNumber)
	set("currentLocation", p.CurrentLocation)
	set("resumeUrl", p.ResumeURL)
	set("resumeFilename", p.ResumeFilename)
	set("linkedin", p.LinkedIn)
	set("twitter", p.Twitter)
	set("github", p.GitHub)
	set("portfolio", p.Portfolio)
	set("gender", p.Gender)
	set("veteran", p.Veteran)
	set("sexuality", p.Sexuality)
	set("disability", p.Disability)
	set("trans", p.Trans)
	set("noticePeriod", p.NoticePeriod)
	set("expectedSalary", p.ExpectedSalary)
	set("source", p.Source)
	set("roleLevel", mapLabel(roleLevelLabels, p.RoleLevel))
	set("companySize", mapLabel(companySizeLabels, p.CompanySize))

	if len(p.Race) > 0 {
		p.values["race"] = append([]string(nil), p.Race...)
	}
	if len(p.Skills) > 0 {
		p.values["skills"] = strings.Join(p.Skills, ", ")
	}
	if len(p.JobTypes) > 0 {
		p.values["jobTypes"] = mapLabels(jobTypeLabels, p.JobTypes)
	}
	if len(p.LocationPreferences) > 0 {
		labels := make([]string, 0, len(p.LocationPreferences))
		for _, slug := range p.LocationPreferences {
			labels = append(labels, MapLocation(slug))
		}
		p.values["locationPreferences"] = strings.Join(labels, ", ")
	}
	if len(p.IndustrySpecializations) > 0 {
		p.values["industrySpecializations"] = mapLabels(industryLabels, p.IndustrySpecializations)
	}

	setBool := func(key string, value *bool) {
		if value != nil {
			p.values[key] = *value
		}
	}
	setBool("eligibleCanada", p.EligibleCanada)
	setBool("eligibleUS", p.EligibleUS)
	setBool("usSponsorship", p.USSponsorship)
	setBool("caSponsorship", p.CASponsorship)
	setBool("over18", p.Over18)

	// GPA берём из самой свежей записи об образовании
	if len(p.Education) > 0 {
		set("educationGpa", p.Education[0].EducationGpa)
	}

	// Текущее место работы: пустая дата окончания значит "работаю сейчас"
	if len(p.Employment) > 0 {
		recent := p.Employment[0]
		if strings.TrimSpace(recent.ToDate) == "" {
			set("currentCompany", recent.Company)
		} else {
			p.values["currentCompany"] = "N/A"
		}
		set("currentTitle", recent.Title)
	}

	// Дефолтные ответы на стандартные комплаенс-вопросы
	p.values["convictedFelon"] = false
	p.values["criminalRecord"] = false
	p.values["backgroundCheckConsent"] = true
	p.values["drugTestConsent"] = true
	p.values["generalYes"] = true

	if p.NoticePeriod != "" {
		p.values["earliestStartDate"] = earliestStart(p.NoticePeriod, today)
	}
}

// Value возвращает нормализованное значение по ключу профиля.
func (p *Profile) Value(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// EducationValue возвращает значение образовательного ключа для N-го
// использования: второе поле "School" на форме читает вторую запись.
func (p *Profile) EducationValue(key string, usage int) (string, bool) {
	if usage < 0 || usage >= len(p.Education) {
		return "", false
	}
	v := p.Education[usage].Value(key)
	return v, v != ""
}

// IsEducationKey сообщает, относится ли ключ к разделу образования.
func IsEducationKey(key string) bool {
	switch key {
	case "school", "degree", "fieldOfStudy", "educationGpa",
		"educationStartMonth", "educationStartYear",
		"educationEndMonth", "educationEndYear":
		return true
	}
	return false
}

var digitsRe = regexp.MustCompile(`\d+`)

// earliestStart переводит notice period в дату самого раннего выхода
// в формате MM/DD/YYYY.
func earliestStart(notice string, today time.Time) string {
	notice = strings.ToLower(strings.TrimSpace(notice))

	var start time.Time
	switch {
	case strings.Contains(notice, "immediate"):
		start = today
	default:
		n := 2
		if m := digitsRe.FindString(notice); m != "" {
			fmt.Sscanf(m, "%d", &n)
		}
		if strings.Contains(notice, "month") {
			start = today.AddDate(0, n, 0)
		} else {
			// Недели по умолчанию, если единица не указана
			start = today.AddDate(0, 0, 7*n)
		}
	}

	return start.Format("01/02/2006")
}

func splitMonthYear(date string) (month, year string, ok bool) {
	parts := strings.Split(date, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	month = strings.TrimSpace(parts[0])
	if len(month) == 1 {
		month = "0" + month
	}
	return month, strings.TrimSpace(parts[1]), month != "" && parts[1] != ""
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
