package matcher

import "applyAgent/internal/form"

// fieldKeywords — таблица ключ профиля → ключевые слова метки.
// Скоринг суммирует длины найденных ключевых слов, поэтому более
// специфичные (длинные) фразы перевешивают короткие.
var fieldKeywords = map[string][]string{
	// Персональные данные
	"fullName":        {"full name", "name", "fname", "full_name", "applicant name"},
	"firstName":       {"first name", "fname", "first_name", "given name", "firstname", "preferred first name"},
	"lastName":        {"last name", "lname", "last_name", "surname", "family name", "lastname"},
	"email":           {"email", "email address", "e-mail", "mail"},
	"phoneNumber":     {"phone", "telephone", "mobile", "phone number", "contact number"},
	"currentLocation": {"location", "address", "city", "current location", "where are you located"},
	"resumeUrl": {"resume", "cv", "resume url", "curriculum vitae", "upload resume", "attach resume",
		"resume file", "cv file", "upload cv", "attach cv", "upload a file", "drag and drop",
		"file upload", "attach file", "choose file", "browse file", "upload document", "attach document"},
	"resumeFilename": {"resume name", "cv name", "file name"},

	// Соцсети
	"linkedin":  {"linkedin", "linkedin url", "linkedin profile", "linkedin link"},
	"twitter":   {"twitter", "twitter url", "twitter profile", "twitter link", "twitter handle"},
	"github":    {"github", "github url", "github profile", "github link"},
	"portfolio": {"portfolio", "website", "personal website", "portfolio url", "portfolio link"},

	// Демография
	"gender":     {"gender", "sex"},
	"veteran":    {"veteran", "military", "veteran status", "military service"},
	"sexuality":  {"sexuality", "sexual orientation", "lgbtq"},
	"race":       {"race", "ethnicity", "racial background", "ethnic background"},
	"hispanic":   {"hispanic", "latino", "hispanic or latino", "latino/hispanic"},
	"disability": {"disability", "disabled", "disability status", "accommodations needed"},
	"trans":      {"transgender", "trans", "trans status"},

	// Разрешение на работу
	"eligibleCanada": {"eligible canada", "canada eligible", "eligible to work in canada", "canadian work authorization"},
	"eligibleUS": {"eligible to work", "work authorization", "authorized to work", "us eligible", "work eligible",
		"eligible to work in the us", "eligible to work in the united states", "us work authorization",
		"authorized to work in the us", "authorized to work in the united states"},
	"usSponsorship": {"sponsorship", "visa sponsorship", "require sponsorship", "need sponsorship", "h1b sponsorship"},
	"caSponsorship": {"canada sponsorship", "canadian sponsorship", "require canada sponsorship"},
	"over18":        {"over 18", "age verification", "are you over 18", "18 years old"},

	// Предпочтения по работе
	"noticePeriod":   {"notice period"},
	"expectedSalary": {"salary", "expected salary", "salary expectation", "compensation", "salary range", "desired salary"},
	"roleLevel":      {"role level", "experience level", "seniority level", "career level", "job level"},
	"companySize":    {"company size", "organization size", "team size preference"},

	"skills": {"skills", "technical skills", "key skills", "core skills"},

	"source": {"source", "how did you hear", "where did you hear", "referral source", "where did you find", "how you heard"},

	// Образование
	"school":              {"school", "university", "college", "institution", "alma mater"},
	"degree":              {"degree", "qualification", "education level", "diploma"},
	"fieldOfStudy":        {"field of study", "major", "subject", "area of study", "discipline", "concentration"},
	"educationGpa":        {"education gpa", "academic gpa", "university gpa", "college gpa"},
	"educationStartMonth": {"start month", "education start month", "enrollment month", "begin month"},
	"educationStartYear":  {"start year", "education start year", "enrollment year", "begin year"},
	"educationEndMonth":   {"graduation month", "completion month", "end month", "education end month"},
	"educationEndYear":    {"graduation year", "completion year", "end year", "education end year"},

	// Текущее место работы
	"currentCompany": {"current company", "employer", "company", "current employer", "organization"},
	"currentTitle":   {"current title", "current role", "current position"},

	// Типы занятости и предпочтения
	"jobTypes":                {"job type", "employment type", "position type", "work type"},
	"locationPreferences":     {"location preference", "preferred location", "preferred office location", "work location preference"},
	"industrySpecializations": {"industry", "industry preference", "specialization", "domain expertise"},

	// Стандартные комплаенс-вопросы
	"convictedFelon": {"convicted of a felony", "felony conviction", "criminal conviction", "convicted of a crime",
		"criminal background", "have you ever been convicted"},
	"criminalRecord":         {"criminal record", "criminal history", "been arrested", "pending charges"},
	"backgroundCheckConsent": {"background check", "consent to background check", "authorize background check", "criminal background check"},
	"drugTestConsent":        {"drug test", "consent to drug test", "drug screening", "substance abuse test"},
	"generalYes":             {"confirm", "agree", "acknowledge", "consent"},

	"earliestStartDate": {"earliest start date", "when can you start", "start date", "available start date",
		"earliest availability", "when are you available", "availability date", "can start on"},
}

// keySections — раздел формы по ключу профиля. Ключи без записи
// относятся к SectionAdditional.
var keySections = map[string]form.Section{
	"fullName":        form.SectionPersonal,
	"firstName":       form.SectionPersonal,
	"lastName":        form.SectionPersonal,
	"email":           form.SectionPersonal,
	"phoneNumber":     form.SectionPersonal,
	"currentLocation": form.SectionPersonal,
	"linkedin":        form.SectionPersonal,
	"twitter":         form.SectionPersonal,
	"github":          form.SectionPersonal,
	"portfolio":       form.SectionPersonal,

	"resumeUrl":      form.SectionResume,
	"resumeFilename": form.SectionResume,

	"gender":     form.SectionDemographic,
	"veteran":    form.SectionDemographic,
	"sexuality":  form.SectionDemographic,
	"race":       form.SectionDemographic,
	"hispanic":   form.SectionDemographic,
	"disability": form.SectionDemographic,
	"trans":      form.SectionDemographic,

	"school":              form.SectionEducation,
	"degree":              form.SectionEducation,
	"fieldOfStudy":        form.SectionEducation,
	"educationGpa":        form.SectionEducation,
	"educationStartMonth": form.SectionEducation,
	"educationStartYear":  form.SectionEducation,
	"educationEndMonth":   form.SectionEducation,
	"educationEndYear":    form.SectionEducation,

	"currentCompany": form.SectionExperience,
	"currentTitle":   form.SectionExperience,
	"skills":         form.SectionExperience,
	"roleLevel":      form.SectionExperience,
}

// SectionFor возвращает раздел формы для ключа профиля.
func SectionFor(profileKey string) form.Section {
	if s, ok := keySections[profileKey]; ok {
		return s
	}
	return form.SectionAdditional
}
