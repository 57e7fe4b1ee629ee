package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"applyAgent/internal/form"
	"applyAgent/internal/profile"
)

func testMatcher(t *testing.T, raw map[string]any) *Matcher {
	t.Helper()
	p, err := profile.FromMap(raw)
	require.NoError(t, err)
	return New(p, zap.NewNop())
}

func TestMatchPrefersLongerKeyword(t *testing.T) {
	m := testMatcher(t, map[string]any{
		"fullName": "Ivan Petrov",
		"email":    "ivan@example.com",
	})

	// "first name" длиннее и специфичнее, чем "name"
	match, ok := m.Match("First Name *", form.TypeInput, nil)
	require.True(t, ok)
	assert.Equal(t, "firstName", match.Key)
	assert.Equal(t, "Ivan", match.Value)
	assert.Equal(t, form.SectionPersonal, match.Section)
}

func TestMatchEmail(t *testing.T) {
	m := testMatcher(t, map[string]any{"email": "ivan@example.com"})

	match, ok := m.Match("Email address", form.TypeInput, nil)
	require.True(t, ok)
	assert.Equal(t, "email", match.Key)
	assert.Equal(t, "ivan@example.com", match.Value)
}

func TestMatchNoLabel(t *testing.T) {
	m := testMatcher(t, map[string]any{"email": "ivan@example.com"})
	_, ok := m.Match("", form.TypeInput, nil)
	assert.False(t, ok)
}

func TestMatchMissingProfileValue(t *testing.T) {
	m := testMatcher(t, map[string]any{"email": "ivan@example.com"})
	_, ok := m.Match("LinkedIn profile", form.TypeInput, nil)
	assert.False(t, ok)
}

func TestMatchBooleanBecomesYesNo(t *testing.T) {
	m := testMatcher(t, map[string]any{"eligibleUS": true, "usSponsorship": false})

	match, ok := m.Match("Are you authorized to work in the United States?", form.TypeSelect, nil)
	require.True(t, ok)
	assert.Equal(t, "eligibleUS", match.Key)
	assert.Equal(t, "Yes", match.Value)

	match, ok = m.Match("Do you require visa sponsorship?", form.TypeSelect, nil)
	require.True(t, ok)
	assert.Equal(t, "usSponsorship", match.Key)
	assert.Equal(t, "No", match.Value)
}

func TestMatchComplianceDefaults(t *testing.T) {
	m := testMatcher(t, map[string]any{})

	match, ok := m.Match("Have you ever been convicted of a felony?", form.TypeSelect, nil)
	require.True(t, ok)
	assert.Equal(t, "convictedFelon", match.Key)
	assert.Equal(t, "No", match.Value)

	match, ok = m.Match("Do you consent to a background check?", form.TypeSelect, nil)
	require.True(t, ok)
	assert.Equal(t, "backgroundCheckConsent", match.Key)
	assert.Equal(t, "Yes", match.Value)
}

func TestMatchFileInputBoost(t *testing.T) {
	m := testMatcher(t, map[string]any{"resumeUrl": "https://example.com/resume.pdf"})

	match, ok := m.Match("Upload a file or drag and drop here", form.TypeFile, nil)
	require.True(t, ok)
	assert.Equal(t, "resumeUrl", match.Key)
}

func TestMatchFileInputFallback(t *testing.T) {
	m := testMatcher(t, map[string]any{"resumeUrl": "https://example.com/resume.pdf"})

	// Метка без ключевых слов резюме, но с обобщённым словом загрузки
	match, ok := m.Match("Browse your documents", form.TypeFile, nil)
	require.True(t, ok)
	assert.Equal(t, "resumeUrl", match.Key)
	assert.Equal(t, 5, match.Score)
}

func TestMatchEducationUsageCounting(t *testing.T) {
	m := testMatcher(t, map[string]any{
		"education": []map[string]any{
			{"school": "MIT"},
			{"school": "Stanford"},
		},
	})

	match, ok := m.Match("School", form.TypeInput, map[string]int{})
	require.True(t, ok)
	assert.Equal(t, "MIT", match.Value)

	match, ok = m.Match("School", form.TypeInput, map[string]int{"school": 1})
	require.True(t, ok)
	assert.Equal(t, "Stanford", match.Value)

	_, ok = m.Match("School", form.TypeInput, map[string]int{"school": 2})
	assert.False(t, ok)
}

func TestMatchSelectWithListValueTakesFirst(t *testing.T) {
	m := testMatcher(t, map[string]any{"race": []string{"Asian", "White"}})

	match, ok := m.Match("What is your race?", form.TypeSelect, nil)
	require.True(t, ok)
	assert.Equal(t, "Asian", match.Value)
}

func TestMatchGpaQuestion(t *testing.T) {
	m := testMatcher(t, map[string]any{
		"education": []map[string]any{
			{"school": "MIT", "educationGpa": "3.8"},
		},
	})

	// Голое "gpa" в метке должно находить educationGpa без длинных фраз
	match, ok := m.Match("What is your GPA?*", form.TypeInput, map[string]int{})
	require.True(t, ok)
	assert.Equal(t, "educationGpa", match.Key)
	assert.Equal(t, "3.8", match.Value)
	assert.Equal(t, form.SectionEducation, match.Section)
	assert.True(t, m.Validate("What is your GPA?*", match, form.TypeInput))

	match, ok = m.Match("Grade point average", form.TypeInput, map[string]int{})
	require.True(t, ok)
	assert.Equal(t, "educationGpa", match.Key)
}

func TestValidateRejectsResumeForTextField(t *testing.T) {
	m := testMatcher(t, map[string]any{"resumeUrl": "https://example.com/resume.pdf"})

	match := &Match{Key: "resumeUrl", Value: "https://example.com/resume.pdf"}
	assert.False(t, m.Validate("Resume", match, form.TypeInput))
	assert.True(t, m.Validate("Resume", match, form.TypeFile))
}

func TestValidateGPA(t *testing.T) {
	m := testMatcher(t, map[string]any{})

	assert.False(t, m.Validate("What is your GPA?",
		&Match{Key: "currentCompany", Value: "Acme"}, form.TypeInput))
	assert.True(t, m.Validate("What is your GPA?",
		&Match{Key: "educationGpa", Value: "3.8"}, form.TypeInput))
	assert.False(t, m.Validate("What is your GPA?",
		&Match{Key: "educationGpa", Value: "three point eight"}, form.TypeInput))
}

func TestValidateRemoteWorkNeedsYesNo(t *testing.T) {
	m := testMatcher(t, map[string]any{})

	assert.False(t, m.Validate("Are you comfortable working from home?",
		&Match{Key: "currentCompany", Value: "Acme"}, form.TypeSelect))
	assert.True(t, m.Validate("Are you comfortable working from home?",
		&Match{Key: "generalYes", Value: "Yes"}, form.TypeSelect))
}

func TestValidateCompanyNameRejectsYesNo(t *testing.T) {
	m := testMatcher(t, map[string]any{})

	assert.False(t, m.Validate("Company name",
		&Match{Key: "generalYes", Value: "Yes"}, form.TypeInput))
	assert.True(t, m.Validate("Company name",
		&Match{Key: "currentCompany", Value: "Acme"}, form.TypeInput))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "First name", CleanLabel("first_name"))
	assert.Equal(t, "Are you over 18?", CleanLabel("Are  you over 18?"))
	assert.Equal(t, "Whats your GPA?", CleanLabel("What’s your GPA?"))
}
