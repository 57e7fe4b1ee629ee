package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapNormalizesNames(t *testing.T) {
	p, err := FromMap(map[string]any{
		"fullName": "Ivan Petrov Sidorov",
		"email":    "ivan@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ivan", p.FirstName)
	assert.Equal(t, "Petrov Sidorov", p.LastName)

	v, ok := p.Value("firstName")
	require.True(t, ok)
	assert.Equal(t, "Ivan", v)
}

func TestNormalizeKeepsExplicitNames(t *testing.T) {
	p, err := FromMap(map[string]any{
		"fullName":  "Ivan Petrov",
		"firstName": "Vanya",
	})
	require.NoError(t, err)
	assert.Equal(t, "Vanya", p.FirstName)
	assert.Equal(t, "Petrov", p.LastName)
}

func TestNormalizeHispanicAppendsToRace(t *testing.T) {
	p, err := FromMap(map[string]any{
		"race":     []string{"Asian"},
		"hispanic": true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Asian", "Hispanic or Latino"}, p.Race)
}

func TestNormalizeEducationDates(t *testing.T) {
	p, err := FromMap(map[string]any{
		"education": []map[string]any{
			{
				"school":        "MIT",
				"educationFrom": "9/2019",
				"educationTo":   "06/2023",
				"educationGpa":  "3.8",
			},
		},
	})
	require.NoError(t, err)

	edu := p.Education[0]
	assert.Equal(t, "09", edu.StartMonth)
	assert.Equal(t, "2019", edu.StartYear)
	assert.Equal(t, "06", edu.EndMonth)
	assert.Equal(t, "2023", edu.EndYear)

	gpa, ok := p.Value("educationGpa")
	require.True(t, ok)
	assert.Equal(t, "3.8", gpa)
}

func TestEducationValueByUsage(t *testing.T) {
	p, err := FromMap(map[string]any{
		"education": []map[string]any{
			{"school": "MIT"},
			{"school": "Stanford"},
		},
	})
	require.NoError(t, err)

	first, ok := p.EducationValue("school", 0)
	require.True(t, ok)
	assert.Equal(t, "MIT", first)

	second, ok := p.EducationValue("school", 1)
	require.True(t, ok)
	assert.Equal(t, "Stanford", second)

	_, ok = p.EducationValue("school", 2)
	assert.False(t, ok)
}

func TestNormalizeCurrentEmployment(t *testing.T) {
	p, err := FromMap(map[string]any{
		"employment": []map[string]any{
			{"company": "Acme", "title": "Engineer", "toDate": ""},
		},
	})
	require.NoError(t, err)

	company, _ := p.Value("currentCompany")
	assert.Equal(t, "Acme", company)
	title, _ := p.Value("currentTitle")
	assert.Equal(t, "Engineer", title)
}

func TestNormalizePastEmployment(t *testing.T) {
	p, err := FromMap(map[string]any{
		"employment": []map[string]any{
			{"company": "Acme", "title": "Engineer", "toDate": "01/2024"},
		},
	})
	require.NoError(t, err)

	company, _ := p.Value("currentCompany")
	assert.Equal(t, "N/A", company)
}

func TestNormalizeComplianceDefaults(t *testing.T) {
	p, err := FromMap(map[string]any{})
	require.NoError(t, err)

	for key, want := range map[string]bool{
		"convictedFelon":         false,
		"criminalRecord":         false,
		"backgroundCheckConsent": true,
		"drugTestConsent":        true,
		"generalYes":             true,
	} {
		v, ok := p.Value(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

func TestNormalizeEnumLabels(t *testing.T) {
	p, err := FromMap(map[string]any{
		"roleLevel":               "mid-senior",
		"companySize":             "startup",
		"jobTypes":                []string{"fulltime", "contract"},
		"locationPreferences":     []string{"toronto-on", "remote"},
		"industrySpecializations": []string{"backend", "ml_ai"},
	})
	require.NoError(t, err)

	level, _ := p.Value("roleLevel")
	assert.Equal(t, "Senior (3-5 years)", level)
	size, _ := p.Value("companySize")
	assert.Equal(t, "Startup (1-50 employees)", size)
	jt, _ := p.Value("jobTypes")
	assert.Equal(t, "Full-time, Contract", jt)
	loc, _ := p.Value("locationPreferences")
	assert.Equal(t, "Toronto, Ontario, Remote", loc)
	ind, _ := p.Value("industrySpecializations")
	assert.Equal(t, "Backend Engineer, Machine Learning & AI", ind)
}

func TestMapLocationUnknownSlug(t *testing.T) {
	assert.Equal(t, "Kelowna, Bc", MapLocation("kelowna-bc"))
	assert.Equal(t, "somewhere", MapLocation("somewhere"))
}

func TestEarliestStart(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		notice string
		want   string
	}{
		{"Immediate", "03/01/2026"},
		{"2 weeks", "03/15/2026"},
		{"1 month", "04/01/2026"},
		{"3", "03/22/2026"},
		{"soon", "03/15/2026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, earliestStart(tt.notice, today), tt.notice)
	}
}

func TestSummaryContainsKeyFacts(t *testing.T) {
	p, err := FromMap(map[string]any{
		"fullName":        "Ivan Petrov",
		"currentLocation": "Toronto",
		"skills":          []string{"Go", "Python"},
		"employment": []map[string]any{
			{"company": "Acme", "title": "Engineer"},
		},
		"eligibleUS": true,
	})
	require.NoError(t, err)

	summary := p.Summary()
	assert.Contains(t, summary, "Name: Ivan Petrov")
	assert.Contains(t, summary, "Current: Engineer at Acme")
	assert.Contains(t, summary, "Skills: Go, Python")
	assert.Contains(t, summary, "US-eligible")
}
