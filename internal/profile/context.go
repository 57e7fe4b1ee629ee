package profile

import (
	"fmt"
	"strings"
)

// Summary строит компактное текстовое описание профиля для AI-промптов.
// Формат "Метка: значение" по строке на факт, пустые поля пропускаются.
func (p *Profile) Summary() string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Name", p.FullName)
	add("Location", p.CurrentLocation)

	if len(p.Employment) > 0 {
		job := p.Employment[0]
		if job.Company != "" && job.Title != "" {
			add("Current", job.Title+" at "+job.Company)
		}
		var dates []string
		if job.FromDate != "" {
			dates = append(dates, "from "+job.FromDate)
		}
		if job.ToDate != "" {
			dates = append(dates, "to "+job.ToDate)
		} else {
			dates = append(dates, "to present")
		}
		add("Employment", strings.Join(dates, " "))
	}

	if len(p.Education) > 0 {
		edu := p.Education[0]
		if edu.Degree != "" && edu.School != "" {
			add("Education", mapLabel(degreeLabels, edu.Degree)+" from "+edu.School)
		}
		add("Major", edu.FieldOfStudy)
		add("GPA", edu.EducationGpa)
		var dates []string
		if edu.EducationFrom != "" {
			dates = append(dates, "from "+edu.EducationFrom)
		}
		if edu.EducationTo != "" {
			dates = append(dates, "to "+edu.EducationTo)
		}
		add("Education Period", strings.Join(dates, " "))
	}

	if len(p.Skills) > 0 {
		skills := p.Skills
		if len(skills) > 8 {
			skills = skills[:8]
		}
		add("Skills", strings.Join(skills, ", "))
	}

	add("Salary", p.ExpectedSalary)
	add("Level", mapLabel(roleLevelLabels, p.RoleLevel))
	add("Notice", p.NoticePeriod)

	if len(p.JobTypes) > 0 {
		add("Job Types", mapLabels(jobTypeLabels, p.JobTypes))
	}
	if len(p.LocationPreferences) > 0 {
		prefs := p.LocationPreferences
		if len(prefs) > 3 {
			prefs = prefs[:3]
		}
		labels := make([]string, 0, len(prefs))
		for _, slug := range prefs {
			labels = append(labels, MapLocation(slug))
		}
		add("Location Prefs", strings.Join(labels, ", "))
	}
	if len(p.IndustrySpecializations) > 0 {
		specs := p.IndustrySpecializations
		if len(specs) > 3 {
			specs = specs[:3]
		}
		add("Industries", mapLabels(industryLabels, specs))
	}

	add("Source", p.Source)

	var auth []string
	if p.EligibleUS != nil && *p.EligibleUS {
		auth = append(auth, "US-eligible")
	}
	if p.USSponsorship != nil && *p.USSponsorship {
		auth = append(auth, "needs-US-sponsorship")
	}
	if p.EligibleCanada != nil && *p.EligibleCanada {
		auth = append(auth, "Canada-eligible")
	}
	if p.Over18 != nil && *p.Over18 {
		auth = append(auth, "18+")
	}
	add("Auth", strings.Join(auth, ", "))

	var demo []string
	addDemo := func(name, value string) {
		if value != "" {
			demo = append(demo, fmt.Sprintf("%s:%s", name, value))
		}
	}
	addDemo("race", strings.Join(p.Race, "/"))
	addDemo("gender", p.Gender)
	addDemo("veteran", p.Veteran)
	addDemo("disability", p.Disability)
	addDemo("trans", p.Trans)
	addDemo("sexuality", p.Sexuality)
	add("Demo", strings.Join(demo, ", "))

	return strings.Join(parts, "\n")
}
