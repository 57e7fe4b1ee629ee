package profile

import "strings"

// Таблицы значение→метка для enum-полей профиля.
// Формы порталов показывают человекочитаемые метки, профиль хранит слаги.

var jobTypeLabels = map[string]string{
	"fulltime":   "Full-time",
	"full_time":  "Full Time",
	"parttime":   "Part-time",
	"part_time":  "Part Time",
	"temporary":  "Temporary",
	"contract":   "Contract",
	"internship": "Internship",
}

var locationLabels = map[string]string{
	"new-york-ny":      "New York, NY",
	"mountain-view-ca": "Mountain View, CA",
	"san-francisco-ca": "San Francisco, CA",
	"san-jose-ca":      "San Jose, CA",
	"sunnyvale-ca":     "Sunnyvale, CA",
	"san-mateo-ca":     "San Mateo, CA",
	"redwood-city-ca":  "Redwood City, CA",
	"palo-alto-ca":     "Palo Alto, CA",
	"menlo-park-ca":    "Menlo Park, CA",
	"foster-city-ca":   "Foster City, CA",
	"belmont-ca":       "Belmont, CA",
	"bellevue-wa":      "Bellevue, WA",
	"seattle-wa":       "Seattle, WA",
	"austin-tx":        "Austin, TX",
	"boston-ma":        "Boston, MA",
	"los-angeles-ca":   "Los Angeles, CA",
	"chicago-il":       "Chicago, IL",
	"denver-co":        "Denver, CO",
	"miami-fl":         "Miami, FL",
	"washington-dc":    "Washington, DC",
	"portland-or":      "Portland, OR",
	"atlanta-ga":       "Atlanta, GA",
	"dallas-tx":        "Dallas, TX",
	"san-diego-ca":     "San Diego, CA",
	"nashville-tn":     "Nashville, TN",
	"philadelphia-pa":  "Philadelphia, PA",
	"phoenix-az":       "Phoenix, AZ",
	"minneapolis-mn":   "Minneapolis, MN",
	"pittsburgh-pa":    "Pittsburgh, PA",
	"raleigh-nc":       "Raleigh, NC",
	"toronto-on":       "Toronto, Ontario",
	"vancouver-bc":     "Vancouver, British Columbia",
	"montreal-qc":      "Montreal, Quebec",
	"calgary-ab":       "Calgary, Alberta",
	"ottawa-on":        "Ottawa, Ontario",
	"edmonton-ab":      "Edmonton, Alberta",
	"halifax-ns":       "Halifax, Nova Scotia",
	"victoria-bc":      "Victoria, British Columbia",
	"winnipeg-mb":      "Winnipeg, Manitoba",
	"quebec-city-qc":   "Quebec City, Quebec",
	"hamilton-on":      "Hamilton, Ontario",
	"kitchener-on":     "Kitchener, Ontario",
	"mississauga-on":   "Mississauga, Ontario",
	"burnaby-bc":       "Burnaby, British Columbia",
	"surrey-bc":        "Surrey, British Columbia",
	"remote":           "Remote",
}

var roleLevelLabels = map[string]string{
	"internship": "Intern & Co-op",
	"entry":      "Entry Level & New Grad",
	"associate":  "Junior (1-3 years)",
	"mid-senior": "Senior (3-5 years)",
	"director":   "Director & Lead",
	"executive":  "Executive",
}

var industryLabels = map[string]string{
	"backend":      "Backend Engineer",
	"frontend":     "Frontend Engineer",
	"fullstack":    "Full Stack Engineer",
	"mobile":       "Mobile Development",
	"devops":       "DevOps & Infrastructure",
	"data_science": "Data Science",
	"data_engineer": "Data Engineer",
	"ml_ai":        "Machine Learning & AI",
	"product":      "Product Management",
	"ux_ui":        "UX/UI Design",
	"qa":           "QA & Testing",
	"security":     "Security Engineer",
	"cloud":        "Cloud Computing",
	"blockchain":   "Blockchain",
	"game_dev":     "Game Development",
	"ar_vr":        "AR/VR Development",
	"embedded":     "Embedded Systems",
	"iot":          "IoT Engineer",
	"robotics":     "Robotics",
	"fintech":      "Fintech",
	"healthtech":   "Healthtech",
	"edtech":       "Edtech",
	"ecommerce":    "E-commerce",
	"martech":      "Marketing Technology",
	"enterprise":   "Enterprise Software",
}

var companySizeLabels = map[string]string{
	"startup":    "Startup (1-50 employees)",
	"small":      "Small (51-200 employees)",
	"medium":     "Medium (201-1000 employees)",
	"large":      "Large (1001-5000 employees)",
	"enterprise": "Enterprise (5000+ employees)",
}

var degreeLabels = map[string]string{
	"high_school": "High School",
	"associate":   "Associate Degree",
	"bachelor":    "Bachelor's Degree",
	"master":      "Master's Degree",
	"doctorate":   "Doctorate",
	"other":       "Other",
}

func mapLabel(table map[string]string, value string) string {
	if label, ok := table[value]; ok {
		return label
	}
	return value
}

func mapLabels(table map[string]string, values []string) string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, mapLabel(table, v))
	}
	return strings.Join(labels, ", ")
}

// MapLocation переводит слаг локации в человекочитаемую метку.
// Неизвестный слаг форматируется по словам: "kelowna-bc" → "Kelowna, Bc".
func MapLocation(slug string) string {
	if label, ok := locationLabels[slug]; ok {
		return label
	}
	parts := strings.Split(slug, "-")
	if len(parts) < 2 {
		return slug
	}
	city := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if p == "" {
			continue
		}
		city = append(city, strings.ToUpper(p[:1])+p[1:])
	}
	region := parts[len(parts)-1]
	if region != "" {
		region = strings.ToUpper(region[:1]) + region[1:]
	}
	return strings.Join(city, " ") + ", " + region
}
