package triage

import "strings"

// Emergency-indicating terms. Their presence forces CRITICAL priority with
// the emergency resolution window regardless of category.
var emergencyTerms = []string{
	"fire",
	"trapped",
	"life-threatening",
	"life threatening",
	"dying",
	"death",
	"collapsed",
	"drowning",
	"accident",
	"bleeding",
	"explosion",
	"urgent help",
	"emergency",
}

// Keyword tables per category, matched case-insensitively against the
// grievance text. Order matters: earlier categories win ties, so the
// higher-priority categories are listed first.
var categoryKeywords = []struct {
	category Category
	terms    []string
}{
	{CategoryHealth, []string{
		"hospital", "medicine", "doctor", "clinic", "ambulance", "disease",
		"sanitation", "sewage", "garbage", "drainage", "epidemic", "patients",
	}},
	{CategoryElectricity, []string{
		"electricity", "power cut", "power outage", "transformer", "voltage",
		"street light", "streetlight", "electric pole", "current",
	}},
	{CategoryWater, []string{
		"water", "irrigation", "borewell", "hand pump", "handpump", "canal",
		"tap", "pipeline", "drinking water", "tanker",
	}},
	{CategoryInfrastructure, []string{
		"road", "pothole", "bridge", "footpath", "culvert", "highway",
		"construction", "repair",
	}},
	{CategoryLawOrder, []string{
		"police", "theft", "crime", "harassment", "assault", "encroachment",
		"illegal", "violence", "threat",
	}},
	{CategoryAgriculture, []string{
		"crop", "farmer", "fertilizer", "seeds", "harvest", "pesticide",
		"mandi", "tractor", "msp",
	}},
	{CategoryEducation, []string{
		"school", "teacher", "student", "scholarship", "college", "exam",
		"classroom", "midday meal",
	}},
	{CategoryWelfare, []string{
		"pension", "ration", "card", "scheme", "subsidy", "housing",
		"widow", "disability", "bpl",
	}},
	{CategoryUrbanRural, []string{
		"panchayat", "municipality", "ward", "colony", "development",
		"park", "community hall",
	}},
	{CategoryForests, []string{
		"forest", "tree", "pollution", "wildlife", "environment",
		"deforestation", "mining",
	}},
	{CategoryFinance, []string{
		"tax", "loan", "bank", "payment", "revenue", "compensation", "refund",
	}},
}

// ContainsEmergency reports whether the text carries emergency-indicating
// language.
func ContainsEmergency(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range emergencyTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// matchCategory scans the keyword tables in priority order and returns the
// first category with a matching term. The second return reports whether a
// match was found.
func matchCategory(text string) (Category, bool) {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				return entry.category, true
			}
		}
	}
	return CategoryMiscellaneous, false
}
