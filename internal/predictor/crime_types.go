package predictor

import (
	"strings"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

const (
	crimeTypeViolent  = "violent"
	crimeTypeProperty = "property"
	crimeTypeDrug     = "drug"
	crimeTypeAssault  = "assault"
	crimeTypeGeneral  = "general"
)

var violentTitleKeywords = []string{"murder", "killing", "homicide", "shooting", "stabbing"}
var propertyTitleKeywords = []string{"theft", "robbery", "burglary", "stolen"}
var drugTitleKeywords = []string{"drug", "narcotics", "substance", "overdose"}
var assaultTitleKeywords = []string{"assault", "attack", "harassment"}

// classifyTitle buckets an article title into a coarse crime type. Categories
// are checked in priority order; the first match wins.
func classifyTitle(title string) string {
	lower := strings.ToLower(title)
	if containsAny(lower, violentTitleKeywords) {
		return crimeTypeViolent
	}
	if containsAny(lower, propertyTitleKeywords) {
		return crimeTypeProperty
	}
	if containsAny(lower, drugTitleKeywords) {
		return crimeTypeDrug
	}
	if containsAny(lower, assaultTitleKeywords) {
		return crimeTypeAssault
	}
	return crimeTypeGeneral
}

// classifyCrimeTypes collects the distinct crime types seen across the given
// articles, preserving first-seen order.
func classifyCrimeTypes(articles []domain.NewsArticle) []string {
	seen := make(map[string]bool)
	types := make([]string, 0, 4)
	for _, a := range articles {
		t := classifyTitle(a.Title)
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
