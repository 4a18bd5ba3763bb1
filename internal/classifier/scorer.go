// Package classifier scores free text for crime relevance using weighted
// keyword tables, and extracts best-effort location mentions.
package classifier

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

// Scorer computes bounded [0,10] crime-relevance scores. The keyword tables
// are static configuration compiled once at construction; a Scorer is safe
// for concurrent use.
type Scorer struct {
	matcher      *ahocorasick.Matcher
	weights      []float64 // parallel to the flattened keyword list
	legalMatcher *ahocorasick.Matcher
}

// NewScorer builds the Aho-Corasick automatons from the keyword tables.
func NewScorer() *Scorer {
	keywords := make([]string, 0, len(crimeCategories)*20)
	weights := make([]float64, 0, cap(keywords))
	for _, cat := range crimeCategories {
		for _, kw := range cat.keywords {
			keywords = append(keywords, kw)
			weights = append(weights, cat.weight)
		}
	}

	return &Scorer{
		matcher:      ahocorasick.NewStringMatcher(keywords),
		weights:      weights,
		legalMatcher: ahocorasick.NewStringMatcher(legalKeywords),
	}
}

// Score returns the crime-relevance score for a single text in [0, 10].
// Each category keyword present as a case-insensitive substring contributes
// its category weight once; each legal-process keyword present adds 0.5.
// Empty text scores exactly 0.
func (s *Scorer) Score(text string) float64 {
	if text == "" {
		return 0.0
	}

	lower := strings.ToLower(text)
	input := []byte(lower)

	total := 0.0
	for _, idx := range s.matcher.MatchThreadSafe(input) {
		total += s.weights[idx]
	}

	total += float64(len(s.legalMatcher.MatchThreadSafe(input))) * weightLegalKeyword

	return min(total, maxCrimeScore)
}

// Analyze scores title, description, and content separately and flags the
// article as crime-related when the combined score reaches threshold.
// Locations are left empty; the pipeline attaches them after filtering.
func (s *Scorer) Analyze(title, description, content string, threshold float64) *domain.CrimeScoreAnalysis {
	titleScore := s.Score(title)
	descScore := s.Score(description)
	contentScore := s.Score(content)

	total := min(titleScore+descScore+contentScore, maxCrimeScore)

	return &domain.CrimeScoreAnalysis{
		TitleScore:       titleScore,
		DescriptionScore: descScore,
		ContentScore:     contentScore,
		TotalScore:       total,
		IsCrimeRelated:   total >= threshold,
		ConfidenceLevel:  min(total/confidenceDivisor, maxConfidenceLevel),
		Locations:        []string{},
	}
}
