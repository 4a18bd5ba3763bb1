package insights

import (
	"time"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

// MockAnalysis is the hardcoded analysis served when fetching or analysis is
// unavailable. It is always well formed; callers receive it instead of an
// error.
func MockAnalysis(now time.Time) *domain.CachedAnalysis {
	theft := domain.NewCrimePrediction()
	theft.PredictionText = "High theft risk near Main Library this weekend"
	theft.ConfidenceLevel = domain.ConfidenceHigh
	theft.CrimeType = "theft"
	theft.LocationArea = "Academic Block A"
	theft.RiskFactors = []string{"High foot traffic", "Unattended belongings"}
	theft.PreventiveMeasures = []string{"Keep valuables secure and out of sight", "Report suspicious activity to campus security immediately"}
	theft.ValidUntil = now.Add(7 * 24 * time.Hour)
	theft.DataSources = []string{"System analysis"}

	hostel := domain.NewCrimePrediction()
	hostel.PredictionText = "Increased women safety concerns near Hostel Road after 8 PM"
	hostel.ConfidenceLevel = domain.ConfidenceMedium
	hostel.CrimeType = "women_safety"
	hostel.LocationArea = "Hostel Complex"
	hostel.RiskFactors = []string{"Evening hours", "Poorly lit stretches"}
	hostel.PreventiveMeasures = []string{"Travel in groups when possible, especially at night", "Use campus escort service"}
	hostel.ValidUntil = now.Add(5 * 24 * time.Hour)
	hostel.DataSources = []string{"System analysis"}

	drugs := domain.NewCrimePrediction()
	drugs.PredictionText = "Drug activity detected near Sports Complex"
	drugs.ConfidenceLevel = domain.ConfidenceMedium
	drugs.CrimeType = "drugs"
	drugs.LocationArea = "Sports Complex"
	drugs.RiskFactors = []string{"Isolated areas after hours"}
	drugs.PreventiveMeasures = []string{"Avoid isolated areas after dark", "Report suspicious activity to campus security immediately"}
	drugs.ValidUntil = now.Add(3 * 24 * time.Hour)
	drugs.DataSources = []string{"System analysis"}

	return &domain.CachedAnalysis{
		Predictions: []domain.CrimePrediction{theft, hostel, drugs},
		TrendAnalysis: domain.TrendAnalysis{
			TrendType:       domain.TrendStable,
			CrimeCategories: []string{"theft", "women_safety", "drugs"},
			TimePeriod:      "past_week",
			KeyInsights:     []string{"Live crime data unavailable, serving baseline campus guidance"},
			StatisticalSummary: domain.StatisticalSummary{
				TotalArticles:     0,
				AverageCrimeScore: 0.0,
			},
		},
		SafetyTips: []string{
			"Stay aware of your surroundings at all times",
			"Travel in groups when possible, especially at night",
			"Keep valuables secure and out of sight",
			"Report any suspicious activity to campus security immediately",
			"Use well-lit pathways and avoid shortcuts through isolated areas",
			"Keep emergency contacts readily available",
		},
		ArticleCount: 0,
		GeneratedAt:  now,
	}
}
