package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/llm"
	"github.com/jonesrussell/campuswatch/internal/logger"
)

const predictionSystemPrompt = "You are a campus safety expert who generates accurate, actionable " +
	"crime predictions based on data analysis. Focus on practical campus safety measures."

// predictionResponse is one element of the JSON array requested from the LLM.
type predictionResponse struct {
	PredictionText     string   `json:"prediction_text"`
	ConfidenceLevel    string   `json:"confidence_level"`
	CrimeType          string   `json:"crime_type"`
	LocationArea       string   `json:"location_area"`
	RiskFactors        []string `json:"risk_factors"`
	PreventiveMeasures []string `json:"preventive_measures"`
	ValidityDays       int      `json:"validity_days"`
}

// GeneratePredictions produces exactly three predictions for a non-empty
// article set, via the LLM when available and via deterministic fallbacks
// otherwise. An empty article set yields a single default prediction. This
// method never fails.
func (g *Generator) GeneratePredictions(ctx context.Context, articles []domain.NewsArticle, trend domain.TrendAnalysis) []domain.CrimePrediction {
	if len(articles) == 0 {
		p := domain.NewCrimePrediction()
		p.PredictionText = "No significant crime trends detected for campus area"
		p.ConfidenceLevel = domain.ConfidenceLow
		p.CrimeType = crimeTypeGeneral
		p.LocationArea = "Campus Area"
		p.RiskFactors = []string{"Limited data available"}
		p.PreventiveMeasures = []string{"Maintain standard safety protocols"}
		p.ValidUntil = g.now().UTC().Add(defaultValidityDays * 24 * time.Hour)
		p.DataSources = []string{"System analysis"}
		return []domain.CrimePrediction{p}
	}

	if g.chat == nil {
		return g.fallbackPredictions(articles)
	}

	reply, err := g.chat.Complete(ctx, predictionSystemPrompt, buildPredictionPrompt(articles, trend))
	if err != nil {
		g.logger.Error("prediction LLM call failed", logger.Error(err))
		g.countLLM("predictions", "error")
		return g.fallbackPredictions(articles)
	}

	var parsed []predictionResponse
	if err := json.Unmarshal([]byte(llm.StripCodeFences(reply)), &parsed); err != nil {
		g.logger.Error("failed to parse prediction response", logger.Error(err))
		g.countLLM("predictions", "parse_error")
		return g.fallbackPredictions(articles)
	}
	g.countLLM("predictions", "success")

	sources := sourceNames(articles, dataSourceLimit)
	predictions := make([]domain.CrimePrediction, 0, len(parsed))
	for _, pr := range parsed {
		p := domain.NewCrimePrediction()
		p.PredictionText = pr.PredictionText
		if p.PredictionText == "" {
			p.PredictionText = "Crime prediction generated"
		}
		p.ConfidenceLevel = pr.ConfidenceLevel
		switch p.ConfidenceLevel {
		case domain.ConfidenceLow, domain.ConfidenceMedium, domain.ConfidenceHigh:
		default:
			p.ConfidenceLevel = domain.ConfidenceMedium
		}
		p.CrimeType = pr.CrimeType
		if p.CrimeType == "" {
			p.CrimeType = crimeTypeGeneral
		}
		p.LocationArea = pr.LocationArea
		if p.LocationArea == "" {
			p.LocationArea = "Campus Area"
		}
		p.RiskFactors = pr.RiskFactors
		p.PreventiveMeasures = pr.PreventiveMeasures
		days := pr.ValidityDays
		if days <= 0 {
			days = defaultValidityDays
		}
		p.ValidUntil = g.now().UTC().Add(time.Duration(days) * 24 * time.Hour)
		p.DataSources = sources
		predictions = append(predictions, p)
	}

	// Exactly three predictions leave this method: truncate a long reply,
	// top a short one up from the fallback set.
	if len(predictions) < predictionCount {
		for _, fb := range g.fallbackPredictions(articles) {
			if len(predictions) == predictionCount {
				break
			}
			predictions = append(predictions, fb)
		}
	}
	return predictions[:predictionCount]
}

// fallbackPredictions builds three fixed predictions, keyed on the most
// common crime type seen in article titles. Property crime wins ties and
// covers the no-match case.
func (g *Generator) fallbackPredictions(articles []domain.NewsArticle) []domain.CrimePrediction {
	counts := map[string]int{}
	for _, a := range articles {
		title := strings.ToLower(a.Title)
		switch {
		case containsAny(title, []string{"theft", "robbery", "burglary", "stolen"}):
			counts[crimeTypeProperty]++
		case containsAny(title, []string{"assault", "attack", "violence"}):
			counts[crimeTypeViolent]++
		case containsAny(title, []string{"drug", "substance", "overdose"}):
			counts[crimeTypeDrug]++
		}
	}
	mostCommon := crimeTypeProperty
	for _, t := range []string{crimeTypeViolent, crimeTypeDrug} {
		if counts[t] > counts[mostCommon] {
			mostCommon = t
		}
	}

	leadConfidence := domain.ConfidenceLow
	if len(articles) > 5 {
		leadConfidence = domain.ConfidenceMedium
	}
	sources := sourceNames(articles, 3)
	now := g.now().UTC()

	lead := domain.NewCrimePrediction()
	lead.PredictionText = fmt.Sprintf("Increased %s crime risk in campus areas based on recent trends", mostCommon)
	lead.ConfidenceLevel = leadConfidence
	lead.CrimeType = mostCommon
	lead.LocationArea = "Campus Parking Areas"
	lead.RiskFactors = []string{"Recent increase in reported incidents", "Limited security coverage", "High foot traffic"}
	lead.PreventiveMeasures = []string{"Increase security patrols", "Improve lighting", "Install security cameras"}
	lead.ValidUntil = now.Add(7 * 24 * time.Hour)
	lead.DataSources = sources

	evening := domain.NewCrimePrediction()
	evening.PredictionText = "General safety concerns around academic buildings during evening hours"
	evening.ConfidenceLevel = domain.ConfidenceMedium
	evening.CrimeType = crimeTypeGeneral
	evening.LocationArea = "Academic Buildings"
	evening.RiskFactors = []string{"Evening hours", "Reduced visibility", "Fewer people around"}
	evening.PreventiveMeasures = []string{"Travel in groups", "Use campus escort service", "Stay in well-lit areas"}
	evening.ValidUntil = now.Add(5 * 24 * time.Hour)
	evening.DataSources = sources

	dorm := domain.NewCrimePrediction()
	dorm.PredictionText = "Recommended increased vigilance in dormitory areas"
	dorm.ConfidenceLevel = domain.ConfidenceLow
	dorm.CrimeType = crimeTypeProperty
	dorm.LocationArea = "Dormitory Complex"
	dorm.RiskFactors = []string{"High-value items", "Multiple entry points", "Varying security awareness"}
	dorm.PreventiveMeasures = []string{"Lock doors and windows", "Secure valuables", "Report suspicious activity"}
	dorm.ValidUntil = now.Add(7 * 24 * time.Hour)
	dorm.DataSources = sources

	return []domain.CrimePrediction{lead, evening, dorm}
}

// recentCrime is the compact per-incident record sent to the LLM.
type recentCrime struct {
	Title      string   `json:"title"`
	CrimeScore float64  `json:"crime_score"`
	Date       string   `json:"date"`
	Locations  []string `json:"locations"`
}

func buildPredictionPrompt(articles []domain.NewsArticle, trend domain.TrendAnalysis) string {
	leading := articles
	if len(leading) > predictionArticleLimit {
		leading = leading[:predictionArticleLimit]
	}
	recent := make([]recentCrime, 0, len(leading))
	for _, a := range leading {
		locations := []string{}
		if a.Analysis != nil {
			locations = a.Analysis.Locations
		}
		recent = append(recent, recentCrime{
			Title:      a.Title,
			CrimeScore: a.CrimeScore,
			Date:       a.PublishedAt.Format("2006-01-02"),
			Locations:  locations,
		})
	}
	data, _ := json.MarshalIndent(recent, "", "  ")

	var sb strings.Builder
	sb.WriteString("Based on the following crime trend analysis and recent crime incidents, generate 3 specific crime predictions for campus safety.\n\n")
	sb.WriteString("TREND ANALYSIS:\n")
	fmt.Fprintf(&sb, "- Trend direction: %s\n", trend.TrendType)
	fmt.Fprintf(&sb, "- Crime categories: %s\n", strings.Join(trend.CrimeCategories, ", "))
	fmt.Fprintf(&sb, "- Key insights: %s\n", strings.Join(trend.KeyInsights, "; "))
	sb.WriteString("\nRECENT CRIME INCIDENTS:\n")
	sb.Write(data)
	sb.WriteString(`

Generate predictions in the following JSON format:
[
    {
        "prediction_text": "Specific prediction description",
        "confidence_level": "high|medium|low",
        "crime_type": "violent|property|drug|assault|cyber|general",
        "location_area": "Specific campus area or general area",
        "risk_factors": ["factor1", "factor2", "factor3"],
        "preventive_measures": ["measure1", "measure2", "measure3"],
        "validity_days": 7
    }
]

Requirements:
1. Make predictions actionable and specific to campus safety
2. Include realistic risk factors based on the data
3. Provide practical preventive measures
4. Set appropriate confidence levels based on data quality
5. Focus on areas like "Academic Buildings", "Dormitories", "Campus Parking", "Library Area", etc.
6. Generate exactly 3 predictions

Respond with ONLY the JSON array, no additional text.`)
	return sb.String()
}

func sourceNames(articles []domain.NewsArticle, limit int) []string {
	if len(articles) < limit {
		limit = len(articles)
	}
	names := make([]string, 0, limit)
	for _, a := range articles[:limit] {
		names = append(names, a.SourceName)
	}
	return names
}
