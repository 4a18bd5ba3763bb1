package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trend type constants.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Confidence level constants for predictions.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// TrendAnalysis summarizes crime trends derived from a fetch cycle.
// Created fresh per analysis cycle; never mutated.
type TrendAnalysis struct {
	TrendType          string             `json:"trend_type"`
	CrimeCategories    []string           `json:"crime_categories"`
	TimePeriod         string             `json:"time_period"`
	KeyInsights        []string           `json:"key_insights"`
	StatisticalSummary StatisticalSummary `json:"statistical_summary"`
}

// StatisticalSummary holds the numbers backing a trend analysis.
type StatisticalSummary struct {
	TotalArticles     int     `json:"total_articles"`
	AverageCrimeScore float64 `json:"average_crime_score"`
	UniqueSources     int     `json:"unique_sources,omitempty"`
	DateRange         string  `json:"date_range,omitempty"`
}

// CrimePrediction is a single generated prediction. Expiry at ValidUntil is
// advisory metadata only; nothing reaps expired predictions.
type CrimePrediction struct {
	ID                 string    `json:"id"`
	PredictionText     string    `json:"prediction_text"`
	ConfidenceLevel    string    `json:"confidence_level"`
	CrimeType          string    `json:"crime_type"`
	LocationArea       string    `json:"location_area"`
	RiskFactors        []string  `json:"risk_factors"`
	PreventiveMeasures []string  `json:"preventive_measures"`
	ValidUntil         time.Time `json:"valid_until"`
	DataSources        []string  `json:"data_sources"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewCrimePrediction creates a prediction with a fresh ID and creation time.
func NewCrimePrediction() CrimePrediction {
	return CrimePrediction{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// CachedAnalysis is the full analysis payload persisted per cycle and served
// while fresh. At most one record within the freshness window is treated as
// authoritative.
type CachedAnalysis struct {
	Predictions   []CrimePrediction `json:"predictions"`
	TrendAnalysis TrendAnalysis     `json:"trend_analysis"`
	SafetyTips    []string          `json:"safety_tips"`
	ArticleCount  int               `json:"articles_analyzed"`
	GeneratedAt   time.Time         `json:"generated_at"`
}
