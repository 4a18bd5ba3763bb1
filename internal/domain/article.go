// Package domain defines the core data types shared across the CampusWatch
// backend.
package domain

import "time"

// NewsArticle represents a crime-related news article fetched from the
// external news source. Articles are immutable once scored.
type NewsArticle struct {
	Title       string              `json:"title" db:"title"`
	Description string              `json:"description,omitempty" db:"description"`
	Content     string              `json:"content,omitempty" db:"content"`
	URL         string              `json:"url" db:"url"`
	URLToImage  string              `json:"url_to_image,omitempty" db:"url_to_image"`
	PublishedAt time.Time           `json:"published_at" db:"published_at"`
	SourceName  string              `json:"source_name" db:"source_name"`
	SourceID    string              `json:"source_id,omitempty" db:"source_id"`
	Author      string              `json:"author,omitempty" db:"author"`
	CrimeScore  float64             `json:"crime_score" db:"crime_score"`
	Analysis    *CrimeScoreAnalysis `json:"crime_analysis,omitempty"`
}

// CrimeScoreAnalysis is the per-field scoring breakdown attached to a
// filtered article.
type CrimeScoreAnalysis struct {
	TitleScore       float64  `json:"title_score"`
	DescriptionScore float64  `json:"description_score"`
	ContentScore     float64  `json:"content_score"`
	TotalScore       float64  `json:"total_score"`
	IsCrimeRelated   bool     `json:"is_crime_related"`
	ConfidenceLevel  float64  `json:"confidence_level"`
	Locations        []string `json:"locations"`
	HasLocation      bool     `json:"has_location"`
}
