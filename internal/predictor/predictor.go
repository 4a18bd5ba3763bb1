// Package predictor turns ranked article sets into trend analyses, crime
// predictions, and safety tips. Semantic analysis is delegated to an LLM;
// every operation has a deterministic local fallback and never returns an
// error to its caller.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/llm"
	"github.com/jonesrussell/campuswatch/internal/logger"
	"github.com/jonesrussell/campuswatch/internal/telemetry"
)

const (
	trendArticleLimit      = 20
	predictionArticleLimit = 10
	predictionCount        = 3
	dataSourceLimit        = 5
	titleExcerptLimit      = 100
	errorExcerptLimit      = 100
	timePeriodWeek         = "past_week"
	defaultValidityDays    = 7
)

// Generator produces trend analyses and predictions from ranked articles.
// chat may be nil, in which case every operation takes its fallback path.
type Generator struct {
	chat    llm.Chat
	logger  logger.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewGenerator creates a Generator. metrics may be nil.
func NewGenerator(chat llm.Chat, log logger.Logger, metrics *telemetry.Metrics) *Generator {
	return &Generator{
		chat:    chat,
		logger:  log,
		metrics: metrics,
		now:     time.Now,
	}
}

const trendSystemPrompt = "You are an expert crime analyst specializing in campus safety " +
	"and crime trend analysis. Provide accurate, data-driven insights based on news articles."

// trendResponse is the JSON shape requested from the LLM for trend analysis.
type trendResponse struct {
	TrendType       string   `json:"trend_type"`
	CrimeCategories []string `json:"crime_categories"`
	TimePeriod      string   `json:"time_period"`
	KeyInsights     []string `json:"key_insights"`
}

// AnalyzeTrends builds a statistical summary over the leading articles and
// asks the LLM for a semantic trend analysis. Any failure degrades to the
// statistics block with trend_type "stable"; this method never fails.
func (g *Generator) AnalyzeTrends(ctx context.Context, articles []domain.NewsArticle) domain.TrendAnalysis {
	if len(articles) == 0 {
		return domain.TrendAnalysis{
			TrendType:       domain.TrendStable,
			CrimeCategories: []string{},
			TimePeriod:      timePeriodWeek,
			KeyInsights:     []string{"No significant crime data available for analysis"},
			StatisticalSummary: domain.StatisticalSummary{
				TotalArticles:     0,
				AverageCrimeScore: 0.0,
			},
		}
	}

	leading := articles
	if len(leading) > trendArticleLimit {
		leading = leading[:trendArticleLimit]
	}

	summary := buildStatisticalSummary(articles, leading)
	fallbackCategories := classifyCrimeTypes(leading)

	degraded := domain.TrendAnalysis{
		TrendType:          domain.TrendStable,
		CrimeCategories:    fallbackCategories,
		TimePeriod:         timePeriodWeek,
		KeyInsights:        []string{"Analysis completed with limited insights due to parsing error"},
		StatisticalSummary: summary,
	}

	if g.chat == nil {
		return degraded
	}

	reply, err := g.chat.Complete(ctx, trendSystemPrompt, buildTrendPrompt(leading, summary))
	if err != nil {
		g.logger.Error("trend analysis LLM call failed", logger.Error(err))
		g.countLLM("trends", "error")
		degraded.KeyInsights = []string{"Analysis completed with basic insights due to error: " + excerpt(err.Error(), errorExcerptLimit)}
		return degraded
	}

	var parsed trendResponse
	if err := json.Unmarshal([]byte(llm.StripCodeFences(reply)), &parsed); err != nil {
		g.logger.Error("failed to parse trend analysis response", logger.Error(err))
		g.countLLM("trends", "parse_error")
		return degraded
	}
	g.countLLM("trends", "success")

	result := domain.TrendAnalysis{
		TrendType:          parsed.TrendType,
		CrimeCategories:    parsed.CrimeCategories,
		TimePeriod:         parsed.TimePeriod,
		KeyInsights:        parsed.KeyInsights,
		StatisticalSummary: summary,
	}
	switch result.TrendType {
	case domain.TrendIncreasing, domain.TrendDecreasing, domain.TrendStable:
	default:
		result.TrendType = domain.TrendStable
	}
	if len(result.CrimeCategories) == 0 {
		result.CrimeCategories = fallbackCategories
	}
	if result.TimePeriod == "" {
		result.TimePeriod = timePeriodWeek
	}
	if len(result.KeyInsights) == 0 {
		result.KeyInsights = []string{"Analysis completed successfully"}
	}
	return result
}

// buildStatisticalSummary computes the stats block: total count over the full
// set, mean score and date range over the leading slice.
func buildStatisticalSummary(all, leading []domain.NewsArticle) domain.StatisticalSummary {
	total := 0.0
	oldest := leading[0].PublishedAt
	newest := leading[0].PublishedAt
	for _, a := range leading {
		total += a.CrimeScore
		if a.PublishedAt.Before(oldest) {
			oldest = a.PublishedAt
		}
		if a.PublishedAt.After(newest) {
			newest = a.PublishedAt
		}
	}
	avg := total / float64(len(leading))

	sources := make(map[string]bool)
	for _, a := range all {
		sources[a.SourceName] = true
	}

	return domain.StatisticalSummary{
		TotalArticles:     len(all),
		AverageCrimeScore: math.Round(avg*100) / 100,
		UniqueSources:     len(sources),
		DateRange:         fmt.Sprintf("%s to %s", oldest.Format("2006-01-02"), newest.Format("2006-01-02")),
	}
}

// articleSummary is the compact per-article record sent to the LLM.
type articleSummary struct {
	Title         string  `json:"title"`
	CrimeScore    float64 `json:"crime_score"`
	PublishedDate string  `json:"published_date"`
	Source        string  `json:"source"`
}

func buildTrendPrompt(leading []domain.NewsArticle, summary domain.StatisticalSummary) string {
	summaries := make([]articleSummary, 0, len(leading))
	for _, a := range leading {
		summaries = append(summaries, articleSummary{
			Title:         excerpt(a.Title, titleExcerptLimit),
			CrimeScore:    a.CrimeScore,
			PublishedDate: a.PublishedAt.Format("2006-01-02"),
			Source:        a.SourceName,
		})
	}
	data, _ := json.MarshalIndent(summaries, "", "  ")

	var sb strings.Builder
	sb.WriteString("Analyze the following crime-related news articles and provide a comprehensive trend analysis for campus safety.\n\n")
	sb.WriteString("ARTICLES DATA:\n")
	sb.Write(data)
	sb.WriteString("\n\nSTATISTICAL SUMMARY:\n")
	fmt.Fprintf(&sb, "- Total articles analyzed: %d\n", summary.TotalArticles)
	fmt.Fprintf(&sb, "- Average crime severity score: %.2f/10\n", summary.AverageCrimeScore)
	fmt.Fprintf(&sb, "- Date range: %s\n", summary.DateRange)
	fmt.Fprintf(&sb, "- Unique news sources: %d\n", summary.UniqueSources)
	sb.WriteString(`
Provide a trend analysis in the following JSON format:
{
    "trend_type": "increasing|decreasing|stable",
    "crime_categories": ["list of main crime types found"],
    "time_period": "past_week",
    "key_insights": ["insight 1", "insight 2", "insight 3"]
}

Focus on:
1. Overall crime trend direction (increasing, decreasing, stable)
2. Most prevalent crime categories
3. Key patterns or insights for campus safety
4. Geographic or temporal patterns if evident

Respond with ONLY the JSON object, no additional text.`)
	return sb.String()
}

// excerpt truncates s to at most limit bytes without splitting a rune.
func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (g *Generator) countLLM(stage, outcome string) {
	if g.metrics != nil {
		g.metrics.LLMCalls.WithLabelValues(stage, outcome).Inc()
	}
}
