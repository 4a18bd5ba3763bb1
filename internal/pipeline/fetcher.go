// Package pipeline fetches news articles, filters them for crime relevance,
// deduplicates by URL, and ranks the survivors.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/campuswatch/internal/classifier"
	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/logger"
	"github.com/jonesrussell/campuswatch/internal/newsapi"
	"github.com/jonesrussell/campuswatch/internal/telemetry"
)

const (
	// RelevanceThreshold is deliberately low for broad capture; ranking
	// pushes weak matches to the bottom anyway.
	RelevanceThreshold = 1.5

	recencyWindow = 7 * 24 * time.Hour
	queryPageSize = 20
	queryLanguage = "en"
	querySortBy   = "relevancy"

	// queryInterval spaces out consecutive news source queries to respect
	// its rate limits.
	queryInterval = 500 * time.Millisecond
)

// topicQueries are the fixed search topics, each ANDed with the location
// filter expression.
var topicQueries = []string{"crime", "assault", "theft", "robbery", "safety"}

// Fetcher runs the article filter/dedup/rank pipeline against a news source.
type Fetcher struct {
	search  newsapi.Searcher
	scorer  *classifier.Scorer
	limiter *rate.Limiter
	logger  logger.Logger
	metrics *telemetry.Metrics
}

// NewFetcher creates a pipeline fetcher. metrics may be nil.
func NewFetcher(search newsapi.Searcher, scorer *classifier.Scorer, log logger.Logger, metrics *telemetry.Metrics) *Fetcher {
	return &Fetcher{
		search:  search,
		scorer:  scorer,
		limiter: rate.NewLimiter(rate.Every(queryInterval), 1),
		logger:  log,
		metrics: metrics,
	}
}

// FetchCrimeNews issues the topic queries, filters and scores the results,
// and returns at most maxArticles articles sorted by crime score descending,
// ties broken by publish time descending.
//
// A single failed query is logged and skipped; the pipeline only fails as a
// whole when the context is done before the next query can start.
func (f *Fetcher) FetchCrimeNews(ctx context.Context, locationFilter string, maxArticles int) ([]domain.NewsArticle, error) {
	start := time.Now()
	fromDate := time.Now().UTC().Add(-recencyWindow).Format("2006-01-02")

	articles := make([]domain.NewsArticle, 0, maxArticles)
	seen := make(map[string]bool)

	for _, topic := range topicQueries {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pipeline interrupted: %w", err)
		}

		query := fmt.Sprintf("%s AND (%s)", topic, locationFilter)
		resp, err := f.search.SearchEverything(ctx, newsapi.SearchRequest{
			Query:    query,
			From:     fromDate,
			Language: queryLanguage,
			SortBy:   querySortBy,
			PageSize: queryPageSize,
		})
		if err != nil {
			f.logger.Error("news query failed, skipping",
				logger.String("query", query),
				logger.Error(err))
			f.countQueryFailure()
			continue
		}
		if resp.Status != newsapi.StatusOK {
			f.logger.Warn("news source rejected query",
				logger.String("query", query),
				logger.String("status", resp.Status),
				logger.String("message", resp.Message))
			f.countQueryFailure()
			continue
		}

		articles = f.collectArticles(resp.Articles, articles, seen, maxArticles)
		if len(articles) >= maxArticles {
			break
		}
	}

	// Highest score first; newest first within equal scores.
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].CrimeScore != articles[j].CrimeScore {
			return articles[i].CrimeScore > articles[j].CrimeScore
		}
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	f.logger.Info("article fetch cycle complete",
		logger.Int("articles", len(articles)),
		logger.Duration("elapsed", time.Since(start)))
	if f.metrics != nil {
		f.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}

	return articles, nil
}

// collectArticles filters one query's results into the accumulated set.
func (f *Fetcher) collectArticles(raw []newsapi.Article, articles []domain.NewsArticle, seen map[string]bool, maxArticles int) []domain.NewsArticle {
	for i := range raw {
		item := &raw[i]
		if f.metrics != nil {
			f.metrics.ArticlesFetched.Inc()
		}

		if item.Title == "" || item.URL == "" {
			f.countRejection("missing_fields")
			continue
		}
		if seen[item.URL] {
			f.countRejection("duplicate_url")
			continue
		}

		analysis := f.scorer.Analyze(item.Title, item.Description, item.Content, RelevanceThreshold)
		if !analysis.IsCrimeRelated {
			f.countRejection("below_threshold")
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			f.logger.Warn("skipping article with bad timestamp",
				logger.String("url", item.URL),
				logger.String("published_at", item.PublishedAt),
				logger.Error(err))
			f.countRejection("bad_timestamp")
			continue
		}

		locations := classifier.ExtractLocations(item.Title + " " + item.Description)
		analysis.Locations = locations
		analysis.HasLocation = len(locations) > 0

		seen[item.URL] = true
		articles = append(articles, domain.NewsArticle{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			URLToImage:  item.URLToImage,
			PublishedAt: publishedAt,
			SourceName:  item.Source.Name,
			SourceID:    item.Source.ID,
			Author:      item.Author,
			CrimeScore:  analysis.TotalScore,
			Analysis:    analysis,
		})
		if f.metrics != nil {
			f.metrics.ArticlesAccepted.Inc()
		}

		if len(articles) >= maxArticles {
			break
		}
	}
	return articles
}

func (f *Fetcher) countRejection(reason string) {
	if f.metrics != nil {
		f.metrics.ArticlesRejected.WithLabelValues(reason).Inc()
	}
}

func (f *Fetcher) countQueryFailure() {
	if f.metrics != nil {
		f.metrics.QueriesFailed.Inc()
	}
}
