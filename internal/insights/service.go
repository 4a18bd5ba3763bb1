// Package insights serves cached crime analyses, refreshing them through the
// article pipeline and predictor when the cached copy goes stale.
package insights

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonesrussell/campuswatch/internal/database"
	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/logger"
	"github.com/jonesrussell/campuswatch/internal/telemetry"
)

// DefaultFreshness is how long a cached analysis is served without recompute.
const DefaultFreshness = 6 * time.Hour

const persistTimeout = 30 * time.Second

// Fetcher produces the ranked crime article set.
type Fetcher interface {
	FetchCrimeNews(ctx context.Context, locationFilter string, maxArticles int) ([]domain.NewsArticle, error)
}

// Predictor turns a ranked article set into an analysis.
type Predictor interface {
	AnalyzeTrends(ctx context.Context, articles []domain.NewsArticle) domain.TrendAnalysis
	GeneratePredictions(ctx context.Context, articles []domain.NewsArticle, trend domain.TrendAnalysis) []domain.CrimePrediction
	GenerateSafetyTips(predictions []domain.CrimePrediction) []string
}

// AnalysisStore persists cached analyses.
type AnalysisStore interface {
	Save(ctx context.Context, analysis *domain.CachedAnalysis) error
	Latest(ctx context.Context) (*domain.CachedAnalysis, error)
	Prune(ctx context.Context) error
	DeleteAll(ctx context.Context) error
}

// ArticleStore persists fetched articles.
type ArticleStore interface {
	SaveAll(ctx context.Context, articles []domain.NewsArticle) error
	Prune(ctx context.Context) error
}

// Options configure a Service.
type Options struct {
	LocationFilter string
	MaxArticles    int
	Freshness      time.Duration
	// HasCredentials is false when the news source credential is missing;
	// the service then serves the mock analysis without fetching.
	HasCredentials bool
}

// Service answers insight requests from the cache, recomputing on staleness.
//
// Freshness is checked without locking: two concurrent requests that both see
// a stale cache will both run the full fetch and analysis cycle and both
// persist. URL dedup and recency pruning keep storage consistent; this is a
// known limitation, not guarded by a mutex.
type Service struct {
	fetcher   Fetcher
	predictor Predictor
	analyses  AnalysisStore
	articles  ArticleStore
	logger    logger.Logger
	metrics   *telemetry.Metrics
	opts      Options
	now       func() time.Time

	persisting sync.WaitGroup
}

// NewService creates an insights service.
func NewService(
	fetcher Fetcher,
	predictor Predictor,
	analyses AnalysisStore,
	articles ArticleStore,
	log logger.Logger,
	metrics *telemetry.Metrics,
	opts Options,
) *Service {
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultFreshness
	}
	return &Service{
		fetcher:   fetcher,
		predictor: predictor,
		analyses:  analyses,
		articles:  articles,
		logger:    log,
		metrics:   metrics,
		opts:      opts,
		now:       time.Now,
	}
}

// GetOrRefresh returns the cached analysis when it is still fresh and
// recomputes otherwise. It never returns an error: every failure path ends in
// the mock analysis.
func (s *Service) GetOrRefresh(ctx context.Context) *domain.CachedAnalysis {
	cached, err := s.analyses.Latest(ctx)
	if err == nil && s.now().Sub(cached.GeneratedAt) <= s.opts.Freshness {
		s.countCache(true)
		return cached
	}
	if err != nil && !errors.Is(err, database.ErrNoCachedAnalysis) {
		s.logger.Error("failed to load cached analysis", logger.Error(err))
	}
	s.countCache(false)

	return s.refresh(ctx)
}

// ForceRefresh drops every cached analysis and recomputes.
func (s *Service) ForceRefresh(ctx context.Context) *domain.CachedAnalysis {
	if err := s.analyses.DeleteAll(ctx); err != nil {
		s.logger.Error("failed to clear cached analyses", logger.Error(err))
	}
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) *domain.CachedAnalysis {
	start := s.now()

	if !s.opts.HasCredentials {
		s.logger.Warn("news source credential missing, serving mock analysis")
		return s.serveMock()
	}

	articles, err := s.fetcher.FetchCrimeNews(ctx, s.opts.LocationFilter, s.opts.MaxArticles)
	if err != nil {
		s.logger.Error("crime news fetch failed", logger.Error(err))
		return s.serveMock()
	}

	trend := s.predictor.AnalyzeTrends(ctx, articles)
	predictions := s.predictor.GeneratePredictions(ctx, articles, trend)
	tips := s.predictor.GenerateSafetyTips(predictions)

	analysis := &domain.CachedAnalysis{
		Predictions:   predictions,
		TrendAnalysis: trend,
		SafetyTips:    tips,
		ArticleCount:  len(articles),
		GeneratedAt:   s.now().UTC(),
	}

	// The response does not wait for persistence.
	s.persisting.Add(1)
	go s.persist(articles, analysis)

	if s.metrics != nil {
		s.metrics.RefreshDuration.Observe(s.now().Sub(start).Seconds())
	}
	return analysis
}

// persist writes the articles and analysis in the background and prunes old
// records. Failures are logged only.
func (s *Service) persist(articles []domain.NewsArticle, analysis *domain.CachedAnalysis) {
	defer s.persisting.Done()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if len(articles) > 0 {
		if err := s.articles.SaveAll(ctx, articles); err != nil {
			s.logger.Error("failed to persist articles", logger.Error(err))
		} else if err := s.articles.Prune(ctx); err != nil {
			s.logger.Error("failed to prune articles", logger.Error(err))
		}
	}

	if err := s.analyses.Save(ctx, analysis); err != nil {
		s.logger.Error("failed to persist analysis", logger.Error(err))
		return
	}
	if err := s.analyses.Prune(ctx); err != nil {
		s.logger.Error("failed to prune analyses", logger.Error(err))
	}
}

func (s *Service) serveMock() *domain.CachedAnalysis {
	if s.metrics != nil {
		s.metrics.FallbacksServed.Inc()
	}
	return MockAnalysis(s.now().UTC())
}

func (s *Service) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHits.Inc()
	} else {
		s.metrics.CacheMisses.Inc()
	}
}
