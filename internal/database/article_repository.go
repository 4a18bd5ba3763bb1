package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

const articleKeepLimit = 200

// ArticleRepository handles database operations for fetched news articles.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// SaveAll upserts articles, deduplicating on URL. A conflicting URL refreshes
// the stored score, analysis, and fetch time.
func (r *ArticleRepository) SaveAll(ctx context.Context, articles []domain.NewsArticle) error {
	query := `
		INSERT INTO news_articles (
			title, description, content, url, url_to_image,
			published_at, source_id, source_name, author, crime_score, analysis
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url) DO UPDATE
		SET crime_score = EXCLUDED.crime_score,
		    analysis = EXCLUDED.analysis,
		    fetched_at = NOW()
	`

	for _, a := range articles {
		var analysis []byte
		if a.Analysis != nil {
			data, err := json.Marshal(a.Analysis)
			if err != nil {
				return fmt.Errorf("failed to marshal article analysis: %w", err)
			}
			analysis = data
		}

		if _, err := r.db.ExecContext(
			ctx,
			query,
			a.Title,
			a.Description,
			a.Content,
			a.URL,
			a.URLToImage,
			a.PublishedAt,
			a.SourceID,
			a.SourceName,
			a.Author,
			a.CrimeScore,
			analysis,
		); err != nil {
			return fmt.Errorf("failed to save article: %w", err)
		}
	}

	return nil
}

// Prune keeps only the most recently fetched articles.
func (r *ArticleRepository) Prune(ctx context.Context) error {
	query := `
		DELETE FROM news_articles
		WHERE id NOT IN (
			SELECT id FROM news_articles
			ORDER BY fetched_at DESC
			LIMIT $1
		)
	`

	if _, err := r.db.ExecContext(ctx, query, articleKeepLimit); err != nil {
		return fmt.Errorf("failed to prune articles: %w", err)
	}
	return nil
}
