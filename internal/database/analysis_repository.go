package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

const analysisKeepLimit = 10

// ErrNoCachedAnalysis is returned when no cached analysis exists.
var ErrNoCachedAnalysis = errors.New("no cached analysis")

// AnalysisRepository handles persistence of cached prediction analyses.
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new cached analysis repository.
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save stores a cached analysis as a JSON document.
func (r *AnalysisRepository) Save(ctx context.Context, analysis *domain.CachedAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal cached analysis: %w", err)
	}

	query := `
		INSERT INTO cached_analyses (id, payload, article_count, generated_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		uuid.New(),
		payload,
		analysis.ArticleCount,
		analysis.GeneratedAt,
	); err != nil {
		return fmt.Errorf("failed to save cached analysis: %w", err)
	}

	return nil
}

// Latest returns the most recently generated cached analysis.
func (r *AnalysisRepository) Latest(ctx context.Context) (*domain.CachedAnalysis, error) {
	var payload []byte
	query := `
		SELECT payload
		FROM cached_analyses
		ORDER BY generated_at DESC
		LIMIT 1
	`

	if err := r.db.QueryRowContext(ctx, query).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCachedAnalysis
		}
		return nil, fmt.Errorf("failed to load cached analysis: %w", err)
	}

	var analysis domain.CachedAnalysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return &analysis, nil
}

// Prune keeps only the most recent cached analyses.
func (r *AnalysisRepository) Prune(ctx context.Context) error {
	query := `
		DELETE FROM cached_analyses
		WHERE id NOT IN (
			SELECT id FROM cached_analyses
			ORDER BY generated_at DESC
			LIMIT $1
		)
	`

	if _, err := r.db.ExecContext(ctx, query, analysisKeepLimit); err != nil {
		return fmt.Errorf("failed to prune cached analyses: %w", err)
	}
	return nil
}

// DeleteAll removes every cached analysis. Used by forced refreshes.
func (r *AnalysisRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_analyses`); err != nil {
		return fmt.Errorf("failed to clear cached analyses: %w", err)
	}
	return nil
}
