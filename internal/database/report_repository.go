package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

const reportListLimit = 100

// ReportRepository handles database operations for crime reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new crime report repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new crime report.
func (r *ReportRepository) Create(ctx context.Context, report *domain.CrimeReport) error {
	query := `
		INSERT INTO crime_reports (
			id, user_id, title, description, crime_type,
			lat, lng, address, severity, status, is_anonymous
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		report.ID,
		report.UserID,
		report.Title,
		report.Description,
		report.CrimeType,
		report.Location.Lat,
		report.Location.Lng,
		report.Location.Address,
		report.Severity,
		report.Status,
		report.IsAnonymous,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create crime report: %w", err)
	}

	return nil
}

// List returns the most recent crime reports, newest first.
func (r *ReportRepository) List(ctx context.Context) ([]domain.CrimeReport, error) {
	query := `
		SELECT id, user_id, title, description, crime_type,
		       lat, lng, address, severity, status, is_anonymous, created_at
		FROM crime_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, reportListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crime reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.CrimeReport, 0)
	for rows.Next() {
		var rep domain.CrimeReport
		if err := rows.Scan(
			&rep.ID,
			&rep.UserID,
			&rep.Title,
			&rep.Description,
			&rep.CrimeType,
			&rep.Location.Lat,
			&rep.Location.Lng,
			&rep.Location.Address,
			&rep.Severity,
			&rep.Status,
			&rep.IsAnonymous,
			&rep.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crime report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate crime reports: %w", err)
	}

	return reports, nil
}

// MapPoints returns the map projection of recent reports, newest first.
func (r *ReportRepository) MapPoints(ctx context.Context) ([]domain.MapPoint, error) {
	query := `
		SELECT id, crime_type, lat, lng, address, severity, title, created_at
		FROM crime_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, reportListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load map points: %w", err)
	}
	defer rows.Close()

	points := make([]domain.MapPoint, 0)
	for rows.Next() {
		var p domain.MapPoint
		if err := rows.Scan(
			&p.ID,
			&p.Type,
			&p.Location.Lat,
			&p.Location.Lng,
			&p.Location.Address,
			&p.Severity,
			&p.Title,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan map point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate map points: %w", err)
	}

	return points, nil
}
