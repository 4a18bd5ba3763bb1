package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/campuswatch/internal/domain"
)

const sosListLimit = 100

// SOSRepository handles database operations for SOS alerts.
type SOSRepository struct {
	db *sqlx.DB
}

// NewSOSRepository creates a new SOS alert repository.
func NewSOSRepository(db *sqlx.DB) *SOSRepository {
	return &SOSRepository{db: db}
}

// Create inserts a new SOS alert.
func (r *SOSRepository) Create(ctx context.Context, alert *domain.SOSAlert) error {
	query := `
		INSERT INTO sos_alerts (id, user_id, lat, lng, address, emergency_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		alert.ID,
		alert.UserID,
		alert.Location.Lat,
		alert.Location.Lng,
		alert.Location.Address,
		alert.EmergencyType,
		alert.Status,
	).Scan(&alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sos alert: %w", err)
	}

	return nil
}

// List returns the most recent SOS alerts, newest first.
func (r *SOSRepository) List(ctx context.Context) ([]domain.SOSAlert, error) {
	query := `
		SELECT id, user_id, lat, lng, address, emergency_type, status, created_at
		FROM sos_alerts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, sosListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sos alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]domain.SOSAlert, 0)
	for rows.Next() {
		var a domain.SOSAlert
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Location.Lat,
			&a.Location.Lng,
			&a.Location.Address,
			&a.EmergencyType,
			&a.Status,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sos alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sos alerts: %w", err)
	}

	return alerts, nil
}
