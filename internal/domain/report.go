package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report status constants.
const (
	ReportStatusPending       = "pending"
	ReportStatusInvestigating = "investigating"
	ReportStatusResolved      = "resolved"
)

// SOS status constants.
const (
	SOSStatusActive   = "active"
	SOSStatusResolved = "resolved"
)

// Location is a point with a human-readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// CrimeReport is a user-submitted incident report.
type CrimeReport struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CrimeType   string    `json:"crime_type" db:"crime_type"`
	Location    Location  `json:"location"`
	Severity    string    `json:"severity" db:"severity"`
	Status      string    `json:"status" db:"status"`
	IsAnonymous bool      `json:"is_anonymous" db:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateReportRequest is the payload for submitting a report.
type CreateReportRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	CrimeType   string   `json:"crime_type" binding:"required"`
	Location    Location `json:"location" binding:"required"`
	Severity    string   `json:"severity" binding:"required,oneof=low medium high"`
	IsAnonymous bool     `json:"is_anonymous"`
}

// MapPoint is the projection of a report used by the map view.
type MapPoint struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Location  Location  `json:"location"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SOSAlert is an emergency alert raised by a user.
type SOSAlert struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Location      Location  `json:"location"`
	EmergencyType string    `json:"emergency_type" db:"emergency_type"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CreateSOSRequest is the payload for raising an SOS alert.
type CreateSOSRequest struct {
	Location      Location `json:"location" binding:"required"`
	EmergencyType string   `json:"emergency_type"`
}
