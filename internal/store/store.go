// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/yellowbank/loanchat/internal/domain"
)

// Repository defines the interface for persisting user identity and survey
// results. Conversation state is deliberately not persisted: a session lives
// and dies in memory.
type Repository interface {
	// GetUser retrieves a user by their user ID. Returns (nil, nil) when the
	// user does not exist.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// SaveSurvey stores a completed satisfaction survey.
	SaveSurvey(ctx context.Context, record *domain.SurveyRecord) error

	// RecentSurveys returns the most recently completed surveys, newest first.
	RecentSurveys(ctx context.Context, limit int) ([]*domain.SurveyRecord, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
