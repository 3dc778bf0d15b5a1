// Package sessions provides database operations for session records.
package sessions

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ndreev/passport/internal/entities"
)

// Repository handles all session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists a new session record.
func (r *Repository) Insert(ctx context.Context, session *entities.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID retrieves a session by its identifier.
// Returns (nil, nil) when no session exists.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Session, error) {
	var session entities.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Session{}).Error
}

// DeleteByUser removes every session owned by a user.
func (r *Repository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.Session{}).Error
}

// DeleteExpired removes all sessions whose expiry is at or before now.
// Returns the number of deleted sessions.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entities.Session{})
	return result.RowsAffected, result.Error
}
