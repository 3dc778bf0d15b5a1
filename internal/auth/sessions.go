package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ndreev/passport/internal/database/sessions"
	"github.com/ndreev/passport/internal/database/users"
	"github.com/ndreev/passport/internal/entities"
)

// sessionIDBytes is the entropy of a session identifier. 32 bytes = 256 bits.
const sessionIDBytes = 32

// Identity is the outcome of resolving a session identifier: the session
// and its owning user. Fresh is set when the session was renewed during
// validation and the caller must reissue the transport cookie.
type Identity struct {
	User    *entities.User
	Session *entities.Session
	Fresh   bool
}

// SessionManager owns the session lifecycle: creation, validation with
// sliding renewal, and invalidation.
type SessionManager struct {
	sessions *sessions.Repository
	users    *users.Repository
	lifetime time.Duration
	now      func() time.Time
}

// NewSessionManager creates a session manager with the given session lifetime.
func NewSessionManager(sessionRepo *sessions.Repository, userRepo *users.Repository, lifetime time.Duration) *SessionManager {
	return &SessionManager{
		sessions: sessionRepo,
		users:    userRepo,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Create issues a new session for the user and persists it.
func (m *SessionManager) Create(ctx context.Context, userID string) (*entities.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	session := &entities.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.lifetime),
	}

	if err := m.sessions.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return session, nil
}

// Validate resolves a session identifier to an Identity. A missing, expired,
// or orphaned session yields (nil, nil); expired and orphaned rows are
// deleted on the spot. When more than half of the lifetime has elapsed the
// session is renewed under a new identifier and the result is flagged Fresh.
func (m *SessionManager) Validate(ctx context.Context, sessionID string) (*Identity, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := m.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := m.now()
	if !now.Before(session.ExpiresAt) {
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	user, err := m.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Orphaned session: the owning user is gone.
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if session.ExpiresAt.Sub(now) <= m.lifetime/2 {
		renewed, err := m.renew(ctx, session)
		if err != nil {
			return nil, err
		}
		return &Identity{User: user, Session: renewed, Fresh: true}, nil
	}

	return &Identity{User: user, Session: session}, nil
}

// renew replaces a session with a successor under a new identifier.
// The successor is inserted before the old row is deleted, so two requests
// racing past the staleness threshold each end up with a valid session;
// both derive from an already-valid one.
func (m *SessionManager) renew(ctx context.Context, old *entities.Session) (*entities.Session, error) {
	renewed, err := m.Create(ctx, old.UserID)
	if err != nil {
		return nil, err
	}
	if err := m.sessions.Delete(ctx, old.ID); err != nil {
		return nil, err
	}
	return renewed, nil
}

// Invalidate deletes one session. Idempotent.
func (m *SessionManager) Invalidate(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}

// InvalidateAll deletes every session owned by the user. Idempotent.
func (m *SessionManager) InvalidateAll(ctx context.Context, userID string) error {
	return m.sessions.DeleteByUser(ctx, userID)
}

// newSessionID generates a cryptographically secure session identifier.
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
