package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndreev/passport/internal/entities"
)

// Context keys for the resolved identity. Both are set together or not at
// all: downstream handlers never see a user without its session.
const (
	ContextKeyUser    = "auth_user"
	ContextKeySession = "auth_session"
)

// Middleware resolves the session cookie on every request and publishes
// the resulting identity to the Gin context.
type Middleware struct {
	manager *SessionManager
	codec   *CookieCodec
}

// NewMiddleware creates the request authenticator.
func NewMiddleware(manager *SessionManager, codec *CookieCodec) *Middleware {
	return &Middleware{manager: manager, codec: codec}
}

// Handler returns a Gin middleware that authenticates requests.
//
// No cookie: the request proceeds anonymously and no cookie is emitted.
// Dead session: a cleared cookie revokes the stale client-side state.
// Fresh session: a reissued cookie carries the renewed identifier.
// Valid session: the identity is published with no cookie round-trip.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := m.codec.Read(c.Request)
		if sessionID == "" {
			c.Next()
			return
		}

		identity, err := m.manager.Validate(c.Request.Context(), sessionID)
		if err != nil {
			log.Printf("session validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			return
		}

		if identity == nil {
			m.codec.Blank(c.Writer)
			c.Next()
			return
		}

		if identity.Fresh {
			m.codec.Write(c.Writer, identity.Session)
		}

		c.Set(ContextKeyUser, identity.User)
		c.Set(ContextKeySession, identity.Session)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the Gin context.
// Returns nil when the request is unauthenticated.
func CurrentUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// CurrentSession retrieves the authenticated session from the Gin context.
// Returns nil when the request is unauthenticated.
func CurrentSession(c *gin.Context) *entities.Session {
	if v, exists := c.Get(ContextKeySession); exists {
		if session, ok := v.(*entities.Session); ok {
			return session
		}
	}
	return nil
}

// RequireIdentity returns the authenticated user and session, or
// ErrUnauthenticated when the request carries no valid session.
func RequireIdentity(c *gin.Context) (*entities.User, *entities.Session, error) {
	user := CurrentUser(c)
	session := CurrentSession(c)
	if user == nil || session == nil {
		return nil, nil, ErrUnauthenticated
	}
	return user, session, nil
}
