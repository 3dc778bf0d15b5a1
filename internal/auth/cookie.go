package auth

import (
	"net/http"
	"time"

	"github.com/ndreev/passport/internal/entities"
)

// CookieCodec serializes a session identifier into the transport cookie
// and back. Deserialization is lenient: a missing or malformed cookie
// yields an empty identifier, never an error.
type CookieCodec struct {
	Name   string
	Secure bool
}

// NewCookieCodec creates a codec for the named cookie. Secure controls the
// Secure attribute and should be true whenever the service is reached over
// HTTPS.
func NewCookieCodec(name string, secure bool) *CookieCodec {
	return &CookieCodec{Name: name, Secure: secure}
}

// Write emits a cookie carrying the session identifier, expiring together
// with the session.
func (cc *CookieCodec) Write(w http.ResponseWriter, session *entities.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cc.Name,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Blank emits the cleared variant of the cookie, instructing the client to
// drop its stored session identifier immediately (Max-Age=0 on the wire).
func (cc *CookieCodec) Blank(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the session identifier from the inbound request.
// Returns "" when no usable cookie is present.
func (cc *CookieCodec) Read(r *http.Request) string {
	cookie, err := r.Cookie(cc.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
