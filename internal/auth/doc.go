// Package auth implements session-based authentication: password hashing,
// the session lifecycle, the cookie transport, and the per-request
// authenticator middleware.
//
// # Configuration
//
//	AUTH_SESSION_LIFETIME=168h   # Session duration (7 days default)
//	AUTH_COOKIE_NAME=auth_session
//	AUTH_SECURE_COOKIES=true     # HTTPS-only cookies
//	AUTH_BCRYPT_COST=12          # bcrypt cost factor
//	AUTH_CSRF_SECRET=<32 bytes>  # Enables CSRF protection when set
//
// # Usage
//
// Initialize in the entrypoint:
//
//	manager := auth.NewSessionManager(sessionRepo, userRepo, cfg.Auth.SessionLifetime)
//	codec := auth.NewCookieCodec(cfg.Auth.CookieName, cfg.Auth.SecureCookies)
//	router.Use(auth.NewMiddleware(manager, codec).Handler())
//
// Read the resolved identity in handlers:
//
//	user := auth.CurrentUser(c)       // nil when unauthenticated
//	session := auth.CurrentSession(c) // nil exactly when user is nil
package auth
