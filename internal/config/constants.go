package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./passport.db"

	// DefaultCookieName is the default name of the session cookie
	DefaultCookieName = "auth_session"
)
