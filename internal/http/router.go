package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndreev/passport/internal/auth"
)

// RouterConfig carries the dependencies for router construction.
type RouterConfig struct {
	AuthController   *AuthController
	AuditController  *AuditController
	HealthController *HealthController
	Authenticator    *auth.Middleware

	// CSRFSecret enables CSRF protection when non-empty.
	CSRFSecret    []byte
	SecureCookies bool
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers on all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before the authenticator so the authenticator's
	// context survives the request replacement
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
		router.GET("/auth/csrf", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"token": auth.GetCSRFToken(c)})
		})
	}

	// Every request passes the authenticator before reaching a handler
	router.Use(cfg.Authenticator.Handler())

	if cfg.HealthController != nil {
		router.GET("/health", cfg.HealthController.Status)
	}
	cfg.AuthController.RegisterRoutes(router)
	if cfg.AuditController != nil {
		cfg.AuditController.RegisterRoutes(router)
	}

	return router
}
