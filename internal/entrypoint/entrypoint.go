package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	auditsvc "github.com/ndreev/passport/internal/audit"
	"github.com/ndreev/passport/internal/auth"
	"github.com/ndreev/passport/internal/config"
	"github.com/ndreev/passport/internal/database"
	auditrepo "github.com/ndreev/passport/internal/database/audit"
	"github.com/ndreev/passport/internal/database/sessions"
	"github.com/ndreev/passport/internal/database/users"
	controllers "github.com/ndreev/passport/internal/http"
	"github.com/ndreev/passport/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown callback first (e.g., to stop the cleanup scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Passport v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	userRepo := users.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)

	auditService := auditsvc.NewService(auditRepo)
	authService := auth.NewService(userRepo, cfg.Auth)
	sessionManager := auth.NewSessionManager(sessionRepo, userRepo, cfg.Auth.SessionLifetime)
	codec := auth.NewCookieCodec(cfg.Auth.CookieName, cfg.Auth.SecureCookies)
	authenticator := auth.NewMiddleware(sessionManager, codec)

	router := controllers.NewRouter(controllers.RouterConfig{
		AuthController:   controllers.NewAuthController(authService, sessionManager, codec, auditService),
		AuditController:  controllers.NewAuditController(auditService),
		HealthController: controllers.NewHealthController(db, version),
		Authenticator:    authenticator,
		CSRFSecret:       []byte(cfg.Auth.CSRFSecret),
		SecureCookies:    cfg.Auth.SecureCookies,
	})

	var cleanup *scheduler.CleanupScheduler
	if cfg.Cleanup.Enabled {
		retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
		cleanup = scheduler.NewCleanupScheduler(sessionRepo, auditService, cfg.Cleanup.Schedule, retention)
		if err := cleanup.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start cleanup scheduler: %v", err)
		}
	}

	Serve(router, cfg, func(ctx context.Context) {
		if cleanup != nil {
			cleanup.Stop()
		}
	})
}
