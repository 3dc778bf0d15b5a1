package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditsvc "github.com/ndreev/passport/internal/audit"
	"github.com/ndreev/passport/internal/auth"
	"github.com/ndreev/passport/internal/config"
	"github.com/ndreev/passport/internal/database"
	auditrepo "github.com/ndreev/passport/internal/database/audit"
	"github.com/ndreev/passport/internal/database/sessions"
	"github.com/ndreev/passport/internal/database/users"
	"github.com/ndreev/passport/internal/entities"
)

// newTestRouter wires the full stack against a throwaway database, the
// same way the entrypoint does, minus the scheduler and CSRF layer.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router, _ := newTestRouterCSRF(t, nil)
	return router
}

// newTestRouterCSRF additionally enables CSRF protection when a secret is
// given, and exposes the user repository for state assertions.
func newTestRouterCSRF(t *testing.T, csrfSecret []byte) (*gin.Engine, *users.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "http_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Session{}, &entities.AuditEvent{}))

	userRepo := users.NewRepository(db)
	sessionRepo := sessions.NewRepository(db)
	auditService := auditsvc.NewService(auditrepo.NewRepository(db))

	var authCfg config.Auth
	authCfg.SessionLifetime = 168 * time.Hour
	authCfg.CookieName = "auth_session"
	authCfg.SecureCookies = false
	authCfg.BcryptCost = 4 // min cost, tests only

	service := auth.NewService(userRepo, authCfg)
	manager := auth.NewSessionManager(sessionRepo, userRepo, authCfg.SessionLifetime)
	codec := auth.NewCookieCodec(authCfg.CookieName, authCfg.SecureCookies)

	router := NewRouter(RouterConfig{
		AuthController:   NewAuthController(service, manager, codec, auditService),
		AuditController:  NewAuditController(auditService),
		HealthController: NewHealthController(&database.Database{DB: db}, "test"),
		Authenticator:    auth.NewMiddleware(manager, codec),
		CSRFSecret:       csrfSecret,
	})
	return router, userRepo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, router *gin.Engine, name, email, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func login(t *testing.T, router *gin.Engine, email, password string) *http.Cookie {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSignup(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"correct horse"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	// No session is created on signup.
	assert.Empty(t, w.Result().Cookies())
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "Alice", "alice@example.com", "correct horse")

	w := doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"name":"Impostor","email":"alice@example.com","password":"other secret"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignup_ValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@example.com","password":"longenough"}`},
		{"name too long", `{"name":"` + strings.Repeat("x", 31) + `","email":"a@example.com","password":"longenough"}`},
		{"bad email", `{"name":"A","email":"not-an-email","password":"longenough"}`},
		{"short password", `{"name":"A","email":"a@example.com","password":"short"}`},
		{"not json", `name=A`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	router := newTestRouter(t)
	userID := signup(t, router, "Alice", "alice@example.com", "correct horse")

	w := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"correct horse"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "auth_session", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	// Seven day lifetime, allowing slack for slow test runs.
	assert.InDelta(t, 7*24*3600, cookie.MaxAge, 60)
}

func TestLogin_UniformUnauthorized(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "Alice", "alice@example.com", "correct horse")

	wrongPassword := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong password"}`)
	unknownEmail := doJSON(t, router, http.MethodPost, "/auth/login",
		`{"email":"nobody@example.com","password":"wrong password"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// The two failure modes must be indistinguishable.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t,
		wrongPassword.Header().Get("Authenticate"),
		unknownEmail.Header().Get("Authenticate"))
	assert.Contains(t, wrongPassword.Header().Get("Authenticate"), "invalid_email_or_password")
	assert.Empty(t, wrongPassword.Result().Cookies())
	assert.Empty(t, unknownEmail.Result().Cookies())
}

func TestMe(t *testing.T) {
	router := newTestRouter(t)
	userID := signup(t, router, "Alice", "alice@example.com", "correct horse")
	cookie := login(t, router, "alice@example.com", "correct horse")

	w := doJSON(t, router, http.MethodGet, "/auth/me", "", cookie)

	require.Equal(t, http.StatusOK, w.Code)
	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.ID)
	assert.Equal(t, "Alice", resp.Name)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestMe_NoCookie(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/auth/me", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Authenticate"), "invalid_token")
}

func TestMe_GarbageCookie(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/auth/me", "",
		&http.Cookie{Name: "auth_session", Value: "not-a-real-session"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// A dead session gets its cookie cleared.
	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "auth_session=")
	assert.Contains(t, setCookie, "Max-Age=0")
}

func TestLogout(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "Alice", "alice@example.com", "correct horse")
	first := login(t, router, "alice@example.com", "correct horse")
	second := login(t, router, "alice@example.com", "correct horse")

	w := doJSON(t, router, http.MethodPost, "/auth/logout", "", second)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	// The session used for logout is dead, the other still works.
	dead := doJSON(t, router, http.MethodGet, "/auth/me", "", second)
	assert.Equal(t, http.StatusUnauthorized, dead.Code)

	alive := doJSON(t, router, http.MethodGet, "/auth/me", "", first)
	assert.Equal(t, http.StatusOK, alive.Code)
}

func TestLogout_All(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "Alice", "alice@example.com", "correct horse")
	first := login(t, router, "alice@example.com", "correct horse")
	second := login(t, router, "alice@example.com", "correct horse")

	w := doJSON(t, router, http.MethodPost, "/auth/logout?all=true", "", second)

	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, cookie := range []*http.Cookie{first, second} {
		resp := doJSON(t, router, http.MethodGet, "/auth/me", "", cookie)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}
}

func TestLogout_Unauthenticated(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/logout", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Authenticate"), "invalid_token")
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
