package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndreev/passport/internal/audit"
	"github.com/ndreev/passport/internal/auth"
	"github.com/ndreev/passport/internal/entities"
)

// AuthController handles the authentication endpoints. These are the only
// handlers that mutate credential or session state; everything else reads
// the identity resolved by the authenticator middleware.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	codec    *auth.CookieCodec
	audit    *audit.Service
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *auth.Service, sessions *auth.SessionManager, codec *auth.CookieCodec, auditService *audit.Service) *AuthController {
	return &AuthController{
		service:  service,
		sessions: sessions,
		codec:    codec,
		audit:    auditService,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/auth")
	group.POST("/signup", ac.Signup)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/me", ac.Me)
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,max=30"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// userResponse is the public view of a user. The password hash has no
// field here and can never appear in a response.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func publicUser(user *entities.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

// Signup registers a new user.
func (ac *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := ac.service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			ac.audit.LogAuth("", "signup", c.ClientIP(), c.Request.UserAgent(), err)
			respondConflict(c, "email already registered")
			return
		}
		respondInternalError(c, err)
		return
	}

	ac.audit.LogAuth(user.ID, "signup", c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

// Login verifies credentials and issues a session cookie. Unknown email
// and wrong password produce byte-identical responses.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := ac.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ac.audit.LogAuth("", "login", c.ClientIP(), c.Request.UserAgent(), err)
			respondUnauthorized(c, ChallengeInvalidCredentials, "invalid email or password")
			return
		}
		respondInternalError(c, err)
		return
	}

	session, err := ac.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	ac.codec.Write(c.Writer, session)
	ac.audit.LogAuth(user.ID, "login", c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusOK, gin.H{"user": publicUser(user)})
}

// Logout invalidates the current session, or every session of the user
// when ?all=true, and clears the client cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	user, session, err := auth.RequireIdentity(c)
	if err != nil {
		respondUnauthorized(c, ChallengeInvalidToken, err.Error())
		return
	}

	action := "logout"
	if c.DefaultQuery("all", "false") == "true" {
		action = "logout_all"
		err = ac.sessions.InvalidateAll(c.Request.Context(), user.ID)
	} else {
		err = ac.sessions.Invalidate(c.Request.Context(), session.ID)
	}
	if err != nil {
		respondInternalError(c, err)
		return
	}

	ac.codec.Blank(c.Writer)
	ac.audit.LogAuth(user.ID, action, c.ClientIP(), c.Request.UserAgent(), nil)

	c.Status(http.StatusNoContent)
}

// Me returns the public record of the authenticated user.
func (ac *AuthController) Me(c *gin.Context) {
	user, _, err := auth.RequireIdentity(c)
	if err != nil {
		respondUnauthorized(c, ChallengeInvalidToken, err.Error())
		return
	}

	c.JSON(http.StatusOK, publicUser(user))
}
