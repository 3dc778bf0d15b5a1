package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ndreev/passport/internal/audit"
	"github.com/ndreev/passport/internal/auth"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the audit routes on the router.
func (ac *AuditController) RegisterRoutes(router *gin.Engine) {
	router.GET("/auth/events", ac.GetAuditEvents)
}

// GetAuditEvents returns the authenticated user's paginated audit events.
// GET /auth/events
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	user, _, err := auth.RequireIdentity(c)
	if err != nil {
		respondUnauthorized(c, ChallengeInvalidToken, err.Error())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	offset := (page - 1) * limit

	events, total, err := ac.auditService.GetEvents(user.ID, limit, offset)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
	})
}
