package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ndreev/passport/internal/database"
)

// HealthResponse reports service liveness and database reachability.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Version string `json:"version,omitempty"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status pings the database and reports 200 or 503.
func (h *HealthController) Status(c *gin.Context) {
	if err := h.ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
	})
}

func (h *HealthController) ping() error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
