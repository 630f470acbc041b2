package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"proflow/internal/models"
	"proflow/internal/workflow"
)

// Handlers carries every dependency the HTTP layer needs. Constructed once
// in the router; no package-level state.
type Handlers struct {
	DB       *gorm.DB
	Workflow *workflow.Service
	Log      zerolog.Logger
}

func New(db *gorm.DB, wf *workflow.Service, log zerolog.Logger) *Handlers {
	return &Handlers{DB: db, Workflow: wf, Log: log}
}

// jsonError writes the shared error shape {error, details?}.
func jsonError(c *gin.Context, status int, msg string, err error) {
	body := gin.H{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(status, body)
}

// requesterIP extracts the source IP from X-Forwarded-For, best-effort;
// an absent header yields "unknown".
func requesterIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	return "unknown"
}

// currentUser loads the session user injected by middleware.InjectUser.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("CurrentUser")
	if !ok {
		return nil, false
	}
	u, ok := v.(models.User)
	if !ok {
		return nil, false
	}
	return &u, true
}
