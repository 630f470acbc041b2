package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proflow/internal/models"
)

func (h *Handlers) ListAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	if err := h.DB.
		Order("created_at desc").
		Limit(200).
		Find(&logs).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list audit logs", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
