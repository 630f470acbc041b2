package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proflow/internal/models"
)

// ListNotifications returns the current user's notifications, newest first,
// capped at 50.
func (h *Handlers) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	var notes []models.Notification
	if err := h.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(50).
		Find(&notes).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list notifications", err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	var note models.Notification
	if err := h.DB.First(&note, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "notification not found", nil)
		return
	}
	if note.UserID != user.ID {
		jsonError(c, http.StatusForbidden, "access denied", nil)
		return
	}

	note.Read = true
	if err := h.DB.Save(&note).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update notification", err)
		return
	}
	c.JSON(http.StatusOK, note)
}

type notificationBody struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *Handlers) CreateNotification(c *gin.Context) {
	var body notificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if body.UserID == "" || body.Title == "" {
		jsonError(c, http.StatusBadRequest, "userId and title are required", nil)
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", body.UserID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "user not found", nil)
		return
	}

	note := models.Notification{
		UserID:  user.ID,
		Title:   body.Title,
		Message: body.Message,
	}
	if err := h.DB.Create(&note).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create notification", err)
		return
	}
	c.JSON(http.StatusCreated, note)
}
