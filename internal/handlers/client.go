package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"proflow/internal/models"
)

func (h *Handlers) ListClients(c *gin.Context) {
	var clients []models.Client
	if err := h.DB.Order("name asc").Find(&clients).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list clients", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handlers) GetClient(c *gin.Context) {
	var client models.Client
	if err := h.DB.First(&client, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "client not found", nil)
		return
	}
	c.JSON(http.StatusOK, client)
}

type clientBody struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	DataAiHint string `json:"dataAiHint"`
}

func (h *Handlers) CreateClient(c *gin.Context) {
	var body clientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		jsonError(c, http.StatusBadRequest, "name is required", nil)
		return
	}

	if body.Email != "" {
		var count int64
		h.DB.Model(&models.Client{}).
			Where("LOWER(email) = LOWER(?)", body.Email).
			Count(&count)
		if count > 0 {
			jsonError(c, http.StatusConflict, "a client with this email already exists", nil)
			return
		}
	}

	client := models.Client{
		Name:       body.Name,
		Email:      strings.TrimSpace(strings.ToLower(body.Email)),
		Avatar:     body.Avatar,
		DataAiHint: body.DataAiHint,
	}
	if err := h.DB.Create(&client).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create client", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handlers) UpdateClient(c *gin.Context) {
	var client models.Client
	if err := h.DB.First(&client, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "client not found", nil)
		return
	}

	var body clientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		client.Name = name
	}
	if body.Email != "" {
		client.Email = strings.TrimSpace(strings.ToLower(body.Email))
	}
	if body.Avatar != "" {
		client.Avatar = body.Avatar
	}
	if body.DataAiHint != "" {
		client.DataAiHint = body.DataAiHint
	}

	if err := h.DB.Save(&client).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update client", err)
		return
	}
	c.JSON(http.StatusOK, client)
}
