package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"proflow/internal/models"
)

func (h *Handlers) ListCreators(c *gin.Context) {
	var creators []models.Creator
	if err := h.DB.Order("name asc").Find(&creators).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list creators", err)
		return
	}
	c.JSON(http.StatusOK, creators)
}

func (h *Handlers) GetCreator(c *gin.Context) {
	var creator models.Creator
	if err := h.DB.First(&creator, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "creator not found", nil)
		return
	}
	c.JSON(http.StatusOK, creator)
}

type creatorBody struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	Mobile      string `json:"mobile"`
}

func (h *Handlers) CreateCreator(c *gin.Context) {
	var body creatorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		jsonError(c, http.StatusBadRequest, "name is required", nil)
		return
	}

	creator := models.Creator{
		Name:        body.Name,
		Email:       strings.TrimSpace(strings.ToLower(body.Email)),
		Description: body.Description,
		Avatar:      body.Avatar,
		Mobile:      body.Mobile,
	}
	if err := h.DB.Create(&creator).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create creator", err)
		return
	}
	c.JSON(http.StatusCreated, creator)
}

func (h *Handlers) UpdateCreator(c *gin.Context) {
	var creator models.Creator
	if err := h.DB.First(&creator, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "creator not found", nil)
		return
	}

	var body creatorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		creator.Name = name
	}
	if body.Email != "" {
		creator.Email = strings.TrimSpace(strings.ToLower(body.Email))
	}
	if body.Description != "" {
		creator.Description = body.Description
	}
	if body.Avatar != "" {
		creator.Avatar = body.Avatar
	}
	if body.Mobile != "" {
		creator.Mobile = body.Mobile
	}

	if err := h.DB.Save(&creator).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update creator", err)
		return
	}
	c.JSON(http.StatusOK, creator)
}
