package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"proflow/internal/models"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Password == "" {
		jsonError(c, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", body.Email).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save session", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handlers) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	c.JSON(http.StatusOK, user)
}
