package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"proflow/internal/models"
)

func (h *Handlers) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	q := h.DB.Order("transaction_date desc")
	switch user.Role {
	case models.RoleAdmin:
		if clientID := c.Query("clientId"); clientID != "" {
			q = q.Where("client_id = ?", clientID)
		}
	case models.RoleClient:
		var client models.Client
		if err := h.DB.First(&client, "email = ?", user.Email).Error; err != nil {
			c.JSON(http.StatusOK, []models.Transaction{})
			return
		}
		q = q.Where("client_id = ?", client.ID)
	default:
		jsonError(c, http.StatusForbidden, "access denied", nil)
		return
	}

	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

type transactionBody struct {
	ClientID        string     `json:"clientId"`
	TaskID          string     `json:"taskId"`
	Amount          float64    `json:"amount"`
	PaymentMethod   string     `json:"paymentMethod"`
	TransactionDate *time.Time `json:"transactionDate"`
}

func (h *Handlers) CreateTransaction(c *gin.Context) {
	var body transactionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if body.ClientID == "" || body.Amount <= 0 {
		jsonError(c, http.StatusBadRequest, "clientId and a positive amount are required", nil)
		return
	}

	var client models.Client
	if err := h.DB.First(&client, "id = ?", body.ClientID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "client not found", nil)
		return
	}

	txn := models.Transaction{
		ClientID:      client.ID,
		ClientName:    client.Name,
		Amount:        body.Amount,
		PaymentMethod: body.PaymentMethod,
	}
	if body.TransactionDate != nil {
		txn.TransactionDate = *body.TransactionDate
	} else {
		txn.TransactionDate = time.Now().UTC()
	}
	if body.TaskID != "" {
		var task models.Task
		if err := h.DB.First(&task, "id = ?", body.TaskID).Error; err != nil {
			jsonError(c, http.StatusNotFound, "task not found", nil)
			return
		}
		txn.TaskID = task.ID
		txn.ProjectName = task.ProjectName
	}

	if err := h.DB.Create(&txn).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create transaction", err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}
