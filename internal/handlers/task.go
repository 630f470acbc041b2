package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"proflow/internal/models"
)

// ListTasks is role-scoped: admins see everything (optionally filtered by
// clientId / assigneeId), client users see their own client's tasks, creator
// users see tasks assigned to them.
func (h *Handlers) ListTasks(c *gin.Context) {
	q := h.DB.Order("sl_no asc")

	user, ok := currentUser(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	switch user.Role {
	case models.RoleAdmin:
		if clientID := c.Query("clientId"); clientID != "" {
			q = q.Where("client_id = ?", clientID)
		}
		if assigneeID := c.Query("assigneeId"); assigneeID != "" {
			q = q.Where("assignee_id = ?", assigneeID)
		}
	case models.RoleClient:
		var client models.Client
		if err := h.DB.First(&client, "email = ?", user.Email).Error; err != nil {
			c.JSON(http.StatusOK, []models.Task{})
			return
		}
		q = q.Where("client_id = ?", client.ID)
	case models.RoleCreator:
		var creator models.Creator
		if err := h.DB.First(&creator, "email = ?", user.Email).Error; err != nil {
			c.JSON(http.StatusOK, []models.Task{})
			return
		}
		q = q.Where("assignee_id = ?", creator.ID)
	default:
		jsonError(c, http.StatusForbidden, "access denied", nil)
		return
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handlers) GetTask(c *gin.Context) {
	var task models.Task
	if err := h.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "task not found", nil)
		return
	}
	c.JSON(http.StatusOK, task)
}

type taskBody struct {
	ClientID       string     `json:"clientId"`
	AssigneeID     string     `json:"assigneeId"`
	ProjectName    string     `json:"projectName"`
	Pages          *int       `json:"pages"`
	Rate           *float64   `json:"rate"`
	WorkStatus     string     `json:"workStatus"`
	PaymentStatus  string     `json:"paymentStatus"`
	AmountPaid     *float64   `json:"amountPaid"`
	AcceptedDate   *time.Time `json:"acceptedDate"`
	SubmissionDate *time.Time `json:"submissionDate"`
	// pointer so an explicit empty string clears the field
	Notes     *string  `json:"notes"`
	FileLinks []string `json:"fileLinks"`
}

func (h *Handlers) CreateTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	body.ProjectName = strings.TrimSpace(body.ProjectName)
	if body.ClientID == "" || body.ProjectName == "" {
		jsonError(c, http.StatusBadRequest, "clientId and projectName are required", nil)
		return
	}

	var client models.Client
	if err := h.DB.First(&client, "id = ?", body.ClientID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "client not found", nil)
		return
	}

	task := models.Task{
		ClientID:      client.ID,
		ClientName:    client.Name,
		ProjectName:   body.ProjectName,
		WorkStatus:    models.WorkPending,
		PaymentStatus: models.PaymentUnpaid,
		FileLinks:     body.FileLinks,
	}
	if body.Notes != nil {
		task.Notes = *body.Notes
	}
	if body.Pages != nil {
		task.Pages = *body.Pages
	}
	if body.Rate != nil {
		task.Rate = *body.Rate
	}
	if body.AmountPaid != nil {
		task.AmountPaid = *body.AmountPaid
	}
	task.AcceptedDate = body.AcceptedDate
	task.SubmissionDate = body.SubmissionDate

	if body.WorkStatus != "" {
		if !models.ValidWorkStatus(models.WorkStatus(body.WorkStatus)) {
			jsonError(c, http.StatusBadRequest, "invalid workStatus", nil)
			return
		}
		task.WorkStatus = models.WorkStatus(body.WorkStatus)
	}
	if body.PaymentStatus != "" {
		if !models.ValidPaymentStatus(models.PaymentStatus(body.PaymentStatus)) {
			jsonError(c, http.StatusBadRequest, "invalid paymentStatus", nil)
			return
		}
		task.PaymentStatus = models.PaymentStatus(body.PaymentStatus)
	}

	if body.AssigneeID != "" {
		var creator models.Creator
		if err := h.DB.First(&creator, "id = ?", body.AssigneeID).Error; err != nil {
			jsonError(c, http.StatusNotFound, "assignee not found", nil)
			return
		}
		task.AssigneeID = &creator.ID
		task.AssigneeName = creator.Name
	}

	// serial allocation and insert share one transaction; the unique index
	// on sl_no rejects a concurrent double-allocation
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		var maxSlNo int
		if err := tx.Model(&models.Task{}).Select("COALESCE(MAX(sl_no), 0)").Scan(&maxSlNo).Error; err != nil {
			return err
		}
		task.SlNo = maxSlNo + 1
		return tx.Create(&task).Error
	}); err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handlers) UpdateTask(c *gin.Context) {
	var task models.Task
	if err := h.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		jsonError(c, http.StatusNotFound, "task not found", nil)
		return
	}

	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if name := strings.TrimSpace(body.ProjectName); name != "" {
		task.ProjectName = name
	}
	if body.Pages != nil {
		task.Pages = *body.Pages
	}
	if body.Rate != nil {
		task.Rate = *body.Rate
	}
	if body.AmountPaid != nil {
		task.AmountPaid = *body.AmountPaid
	}
	if body.AcceptedDate != nil {
		task.AcceptedDate = body.AcceptedDate
	}
	if body.SubmissionDate != nil {
		task.SubmissionDate = body.SubmissionDate
	}
	if body.Notes != nil {
		task.Notes = *body.Notes
	}
	if body.FileLinks != nil {
		task.FileLinks = body.FileLinks
	}
	if body.WorkStatus != "" {
		if !models.ValidWorkStatus(models.WorkStatus(body.WorkStatus)) {
			jsonError(c, http.StatusBadRequest, "invalid workStatus", nil)
			return
		}
		task.WorkStatus = models.WorkStatus(body.WorkStatus)
	}
	if body.PaymentStatus != "" {
		if !models.ValidPaymentStatus(models.PaymentStatus(body.PaymentStatus)) {
			jsonError(c, http.StatusBadRequest, "invalid paymentStatus", nil)
			return
		}
		task.PaymentStatus = models.PaymentStatus(body.PaymentStatus)
	}
	if body.AssigneeID != "" {
		var creator models.Creator
		if err := h.DB.First(&creator, "id = ?", body.AssigneeID).Error; err != nil {
			jsonError(c, http.StatusNotFound, "assignee not found", nil)
			return
		}
		task.AssigneeID = &creator.ID
		task.AssigneeName = creator.Name
	}

	// BeforeSave recomputes total from the current pages and rate.
	if err := h.DB.Save(&task).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}
