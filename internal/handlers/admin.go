package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"proflow/internal/workflow"
)

// Admin deletion endpoints. Authorization happens inside the workflow
// against the identity store, not through the session middleware, so these
// routes live outside the session-gated group.

type deleteClientBody struct {
	ClientID   string `json:"clientId"`
	AdminEmail string `json:"adminEmail"`
}

func (h *Handlers) DeleteClient(c *gin.Context) {
	var body deleteClientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.Workflow.DeleteClient(c.Request.Context(), workflow.DeleteClientRequest{
		ClientID:       body.ClientID,
		RequesterEmail: body.AdminEmail,
		RequesterIP:    requesterIP(c),
	})
	if err != nil {
		h.workflowError(c, err, "admin account not found", "client not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("client %s and %d tasks, %d transactions deleted",
			result.ClientID, result.TasksDeleted, result.TransactionsDeleted),
		"deletedData": result,
	})
}

type deleteCreatorBody struct {
	CreatorID  string `json:"creatorId"`
	AdminEmail string `json:"adminEmail"`
	ReassignTo string `json:"reassignTo"`
}

func (h *Handlers) DeleteCreator(c *gin.Context) {
	var body deleteCreatorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.Workflow.DeleteOrReassignCreator(c.Request.Context(), workflow.DeleteCreatorRequest{
		CreatorID:      body.CreatorID,
		RequesterEmail: body.AdminEmail,
		ReassignTo:     body.ReassignTo,
		RequesterIP:    requesterIP(c),
	})
	if err != nil {
		h.workflowError(c, err, "admin account not found", "creator not found")
		return
	}

	msg := fmt.Sprintf("creator %s deleted, %d tasks unassigned", result.CreatorID, result.TasksUnassigned)
	if result.ReassignedTo != "" {
		msg = fmt.Sprintf("creator %s deleted, %d tasks reassigned to %s",
			result.CreatorID, result.TasksReassigned, result.ReassignedTo)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     msg,
		"deletedData": result,
	})
}

func (h *Handlers) ClientDeletionInfo(c *gin.Context) {
	preview, err := h.Workflow.ClientDeletionPreview(c.Request.Context(), c.Query("clientId"))
	if err != nil {
		h.previewError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Handlers) CreatorDeletionInfo(c *gin.Context) {
	preview, err := h.Workflow.CreatorDeletionPreview(c.Request.Context(), c.Query("creatorId"))
	if err != nil {
		h.previewError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// previewError maps errors from the read-only info endpoints, which perform
// no authorization and no target lookup: only a missing parameter or a store
// failure can occur.
func (h *Handlers) previewError(c *gin.Context, err error) {
	if errors.Is(err, workflow.ErrBadRequest) {
		jsonError(c, http.StatusBadRequest, "missing required fields", err)
		return
	}
	h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("deletion preview failed")
	jsonError(c, http.StatusInternalServerError, "internal server error", err)
}

// workflowError maps workflow sentinels onto the HTTP error table.
func (h *Handlers) workflowError(c *gin.Context, err error, forbiddenMsg, notFoundMsg string) {
	switch {
	case errors.Is(err, workflow.ErrBadRequest):
		jsonError(c, http.StatusBadRequest, "missing required fields", err)
	case errors.Is(err, workflow.ErrUnauthorized):
		jsonError(c, http.StatusForbidden, forbiddenMsg, nil)
	case errors.Is(err, workflow.ErrNotFound):
		jsonError(c, http.StatusNotFound, notFoundMsg, nil)
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("workflow failed")
		jsonError(c, http.StatusInternalServerError, "internal server error", err)
	}
}
