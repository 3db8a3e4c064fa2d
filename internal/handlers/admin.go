package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"beewise-preorder-go/internal/model"
	"beewise-preorder-go/internal/service"
)

// ListPreorders returns every preorder, most recent signup first
func (h *Handlers) ListPreorders(c *gin.Context) {
	preorders, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch preorders",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]model.PreorderResponse, 0, len(preorders))
	for _, p := range preorders {
		responses = append(responses, model.PreorderResponse{
			ID:         p.ID,
			Email:      p.Email,
			SignupDate: p.SignupDate,
			Notified:   p.Notified,
		})
	}
	c.JSON(http.StatusOK, model.ListResponse{Preorders: responses})
}

// SendNotification sends the availability email to one address
func (h *Handlers) SendNotification(c *gin.Context) {
	var req model.PreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Email is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	err := h.service.Notify(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, model.MessageResponse{
			Message: "Notification email sent",
		})
	case errors.Is(err, service.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Email is required",
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, service.ErrSendFailed):
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "send_error",
			Message: "Failed to send notification email",
			Code:    http.StatusInternalServerError,
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update notification status",
			Code:    http.StatusInternalServerError,
		})
	}
}

// ClearPreorders removes every preorder row
func (h *Handlers) ClearPreorders(c *gin.Context) {
	count, err := h.service.ClearAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to clear preorders",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, model.ClearResponse{
		Message:     "All preorders cleared",
		RowsDeleted: count,
	})
}
