package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"beewise-preorder-go/internal/model"
	"beewise-preorder-go/internal/service"
)

// Signup registers a new preorder email
func (h *Handlers) Signup(c *gin.Context) {
	var req model.PreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Email is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	err := h.service.Signup(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, model.MessageResponse{
			Message: "Preorder registered successfully",
		})
	case errors.Is(err, service.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Email is required",
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Error:   "duplicate_email",
			Message: "Email already registered",
			Code:    http.StatusConflict,
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to register preorder",
			Code:    http.StatusInternalServerError,
		})
	}
}
