package handlers

import (
	"beewise-preorder-go/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	service *service.PreorderService
}

// NewHandlers creates new HTTP handlers
func NewHandlers(s *service.PreorderService) *Handlers {
	return &Handlers{service: s}
}
