package model

import "time"

// PreorderRequest is the body for signup and notification requests
type PreorderRequest struct {
	Email string `json:"email"`
}

// PreorderResponse is the wire representation of a stored signup
type PreorderResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	SignupDate time.Time `json:"signup_date"`
	Notified   bool      `json:"notified"`
}

// MessageResponse is the generic success body
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse wraps the admin listing
type ListResponse struct {
	Preorders []PreorderResponse `json:"preorders"`
}

// ClearResponse reports the outcome of a bulk delete
type ClearResponse struct {
	Message     string `json:"message"`
	RowsDeleted int64  `json:"rowsDeleted"`
}

// ErrorResponse is the generic failure body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
