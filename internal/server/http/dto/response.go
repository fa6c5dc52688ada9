package dto

import "github.com/polkiloo/aiblend-payments/internal/domain/model"

// CreateOrderResponse wraps the gateway order returned to the checkout page.
type CreateOrderResponse struct {
	Success bool         `json:"success"`
	Order   *model.Order `json:"order"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Error builds a failed response carrying msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// Message builds a response carrying a human readable message.
func Message(success bool, msg string) MessageResponse {
	return MessageResponse{Success: success, Message: msg}
}
