package dto

import "time"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Success wraps data in a successful envelope.
func Success(data any, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// HealthDTO is the body of the health check.
type HealthDTO struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
