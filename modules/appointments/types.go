package appointments

import (
	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
)

// ListResponse is the paginated appointment list envelope.
type ListResponse struct {
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalCount int64                  `json:"totalCount"`
	TotalPages int                    `json:"totalPages"`
	Data       []appointment.WithUser `json:"data"`
}

// CreateRequest represents a create-appointment request.
type CreateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
	UserID string `json:"user_id"`
}

// UpdateStatusRequest represents an appointment status update.
type UpdateStatusRequest struct {
	Status appointment.Status `json:"status"`
}
