package users

import (
	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// ListResponse is the paginated user list envelope.
type ListResponse struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int64       `json:"totalCount"`
	TotalPages int         `json:"totalPages"`
	Data       []user.User `json:"data"`
}

// CreateRequest represents a create-user request.
type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateRequest represents an update-user request.
type UpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Detail is a user with their appointments, newest date first.
type Detail struct {
	user.User
	Appointments []appointment.Appointment `json:"appointments"`
}
