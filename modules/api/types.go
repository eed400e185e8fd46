package api

// Error codes returned to clients.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeAuthFailed  = "AUTH_FAILED"
	CodeForbidden   = "FORBIDDEN"
	CodeUserExists  = "USER_EXISTS"
	CodeNotFound    = "NOT_FOUND"
	CodeConfigError = "CONFIG_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse represents a simple confirmation response.
type MessageResponse struct {
	Message string `json:"message"`
}

// DoctorResponse is the payload of the doctor-only endpoint.
type DoctorResponse struct {
	DoctorID string `json:"doctorId"`
}
