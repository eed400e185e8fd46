package api

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kalviumcommunity/Medical-Appointments/modules/appointments"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
	"github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

var validationErrors = []error{
	auth.ErrNameRequired,
	auth.ErrInvalidEmail,
	auth.ErrPasswordRequired,
	auth.ErrPasswordTooLong,
	auth.ErrRoleConflict,
	appointments.ErrDateRequired,
	appointments.ErrReasonRequired,
	appointments.ErrUserIDRequired,
	appointments.ErrInvalidStatus,
}

// fail maps a service error to its HTTP status and error code. Errors that
// crossed the service container lose their identity, so matching falls back
// to the error message.
func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	for _, target := range validationErrors {
		if matches(err, target) {
			return respond(c, fiber.StatusBadRequest, CodeValidation, err.Error())
		}
	}

	switch {
	case matches(err, auth.ErrInvalidCredentials):
		return respond(c, fiber.StatusUnauthorized, CodeAuthFailed, "Invalid email or password")
	case matches(err, auth.ErrUserExists), matches(err, store.ErrDuplicateEmail):
		return respond(c, fiber.StatusConflict, CodeUserExists, "User with this email already exists")
	case matches(err, store.ErrNotFound):
		return respond(c, fiber.StatusNotFound, CodeNotFound, "Resource not found")
	case matches(err, auth.ErrSecretMissing):
		log.Printf("[API] configuration error: %v", err)
		return respond(c, fiber.StatusInternalServerError, CodeConfigError, "Server is misconfigured")
	}

	log.Printf("[API] internal error: %v", err)
	message := "Something went wrong"
	if h.development {
		message = err.Error()
	}
	return respond(c, fiber.StatusInternalServerError, CodeInternal, message)
}

func matches(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	return strings.Contains(err.Error(), target.Error())
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message})
}
