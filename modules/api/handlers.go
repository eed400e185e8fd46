package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kalviumcommunity/Medical-Appointments/modules/appointments"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
	"github.com/kalviumcommunity/Medical-Appointments/modules/users"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth        auth.Port
	users       *users.Service
	appts       *appointments.Service
	development bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.Port, userSvc *users.Service, apptSvc *appointments.Service, development bool) *Handlers {
	return &Handlers{
		auth:        authPort,
		users:       userSvc,
		appts:       apptSvc,
		development: development,
	}
}

// Signup handles user registration.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req auth.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
	}

	resp, err := h.auth.Signup(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Email and password are required")
	}

	resp, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ListUsers returns a paginated list of users.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", users.DefaultPage)
	limit := c.QueryInt("limit", users.DefaultLimit)

	resp, err := h.users.List(c.UserContext(), page, limit)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateUser creates a user without credentials.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req users.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
	}

	created, err := h.users.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetUser returns a single user with their appointments.
func (h *Handlers) GetUser(c *fiber.Ctx) error {
	detail, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

// UpdateUser updates a user's name and email.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	var req users.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
	}

	detail, err := h.users.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

// DeleteUser removes a user.
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "User deleted successfully"})
}

// Doctor is the doctor-only endpoint.
func (h *Handlers) Doctor(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return respond(c, fiber.StatusUnauthorized, auth.CodeTokenMissing, "Authentication is required")
	}

	return c.Status(fiber.StatusOK).JSON(DoctorResponse{DoctorID: claims.UserID})
}

// Admin is gated behind an empty role set, so no issued token can reach it.
func (h *Handlers) Admin(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "Admin area"})
}

// ListAppointments returns a paginated list of appointments.
func (h *Handlers) ListAppointments(c *fiber.Ctx) error {
	page := c.QueryInt("page", users.DefaultPage)
	limit := c.QueryInt("limit", users.DefaultLimit)
	userID := c.Query("user_id")

	resp, err := h.appts.List(c.UserContext(), userID, page, limit)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateAppointment books a new appointment.
func (h *Handlers) CreateAppointment(c *fiber.Ctx) error {
	var req appointments.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
	}

	created, err := h.appts.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateAppointmentStatus transitions an appointment to a new status.
func (h *Handlers) UpdateAppointmentStatus(c *fiber.Ctx) error {
	var req appointments.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
	}

	updated, err := h.appts.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}
