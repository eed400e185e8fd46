package api

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kalviumcommunity/Medical-Appointments/config"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
	"github.com/kalviumcommunity/Medical-Appointments/modules/appointments"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
	cachemod "github.com/kalviumcommunity/Medical-Appointments/modules/cache"
	storemod "github.com/kalviumcommunity/Medical-Appointments/modules/store"
	"github.com/kalviumcommunity/Medical-Appointments/modules/users"
)

// Module is the HTTP API module.
type Module struct {
	cfg   config.Config
	app   *fiber.App
	users *users.Module
	appts *appointments.Module

	authContainer mono.ServiceContainer
	authAdapter   auth.Port

	// Backing modules reporting into /health.
	checkables map[string]mono.HealthCheckableModule
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API Module.
func NewModule(cfg config.Config, userMod *users.Module, apptMod *appointments.Module, storeMod *storemod.Module, cacheMod *cachemod.Module) *Module {
	return &Module{
		cfg:   cfg,
		users: userMod,
		appts: apptMod,
		checkables: map[string]mono.HealthCheckableModule{
			"store": storeMod,
			"cache": cacheMod,
		},
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth", "users", "appointments"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authContainer = container
		m.authAdapter = auth.NewAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          fallbackErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	addr := fmt.Sprintf(":%d", m.cfg.HTTPPort)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.HTTPPort,
		},
	}
}

// App exposes the underlying Fiber app for tests.
func (m *Module) App() *fiber.App {
	return m.app
}

// setupRoutes configures all API routes.
func (m *Module) setupRoutes() {
	handlers := NewHandlers(m.authAdapter, m.users.Service(), m.appts.Service(), m.cfg.Development())

	m.app.Get("/health", m.handleHealth)

	// Public auth routes
	authRoutes := m.app.Group("/auth")
	authRoutes.Post("/signup", handlers.Signup)
	authRoutes.Post("/login", handlers.Login)

	// Everything below requires a valid token.
	protected := m.app.Group("")
	protected.Use(AuthMiddleware(m.authAdapter))

	userRoutes := protected.Group("/users")
	userRoutes.Get("/", handlers.ListUsers)
	userRoutes.Post("/", handlers.CreateUser)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Put("/:id", handlers.UpdateUser)
	userRoutes.Delete("/:id", handlers.DeleteUser)

	protected.Get("/doctor", RequireRoles(user.RoleDoctor), handlers.Doctor)
	protected.Get("/admin", RequireRoles(), handlers.Admin)

	apptRoutes := protected.Group("/appointments")
	apptRoutes.Get("/", handlers.ListAppointments)
	apptRoutes.Post("/", handlers.CreateAppointment)
	apptRoutes.Patch("/:id", RequireRoles(user.RoleDoctor), handlers.UpdateAppointmentStatus)
}

// handleHealth aggregates the health of the backing modules.
func (m *Module) handleHealth(c *fiber.Ctx) error {
	healthy := true
	moduleStatus := make(map[string]any, len(m.checkables))
	for name, mod := range m.checkables {
		status := mod.Health(c.UserContext())
		healthy = healthy && status.Healthy
		moduleStatus[name] = fiber.Map{
			"healthy": status.Healthy,
			"message": status.Message,
			"details": status.Details,
		}
	}

	overall := "healthy"
	code := fiber.StatusOK
	if !healthy {
		overall = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  overall,
		"modules": moduleStatus,
	})
}

// fallbackErrorHandler handles errors that escape the handlers.
func fallbackErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   CodeInternal,
		Message: message,
	})
}
