package appointments

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	storemod "github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

// Module provides the appointment service.
type Module struct {
	stores  *storemod.Module
	service *Service
}

// Compile-time interface checks.
var (
	_ mono.Module          = (*Module)(nil)
	_ mono.DependentModule = (*Module)(nil)
)

// NewModule creates a new appointments module.
func NewModule(stores *storemod.Module) *Module {
	return &Module{stores: stores}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "appointments"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"store"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

// Start wires the appointment service.
func (m *Module) Start(_ context.Context) error {
	appts := m.stores.Appointments()
	users := m.stores.Users()
	if appts == nil || users == nil {
		return fmt.Errorf("store dependency not started")
	}

	m.service = NewService(appts, users)
	log.Println("[appointments] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[appointments] Module stopped")
	return nil
}

// Service returns the appointment service.
func (m *Module) Service() *Service {
	return m.service
}
