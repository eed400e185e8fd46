package users

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	cachemod "github.com/kalviumcommunity/Medical-Appointments/modules/cache"
	storemod "github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

// Module provides the user service.
type Module struct {
	stores  *storemod.Module
	cache   *cachemod.Module
	service *Service
}

// Compile-time interface checks.
var (
	_ mono.Module          = (*Module)(nil)
	_ mono.DependentModule = (*Module)(nil)
)

// NewModule creates a new users module.
func NewModule(stores *storemod.Module, cache *cachemod.Module) *Module {
	return &Module{
		stores: stores,
		cache:  cache,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "users"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"store", "cache"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
// Both dependencies expose their state directly, so nothing is consumed here.
func (m *Module) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

// Start wires the user service.
func (m *Module) Start(_ context.Context) error {
	users := m.stores.Users()
	appts := m.stores.Appointments()
	reader := m.cache.GetReader()
	if users == nil || appts == nil || reader == nil {
		return fmt.Errorf("store or cache dependency not started")
	}

	m.service = NewService(users, appts, reader)
	log.Println("[users] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[users] Module stopped")
	return nil
}

// Service returns the user service.
func (m *Module) Service() *Service {
	return m.service
}
