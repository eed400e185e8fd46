package store

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/kalviumcommunity/Medical-Appointments/config"
)

// Module owns the database connection and exposes the store interfaces to the
// other modules.
type Module struct {
	cfg   config.StoreConfig
	db    *gorm.DB
	pool  *pgxpool.Pool
	users UserStore
	appts AppointmentStore
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new store module for the configured driver.
func NewModule(cfg config.StoreConfig) *Module {
	return &Module{cfg: cfg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "store"
}

// Start opens the configured database and builds the store adapters.
func (m *Module) Start(ctx context.Context) error {
	switch m.cfg.Driver {
	case config.DriverSQLite:
		db, err := OpenSQLite(m.cfg.SQLitePath)
		if err != nil {
			return err
		}
		m.db = db
		m.users = NewGormUserStore(db)
		m.appts = NewGormAppointmentStore(db)
		log.Printf("[store] SQLite store ready (path: %s)", m.cfg.SQLitePath)

	case config.DriverPostgres:
		if m.cfg.PostgresURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		pool, err := OpenPostgres(ctx, m.cfg.PostgresURL)
		if err != nil {
			return err
		}
		m.pool = pool
		m.users = NewPgxUserStore(pool)
		m.appts = NewPgxAppointmentStore(pool)
		log.Println("[store] PostgreSQL store ready")

	default:
		return fmt.Errorf("unknown store driver: %q", m.cfg.Driver)
	}

	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if m.pool != nil {
		m.pool.Close()
	}
	log.Println("[store] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	switch {
	case m.db != nil:
		sqlDB, err := m.db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
		}
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"driver": config.DriverSQLite, "path": m.cfg.SQLitePath},
		}

	case m.pool != nil:
		if err := m.pool.Ping(ctx); err != nil {
			return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
		}
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"driver": config.DriverPostgres},
		}

	default:
		return mono.HealthStatus{Healthy: false, Message: "store not initialized"}
	}
}

// Users returns the user store.
func (m *Module) Users() UserStore {
	return m.users
}

// Appointments returns the appointment store.
func (m *Module) Appointments() AppointmentStore {
	return m.appts
}
