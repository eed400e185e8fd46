// Package store provides persistence for users and appointments behind a
// driver-neutral interface with two interchangeable adapters: a GORM/SQLite
// adapter and a pgx PostgreSQL adapter.
package store

import (
	"context"
	"errors"

	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a unique email constraint is violated.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// UserStore handles user persistence.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]user.User, error)
	// List returns a page of users ordered by creation time plus the total count.
	List(ctx context.Context, offset, limit int) ([]user.User, int64, error)
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id string) error
}

// AppointmentStore handles appointment persistence.
type AppointmentStore interface {
	Create(ctx context.Context, a *appointment.Appointment) error
	FindByID(ctx context.Context, id string) (*appointment.Appointment, error)
	// ListByUser returns all appointments for a user, newest date first.
	ListByUser(ctx context.Context, userID string) ([]appointment.Appointment, error)
	// List returns a page of appointments ordered by date descending plus the
	// total count. An empty userID means no filter.
	List(ctx context.Context, userID string, offset, limit int) ([]appointment.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id string, status appointment.Status) (*appointment.Appointment, error)
}
