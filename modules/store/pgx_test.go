package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// newPostgresStores connects to the database named by DATABASE_URL. Tests
// skip when no database is reachable.
func newPostgresStores(t *testing.T) (*PgxUserStore, *PgxAppointmentStore, *pgxpool.Pool) {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := OpenPostgres(ctx, databaseURL)
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}
	t.Cleanup(pool.Close)

	return NewPgxUserStore(pool), NewPgxAppointmentStore(pool), pool
}

func cleanupRows(t *testing.T, pool *pgxpool.Pool, userIDs ...string) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		for _, id := range userIDs {
			_, _ = pool.Exec(ctx, "DELETE FROM appointments WHERE user_id = $1", id)
			_, _ = pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
		}
	})
}

func TestPgxUserStore_RoundTrip(t *testing.T) {
	users, _, pool := newPostgresStores(t)
	ctx := context.Background()

	id := fmt.Sprintf("pgx-test-%d", time.Now().UnixNano())
	email := id + "@example.com"
	cleanupRows(t, pool, id)

	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &user.User{
		ID:           id,
		Name:         "Pgx Test",
		Email:        email,
		PasswordHash: "hash",
		Role:         user.RolePatient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := *u
	dup.ID = id + "-dup"
	if err := users.Create(ctx, &dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate Create() error = %v, want %v", err, ErrDuplicateEmail)
	}

	found, err := users.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != id {
		t.Errorf("id = %v, want %v", found.ID, id)
	}

	found.Name = "Renamed"
	if err := users.Update(ctx, found); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	again, err := users.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if again.Name != "Renamed" {
		t.Errorf("name = %v, want Renamed", again.Name)
	}

	if err := users.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := users.FindByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID() after delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestPgxAppointmentStore_RoundTrip(t *testing.T) {
	users, appts, pool := newPostgresStores(t)
	ctx := context.Background()

	ownerID := fmt.Sprintf("pgx-appt-owner-%d", time.Now().UnixNano())
	cleanupRows(t, pool, ownerID)

	now := time.Now().UTC().Truncate(time.Microsecond)
	owner := &user.User{
		ID:           ownerID,
		Name:         "Owner",
		Email:        ownerID + "@example.com",
		PasswordHash: "hash",
		Role:         user.RolePatient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, owner); err != nil {
		t.Fatalf("Create user error = %v", err)
	}

	a := &appointment.Appointment{
		ID:        ownerID + "-a1",
		Date:      now.Add(24 * time.Hour),
		Reason:    "checkup",
		Status:    appointment.StatusWaiting,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := appts.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := appts.UpdateStatus(ctx, a.ID, appointment.StatusServing)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != appointment.StatusServing {
		t.Errorf("status = %v, want %v", updated.Status, appointment.StatusServing)
	}

	listed, total, err := appts.List(ctx, ownerID, 0, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(listed) != 1 {
		t.Errorf("List() total/len = %d/%d, want 1/1", total, len(listed))
	}
}
