package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

const pgSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS appointments (
	id TEXT PRIMARY KEY,
	date TIMESTAMPTZ NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'WAITING',
	user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_appointments_user_id ON appointments (user_id);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments (date);
`

// OpenPostgres opens a pgx connection pool and ensures the schema exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return pool, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// PgxUserStore implements UserStore using pgx against a hosted PostgreSQL.
type PgxUserStore struct {
	pool *pgxpool.Pool
}

var _ UserStore = (*PgxUserStore)(nil)

// NewPgxUserStore creates a new PgxUserStore.
func NewPgxUserStore(pool *pgxpool.Pool) *PgxUserStore {
	return &PgxUserStore{pool: pool}
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create creates a new user.
func (s *PgxUserStore) Create(ctx context.Context, u *user.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID finds a user by ID.
func (s *PgxUserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail finds a user by email.
func (s *PgxUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByIDs returns all users whose id is in the given set.
func (s *PgxUserStore) FindByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// List returns a page of users ordered by creation time.
func (s *PgxUserStore) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update saves an updated user.
func (s *PgxUserStore) Update(ctx context.Context, u *user.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, role = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user by ID.
func (s *PgxUserStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PgxAppointmentStore implements AppointmentStore using pgx.
type PgxAppointmentStore struct {
	pool *pgxpool.Pool
}

var _ AppointmentStore = (*PgxAppointmentStore)(nil)

// NewPgxAppointmentStore creates a new PgxAppointmentStore.
func NewPgxAppointmentStore(pool *pgxpool.Pool) *PgxAppointmentStore {
	return &PgxAppointmentStore{pool: pool}
}

func scanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := row.Scan(&a.ID, &a.Date, &a.Reason, &a.Status, &a.UserID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]appointment.Appointment, error) {
	var appts []appointment.Appointment
	for rows.Next() {
		var a appointment.Appointment
		if err := rows.Scan(&a.ID, &a.Date, &a.Reason, &a.Status, &a.UserID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// Create creates a new appointment.
func (s *PgxAppointmentStore) Create(ctx context.Context, a *appointment.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (id, date, reason, status, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Date, a.Reason, a.Status, a.UserID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// FindByID finds an appointment by ID.
func (s *PgxAppointmentStore) FindByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, date, reason, status, user_id, created_at, updated_at
		 FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

// ListByUser returns all appointments for a user, newest date first.
func (s *PgxAppointmentStore) ListByUser(ctx context.Context, userID string) ([]appointment.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, date, reason, status, user_id, created_at, updated_at
		 FROM appointments WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// List returns a page of appointments ordered by date descending.
func (s *PgxAppointmentStore) List(ctx context.Context, userID string, offset, limit int) ([]appointment.Appointment, int64, error) {
	var total int64
	var rows pgx.Rows
	var err error

	if userID != "" {
		if err = s.pool.QueryRow(ctx,
			`SELECT count(*) FROM appointments WHERE user_id = $1`, userID).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
		}
		rows, err = s.pool.Query(ctx,
			`SELECT id, date, reason, status, user_id, created_at, updated_at
			 FROM appointments WHERE user_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
			userID, limit, offset)
	} else {
		if err = s.pool.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
		}
		rows, err = s.pool.Query(ctx,
			`SELECT id, date, reason, status, user_id, created_at, updated_at
			 FROM appointments ORDER BY date DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	appts, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

// UpdateStatus sets the status of an appointment and returns the updated row.
func (s *PgxAppointmentStore) UpdateStatus(ctx context.Context, id string, status appointment.Status) (*appointment.Appointment, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1
		 RETURNING id, date, reason, status, user_id, created_at, updated_at`,
		id, status)
	return scanAppointment(row)
}
