package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
	"github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

var (
	// ErrDateRequired is returned when the date is missing or unparseable.
	ErrDateRequired = errors.New("date is required in RFC 3339 format")
	// ErrReasonRequired is returned when the reason is missing.
	ErrReasonRequired = errors.New("reason is required")
	// ErrUserIDRequired is returned when the user id is missing.
	ErrUserIDRequired = errors.New("user_id is required")
	// ErrInvalidStatus is returned for statuses outside the known set.
	ErrInvalidStatus = errors.New("invalid appointment status")
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Service handles appointment listing, creation and status updates.
type Service struct {
	appts store.AppointmentStore
	users store.UserStore
}

// NewService creates a new appointment service.
func NewService(appts store.AppointmentStore, users store.UserStore) *Service {
	return &Service{
		appts: appts,
		users: users,
	}
}

// List returns a page of appointments, newest date first, each with its
// owning user embedded. An empty userID means no filter.
func (s *Service) List(ctx context.Context, userID string, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	appts, total, err := s.appts.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	withUsers, err := s.embedUsers(ctx, appts)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Data:       withUsers,
	}, nil
}

// Create books a new appointment for an existing user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*appointment.WithUser, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	if req.UserID == "" {
		return nil, ErrUserIDRequired
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, ErrDateRequired
	}

	owner, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	a := &appointment.Appointment{
		ID:        uuid.New().String(),
		Date:      date,
		Reason:    req.Reason,
		Status:    appointment.StatusWaiting,
		UserID:    req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}

	return &appointment.WithUser{Appointment: *a, User: owner.Summary()}, nil
}

// UpdateStatus moves an appointment to a new lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id string, status appointment.Status) (*appointment.WithUser, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	a, err := s.appts.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, a.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Orphaned appointment; return it without the user summary.
			return &appointment.WithUser{Appointment: *a}, nil
		}
		return nil, err
	}

	return &appointment.WithUser{Appointment: *a, User: owner.Summary()}, nil
}

// embedUsers attaches user summaries to a page of appointments with a single
// batched lookup.
func (s *Service) embedUsers(ctx context.Context, appts []appointment.Appointment) ([]appointment.WithUser, error) {
	ids := make([]string, 0, len(appts))
	seen := make(map[string]bool, len(appts))
	for _, a := range appts {
		if !seen[a.UserID] {
			seen[a.UserID] = true
			ids = append(ids, a.UserID)
		}
	}

	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment users: %w", err)
	}

	byID := make(map[string]user.Summary, len(owners))
	for i := range owners {
		byID[owners[i].ID] = owners[i].Summary()
	}

	out := make([]appointment.WithUser, len(appts))
	for i, a := range appts {
		out[i] = appointment.WithUser{Appointment: a, User: byID[a.UserID]}
	}
	return out, nil
}
