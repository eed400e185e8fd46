package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
	"github.com/kalviumcommunity/Medical-Appointments/modules/cache"
	"github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

const (
	// DefaultPage and DefaultLimit are the pagination defaults.
	DefaultPage  = 1
	DefaultLimit = 10
	maxLimit     = 100
)

// ListCacheKey derives the cache key for a page of the user list.
func ListCacheKey(page, limit int) string {
	return fmt.Sprintf("page=%d&limit=%d", page, limit)
}

// DefaultListKey is the only key mutations invalidate. Other pages may serve
// stale data for up to the cache TTL; the store remains the ground truth.
var DefaultListKey = ListCacheKey(DefaultPage, DefaultLimit)

// Service handles user listing and CRUD with a cache-aside list read.
type Service struct {
	users  store.UserStore
	appts  store.AppointmentStore
	reader *cache.Reader
}

// NewService creates a new user service.
func NewService(users store.UserStore, appts store.AppointmentStore, reader *cache.Reader) *Service {
	return &Service{
		users:  users,
		appts:  appts,
		reader: reader,
	}
}

// List returns a page of users, served from the cache when a fresh entry
// exists for the same pagination parameters.
func (s *Service) List(ctx context.Context, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	resp := &ListResponse{}
	err := s.reader.Read(ctx, ListCacheKey(page, limit), resp, func(ctx context.Context) error {
		list, total, err := s.users.List(ctx, (page-1)*limit, limit)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if list == nil {
			list = []user.User{}
		}
		*resp = ListResponse{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
			Data:       list,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Create creates a user record without credentials. The role follows the same
// email-domain rule as signup. The cached first page is invalidated so the
// next read reflects the new user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*user.User, error) {
	if req.Name == "" {
		return nil, auth.ErrNameRequired
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, auth.ErrInvalidEmail
	}

	now := time.Now()
	u := &user.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      auth.DeriveRole(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, auth.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.reader.Invalidate(ctx, DefaultListKey)
	return u, nil
}

// Get returns a user with their appointments, newest date first.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appts, err := s.appts.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{User: *u, Appointments: appts}, nil
}

// Update modifies a user's name and email. Email changes re-check uniqueness.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Detail, error) {
	if req.Name == "" {
		return nil, auth.ErrNameRequired
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, auth.ErrInvalidEmail
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != u.Email {
		existing, err := s.users.FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if existing != nil {
			return nil, auth.ErrUserExists
		}
	}

	u.Name = req.Name
	u.Email = req.Email
	u.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, auth.ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.reader.Invalidate(ctx, DefaultListKey)

	appts, err := s.appts.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{User: *u, Appointments: appts}, nil
}

// Delete removes a user and invalidates the cached first page.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.reader.Invalidate(ctx, DefaultListKey)
	return nil
}
