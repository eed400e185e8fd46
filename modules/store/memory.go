package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// MemoryUserStore is an in-memory UserStore. It backs tests and has no
// durability guarantees.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]user.User
	order []string
}

var _ UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]user.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	s.users[u.ID] = *u
	s.order = append(s.order, u.ID)
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []string) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (s *MemoryUserStore) List(_ context.Context, offset, limit int) ([]user.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := int64(len(s.order))
	if offset >= len(s.order) {
		return []user.User{}, total, nil
	}
	end := offset + limit
	if end > len(s.order) {
		end = len(s.order)
	}
	page := make([]user.User, 0, end-offset)
	for _, id := range s.order[offset:end] {
		page = append(page, s.users[id])
	}
	return page, total, nil
}

func (s *MemoryUserStore) Update(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryAppointmentStore is an in-memory AppointmentStore for tests.
type MemoryAppointmentStore struct {
	mu    sync.RWMutex
	appts map[string]appointment.Appointment
}

var _ AppointmentStore = (*MemoryAppointmentStore)(nil)

// NewMemoryAppointmentStore creates an empty MemoryAppointmentStore.
func NewMemoryAppointmentStore() *MemoryAppointmentStore {
	return &MemoryAppointmentStore{appts: make(map[string]appointment.Appointment)}
}

func (s *MemoryAppointmentStore) Create(_ context.Context, a *appointment.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appts[a.ID] = *a
	return nil
}

func (s *MemoryAppointmentStore) FindByID(_ context.Context, id string) (*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryAppointmentStore) ListByUser(_ context.Context, userID string) ([]appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []appointment.Appointment
	for _, a := range s.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (s *MemoryAppointmentStore) List(_ context.Context, userID string, offset, limit int) ([]appointment.Appointment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []appointment.Appointment
	for _, a := range s.appts {
		if userID == "" || a.UserID == userID {
			all = append(all, a)
		}
	}
	sortByDateDesc(all)
	total := int64(len(all))
	if offset >= len(all) {
		return []appointment.Appointment{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *MemoryAppointmentStore) UpdateStatus(_ context.Context, id string, status appointment.Status) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	s.appts[id] = a
	return &a, nil
}

func sortByDateDesc(appts []appointment.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		return appts[i].Date.After(appts[j].Date)
	})
}
