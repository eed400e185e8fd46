package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kalviumcommunity/Medical-Appointments/domain/appointment"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// OpenSQLite opens a SQLite database with GORM and runs migrations.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&user.User{}, &appointment.Appointment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// GormUserStore implements UserStore using GORM.
type GormUserStore struct {
	db *gorm.DB
}

var _ UserStore = (*GormUserStore)(nil)

// NewGormUserStore creates a new GormUserStore.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// Create creates a new user. The unique email index is the authoritative
// de-duplication boundary; violations map to ErrDuplicateEmail.
func (s *GormUserStore) Create(ctx context.Context, u *user.User) error {
	result := s.db.WithContext(ctx).Create(u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

// FindByID finds a user by ID.
func (s *GormUserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	result := s.db.WithContext(ctx).First(&u, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &u, nil
}

// FindByEmail finds a user by email.
func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	result := s.db.WithContext(ctx).First(&u, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &u, nil
}

// FindByIDs returns all users whose id is in the given set.
func (s *GormUserStore) FindByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []user.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List returns a page of users ordered by creation time.
func (s *GormUserStore) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&user.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []user.User
	query := s.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Update saves an updated user. Email changes hit the same unique index as Create.
func (s *GormUserStore) Update(ctx context.Context, u *user.User) error {
	result := s.db.WithContext(ctx).Save(u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

// Delete removes a user by ID.
func (s *GormUserStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&user.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GormAppointmentStore implements AppointmentStore using GORM.
type GormAppointmentStore struct {
	db *gorm.DB
}

var _ AppointmentStore = (*GormAppointmentStore)(nil)

// NewGormAppointmentStore creates a new GormAppointmentStore.
func NewGormAppointmentStore(db *gorm.DB) *GormAppointmentStore {
	return &GormAppointmentStore{db: db}
}

// Create creates a new appointment.
func (s *GormAppointmentStore) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// FindByID finds an appointment by ID.
func (s *GormAppointmentStore) FindByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	var a appointment.Appointment
	result := s.db.WithContext(ctx).First(&a, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &a, nil
}

// ListByUser returns all appointments for a user, newest date first.
func (s *GormAppointmentStore) ListByUser(ctx context.Context, userID string) ([]appointment.Appointment, error) {
	var appts []appointment.Appointment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// List returns a page of appointments ordered by date descending.
func (s *GormAppointmentStore) List(ctx context.Context, userID string, offset, limit int) ([]appointment.Appointment, int64, error) {
	count := s.db.WithContext(ctx).Model(&appointment.Appointment{})
	if userID != "" {
		count = count.Where("user_id = ?", userID)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	var appts []appointment.Appointment
	query := s.db.WithContext(ctx).Order("date DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&appts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}

	return appts, total, nil
}

// UpdateStatus sets the status of an appointment and returns the updated row.
func (s *GormAppointmentStore) UpdateStatus(ctx context.Context, id string, status appointment.Status) (*appointment.Appointment, error) {
	a, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return a, nil
}
