package appointment

import (
	"time"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusServing   Status = "SERVING"
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusWaiting || s == StatusServing || s == StatusCompleted
}

// Appointment represents a booked appointment.
type Appointment struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Reason    string    `gorm:"not null;type:text" json:"reason"`
	Status    Status    `gorm:"not null;type:text;default:WAITING" json:"status"`
	UserID    string    `gorm:"not null;index;type:text" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Appointment entity.
func (Appointment) TableName() string {
	return "appointments"
}

// WithUser is an appointment with its owning user embedded.
type WithUser struct {
	Appointment
	User user.Summary `json:"user"`
}
