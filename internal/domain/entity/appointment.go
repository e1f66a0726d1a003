package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled        AppointmentStatus = "scheduled"
	AppointmentStatusCanceled         AppointmentStatus = "canceled"
	AppointmentStatusCanceledByDoctor AppointmentStatus = "canceled_by_doctor"
)

// Appointment represents one patient/doctor commitment. Rows are never
// deleted; cancellations only flip the status so history is preserved.
// The partial unique index guarantees at most one scheduled appointment
// per (doctor, datetime) cell even under concurrent bookings.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:uniq_scheduled_cell,where:status = 'scheduled'" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"not null;index;uniqueIndex:uniq_scheduled_cell" json:"appointment_date"`
	Status          AppointmentStatus `gorm:"type:varchar(30);not null;default:'scheduled';index" json:"status"`
	Urgent          bool              `gorm:"not null;default:false" json:"urgent"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment is still live
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsCanceled checks if the appointment was canceled by either party
func (a *Appointment) IsCanceled() bool {
	return a.Status == AppointmentStatusCanceled || a.Status == AppointmentStatusCanceledByDoctor
}

// CellDate returns the calendar date of the slot cell the appointment
// occupies. Cell coordinates are defined in UTC regardless of the timezone
// the driver handed the timestamp back in.
func (a *Appointment) CellDate() time.Time {
	at := a.AppointmentDate.UTC()
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}

// CellHour returns the hour of the slot cell the appointment occupies
func (a *Appointment) CellHour() int {
	return a.AppointmentDate.UTC().Hour()
}
