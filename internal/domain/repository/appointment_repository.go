package repository

import (
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindScheduledAt(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (*entity.Appointment, error)
	// CancelScheduled flips scheduled->status only while still scheduled.
	// Returns affected rows: 0 means the appointment was already canceled.
	CancelScheduled(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)
	// Reschedule rewrites the target cell of a scheduled appointment.
	Reschedule(db *gorm.DB, id uuid.UUID, doctorID uuid.UUID, at time.Time, urgent bool) (int64, error)
	FindUpcoming(db *gorm.DB, userID uuid.UUID, roleID int, from, to time.Time) ([]entity.Appointment, error)
}
