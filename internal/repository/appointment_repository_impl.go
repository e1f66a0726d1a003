package repository

import (
	"errors"
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	domainRepo "github.com/Ikeepmyideas/HealthTime/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("appointment_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("appointment_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindScheduledAt(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").
		Where("doctor_id = ? AND appointment_date::date = ? AND EXTRACT(HOUR FROM appointment_date) = ? AND status = ?",
			doctorID, date, hour, entity.AppointmentStatusScheduled).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// CancelScheduled atomically cancels an appointment ONLY while it is still
// scheduled. Affected rows 0 means a double-cancel, which must not release
// a slot somebody else may have rebooked meanwhile.
func (r *appointmentRepository) CancelScheduled(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusScheduled).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Reschedule(db *gorm.DB, id uuid.UUID, doctorID uuid.UUID, at time.Time, urgent bool) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusScheduled).
		Updates(map[string]interface{}{
			"doctor_id":        doctorID,
			"appointment_date": at,
			"urgent":           urgent,
		})
	return result.RowsAffected, result.Error
}

// FindUpcoming lists scheduled appointments inside [from, to] for either
// side of the relationship, counterparty preloaded, earliest first.
func (r *appointmentRepository) FindUpcoming(db *gorm.DB, userID uuid.UUID, roleID int, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Where("status = ? AND appointment_date BETWEEN ? AND ?", entity.AppointmentStatusScheduled, from, to)

	if roleID == entity.RoleIDDoctor {
		query = query.Preload("Patient").Where("doctor_id = ?", userID)
	} else {
		query = query.Preload("Doctor").Where("patient_id = ?", userID)
	}

	err := query.Order("appointment_date ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
