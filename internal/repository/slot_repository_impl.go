package repository

import (
	"errors"
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	domainRepo "github.com/Ikeepmyideas/HealthTime/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type slotRepository struct{}

func NewSlotRepository() domainRepo.SlotRepository {
	return &slotRepository{}
}

// Publish inserts the cell as available. An existing row for the same
// (doctor, date, hour) in any status is left untouched.
func (r *slotRepository) Publish(db *gorm.DB, slot *entity.TimeSlot) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(slot).Error
}

func (r *slotRepository) FindCell(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.Where("doctor_id = ? AND slot_date = ? AND slot_hour = ?", doctorID, date, hour).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("doctor_id = ?", doctorID).Order("slot_date ASC, slot_hour ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Claim atomically flips the cell available->booked. The status predicate is
// the arbiter between concurrent bookers: exactly one UPDATE matches.
func (r *slotRepository) Claim(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("doctor_id = ? AND slot_date = ? AND slot_hour = ? AND status = ?",
			doctorID, date, hour, entity.SlotStatusAvailable).
		Update("status", entity.SlotStatusBooked)
	return result.RowsAffected, result.Error
}

func (r *slotRepository) Release(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("doctor_id = ? AND slot_date = ? AND slot_hour = ? AND status = ?",
			doctorID, date, hour, entity.SlotStatusBooked).
		Update("status", entity.SlotStatusAvailable)
	return result.RowsAffected, result.Error
}

// DeleteAvailable removes the cell only while no booking holds it, so a
// toggle racing a concurrent booking loses cleanly.
func (r *slotRepository) DeleteAvailable(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (int64, error) {
	result := db.Where("doctor_id = ? AND slot_date = ? AND slot_hour = ? AND status = ?",
		doctorID, date, hour, entity.SlotStatusAvailable).
		Delete(&entity.TimeSlot{})
	return result.RowsAffected, result.Error
}

// FreeHours returns hours that are published as available AND have no
// scheduled appointment at the same cell. The second predicate guards
// against drift between the two tables and is evaluated fresh every call.
func (r *slotRepository) FreeHours(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]int, error) {
	var hours []int
	err := db.Model(&entity.TimeSlot{}).
		Where("doctor_id = ? AND slot_date = ? AND status = ?", doctorID, date, entity.SlotStatusAvailable).
		Where(`NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.doctor_id = time_slots.doctor_id
			AND a.appointment_date::date = time_slots.slot_date
			AND EXTRACT(HOUR FROM a.appointment_date) = time_slots.slot_hour
			AND a.status = ?
		)`, entity.AppointmentStatusScheduled).
		Order("slot_hour ASC").
		Pluck("slot_hour", &hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

// FreeOpeningsBySpecialty broadens FreeHours across every active doctor of
// the specialty. Ordering by hour then doctor name gives deterministic
// "first available" semantics for the any-doctor search.
func (r *slotRepository) FreeOpeningsBySpecialty(db *gorm.DB, specialtyID int, date time.Time) ([]entity.SpecialtyOpening, error) {
	var openings []entity.SpecialtyOpening
	err := db.Model(&entity.TimeSlot{}).
		Select("time_slots.slot_hour, users.id AS doctor_id, users.full_name AS doctor_name").
		Joins("JOIN users ON users.id = time_slots.doctor_id").
		Joins("JOIN doctor_specialties ON doctor_specialties.doctor_id = users.id").
		Where("doctor_specialties.specialty_id = ?", specialtyID).
		Where("time_slots.slot_date = ?", date).
		Where("time_slots.status = ?", entity.SlotStatusAvailable).
		Where("users.is_active = ?", true).
		Where(`NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.doctor_id = time_slots.doctor_id
			AND a.appointment_date::date = time_slots.slot_date
			AND EXTRACT(HOUR FROM a.appointment_date) = time_slots.slot_hour
			AND a.status = ?
		)`, entity.AppointmentStatusScheduled).
		Order("time_slots.slot_hour ASC, users.full_name ASC").
		Scan(&openings).Error
	if err != nil {
		return nil, err
	}
	return openings, nil
}
