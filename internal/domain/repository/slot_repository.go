package repository

import (
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SlotRepository interface {
	// Publish inserts an available cell; inserting an existing cell is a no-op.
	Publish(db *gorm.DB, slot *entity.TimeSlot) error
	FindCell(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (*entity.TimeSlot, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error)
	// Claim flips available->booked; returns affected rows (0 = lost the race).
	Claim(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (int64, error)
	// Release flips booked->available; affected rows is 0 if the cell was
	// withdrawn in the meantime, which is fine.
	Release(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (int64, error)
	// DeleteAvailable removes a cell only while it is still available.
	DeleteAvailable(db *gorm.DB, doctorID uuid.UUID, date time.Time, hour int) (int64, error)
	FreeHours(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]int, error)
	FreeOpeningsBySpecialty(db *gorm.DB, specialtyID int, date time.Time) ([]entity.SpecialtyOpening, error)
}
