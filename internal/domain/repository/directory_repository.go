package repository

import (
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryRepository exposes the read-only doctor/specialty lookups the
// booking engine consumes. Directory management lives elsewhere.
type DirectoryRepository interface {
	IsDoctorActive(db *gorm.DB, doctorID uuid.UUID) (bool, error)
	FindAllSpecialties(db *gorm.DB) ([]entity.Specialty, error)
}
