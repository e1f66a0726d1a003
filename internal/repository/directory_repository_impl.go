package repository

import (
	"errors"

	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	domainRepo "github.com/Ikeepmyideas/HealthTime/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type directoryRepository struct{}

func NewDirectoryRepository() domainRepo.DirectoryRepository {
	return &directoryRepository{}
}

func (r *directoryRepository) IsDoctorActive(db *gorm.DB, doctorID uuid.UUID) (bool, error) {
	var user entity.User
	err := db.Select("id", "role_id", "is_active").Where("id = ? AND role_id = ?", doctorID, entity.RoleIDDoctor).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Active(), nil
}

func (r *directoryRepository) FindAllSpecialties(db *gorm.DB) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	err := db.Order("name ASC").Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}
