package repository

import (
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
}
