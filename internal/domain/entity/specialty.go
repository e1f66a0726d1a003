package entity

import "github.com/google/uuid"

// Specialty represents a medical specialty a doctor can belong to
type Specialty struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Specialty) TableName() string {
	return "specialties"
}

// DoctorSpecialty links a doctor account to a specialty
type DoctorSpecialty struct {
	DoctorID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	SpecialtyID int       `gorm:"primaryKey" json:"specialty_id"`
}

func (DoctorSpecialty) TableName() string {
	return "doctor_specialties"
}
