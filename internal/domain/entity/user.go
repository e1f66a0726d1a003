package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized account table shared by patients,
// doctors and admins
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID        int       `gorm:"not null;index" json:"role_id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"type:text;not null" json:"-"`
	FullName      string    `gorm:"type:varchar(255);not null" json:"full_name"`
	LicenseNumber string    `gorm:"type:varchar(50)" json:"license_number,omitempty"`
	IsActive      *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role        Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Specialties []Specialty `gorm:"many2many:doctor_specialties;foreignKey:ID;joinForeignKey:DoctorID;References:ID;joinReferences:SpecialtyID" json:"specialties,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Active reports whether the account may be scheduled against
func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}
