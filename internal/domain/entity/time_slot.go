package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus represents the status of a published time slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

// TimeSlot represents one hour of a doctor's published capacity for a date.
// A cell with no row is simply not offered; there is no third stored status.
type TimeSlot struct {
	ID        int        `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uniq_slot_cell;index" json:"doctor_id"`
	SlotDate  time.Time  `gorm:"type:date;not null;uniqueIndex:uniq_slot_cell" json:"slot_date"`
	SlotHour  int        `gorm:"not null;uniqueIndex:uniq_slot_cell" json:"slot_hour"`
	Status    SlotStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// IsAvailable checks if the slot can still be claimed by a booking
func (s *TimeSlot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}

// IsBooked checks if the slot is held by a scheduled appointment
func (s *TimeSlot) IsBooked() bool {
	return s.Status == SlotStatusBooked
}

// SpecialtyOpening is one bookable (hour, doctor) pair returned by a
// specialty-wide availability search.
type SpecialtyOpening struct {
	SlotHour   int       `json:"slot_hour"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
}

// Toggle outcomes reported to the schedule editor
const (
	ToggleActionAdded   = "added"
	ToggleActionRemoved = "removed"
	ToggleActionBooked  = "booked"
)
