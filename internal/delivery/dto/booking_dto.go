package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Hour     int       `json:"hour" validate:"gte=0,lte=23"`
	Urgent   bool      `json:"urgent"`
}

type BookBestAvailableRequest struct {
	SpecialtyID    int    `json:"specialty_id" validate:"required,min=1"`
	Date           string `json:"date" validate:"required"` // Format: YYYY-MM-DD
	PreferredHours []int  `json:"preferred_hours" validate:"omitempty,dive,gte=0,lte=23"`
	Urgent         bool   `json:"urgent"`
}

type ModifyAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Hour     int       `json:"hour" validate:"gte=0,lte=23"`
	Urgent   bool      `json:"urgent"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Urgent      bool      `json:"urgent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type CellAppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Urgent      bool      `json:"urgent"`
}
