package dto

import "github.com/google/uuid"

type FreeHoursResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Hours    []int     `json:"hours"`
	Times    []string  `json:"times"` // HH:00 rendering of Hours
}

type OpeningResponse struct {
	Hour       int       `json:"hour"`
	Time       string    `json:"time"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
}

type SpecialtyOpeningsResponse struct {
	SpecialtyID int               `json:"specialty_id"`
	Date        string            `json:"date"`
	Openings    []OpeningResponse `json:"openings"`
	Total       int               `json:"total"`
}

type SpecialtyResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type SpecialtyListResponse struct {
	Specialties []SpecialtyResponse `json:"specialties"`
	Total       int                 `json:"total"`
}
