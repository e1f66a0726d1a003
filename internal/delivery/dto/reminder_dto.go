package dto

import "github.com/google/uuid"

type ReminderResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	ContactName   string    `json:"contact_name"`
	Urgent        bool      `json:"urgent"`
}

type ReminderListResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	Total     int                `json:"total"`
}
