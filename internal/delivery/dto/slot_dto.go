package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type PublishSlotRequest struct {
	Date string `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Hour int    `json:"hour" validate:"gte=0,lte=23"`
}

type PublishSlotRangeRequest struct {
	Dates []string `json:"dates" validate:"required,min=1,dive,required"` // Format: YYYY-MM-DD
	Hours []int    `json:"hours" validate:"required,min=1,dive,gte=0,lte=23"`
}

type ToggleSlotRequest struct {
	Date string `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Hour int    `json:"hour" validate:"gte=0,lte=23"`
}

// Response DTOs

type SlotResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Hour      int       `json:"hour"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

type ToggleSlotResponse struct {
	Date   string `json:"date"`
	Hour   int    `json:"hour"`
	Action string `json:"action"` // added | removed | booked
}

type CellFailure struct {
	Date   string `json:"date"`
	Hour   int    `json:"hour"`
	Reason string `json:"reason"`
}

type PublishRangeResponse struct {
	Published int           `json:"published"`
	Failed    []CellFailure `json:"failed,omitempty"`
}
