package converter

import (
	"fmt"

	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
)

// SlotToResponse converts a TimeSlot entity to SlotResponse DTO
func SlotToResponse(slot *entity.TimeSlot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}
	return &dto.SlotResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		Date:      slot.SlotDate.Format("2006-01-02"),
		Hour:      slot.SlotHour,
		Status:    string(slot.Status),
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}

// SlotsToResponses converts a slice of TimeSlot entities
func SlotsToResponses(slots []entity.TimeSlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = *SlotToResponse(&slots[i])
	}
	return responses
}

// OpeningsToResponses converts specialty-wide openings, preserving the
// hour-then-name ordering of the query.
func OpeningsToResponses(openings []entity.SpecialtyOpening) []dto.OpeningResponse {
	responses := make([]dto.OpeningResponse, len(openings))
	for i, o := range openings {
		responses[i] = dto.OpeningResponse{
			Hour:       o.SlotHour,
			Time:       fmt.Sprintf("%02d:00", o.SlotHour),
			DoctorID:   o.DoctorID,
			DoctorName: o.DoctorName,
		}
	}
	return responses
}

// SpecialtiesToResponses converts Specialty entities
func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i, s := range specialties {
		responses[i] = dto.SpecialtyResponse{ID: s.ID, Name: s.Name}
	}
	return responses
}
