package converter

import (
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to its DTO. Patient
// and doctor names are filled when the relationships were preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	at := appointment.AppointmentDate.UTC()
	response := &dto.AppointmentResponse{
		ID:        appointment.ID,
		PatientID: appointment.PatientID,
		DoctorID:  appointment.DoctorID,
		Date:      at.Format("2006-01-02"),
		Time:      at.Format("15:04"),
		Status:    string(appointment.Status),
		Urgent:    appointment.Urgent,
		CreatedAt: appointment.CreatedAt,
		UpdatedAt: appointment.UpdatedAt,
	}

	if appointment.Patient.ID != uuid.Nil {
		response.PatientName = appointment.Patient.FullName
	}
	if appointment.Doctor.ID != uuid.Nil {
		response.DoctorName = appointment.Doctor.FullName
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToCellResponse renders the occupant of one booked cell for the
// doctor's schedule view.
func AppointmentToCellResponse(appointment *entity.Appointment) *dto.CellAppointmentResponse {
	if appointment == nil {
		return nil
	}
	at := appointment.AppointmentDate.UTC()
	return &dto.CellAppointmentResponse{
		ID:          appointment.ID,
		PatientName: appointment.Patient.FullName,
		Date:        at.Format("2006-01-02"),
		Time:        at.Format("15:04"),
		Status:      string(appointment.Status),
		Urgent:      appointment.Urgent,
	}
}

// AppointmentsToReminders renders upcoming appointments with the
// counterparty's name: patients see the doctor, doctors see the patient.
func AppointmentsToReminders(appointments []entity.Appointment, roleID int) []dto.ReminderResponse {
	reminders := make([]dto.ReminderResponse, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		contact := a.Doctor.FullName
		if roleID == entity.RoleIDDoctor {
			contact = a.Patient.FullName
		}
		at := a.AppointmentDate.UTC()
		reminders[i] = dto.ReminderResponse{
			AppointmentID: a.ID,
			Date:          at.Format("2006-01-02"),
			Time:          at.Format("15:04"),
			ContactName:   contact,
			Urgent:        a.Urgent,
		}
	}
	return reminders
}
