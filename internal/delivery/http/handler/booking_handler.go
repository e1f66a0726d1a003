package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/usecase"
	"github.com/Ikeepmyideas/HealthTime/pkg/response"
	"github.com/Ikeepmyideas/HealthTime/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.Book(r.Context(), &req)
	if err != nil {
		h.writeBookingError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *BookingHandler) BookBestAvailable(w http.ResponseWriter, r *http.Request) {
	var req dto.BookBestAvailableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.BookBestAvailable(r.Context(), &req)
	if err != nil {
		h.writeBookingError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	if err := h.bookingUsecase.Cancel(r.Context(), appointmentID); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentAlreadyCanceled:
			response.Conflict(w, "Appointment is already canceled")
		default:
			if errors.Is(err, usecase.ErrStorageUnavailable) {
				response.ServiceUnavailable(w, "")
				return
			}
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment canceled successfully", nil)
}

func (h *BookingHandler) Modify(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.ModifyAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.Modify(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentAlreadyCanceled:
			response.Conflict(w, "Appointment is already canceled")
		default:
			h.writeBookingError(w, err, "Failed to modify appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment modified successfully", appointment)
}

func (h *BookingHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.bookingUsecase.GetMyAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *BookingHandler) GetDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.bookingUsecase.GetDoctorAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// writeBookingError maps the shared failure modes of the booking paths.
func (h *BookingHandler) writeBookingError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrSlotUnavailable:
		response.Conflict(w, "Slot is no longer available")
	case usecase.ErrNoOpeningAvailable:
		response.Conflict(w, "No opening available for this specialty and date")
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrPastAppointment:
		response.Error(w, http.StatusBadRequest, "Cannot book a past time", nil)
	case usecase.ErrInvalidDate:
		response.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
	case usecase.ErrInvalidHour:
		response.Error(w, http.StatusBadRequest, "Invalid hour, expected 0-23", nil)
	default:
		if errors.Is(err, usecase.ErrStorageUnavailable) {
			response.ServiceUnavailable(w, "")
			return
		}
		response.InternalServerError(w, fallback)
	}
}
