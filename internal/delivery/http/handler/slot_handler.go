package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/usecase"
	"github.com/Ikeepmyideas/HealthTime/pkg/response"
	"github.com/Ikeepmyideas/HealthTime/pkg/validator"

	"github.com/gorilla/mux"
)

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
	validator   *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

func (h *SlotHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req dto.PublishSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.slotUsecase.Publish(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		case usecase.ErrInvalidHour:
			response.Error(w, http.StatusBadRequest, "Invalid hour, expected 0-23", nil)
		default:
			if errors.Is(err, usecase.ErrStorageUnavailable) {
				response.ServiceUnavailable(w, "")
				return
			}
			response.InternalServerError(w, "Failed to publish slot")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Slot published successfully", nil)
}

func (h *SlotHandler) PublishRange(w http.ResponseWriter, r *http.Request) {
	var req dto.PublishSlotRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.slotUsecase.PublishRange(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to publish slots")
		return
	}

	response.Success(w, http.StatusOK, "Slot range processed", result)
}

func (h *SlotHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.slotUsecase.Toggle(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		case usecase.ErrInvalidHour:
			response.Error(w, http.StatusBadRequest, "Invalid hour, expected 0-23", nil)
		default:
			if errors.Is(err, usecase.ErrStorageUnavailable) {
				response.ServiceUnavailable(w, "")
				return
			}
			response.InternalServerError(w, "Failed to toggle slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slot toggled successfully", result)
}

func (h *SlotHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	slots, err := h.slotUsecase.ListMine(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

func (h *SlotHandler) GetCellAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hour, err := strconv.Atoi(vars["hour"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid hour", nil)
		return
	}

	appointment, err := h.slotUsecase.GetCellAppointment(r.Context(), vars["date"], hour)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		case usecase.ErrInvalidHour:
			response.Error(w, http.StatusBadRequest, "Invalid hour, expected 0-23", nil)
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "No scheduled appointment at this slot")
		default:
			if errors.Is(err, usecase.ErrStorageUnavailable) {
				response.ServiceUnavailable(w, "")
				return
			}
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}
