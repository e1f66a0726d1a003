package handler

import (
	"net/http"
	"strconv"

	"github.com/Ikeepmyideas/HealthTime/internal/usecase"
	"github.com/Ikeepmyideas/HealthTime/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
	}
}

func (h *AvailabilityHandler) GetDoctorAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Query parameter date is required", nil)
		return
	}

	hours, err := h.availabilityUsecase.FreeHoursForDoctor(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to get availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", hours)
}

func (h *AvailabilityHandler) GetSpecialtyAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	specialtyID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid specialty ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Query parameter date is required", nil)
		return
	}

	openings, err := h.availabilityUsecase.FreeSlotsBySpecialty(r.Context(), specialtyID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to get availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", openings)
}

func (h *AvailabilityHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.availabilityUsecase.ListSpecialties(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}
