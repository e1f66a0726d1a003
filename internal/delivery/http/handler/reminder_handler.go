package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/usecase"
	"github.com/Ikeepmyideas/HealthTime/pkg/response"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
	}
}

// GetUpcoming lists the caller's appointments due for a reminder. The
// optional "within" query parameter is a lookahead in hours; omitted or
// invalid values fall back to the configured default.
func (h *ReminderHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	var within time.Duration
	if raw := r.URL.Query().Get("within"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			response.Error(w, http.StatusBadRequest, "Query parameter within must be a positive number of hours", nil)
			return
		}
		within = time.Duration(hours) * time.Hour
	}

	reminders, err := h.reminderUsecase.Upcoming(r.Context(), within)
	if err != nil {
		response.InternalServerError(w, "Failed to get reminders")
		return
	}

	response.Success(w, http.StatusOK, "Reminders retrieved successfully", reminders)
}
