package http

import (
	"net/http"

	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/handler"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/middleware"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	availabilityHandler *handler.AvailabilityHandler
	bookingHandler      *handler.BookingHandler
	slotHandler         *handler.SlotHandler
	reminderHandler     *handler.ReminderHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	availabilityHandler *handler.AvailabilityHandler,
	bookingHandler *handler.BookingHandler,
	slotHandler *handler.SlotHandler,
	reminderHandler *handler.ReminderHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		slotHandler:         slotHandler,
		reminderHandler:     reminderHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Availability reads (any authenticated user)
	availability := api.NewRoute().Subrouter()
	availability.Use(r.authMiddleware.Authenticate)
	availability.HandleFunc("/doctors/{id}/availability", r.availabilityHandler.GetDoctorAvailability).Methods(http.MethodGet)
	availability.HandleFunc("/specialties/{id}/availability", r.availabilityHandler.GetSpecialtyAvailability).Methods(http.MethodGet)
	availability.HandleFunc("/specialties", r.availabilityHandler.ListSpecialties).Methods(http.MethodGet)

	// Reminder scan (any authenticated user, role decides counterparty)
	availability.HandleFunc("/appointments/reminders", r.reminderHandler.GetUpcoming).Methods(http.MethodGet)

	// Patient routes
	patient := api.NewRoute().Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.bookingHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/best-available", r.bookingHandler.BookBestAvailable).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/mine", r.bookingHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}", r.bookingHandler.Modify).Methods(http.MethodPut)

	// Cancel is shared: patients cancel their own, doctors cancel on the
	// patient's behalf. The usecase picks the resulting status by role.
	cancel := api.NewRoute().Subrouter()
	cancel.Use(r.authMiddleware.Authenticate)
	cancel.Use(middleware.RequireRole(entity.RoleIDDoctor, entity.RoleIDPatient))
	cancel.HandleFunc("/appointments/{id}", r.bookingHandler.Cancel).Methods(http.MethodDelete)

	// Doctor routes
	doctor := api.NewRoute().Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/slots", r.slotHandler.Publish).Methods(http.MethodPost)
	doctor.HandleFunc("/slots/bulk", r.slotHandler.PublishRange).Methods(http.MethodPost)
	doctor.HandleFunc("/slots/toggle", r.slotHandler.Toggle).Methods(http.MethodPost)
	doctor.HandleFunc("/slots", r.slotHandler.ListMine).Methods(http.MethodGet)
	doctor.HandleFunc("/slots/{date}/{hour}/appointment", r.slotHandler.GetCellAppointment).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments", r.bookingHandler.GetDoctorAppointments).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetByID).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
