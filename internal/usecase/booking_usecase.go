package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/converter"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/middleware"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/repository"
	"github.com/Ikeepmyideas/HealthTime/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxBookingCandidates bounds how many alternate (doctor, hour) pairs a
// best-available booking will try before giving up. The candidate list is
// computed once up front; losing a race against a concurrent booker advances
// to the next candidate instead of failing the whole request.
const maxBookingCandidates = 5

// BookingUsecase is the only component allowed to create or release a
// booked/scheduled pairing. Slot and appointment are always mutated inside
// one transaction so neither table can drift from the other.
type BookingUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	BookBestAvailable(ctx context.Context, req *dto.BookBestAvailableRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) error
	Modify(ctx context.Context, appointmentID uuid.UUID, req *dto.ModifyAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	slotRepo        repository.SlotRepository
	appointmentRepo repository.AppointmentRepository
	directoryRepo   repository.DirectoryRepository
	auditService    service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	appointmentRepo repository.AppointmentRepository,
	directoryRepo repository.DirectoryRepository,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		directoryRepo:   directoryRepo,
		auditService:    auditService,
	}
}

// Book claims one cell for the calling patient. The slot flip and the
// appointment insert commit together or not at all; the conditional UPDATE
// on the slot arbitrates concurrent bookers and the partial unique index on
// scheduled appointments backstops it.
func (u *bookingUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	date, err := parseCellDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !validHour(req.Hour) {
		return nil, ErrInvalidHour
	}

	active, err := u.directoryRepo.IsDoctorActive(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to check doctor %s: %+v", req.DoctorID, err)
		return nil, wrapStorage(err)
	}
	if !active {
		return nil, ErrDoctorNotFound
	}

	return u.bookCell(ctx, p, req.DoctorID, date, req.Hour, req.Urgent)
}

func (u *bookingUsecase) bookCell(ctx context.Context, p *middleware.Principal, doctorID uuid.UUID, date time.Time, hour int, urgent bool) (*dto.AppointmentResponse, error) {
	at := cellTime(date, hour)
	if !at.After(time.Now().UTC()) {
		return nil, ErrPastAppointment
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.slotRepo.Claim(tx, doctorID, date, hour)
	if err != nil {
		u.log.Warnf("Failed to claim slot (%s, %s, %d): %+v", doctorID, date.Format(cellDateLayout), hour, err)
		return nil, wrapStorage(err)
	}
	if affected == 0 {
		return nil, ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		PatientID:       p.ID,
		DoctorID:        doctorID,
		AppointmentDate: at,
		Status:          entity.AppointmentStatusScheduled,
		Urgent:          urgent,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isUniqueViolation(err, "uniq_scheduled_cell") {
			// The slot said available but a scheduled appointment already
			// occupies the cell. Reject rather than double-book.
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, wrapStorage(err)
	}

	u.auditService.Record(ctx, tx, &p.ID, entity.AuditActionAppointmentCreate, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      doctorID.String(),
		"date":           date.Format(cellDateLayout),
		"hour":           hour,
		"urgent":         urgent,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit booking: %+v", err)
		return nil, wrapStorage(err)
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, at=%s", appointment.ID, doctorID, at.Format(time.RFC3339))

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

// BookBestAvailable books the first free (hour, doctor) pair of a specialty,
// honoring the caller's hour preference order. The candidate list is fetched
// once; cells lost to concurrent bookers are skipped up to
// maxBookingCandidates attempts.
func (u *bookingUsecase) BookBestAvailable(ctx context.Context, req *dto.BookBestAvailableRequest) (*dto.AppointmentResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	date, err := parseCellDate(req.Date)
	if err != nil {
		return nil, err
	}

	openings, err := u.slotRepo.FreeOpeningsBySpecialty(u.db.WithContext(ctx), req.SpecialtyID, date)
	if err != nil {
		u.log.Warnf("Failed to query openings for specialty %d: %+v", req.SpecialtyID, err)
		return nil, wrapStorage(err)
	}

	candidates := orderCandidates(openings, req.PreferredHours)
	if len(candidates) == 0 {
		return nil, ErrNoOpeningAvailable
	}
	if len(candidates) > maxBookingCandidates {
		candidates = candidates[:maxBookingCandidates]
	}

	for _, c := range candidates {
		resp, err := u.bookCell(ctx, p, c.DoctorID, date, c.SlotHour, req.Urgent)
		if errors.Is(err, ErrSlotUnavailable) {
			u.log.Infof("Candidate (%s, %d) claimed concurrently, trying next", c.DoctorID, c.SlotHour)
			continue
		}
		return resp, err
	}

	return nil, ErrSlotUnavailable
}

// Cancel releases the appointment's cell. Patients may only cancel their own
// appointments; an unknown or unowned id is reported as not found either
// way. Canceling twice fails without touching the slot, which may already
// belong to somebody else's booking.
func (u *bookingUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return errors.New("principal not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return wrapStorage(err)
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if p.RoleID == entity.RoleIDPatient && appointment.PatientID != p.ID {
		return ErrAppointmentNotFound
	}

	status := entity.AppointmentStatusCanceled
	if p.RoleID != entity.RoleIDPatient {
		status = entity.AppointmentStatusCanceledByDoctor
	}

	affected, err := u.appointmentRepo.CancelScheduled(tx, appointmentID, status)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return wrapStorage(err)
	}
	if affected == 0 {
		return ErrAppointmentAlreadyCanceled
	}

	// Release the cell. Zero affected rows means the doctor withdrew the
	// slot in the meantime; the cell just reverts to unoffered.
	if _, err := u.slotRepo.Release(tx, appointment.DoctorID, appointment.CellDate(), appointment.CellHour()); err != nil {
		u.log.Warnf("Failed to release slot for appointment %s: %+v", appointmentID, err)
		return wrapStorage(err)
	}

	u.auditService.Record(ctx, tx, &p.ID, entity.AuditActionAppointmentCancel, entity.JSON{
		"appointment_id": appointmentID.String(),
		"status":         string(status),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancellation: %+v", err)
		return wrapStorage(err)
	}

	u.log.Infof("Appointment canceled: id=%s, status=%s", appointmentID, status)
	return nil
}

// Modify moves a scheduled appointment to a new (doctor, date, hour) cell as
// one atomic swap: the old cell is released and the new one claimed in the
// same transaction, so a failed claim leaves the original booking intact.
func (u *bookingUsecase) Modify(ctx context.Context, appointmentID uuid.UUID, req *dto.ModifyAppointmentRequest) (*dto.AppointmentResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	date, err := parseCellDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !validHour(req.Hour) {
		return nil, ErrInvalidHour
	}
	at := cellTime(date, req.Hour)
	if !at.After(time.Now().UTC()) {
		return nil, ErrPastAppointment
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, wrapStorage(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if p.RoleID == entity.RoleIDPatient && appointment.PatientID != p.ID {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsScheduled() {
		return nil, ErrAppointmentAlreadyCanceled
	}

	if _, err := u.slotRepo.Release(tx, appointment.DoctorID, appointment.CellDate(), appointment.CellHour()); err != nil {
		u.log.Warnf("Failed to release old slot for appointment %s: %+v", appointmentID, err)
		return nil, wrapStorage(err)
	}

	affected, err := u.slotRepo.Claim(tx, req.DoctorID, date, req.Hour)
	if err != nil {
		u.log.Warnf("Failed to claim new slot for appointment %s: %+v", appointmentID, err)
		return nil, wrapStorage(err)
	}
	if affected == 0 {
		// Rollback restores the old cell; the original booking stands.
		return nil, ErrSlotUnavailable
	}

	if _, err := u.appointmentRepo.Reschedule(tx, appointmentID, req.DoctorID, at, req.Urgent); err != nil {
		u.log.Warnf("Failed to reschedule appointment %s: %+v", appointmentID, err)
		return nil, wrapStorage(err)
	}

	u.auditService.Record(ctx, tx, &p.ID, entity.AuditActionAppointmentModify, entity.JSON{
		"appointment_id": appointmentID.String(),
		"doctor_id":      req.DoctorID.String(),
		"date":           req.Date,
		"hour":           req.Hour,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit modification: %+v", err)
		return nil, wrapStorage(err)
	}

	u.log.Infof("Appointment modified: id=%s, doctor=%s, at=%s", appointmentID, req.DoctorID, at.Format(time.RFC3339))

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointmentID, err)
		return nil, nil
	}
	return converter.AppointmentToResponse(full), nil
}

// GetMyAppointments returns the calling patient's full history, earliest
// first, canceled rows included.
func (u *bookingUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), p.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", p.ID, err)
		return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetDoctorAppointments returns the calling doctor's full history.
func (u *bookingUsecase) GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), p.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", p.ID, err)
		return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// orderCandidates reorders a specialty-wide candidate list by the caller's
// hour preferences. Preferred hours come first in the order given; the
// remaining openings keep their hour-then-name query order so the request
// can still succeed when every preferred hour is taken.
func orderCandidates(openings []entity.SpecialtyOpening, preferredHours []int) []entity.SpecialtyOpening {
	if len(preferredHours) == 0 || len(openings) == 0 {
		return openings
	}

	ordered := make([]entity.SpecialtyOpening, 0, len(openings))
	taken := make([]bool, len(openings))

	for _, hour := range preferredHours {
		for i, o := range openings {
			if !taken[i] && o.SlotHour == hour {
				ordered = append(ordered, o)
				taken[i] = true
			}
		}
	}
	for i, o := range openings {
		if !taken[i] {
			ordered = append(ordered, o)
		}
	}
	return ordered
}
