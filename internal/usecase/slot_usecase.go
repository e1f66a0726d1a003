package usecase

import (
	"context"
	"errors"

	"github.com/Ikeepmyideas/HealthTime/internal/converter"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/middleware"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/repository"
	"github.com/Ikeepmyideas/HealthTime/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SlotUsecase owns the doctor-facing side of the slot store: publishing
// capacity and withdrawing it. Publishing is independent of appointment
// state; only the booking coordinator flips booked/available.
type SlotUsecase interface {
	Publish(ctx context.Context, req *dto.PublishSlotRequest) error
	PublishRange(ctx context.Context, req *dto.PublishSlotRangeRequest) (*dto.PublishRangeResponse, error)
	Toggle(ctx context.Context, req *dto.ToggleSlotRequest) (*dto.ToggleSlotResponse, error)
	ListMine(ctx context.Context) (*dto.SlotListResponse, error)
	GetCellAppointment(ctx context.Context, date string, hour int) (*dto.CellAppointmentResponse, error)
}

type slotUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	slotRepo        repository.SlotRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) SlotUsecase {
	return &slotUsecase{
		db:              db,
		log:             log,
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// Publish offers one cell as available. Publishing an already existing cell
// is a no-op so overlapping calendar selections are always safe.
func (u *slotUsecase) Publish(ctx context.Context, req *dto.PublishSlotRequest) error {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return errors.New("principal not found in context")
	}

	date, err := parseCellDate(req.Date)
	if err != nil {
		return err
	}
	if !validHour(req.Hour) {
		return ErrInvalidHour
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot := &entity.TimeSlot{
		DoctorID: p.ID,
		SlotDate: date,
		SlotHour: req.Hour,
		Status:   entity.SlotStatusAvailable,
	}
	if err := u.slotRepo.Publish(tx, slot); err != nil {
		u.log.Warnf("Failed to publish slot (%s, %s, %d): %+v", p.ID, req.Date, req.Hour, err)
		return wrapStorage(err)
	}

	u.auditService.Record(ctx, tx, &p.ID, entity.AuditActionSlotPublish, entity.JSON{
		"date": req.Date,
		"hour": req.Hour,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit slot publish: %+v", err)
		return wrapStorage(err)
	}
	return nil
}

// PublishRange publishes the Cartesian product of dates and hours. Each cell
// is its own statement: one failing cell never rolls back its siblings, the
// failures are just collected and reported.
func (u *slotUsecase) PublishRange(ctx context.Context, req *dto.PublishSlotRangeRequest) (*dto.PublishRangeResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	db := u.db.WithContext(ctx)
	resp := &dto.PublishRangeResponse{}

	for _, dateStr := range req.Dates {
		date, err := parseCellDate(dateStr)
		if err != nil {
			for _, hour := range req.Hours {
				resp.Failed = append(resp.Failed, dto.CellFailure{Date: dateStr, Hour: hour, Reason: ErrInvalidDate.Error()})
			}
			continue
		}

		for _, hour := range req.Hours {
			if !validHour(hour) {
				resp.Failed = append(resp.Failed, dto.CellFailure{Date: dateStr, Hour: hour, Reason: ErrInvalidHour.Error()})
				continue
			}

			slot := &entity.TimeSlot{
				DoctorID: p.ID,
				SlotDate: date,
				SlotHour: hour,
				Status:   entity.SlotStatusAvailable,
			}
			if err := u.slotRepo.Publish(db, slot); err != nil {
				u.log.Warnf("Failed to publish slot (%s, %s, %d): %+v", p.ID, dateStr, hour, err)
				resp.Failed = append(resp.Failed, dto.CellFailure{Date: dateStr, Hour: hour, Reason: "storage error"})
				continue
			}
			resp.Published++
		}
	}

	u.auditService.Record(ctx, db, &p.ID, entity.AuditActionSlotPublishRange, entity.JSON{
		"dates":     req.Dates,
		"hours":     req.Hours,
		"published": resp.Published,
		"failed":    len(resp.Failed),
	})

	return resp, nil
}

// Toggle is the schedule editor's one-click action: absent cells are
// created, available cells are withdrawn, booked cells are left alone and
// reported. The delete is conditional on the slot still being available so
// a booking racing the toggle wins.
func (u *slotUsecase) Toggle(ctx context.Context, req *dto.ToggleSlotRequest) (*dto.ToggleSlotResponse, error) {
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

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot, err := u.slotRepo.FindCell(tx, p.ID, date, req.Hour)
	if err != nil {
		u.log.Warnf("Failed to find slot (%s, %s, %d): %+v", p.ID, req.Date, req.Hour, err)
		return nil, wrapStorage(err)
	}

	var action string
	switch {
	case slot == nil:
		newSlot := &entity.TimeSlot{
			DoctorID: p.ID,
			SlotDate: date,
			SlotHour: req.Hour,
			Status:   entity.SlotStatusAvailable,
		}
		if err := u.slotRepo.Publish(tx, newSlot); err != nil {
			u.log.Warnf("Failed to publish slot (%s, %s, %d): %+v", p.ID, req.Date, req.Hour, err)
			return nil, wrapStorage(err)
		}
		action = entity.ToggleActionAdded
	case slot.IsAvailable():
		affected, err := u.slotRepo.DeleteAvailable(tx, p.ID, date, req.Hour)
		if err != nil {
			u.log.Warnf("Failed to delete slot (%s, %s, %d): %+v", p.ID, req.Date, req.Hour, err)
			return nil, wrapStorage(err)
		}
		if affected == 0 {
			// A booking claimed the cell between the read and the delete.
			action = entity.ToggleActionBooked
		} else {
			action = entity.ToggleActionRemoved
		}
	default:
		action = entity.ToggleActionBooked
	}

	u.auditService.Record(ctx, tx, &p.ID, entity.AuditActionSlotToggle, entity.JSON{
		"date":   req.Date,
		"hour":   req.Hour,
		"action": action,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit slot toggle: %+v", err)
		return nil, wrapStorage(err)
	}

	return &dto.ToggleSlotResponse{Date: req.Date, Hour: req.Hour, Action: action}, nil
}

// ListMine returns every cell the calling doctor has published, in any
// status, ordered by date then hour. Hours with no cell at all are the
// implicit "not offered" state and have no row to return.
func (u *slotUsecase) ListMine(ctx context.Context) (*dto.SlotListResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	slots, err := u.slotRepo.FindByDoctorID(u.db.WithContext(ctx), p.ID)
	if err != nil {
		u.log.Warnf("Failed to list slots for doctor %s: %+v", p.ID, err)
		return &dto.SlotListResponse{Slots: []dto.SlotResponse{}}, nil
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// GetCellAppointment shows the calling doctor who holds a booked cell.
func (u *slotUsecase) GetCellAppointment(ctx context.Context, dateStr string, hour int) (*dto.CellAppointmentResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	date, err := parseCellDate(dateStr)
	if err != nil {
		return nil, err
	}
	if !validHour(hour) {
		return nil, ErrInvalidHour
	}

	appointment, err := u.appointmentRepo.FindScheduledAt(u.db.WithContext(ctx), p.ID, date, hour)
	if err != nil {
		u.log.Warnf("Failed to find appointment at (%s, %s, %d): %+v", p.ID, dateStr, hour, err)
		return nil, wrapStorage(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToCellResponse(appointment), nil
}
