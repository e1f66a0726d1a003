package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/converter"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/middleware"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderUsecase detects upcoming appointments for reminder prompts.
// Detection only; delivery belongs to whoever consumes the list. Pure read,
// safe to call repeatedly and concurrently.
type ReminderUsecase interface {
	Upcoming(ctx context.Context, within time.Duration) (*dto.ReminderListResponse, error)
}

type reminderUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	defaultLookahead time.Duration
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	defaultLookahead time.Duration,
) ReminderUsecase {
	if defaultLookahead <= 0 {
		defaultLookahead = 24 * time.Hour
	}
	return &reminderUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		defaultLookahead: defaultLookahead,
	}
}

// Upcoming lists the caller's scheduled appointments inside
// [now, now+within], earliest first, with the counterparty's display name.
func (u *reminderUsecase) Upcoming(ctx context.Context, within time.Duration) (*dto.ReminderListResponse, error) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		return nil, errors.New("principal not found in context")
	}

	if within <= 0 {
		within = u.defaultLookahead
	}

	now := time.Now().UTC()
	appointments, err := u.appointmentRepo.FindUpcoming(u.db.WithContext(ctx), p.ID, p.RoleID, now, now.Add(within))
	if err != nil {
		u.log.Warnf("Failed to find upcoming appointments for user %s: %+v", p.ID, err)
		return &dto.ReminderListResponse{Reminders: []dto.ReminderResponse{}}, nil
	}

	return &dto.ReminderListResponse{
		Reminders: converter.AppointmentsToReminders(appointments, p.RoleID),
		Total:     len(appointments),
	}, nil
}
