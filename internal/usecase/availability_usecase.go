package usecase

import (
	"context"

	"github.com/Ikeepmyideas/HealthTime/internal/converter"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AvailabilityUsecase answers "what can be booked" without mutating
// anything. Every call hits storage fresh; results are never cached because
// a stale answer here turns into a lost race at booking time anyway.
//
// Reads degrade to empty results when storage is unreachable so list views
// stay renderable; only writes surface the outage to the caller.
type AvailabilityUsecase interface {
	FreeHoursForDoctor(ctx context.Context, doctorID uuid.UUID, date string) (*dto.FreeHoursResponse, error)
	FreeSlotsBySpecialty(ctx context.Context, specialtyID int, date string) (*dto.SpecialtyOpeningsResponse, error)
	ListSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error)
}

type availabilityUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	slotRepo      repository.SlotRepository
	directoryRepo repository.DirectoryRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.SlotRepository,
	directoryRepo repository.DirectoryRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:            db,
		log:           log,
		slotRepo:      slotRepo,
		directoryRepo: directoryRepo,
	}
}

// FreeHoursForDoctor lists hours that are published available and not held
// by a scheduled appointment, ascending.
func (u *availabilityUsecase) FreeHoursForDoctor(ctx context.Context, doctorID uuid.UUID, dateStr string) (*dto.FreeHoursResponse, error) {
	date, err := parseCellDate(dateStr)
	if err != nil {
		return nil, err
	}

	hours, err := u.slotRepo.FreeHours(u.db.WithContext(ctx), doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to query free hours for doctor %s on %s: %+v", doctorID, dateStr, err)
		hours = nil
	}

	resp := &dto.FreeHoursResponse{
		DoctorID: doctorID,
		Date:     dateStr,
		Hours:    hours,
		Times:    make([]string, 0, len(hours)),
	}
	if resp.Hours == nil {
		resp.Hours = []int{}
	}
	for _, h := range resp.Hours {
		resp.Times = append(resp.Times, formatHour(h))
	}
	return resp, nil
}

// FreeSlotsBySpecialty merges free hours across every active doctor of the
// specialty, ordered by hour then doctor name.
func (u *availabilityUsecase) FreeSlotsBySpecialty(ctx context.Context, specialtyID int, dateStr string) (*dto.SpecialtyOpeningsResponse, error) {
	date, err := parseCellDate(dateStr)
	if err != nil {
		return nil, err
	}

	openings, err := u.slotRepo.FreeOpeningsBySpecialty(u.db.WithContext(ctx), specialtyID, date)
	if err != nil {
		u.log.Warnf("Failed to query openings for specialty %d on %s: %+v", specialtyID, dateStr, err)
		openings = nil
	}

	return &dto.SpecialtyOpeningsResponse{
		SpecialtyID: specialtyID,
		Date:        dateStr,
		Openings:    converter.OpeningsToResponses(openings),
		Total:       len(openings),
	}, nil
}

// ListSpecialties backs the "any doctor" search picker.
func (u *availabilityUsecase) ListSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error) {
	specialties, err := u.directoryRepo.FindAllSpecialties(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list specialties: %+v", err)
		specialties = nil
	}

	return &dto.SpecialtyListResponse{
		Specialties: converter.SpecialtiesToResponses(specialties),
		Total:       len(specialties),
	}, nil
}
