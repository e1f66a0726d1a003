package usecase_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/middleware"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	"github.com/Ikeepmyideas/HealthTime/internal/repository"
	"github.com/Ikeepmyideas/HealthTime/internal/service"
	"github.com/Ikeepmyideas/HealthTime/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db           *gorm.DB
	slot         usecase.SlotUsecase
	booking      usecase.BookingUsecase
	availability usecase.AvailabilityUsecase
	reminder     usecase.ReminderUsecase
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("db: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Specialty{},
		&entity.DoctorSpecialty{},
		&entity.TimeSlot{},
		&entity.Appointment{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for id, name := range map[int]string{
		entity.RoleIDAdmin:   entity.RoleAdmin,
		entity.RoleIDDoctor:  entity.RoleDoctor,
		entity.RoleIDPatient: entity.RolePatient,
	} {
		role := entity.Role{ID: id, RoleName: name}
		if err := db.Where("id = ?", id).FirstOrCreate(&role).Error; err != nil {
			t.Fatalf("seed role %d: %v", id, err)
		}
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	slotRepo := repository.NewSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	directoryRepo := repository.NewDirectoryRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	return &testEnv{
		db:           db,
		slot:         usecase.NewSlotUsecase(db, log, slotRepo, appointmentRepo, auditService),
		booking:      usecase.NewBookingUsecase(db, log, slotRepo, appointmentRepo, directoryRepo, auditService),
		availability: usecase.NewAvailabilityUsecase(db, log, slotRepo, directoryRepo),
		reminder:     usecase.NewReminderUsecase(db, log, appointmentRepo, 24*time.Hour),
	}
}

func (e *testEnv) createUser(t *testing.T, roleID int, name string) *entity.User {
	t.Helper()
	active := true
	user := &entity.User{
		ID:       uuid.New(),
		RoleID:   roleID,
		Email:    fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		Password: "not-a-real-hash",
		FullName: name,
		IsActive: &active,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createSpecialty(t *testing.T, doctors ...*entity.User) *entity.Specialty {
	t.Helper()
	specialty := &entity.Specialty{Name: fmt.Sprintf("specialty-%s", uuid.New().String()[:8])}
	if err := e.db.Create(specialty).Error; err != nil {
		t.Fatalf("create specialty: %v", err)
	}
	for _, d := range doctors {
		link := &entity.DoctorSpecialty{DoctorID: d.ID, SpecialtyID: specialty.ID}
		if err := e.db.Create(link).Error; err != nil {
			t.Fatalf("link specialty: %v", err)
		}
	}
	return specialty
}

func principalCtx(u *entity.User) context.Context {
	return middleware.WithPrincipal(context.Background(), &middleware.Principal{
		ID:     u.ID,
		RoleID: u.RoleID,
		Email:  u.Email,
		Name:   u.FullName,
	})
}

// futureDate returns a date far enough out that any hour of it is bookable.
func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func (e *testEnv) publish(t *testing.T, doctor *entity.User, date string, hour int) {
	t.Helper()
	if err := e.slot.Publish(principalCtx(doctor), &dto.PublishSlotRequest{Date: date, Hour: hour}); err != nil {
		t.Fatalf("publish (%s, %d): %v", date, hour, err)
	}
}

func (e *testEnv) freeHours(t *testing.T, doctor *entity.User, date string) []int {
	t.Helper()
	resp, err := e.availability.FreeHoursForDoctor(principalCtx(doctor), doctor.ID, date)
	if err != nil {
		t.Fatalf("free hours: %v", err)
	}
	return resp.Hours
}

func TestPublishIsIdempotent(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Idempotent")
	date := futureDate(7)

	e.publish(t, doctor, date, 9)
	e.publish(t, doctor, date, 9)

	slots, err := e.slot.ListMine(principalCtx(doctor))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if slots.Total != 1 {
		t.Fatalf("expected 1 slot, got %d", slots.Total)
	}
}

func TestPublishRangeCollectsFailures(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Range")

	resp, err := e.slot.PublishRange(principalCtx(doctor), &dto.PublishSlotRangeRequest{
		Dates: []string{futureDate(7), "not-a-date"},
		Hours: []int{9, 10},
	})
	if err != nil {
		t.Fatalf("publish range: %v", err)
	}
	if resp.Published != 2 {
		t.Fatalf("published: got %d, want 2", resp.Published)
	}
	if len(resp.Failed) != 2 {
		t.Fatalf("failed: got %d, want 2", len(resp.Failed))
	}
	for _, f := range resp.Failed {
		if f.Date != "not-a-date" {
			t.Fatalf("unexpected failure: %+v", f)
		}
	}
}

func TestToggleCyclesThroughStates(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Toggle")
	patient := e.createUser(t, entity.RoleIDPatient, "Toggle Patient")
	date := futureDate(7)

	toggle := func(want string) {
		t.Helper()
		resp, err := e.slot.Toggle(principalCtx(doctor), &dto.ToggleSlotRequest{Date: date, Hour: 10})
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if resp.Action != want {
			t.Fatalf("toggle action: got %s, want %s", resp.Action, want)
		}
	}

	toggle(entity.ToggleActionAdded)
	toggle(entity.ToggleActionRemoved)
	toggle(entity.ToggleActionAdded)

	_, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 10,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	toggle(entity.ToggleActionBooked)
}

func TestBookingLifecycle(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Lifecycle")
	patient := e.createUser(t, entity.RoleIDPatient, "First Patient")
	rival := e.createUser(t, entity.RoleIDPatient, "Second Patient")
	date := futureDate(7)

	e.publish(t, doctor, date, 9)
	e.publish(t, doctor, date, 11)

	appointment, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9, Urgent: true,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appointment.Status != string(entity.AppointmentStatusScheduled) {
		t.Fatalf("status: got %s", appointment.Status)
	}
	if !appointment.Urgent {
		t.Fatal("urgent flag lost")
	}
	if appointment.Time != "09:00" {
		t.Fatalf("time: got %s", appointment.Time)
	}

	// The booked hour disappears from availability.
	hours := e.freeHours(t, doctor, date)
	if len(hours) != 1 || hours[0] != 11 {
		t.Fatalf("free hours after booking: got %v, want [11]", hours)
	}

	// A second booker loses the cell.
	if _, err := e.booking.Book(principalCtx(rival), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9,
	}); err != usecase.ErrSlotUnavailable {
		t.Fatalf("double book: got %v, want ErrSlotUnavailable", err)
	}

	// Cancel releases the cell.
	if err := e.booking.Cancel(principalCtx(patient), appointment.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	hours = e.freeHours(t, doctor, date)
	if len(hours) != 2 {
		t.Fatalf("free hours after cancel: got %v, want two hours", hours)
	}

	// Canceling twice fails without disturbing the released cell.
	if err := e.booking.Cancel(principalCtx(patient), appointment.ID); err != usecase.ErrAppointmentAlreadyCanceled {
		t.Fatalf("double cancel: got %v, want ErrAppointmentAlreadyCanceled", err)
	}

	// The released cell is bookable by somebody else.
	if _, err := e.booking.Book(principalCtx(rival), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9,
	}); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestConcurrentBookersExactlyOneWins(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Contended")
	date := futureDate(7)
	e.publish(t, doctor, date, 14)

	const bookers = 8
	var wg sync.WaitGroup
	results := make(chan error, bookers)

	for i := 0; i < bookers; i++ {
		patient := e.createUser(t, entity.RoleIDPatient, fmt.Sprintf("Racer %d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
				DoctorID: doctor.ID, Date: date, Hour: 14,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch err {
		case nil:
			won++
		case usecase.ErrSlotUnavailable:
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != bookers-1 {
		t.Fatalf("won=%d lost=%d, want exactly one winner", won, lost)
	}

	var count int64
	e.db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND status = ?", doctor.ID, entity.AppointmentStatusScheduled).
		Count(&count)
	if count != 1 {
		t.Fatalf("scheduled appointments: got %d, want 1", count)
	}
}

func TestBookRejectsPastTime(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Past")
	patient := e.createUser(t, entity.RoleIDPatient, "Late Patient")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: yesterday, Hour: 9,
	})
	if err != usecase.ErrPastAppointment {
		t.Fatalf("got %v, want ErrPastAppointment", err)
	}
}

func TestBookRejectsInactiveDoctor(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Retired")
	patient := e.createUser(t, entity.RoleIDPatient, "Hopeful Patient")

	if err := e.db.Model(doctor).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: futureDate(7), Hour: 9,
	})
	if err != usecase.ErrDoctorNotFound {
		t.Fatalf("got %v, want ErrDoctorNotFound", err)
	}
}

func TestSpecialtyAvailabilityOrderingAndInactiveExclusion(t *testing.T) {
	e := setup(t)
	docA := e.createUser(t, entity.RoleIDDoctor, "Aaron Ames")
	docB := e.createUser(t, entity.RoleIDDoctor, "Bella Boone")
	docGone := e.createUser(t, entity.RoleIDDoctor, "Carl Closed")
	specialty := e.createSpecialty(t, docA, docB, docGone)
	date := futureDate(7)

	e.publish(t, docB, date, 9)
	e.publish(t, docA, date, 9)
	e.publish(t, docA, date, 11)
	e.publish(t, docGone, date, 8)

	if err := e.db.Model(docGone).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	resp, err := e.availability.FreeSlotsBySpecialty(context.Background(), specialty.ID, date)
	if err != nil {
		t.Fatalf("specialty availability: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("total: got %d, want 3 (inactive doctor excluded)", resp.Total)
	}

	// Hour ascending, doctor name ascending within the hour.
	want := []struct {
		hour int
		name string
	}{
		{9, "Aaron Ames"},
		{9, "Bella Boone"},
		{11, "Aaron Ames"},
	}
	for i, w := range want {
		got := resp.Openings[i]
		if got.Hour != w.hour || got.DoctorName != w.name {
			t.Fatalf("opening %d: got (%d, %s), want (%d, %s)", i, got.Hour, got.DoctorName, w.hour, w.name)
		}
	}
}

func TestBookBestAvailableHonorsPreferredHours(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Preferred")
	patient := e.createUser(t, entity.RoleIDPatient, "Picky Patient")
	specialty := e.createSpecialty(t, doctor)
	date := futureDate(7)

	for _, hour := range []int{9, 10, 11} {
		e.publish(t, doctor, date, hour)
	}

	appointment, err := e.booking.BookBestAvailable(principalCtx(patient), &dto.BookBestAvailableRequest{
		SpecialtyID:    specialty.ID,
		Date:           date,
		PreferredHours: []int{11, 10},
	})
	if err != nil {
		t.Fatalf("book best available: %v", err)
	}
	if appointment.Time != "11:00" {
		t.Fatalf("time: got %s, want 11:00", appointment.Time)
	}
	if appointment.DoctorID != doctor.ID {
		t.Fatalf("doctor: got %s", appointment.DoctorID)
	}
}

func TestBookBestAvailableNoOpenings(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Empty")
	patient := e.createUser(t, entity.RoleIDPatient, "Unlucky Patient")
	specialty := e.createSpecialty(t, doctor)

	_, err := e.booking.BookBestAvailable(principalCtx(patient), &dto.BookBestAvailableRequest{
		SpecialtyID: specialty.ID,
		Date:        futureDate(7),
	})
	if err != usecase.ErrNoOpeningAvailable {
		t.Fatalf("got %v, want ErrNoOpeningAvailable", err)
	}
}

func TestModifySwapsCellsAtomically(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Mover")
	patient := e.createUser(t, entity.RoleIDPatient, "Mobile Patient")
	date := futureDate(7)

	e.publish(t, doctor, date, 9)
	e.publish(t, doctor, date, 15)

	appointment, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	moved, err := e.booking.Modify(principalCtx(patient), appointment.ID, &dto.ModifyAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 15,
	})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if moved.Time != "15:00" {
		t.Fatalf("time after modify: got %s", moved.Time)
	}

	// Old cell released, new cell held.
	hours := e.freeHours(t, doctor, date)
	if len(hours) != 1 || hours[0] != 9 {
		t.Fatalf("free hours after modify: got %v, want [9]", hours)
	}
}

func TestModifyToTakenCellKeepsOriginal(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Fallback")
	patient := e.createUser(t, entity.RoleIDPatient, "Stuck Patient")
	rival := e.createUser(t, entity.RoleIDPatient, "Blocking Patient")
	date := futureDate(7)

	e.publish(t, doctor, date, 9)
	e.publish(t, doctor, date, 15)

	appointment, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := e.booking.Book(principalCtx(rival), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 15,
	}); err != nil {
		t.Fatalf("rival book: %v", err)
	}

	_, err = e.booking.Modify(principalCtx(patient), appointment.ID, &dto.ModifyAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 15,
	})
	if err != usecase.ErrSlotUnavailable {
		t.Fatalf("modify to taken cell: got %v, want ErrSlotUnavailable", err)
	}

	// The rollback restored the original booking and its cell.
	var slot entity.TimeSlot
	if err := e.db.Where("doctor_id = ? AND slot_hour = ?", doctor.ID, 9).First(&slot).Error; err != nil {
		t.Fatalf("find original slot: %v", err)
	}
	if !slot.IsBooked() {
		t.Fatalf("original slot status: got %s, want booked", slot.Status)
	}
}

func TestCancelByDoctorMarksCanceledByDoctor(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Canceller")
	patient := e.createUser(t, entity.RoleIDPatient, "Notified Patient")
	date := futureDate(7)

	e.publish(t, doctor, date, 9)
	appointment, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := e.booking.Cancel(principalCtx(doctor), appointment.ID); err != nil {
		t.Fatalf("doctor cancel: %v", err)
	}

	var stored entity.Appointment
	if err := e.db.First(&stored, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != entity.AppointmentStatusCanceledByDoctor {
		t.Fatalf("status: got %s, want canceled_by_doctor", stored.Status)
	}
}

func TestCancelOtherPatientsAppointmentNotFound(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Private")
	patient := e.createUser(t, entity.RoleIDPatient, "Owner Patient")
	intruder := e.createUser(t, entity.RoleIDPatient, "Other Patient")
	date := futureDate(7)

	e.publish(t, doctor, date, 9)
	appointment, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
		DoctorID: doctor.ID, Date: date, Hour: 9,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := e.booking.Cancel(principalCtx(intruder), appointment.ID); err != usecase.ErrAppointmentNotFound {
		t.Fatalf("got %v, want ErrAppointmentNotFound", err)
	}
}

func TestReminderWindow(t *testing.T) {
	e := setup(t)
	doctor := e.createUser(t, entity.RoleIDDoctor, "Dr. Reminder")
	patient := e.createUser(t, entity.RoleIDPatient, "Forgetful Patient")

	soon := futureDate(1)
	far := futureDate(10)
	e.publish(t, doctor, soon, 9)
	e.publish(t, doctor, far, 9)

	for _, date := range []string{soon, far} {
		if _, err := e.booking.Book(principalCtx(patient), &dto.BookAppointmentRequest{
			DoctorID: doctor.ID, Date: date, Hour: 9,
		}); err != nil {
			t.Fatalf("book %s: %v", date, err)
		}
	}

	resp, err := e.reminder.Upcoming(principalCtx(patient), 48*time.Hour)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("reminders: got %d, want 1 (only inside the window)", resp.Total)
	}
	r := resp.Reminders[0]
	if r.Date != soon {
		t.Fatalf("reminder date: got %s, want %s", r.Date, soon)
	}
	if r.ContactName != doctor.FullName {
		t.Fatalf("contact: got %s, want the doctor's name", r.ContactName)
	}

	// The doctor's view of the same window names the patient.
	docResp, err := e.reminder.Upcoming(principalCtx(doctor), 48*time.Hour)
	if err != nil {
		t.Fatalf("doctor upcoming: %v", err)
	}
	if docResp.Total != 1 || docResp.Reminders[0].ContactName != patient.FullName {
		t.Fatalf("doctor reminders: %+v", docResp)
	}
}
