package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ikeepmyideas/HealthTime/internal/delivery/dto"
	"github.com/Ikeepmyideas/HealthTime/internal/delivery/http/handler"
	"github.com/Ikeepmyideas/HealthTime/internal/usecase"
	"github.com/Ikeepmyideas/HealthTime/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// fakeBookingUsecase returns canned results so the handler's error mapping
// can be exercised without a database.
type fakeBookingUsecase struct {
	bookErr   error
	cancelErr error
}

func (f *fakeBookingUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &dto.AppointmentResponse{ID: uuid.New(), DoctorID: req.DoctorID, Date: req.Date, Status: "scheduled"}, nil
}

func (f *fakeBookingUsecase) BookBestAvailable(ctx context.Context, req *dto.BookBestAvailableRequest) (*dto.AppointmentResponse, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &dto.AppointmentResponse{ID: uuid.New(), Date: req.Date, Status: "scheduled"}, nil
}

func (f *fakeBookingUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	return f.cancelErr
}

func (f *fakeBookingUsecase) Modify(ctx context.Context, appointmentID uuid.UUID, req *dto.ModifyAppointmentRequest) (*dto.AppointmentResponse, error) {
	return nil, f.bookErr
}

func (f *fakeBookingUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
}

func (f *fakeBookingUsecase) GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
}

func newBookingRouter(fake *fakeBookingUsecase) *mux.Router {
	h := handler.NewBookingHandler(fake, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.Book).Methods(http.MethodPost)
	r.HandleFunc("/appointments/{id}", h.Cancel).Methods(http.MethodDelete)
	return r
}

func bookRequest(t *testing.T) *http.Request {
	t.Helper()
	body, _ := json.Marshal(dto.BookAppointmentRequest{
		DoctorID: uuid.New(),
		Date:     "2026-10-01",
		Hour:     9,
	})
	return httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
}

func TestBookReturnsCreated(t *testing.T) {
	r := newBookingRouter(&fakeBookingUsecase{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bookRequest(t))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}
}

func TestBookErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{usecase.ErrSlotUnavailable, http.StatusConflict},
		{usecase.ErrDoctorNotFound, http.StatusNotFound},
		{usecase.ErrPastAppointment, http.StatusBadRequest},
		{usecase.ErrInvalidDate, http.StatusBadRequest},
		{fmt.Errorf("%w: connection refused", usecase.ErrStorageUnavailable), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		r := newBookingRouter(&fakeBookingUsecase{bookErr: tc.err})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, bookRequest(t))

		if rec.Code != tc.code {
			t.Fatalf("%v: status got %d, want %d", tc.err, rec.Code, tc.code)
		}
	}
}

func TestBookRejectsInvalidBody(t *testing.T) {
	r := newBookingRouter(&fakeBookingUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestBookValidatesRequest(t *testing.T) {
	r := newBookingRouter(&fakeBookingUsecase{})

	// Missing doctor_id fails validation before the usecase is reached.
	body, _ := json.Marshal(map[string]interface{}{"date": "2026-10-01", "hour": 9})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestCancelErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{nil, http.StatusOK},
		{usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{usecase.ErrAppointmentAlreadyCanceled, http.StatusConflict},
	}

	for _, tc := range cases {
		r := newBookingRouter(&fakeBookingUsecase{cancelErr: tc.err})
		req := httptest.NewRequest(http.MethodDelete, "/appointments/"+uuid.New().String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tc.code {
			t.Fatalf("%v: status got %d, want %d", tc.err, rec.Code, tc.code)
		}
	}
}

func TestCancelRejectsMalformedID(t *testing.T) {
	r := newBookingRouter(&fakeBookingUsecase{})

	req := httptest.NewRequest(http.MethodDelete, "/appointments/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}
