package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Booking / slot state
	ErrSlotUnavailable            = errors.New("slot is not available")
	ErrAppointmentNotFound        = errors.New("appointment not found")
	ErrAppointmentAlreadyCanceled = errors.New("appointment is already canceled")
	ErrNoOpeningAvailable         = errors.New("no opening available for this specialty")

	// Request validation
	ErrPastAppointment = errors.New("appointment time must be in the future")
	ErrInvalidDate     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidHour     = errors.New("hour must be between 0 and 23")

	// Directory / auth
	ErrDoctorNotFound     = errors.New("doctor not found or inactive")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAuditLogNotFound   = errors.New("audit log not found")

	// ErrStorageUnavailable marks failures of the durable store. Handlers map
	// it to 503 so clients know the request is safe to retry as-is, unlike a
	// lost race or a missing appointment.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// wrapStorage tags an unexpected repository error as a storage failure while
// keeping the cause in the message.
func wrapStorage(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
