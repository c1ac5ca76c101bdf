package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"hotelcore/internal/domain"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the core reacts to.
const (
	codeExclusionViolation    = "23P01"
	codeForeignKeyViolation   = "23503"
	codeCheckViolation        = "23514"
	codeSerializationFailure  = "40001"
	codeDeadlockDetected      = "40P01"
	codeInsufficientPrivilege = "42501"
	constraintBookingOverlap  = "bookings_no_overlap"
)

// mapError turns driver errors into domain errors. Unknown errors are
// returned wrapped so the service layer can hide them.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeExclusionViolation:
			if pqErr.Constraint == constraintBookingOverlap || pqErr.Constraint == "" {
				return domain.ErrRoomNotAvailable
			}
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.ErrConcurrencyConflict
		case codeInsufficientPrivilege:
			// row-level security WITH CHECK rejected a row for another property
			return domain.ErrTenantMismatch
		case codeForeignKeyViolation, codeCheckViolation:
			return fmt.Errorf("%w: constraint %s", domain.ErrInvalidArgument, pqErr.Constraint)
		}
	}
	return fmt.Errorf("postgres: %w", err)
}
