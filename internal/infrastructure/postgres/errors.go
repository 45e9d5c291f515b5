package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// PostgreSQL error codes the repositories translate.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeExclusionViolation   = "23P01"
	codeForeignKeyViolation  = "23503"
)

// mapError translates driver errors into domain errors. Retryable failures
// become transaction.ErrSerialization; the overlap exclusion constraint
// becomes event.ErrConflict. Anything else is wrapped with msg.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%s: %w", msg, transaction.ErrSerialization)
		case codeExclusionViolation:
			return fmt.Errorf("%w (constraint %s)", event.ErrConflict, pqErr.Constraint)
		case codeForeignKeyViolation:
			if pqErr.Constraint == "events_venue_id_fkey" {
				return fmt.Errorf("%s: %w", msg, venue.ErrVenueNotFound)
			}
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
